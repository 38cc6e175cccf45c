package build

import (
	"fmt"
	"os"
	"sort"

	"github.com/resolverkit/resolverkit/internal/compiler/cache"
	"github.com/resolverkit/resolverkit/internal/utils"
)

// Source is one handler file of a batch
type Source struct {
	Path    string
	Content string
}

// Batch is an immutable set of handler sources in lexical path order
type Batch struct {
	sources []Source
}

// NewBatch sorts sources by path. Duplicate paths are rejected.
func NewBatch(sources []Source) (*Batch, error) {
	sorted := append([]Source(nil), sources...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Path == sorted[i-1].Path {
			return nil, fmt.Errorf("duplicate source path %q", sorted[i].Path)
		}
	}

	return &Batch{sources: sorted}, nil
}

// LoadBatch reads every handler file under dir with one of extensions
func LoadBatch(dir string, extensions []string) (*Batch, error) {
	paths, err := utils.FindHandlerFiles(dir, extensions)
	if err != nil {
		return nil, fmt.Errorf("failed to find handler files in %s: %w", dir, err)
	}

	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		sources = append(sources, Source{Path: path, Content: string(content)})
	}

	return NewBatch(sources)
}

// Sources returns a copy of the batch's sources in order
func (b *Batch) Sources() []Source {
	return append([]Source(nil), b.sources...)
}

// Len returns the number of sources
func (b *Batch) Len() int {
	return len(b.sources)
}

// Hashes maps each source path to the hash of its content
func (b *Batch) Hashes(hasher *cache.FileHasher) map[string]string {
	hashes := make(map[string]string, len(b.sources))
	for _, src := range b.sources {
		hashes[src.Path] = hasher.HashString(src.Content)
	}
	return hashes
}
