package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ManifestFileName is the manifest's file name inside the output directory
const ManifestFileName = "manifest.json"

// ManifestVersion is bumped whenever generated output changes shape for identical input
const ManifestVersion = 1

// Manifest describes one completed build
type Manifest struct {
	Version     int               `json:"version"`
	BuildID     string            `json:"build_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Settings    string            `json:"settings"`
	Sources     map[string]string `json:"sources"`
	Artifacts   []string          `json:"artifacts"`
}

// NewManifest creates a manifest with a fresh build id.
// sources maps source path to content hash; artifacts are output-relative paths.
func NewManifest(settings string, sources map[string]string, artifacts []string) *Manifest {
	copied := make(map[string]string, len(sources))
	for path, hash := range sources {
		copied[path] = hash
	}
	return &Manifest{
		Version:     ManifestVersion,
		BuildID:     uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Settings:    settings,
		Sources:     copied,
		Artifacts:   append([]string(nil), artifacts...),
	}
}

// LoadManifest reads the manifest from outputDir. A missing manifest returns nil, nil.
func LoadManifest(outputDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(outputDir, ManifestFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest into outputDir, creating it if needed
func (m *Manifest) Save(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(filepath.Join(outputDir, ManifestFileName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// UpToDate reports whether a build with these settings and source hashes would
// reproduce this manifest, and every artifact it lists still exists in outputDir.
func (m *Manifest) UpToDate(outputDir, settings string, sources map[string]string) bool {
	if m == nil || m.Version != ManifestVersion || m.Settings != settings {
		return false
	}
	if len(m.Sources) != len(sources) {
		return false
	}
	for path, hash := range sources {
		if m.Sources[path] != hash {
			return false
		}
	}
	for _, artifact := range m.Artifacts {
		if _, err := os.Stat(filepath.Join(outputDir, artifact)); err != nil {
			return false
		}
	}
	return true
}

// Stale returns the artifacts this manifest lists that a build producing
// current no longer writes, sorted.
func (m *Manifest) Stale(current []string) []string {
	if m == nil {
		return nil
	}

	keep := make(map[string]bool, len(current))
	for _, path := range current {
		keep[path] = true
	}

	var stale []string
	for _, path := range m.Artifacts {
		if !keep[path] {
			stale = append(stale, path)
		}
	}
	sort.Strings(stale)
	return stale
}
