package build

import (
	"context"

	"go.uber.org/zap"

	"github.com/resolverkit/resolverkit/internal/compiler/cache"
)

// ProjectOptions locates a project's sources and output
type ProjectOptions struct {
	InputDir   string
	Extensions []string
	OutputDir  string
	// Settings fingerprints every option that changes output, see cache.FileHasher.HashSettings
	Settings map[string]string
	// Force rewrites artifacts even when the manifest says they are current
	Force bool
}

// Report describes a project build
type Report struct {
	// Result is nil when the build was skipped
	Result   *Result
	Skipped  bool
	Manifest *cache.Manifest
	Removed  []string
}

// BuildProject loads the sources under opts.InputDir, compiles them and writes the
// artifacts plus a manifest to opts.OutputDir. Artifacts from the previous build
// that are no longer produced are removed. Nothing is written if compilation fails.
func (c *Compiler) BuildProject(ctx context.Context, opts ProjectOptions) (*Report, error) {
	batch, err := LoadBatch(opts.InputDir, opts.Extensions)
	if err != nil {
		return nil, err
	}

	hasher := cache.NewFileHasher()
	settings := hasher.HashSettings(opts.Settings)
	sources := batch.Hashes(hasher)

	previous, err := cache.LoadManifest(opts.OutputDir)
	if err != nil {
		c.logger.Warn("ignoring unreadable manifest", zap.String("dir", opts.OutputDir), zap.Error(err))
		previous = nil
	}
	if !opts.Force && previous.UpToDate(opts.OutputDir, settings, sources) {
		c.logger.Debug("artifacts up to date", zap.String("build_id", previous.BuildID))
		return &Report{Skipped: true, Manifest: previous}, nil
	}

	result, err := c.Compile(ctx, batch)
	if err != nil {
		return nil, err
	}

	if err := WriteArtifacts(opts.OutputDir, result.Artifacts); err != nil {
		return nil, err
	}

	paths := result.ArtifactPaths()
	stale := previous.Stale(paths)
	if err := RemoveArtifacts(opts.OutputDir, stale); err != nil {
		return nil, err
	}

	manifest := cache.NewManifest(settings, sources, paths)
	if err := manifest.Save(opts.OutputDir); err != nil {
		return nil, err
	}

	c.logger.Debug("wrote artifacts",
		zap.String("build_id", manifest.BuildID),
		zap.Int("artifacts", len(paths)),
		zap.Int("removed", len(stale)))

	return &Report{Result: result, Manifest: manifest, Removed: stale}, nil
}
