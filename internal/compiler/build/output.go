package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/resolverkit/resolverkit/internal/compiler/codegen"
)

// WriteArtifacts writes each artifact beneath outputDir, creating directories as needed
func WriteArtifacts(outputDir string, artifacts []codegen.Artifact) error {
	for _, artifact := range artifacts {
		path := filepath.Join(outputDir, artifact.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", artifact.Path, err)
		}
		if err := os.WriteFile(path, []byte(artifact.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", artifact.Path, err)
		}
	}
	return nil
}

// RemoveArtifacts deletes previously generated files; already missing files are ignored
func RemoveArtifacts(outputDir string, paths []string) error {
	for _, rel := range paths {
		err := os.Remove(filepath.Join(outputDir, rel))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove stale artifact %s: %w", rel, err)
		}
	}
	return nil
}
