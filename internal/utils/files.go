package utils

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultHandlerExtensions are the file extensions treated as handler sources
var DefaultHandlerExtensions = []string{".ts"}

// FindHandlerFiles recursively finds handler sources under dir whose extension is
// one of extensions (DefaultHandlerExtensions when empty). Hidden directories and
// node_modules are skipped. Paths are returned sorted.
func FindHandlerFiles(dir string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = DefaultHandlerExtensions
	}

	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if HasExtension(path, extensions) {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// HasExtension reports whether path ends in one of extensions.
// Declaration files (.d.ts) never count as handlers.
func HasExtension(path string, extensions []string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".d.ts") {
		return false
	}
	ext := filepath.Ext(base)
	for _, want := range extensions {
		if ext == NormalizeExtension(want) {
			return true
		}
	}
	return false
}

// NormalizeExtension adds the leading dot when missing
func NormalizeExtension(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

func skipDir(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".")
}
