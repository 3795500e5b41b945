package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// filter decides which discovered files are processed.
type filter struct {
	include    []string
	exclude    []string
	extensions []string
}

// discoverFiles expands args into the list of files to process. Files
// named explicitly only go through the include/exclude patterns; files
// found in directories must also carry a known extension when no include
// pattern is set.
func discoverFiles(args []string, recursive bool, f filter) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			found, err := discoverInDirectory(arg, recursive, f)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
		} else if f.matches(arg) {
			files = append(files, arg)
		}
	}
	return files, nil
}

func discoverInDirectory(dir string, recursive bool, f filter) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if f.matches(path) && (len(f.include) > 0 || f.knownExtension(path)) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (f filter) matches(path string) bool {
	if matchesAnyPattern(path, f.exclude) {
		return false
	}
	if len(f.include) == 0 {
		return true
	}
	return matchesAnyPattern(path, f.include)
}

func (f filter) knownExtension(path string) bool {
	if len(f.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(f.extensions, ext)
}

// matchesAnyPattern matches the base name of path against glob patterns.
func matchesAnyPattern(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
