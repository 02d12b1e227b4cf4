package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ludo-technologies/pysmell/domain"
)

// FileReaderImpl implements the FileReader interface
type FileReaderImpl struct{}

// NewFileReader creates a new file reader service
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{}
}

// skipDirs are never descended into.
var skipDirs = []string{
	"__pycache__",
	"node_modules",
	"venv",
	"env",
	"build",
	"dist",
	"site-packages",
	"*.egg-info",
}

// CollectPythonFiles finds the Python files under paths. Directories are
// walked (recursively when requested); explicit file arguments are kept when
// they are Python files and pass the patterns. The result is sorted and
// free of duplicates.
func (f *FileReaderImpl) CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	if err := f.validatePatterns(includePatterns, "include"); err != nil {
		return nil, err
	}
	if err := f.validatePatterns(excludePatterns, "exclude"); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if !info.IsDir() {
			if f.IsValidPythonFile(path) && f.shouldIncludeFile(path, includePatterns, excludePatterns) {
				add(path)
			}
			continue
		}

		dirFiles, err := f.collectFromDirectory(path, recursive, includePatterns, excludePatterns)
		if err != nil {
			return nil, err
		}
		for _, file := range dirFiles {
			add(file)
		}
	}

	sort.Strings(files)
	return files, nil
}

// ReadFile reads the content of a file
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// IsValidPythonFile checks if a file is a Python source file
func (f *FileReaderImpl) IsValidPythonFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".py")
}

func (f *FileReaderImpl) collectFromDirectory(dirPath string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped; the rest of the tree is still walked
			if d != nil && d.IsDir() && path != dirPath {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == dirPath {
				return nil
			}
			if !recursive || strings.HasPrefix(d.Name(), ".") || f.shouldSkipDirectory(d.Name()) ||
				f.matchesAny(excludePatterns, path) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") || !f.IsValidPythonFile(path) {
			return nil
		}
		if f.shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	return files, nil
}

// shouldIncludeFile applies exclude patterns first, then include patterns.
// No include patterns means everything is included.
func (f *FileReaderImpl) shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	if f.matchesAny(excludePatterns, path) {
		return false
	}
	if len(includePatterns) == 0 {
		return true
	}
	return f.matchesAny(includePatterns, path)
}

func (f *FileReaderImpl) matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if f.matchesPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchesPattern matches a doublestar pattern against path and against every
// trailing run of its segments, so relative patterns such as "venv/**" or
// "test_*.py" apply at any depth.
func (f *FileReaderImpl) matchesPattern(pattern, path string) bool {
	pattern = filepath.ToSlash(pattern)
	segments := strings.Split(strings.TrimPrefix(filepath.ToSlash(path), "/"), "/")
	for i := range segments {
		if matched, _ := doublestar.Match(pattern, strings.Join(segments[i:], "/")); matched {
			return true
		}
	}
	return false
}

func (f *FileReaderImpl) shouldSkipDirectory(dirName string) bool {
	dirLower := strings.ToLower(dirName)
	for _, skipDir := range skipDirs {
		if matched, _ := filepath.Match(skipDir, dirLower); matched {
			return true
		}
	}
	return false
}

func (f *FileReaderImpl) validatePatterns(patterns []string, patternType string) error {
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			return domain.NewInvalidInputError(fmt.Sprintf("empty %s pattern", patternType), nil)
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return domain.NewInvalidInputError(fmt.Sprintf("invalid %s pattern %q", patternType, pattern), doublestar.ErrBadPattern)
		}
	}
	return nil
}

// ValidatePaths validates that all provided paths exist and are accessible
func (f *FileReaderImpl) ValidatePaths(paths []string) error {
	if len(paths) == 0 {
		return domain.NewInvalidInputError("no input paths provided", nil)
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return domain.NewFileNotFoundError(path, err)
			}
			return domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
		}
	}
	return nil
}

var _ domain.FileReader = (*FileReaderImpl)(nil)
