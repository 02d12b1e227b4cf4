package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Configuration file names searched from the start directory upward.
const (
	ConfigFileName    = ".pysmell.toml"
	PyprojectFileName = "pyproject.toml"
)

// PyprojectToml represents the parts of pyproject.toml read by pysmell
type PyprojectToml struct {
	Tool struct {
		Pysmell map[string]interface{} `toml:"pysmell"`
	} `toml:"tool"`
}

// loadPyprojectSection returns the [tool.pysmell] table, or nil when absent.
func loadPyprojectSection(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pyproject PyprojectToml
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return nil, err
	}
	return pyproject.Tool.Pysmell, nil
}

// findUpward walks up the directory tree from startDir looking for name
func findUpward(startDir, name string) (string, bool) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			return "", false
		}
		dir = parent
	}
}
