package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigFile is the default catalog file name.
const DefaultConfigFile = ".htmleditor"

// LoadConfigFile loads a catalog from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	f, err := parseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// FindConfigFile searches for the catalog file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .htmleditor in the current directory
// 3. Look for .htmleditor in the user's home directory
//
// Returns the path to the file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// LoadCatalog returns the built-in catalog merged with the catalog file
// found for configPath, and the path of that file (empty when none was
// found). An explicit configPath that does not exist is an error.
func LoadCatalog(configPath string) (*File, string, error) {
	defaults, err := DefaultCatalog()
	if err != nil {
		return nil, "", err
	}

	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, "", fmt.Errorf("%s: %w", configPath, ErrConfigNotFound)
		}
		return defaults, "", nil
	}

	file, err := LoadConfigFile(path)
	if err != nil {
		return nil, "", err
	}

	return file.Merge(defaults), path, nil
}
