package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// configFileNames is the ordered list of config file names to search for.
var configFileNames = []string{
	".msgexpect.yml",
	".msgexpect.yaml",
	".rubocop.yml",
}

// Discover returns the path of the first config file found in dir,
// following the standard search order. It returns an empty string if
// no config file is found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// DiscoverUpward searches dir and then each parent directory up to and
// including stop, returning the first config file found. When dir is not
// inside stop only dir itself is searched.
func DiscoverUpward(dir, stop string) string {
	dir, stop = filepath.Clean(dir), filepath.Clean(stop)
	for {
		if path := Discover(dir); path != "" {
			return path
		}
		rel, err := filepath.Rel(stop, dir)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return ""
		}
		dir = filepath.Dir(dir)
	}
}

// Load reads and parses a config file. If configPath is empty, Load searches
// dir using Discover; if nothing is found DefaultConfig is returned. The
// second return value is the path actually loaded, or "".
//
// Partial YAML files are supported: any fields not specified in the YAML
// retain their default values. Keys for other cops are ignored.
func Load(configPath, dir string) (*Config, string, error) {
	if configPath == "" {
		configPath = Discover(dir)
	}
	if configPath == "" {
		return DefaultConfig(), "", nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, "", fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	// Start from defaults so missing YAML fields retain non-zero defaults.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("parsing config file %s: %w", configPath, err)
	}

	return cfg, configPath, nil
}
