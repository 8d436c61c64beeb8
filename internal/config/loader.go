package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lucasnoah/pipegen/internal/descriptor"
	"gopkg.in/yaml.v3"
)

// DefaultFileNames are the config files LoadDefault looks for, in order.
var DefaultFileNames = []string{"pipegen.yaml", ".pipegen.yaml"}

// Load reads and parses a project configuration from the given YAML file path.
// Problems are reported by Validate; Load only fails on I/O and syntax errors.
func Load(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a project configuration from YAML bytes.
func Parse(data []byte) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return &cfg, nil
}

// LoadDefault searches dir for a project config and loads the first one found.
func LoadDefault(dir string) (*ProjectConfig, error) {
	var candidates []string
	for _, name := range DefaultFileNames {
		candidates = append(candidates, filepath.Join(dir, name))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return nil, fmt.Errorf("no project config found (searched: %v)", candidates)
}

// Resolved returns the project descriptor with defaults applied.
func (c *ProjectConfig) Resolved() descriptor.Descriptor {
	return descriptor.Normalize(c.Project)
}
