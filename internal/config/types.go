package config

import "github.com/lucasnoah/pipegen/internal/descriptor"

// ProjectConfig is the top-level structure parsed from a pipegen YAML file.
type ProjectConfig struct {
	// Platform is the default target platform; the CLI flag overrides it.
	Platform string                `yaml:"platform,omitempty"`
	Project  descriptor.Descriptor `yaml:"project"`
}
