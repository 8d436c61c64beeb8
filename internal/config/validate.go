package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/lucasnoah/pipegen/internal/descriptor"
	"github.com/lucasnoah/pipegen/internal/render"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var recognizedBuildTools = map[descriptor.BuildTool]bool{
	descriptor.Maven:  true,
	descriptor.Gradle: true,
}

var recognizedFrontendTools = map[descriptor.FrontendTool]bool{
	descriptor.NPM:  true,
	descriptor.Yarn: true,
}

// Validate checks a ProjectConfig for structural errors and returns all of
// them (empty if valid). Missing integration parameters are not errors: the
// renderer degrades those stages and reports warnings instead.
func Validate(cfg *ProjectConfig) []ValidationError {
	var errs []ValidationError

	if cfg.Platform != "" {
		if _, err := render.ParsePlatform(cfg.Platform); err != nil {
			errs = append(errs, ValidationError{Field: "platform", Message: err.Error()})
		}
	}

	p := cfg.Project
	resolved := descriptor.Normalize(p)

	if !recognizedBuildTools[resolved.BuildTool] {
		errs = append(errs, ValidationError{
			Field:   "project.build_tool",
			Message: fmt.Sprintf("unrecognized build tool %q", p.BuildTool),
		})
	}
	if !recognizedFrontendTools[resolved.FrontendTool] {
		errs = append(errs, ValidationError{
			Field:   "project.frontend_tool",
			Message: fmt.Sprintf("unrecognized frontend tool %q", p.FrontendTool),
		})
	}

	seen := make(map[descriptor.Integration]bool)
	for i, raw := range p.Integrations {
		field := fmt.Sprintf("project.integrations[%d]", i)
		integration, ok := descriptor.ParseIntegration(string(raw))
		if !ok {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("unrecognized integration %q", raw)})
			continue
		}
		if seen[integration] {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("duplicate integration %q", integration)})
		}
		seen[integration] = true
	}

	for _, v := range []struct {
		field string
		value string
	}{
		{"project.java_version", p.JavaVersion},
		{"project.node_version", p.NodeVersion},
	} {
		if v.value == "" {
			continue
		}
		if _, err := semver.NewVersion(v.value); err != nil {
			errs = append(errs, ValidationError{Field: v.field, Message: fmt.Sprintf("invalid version %q: %v", v.value, err)})
		}
	}

	return errs
}
