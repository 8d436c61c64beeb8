package render

import (
	"errors"
	"fmt"
	"strings"
)

// Platform is one of the fixed CI targets. The set is closed: adding a
// platform means adding a formatter, not a configuration value.
type Platform string

const (
	Jenkins Platform = "jenkins"
	GitLab  Platform = "gitlab"
	Travis  Platform = "travis"
	Circle  Platform = "circle"
	GitHub  Platform = "github"
	Azure   Platform = "azure"
)

// ErrUnknownPlatform is the fatal configuration error for platform ids
// outside the closed set.
var ErrUnknownPlatform = errors.New("unknown platform")

var platformOrder = []Platform{Jenkins, GitLab, Travis, Circle, GitHub, Azure}

var platformPaths = map[Platform]string{
	Jenkins: "Jenkinsfile",
	GitLab:  ".gitlab-ci.yml",
	Travis:  ".travis.yml",
	Circle:  ".circleci/config.yml",
	GitHub:  ".github/workflows/github-actions.yml",
	Azure:   "azure-pipelines.yml",
}

// Platforms returns every supported platform in stable order.
func Platforms() []Platform {
	out := make([]Platform, len(platformOrder))
	copy(out, platformOrder)
	return out
}

// ParsePlatform resolves a platform id, ignoring case and surrounding space.
func ParsePlatform(id string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(id)))
	if _, ok := platformPaths[p]; !ok {
		return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownPlatform, id, strings.Join(platformNames(), ", "))
	}
	return p, nil
}

// Path returns the conventional project-relative path of the platform's
// pipeline definition.
func (p Platform) Path() string {
	return platformPaths[p]
}

func platformNames() []string {
	names := make([]string, len(platformOrder))
	for i, p := range platformOrder {
		names[i] = string(p)
	}
	return names
}
