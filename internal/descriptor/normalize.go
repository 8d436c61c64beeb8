package descriptor

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
)

// Defaults applied by Normalize to fields left empty.
const (
	DefaultBaseName       = "app"
	DefaultJavaVersion    = "17"
	DefaultNodeVersion    = "16.17.0"
	DefaultRegistryURL    = "https://registry.hub.docker.com"
	DefaultRegistryCredID = "docker-login"
)

// Normalize returns a copy of d with enums lower-cased, defaults applied and
// integrations resolved, deduplicated and put in canonical order. Unknown
// integration names are dropped; Validate reports them before normalization.
// Pointer fields are copied so the result shares no state with d.
func Normalize(d Descriptor) Descriptor {
	out := d
	out.BaseName = strings.TrimSpace(d.BaseName)
	if out.BaseName == "" {
		out.BaseName = DefaultBaseName
	}

	out.BuildTool = BuildTool(strings.ToLower(strings.TrimSpace(string(d.BuildTool))))
	if out.BuildTool == "" {
		out.BuildTool = Maven
	}
	out.FrontendTool = FrontendTool(strings.ToLower(strings.TrimSpace(string(d.FrontendTool))))
	if out.FrontendTool == "" {
		out.FrontendTool = NPM
	}

	enabled := make(map[Integration]bool)
	for _, raw := range d.Integrations {
		if i, ok := ParseIntegration(string(raw)); ok {
			enabled[i] = true
		}
	}
	out.Integrations = []Integration{}
	for _, i := range integrationOrder {
		if enabled[i] {
			out.Integrations = append(out.Integrations, i)
		}
	}

	if d.ArtifactRepository != nil {
		r := *d.ArtifactRepository
		r.SnapshotsID = strings.TrimSpace(r.SnapshotsID)
		r.SnapshotsURL = strings.TrimSpace(r.SnapshotsURL)
		r.ReleasesID = strings.TrimSpace(r.ReleasesID)
		r.ReleasesURL = strings.TrimSpace(r.ReleasesURL)
		out.ArtifactRepository = &r
	}
	if d.AnalysisServer != nil {
		s := *d.AnalysisServer
		s.Name = strings.TrimSpace(s.Name)
		s.URL = strings.TrimSpace(s.URL)
		out.AnalysisServer = &s
	}

	out.DockerImageName = strings.TrimSpace(d.DockerImageName)
	if out.DockerRegistry.URL == "" {
		out.DockerRegistry.URL = DefaultRegistryURL
	}
	if out.DockerRegistry.CredentialsID == "" {
		out.DockerRegistry.CredentialsID = DefaultRegistryCredID
	}

	out.HerokuAppName = strings.TrimSpace(d.HerokuAppName)
	if out.HerokuAppName == "" {
		out.HerokuAppName = KebabCase(out.BaseName)
	}

	out.JavaVersion = strings.TrimSpace(d.JavaVersion)
	if out.JavaVersion == "" {
		out.JavaVersion = DefaultJavaVersion
	}
	out.NodeVersion = strings.TrimSpace(d.NodeVersion)
	if out.NodeVersion == "" {
		out.NodeVersion = DefaultNodeVersion
	}
	return out
}

// JavaMajor returns the major component of JavaVersion ("17.0.2" -> "17").
// Versions that do not parse are returned unchanged.
func (d *Descriptor) JavaMajor() string {
	v, err := semver.NewVersion(d.JavaVersion)
	if err != nil {
		return d.JavaVersion
	}
	return strconv.FormatUint(v.Major(), 10)
}

// KebabCase converts an application name such as "sampleMysql" or
// "Sample App" to "sample-mysql" / "sample-app".
func KebabCase(s string) string {
	var b strings.Builder
	runes := []rune(strings.TrimSpace(s))
	for i, r := range runes {
		switch {
		case r == ' ' || r == '_' || r == '-' || r == '.':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
