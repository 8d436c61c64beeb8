package descriptor

import (
	"slices"
	"strings"
)

// BuildTool is the host project's backend build tool.
type BuildTool string

const (
	Maven  BuildTool = "maven"
	Gradle BuildTool = "gradle"
)

// FrontendTool is the package manager the host build tool delegates to.
type FrontendTool string

const (
	NPM  FrontendTool = "npm"
	Yarn FrontendTool = "yarn"
)

// Integration is an optional pipeline capability. Absence of an integration
// means its stage is omitted entirely.
type Integration string

const (
	Deploy             Integration = "deploy"
	SonarAnalysis      Integration = "sonarAnalysis"
	PublishDockerImage Integration = "publishDockerImage"
	HerokuDeploy       Integration = "herokuDeploy"
	VulnerabilityScan  Integration = "vulnerabilityScan"
)

// integrationOrder is the canonical order integrations are stored in after
// normalization.
var integrationOrder = []Integration{
	Deploy,
	SonarAnalysis,
	PublishDockerImage,
	HerokuDeploy,
	VulnerabilityScan,
}

// integrationAliases maps lower-cased spellings (including the short names
// used by older generator prompts) to integrations.
var integrationAliases = map[string]Integration{
	"deploy":             Deploy,
	"sonar":              SonarAnalysis,
	"sonaranalysis":      SonarAnalysis,
	"publishdocker":      PublishDockerImage,
	"publishdockerimage": PublishDockerImage,
	"docker":             PublishDockerImage,
	"heroku":             HerokuDeploy,
	"herokudeploy":       HerokuDeploy,
	"snyk":               VulnerabilityScan,
	"vulnerabilityscan":  VulnerabilityScan,
}

// ParseIntegration resolves an integration name or alias, ignoring case.
func ParseIntegration(s string) (Integration, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "").Replace(key)
	i, ok := integrationAliases[key]
	return i, ok
}

// AllIntegrations returns every known integration in canonical order.
func AllIntegrations() []Integration {
	return slices.Clone(integrationOrder)
}

// ArtifactRepository holds the coordinates of the snapshot and release
// repositories artifacts are deployed to.
type ArtifactRepository struct {
	SnapshotsID  string `yaml:"snapshots_id"`
	SnapshotsURL string `yaml:"snapshots_url"`
	ReleasesID   string `yaml:"releases_id"`
	ReleasesURL  string `yaml:"releases_url"`
}

// IsZero reports whether no coordinate is set.
func (r *ArtifactRepository) IsZero() bool {
	return r == nil || (r.SnapshotsID == "" && r.SnapshotsURL == "" && r.ReleasesID == "" && r.ReleasesURL == "")
}

// IsComplete reports whether all four coordinates are set.
func (r *ArtifactRepository) IsComplete() bool {
	return r != nil && r.SnapshotsID != "" && r.SnapshotsURL != "" && r.ReleasesID != "" && r.ReleasesURL != ""
}

// AnalysisServer identifies the static-analysis server.
type AnalysisServer struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// DockerRegistry is where published images are pushed from scripted pipelines.
type DockerRegistry struct {
	URL           string `yaml:"url"`
	CredentialsID string `yaml:"credentials_id"`
}

// Descriptor is the normalized, platform-independent input of one generation
// run. It is built once and read by exactly one renderer.
type Descriptor struct {
	BaseName            string              `yaml:"base_name"`
	BuildTool           BuildTool           `yaml:"build_tool"`
	FrontendTool        FrontendTool        `yaml:"frontend_tool"`
	DockerExecutionMode bool                `yaml:"docker_execution_mode"`
	Integrations        []Integration       `yaml:"integrations"`
	ArtifactRepository  *ArtifactRepository `yaml:"artifact_repository,omitempty"`
	AnalysisServer      *AnalysisServer     `yaml:"analysis_server,omitempty"`
	DockerImageName     string              `yaml:"docker_image_name,omitempty"`
	DockerRegistry      DockerRegistry      `yaml:"docker_registry"`
	HerokuAppName       string              `yaml:"heroku_app_name,omitempty"`
	JavaVersion         string              `yaml:"java_version"`
	NodeVersion         string              `yaml:"node_version"`
}

// HasIntegration reports whether i is enabled.
func (d *Descriptor) HasIntegration(i Integration) bool {
	return slices.Contains(d.Integrations, i)
}

// DistributionManagement reports whether the host build file must receive a
// distribution-management fragment: deploy is enabled and at least one
// repository coordinate is known.
func (d *Descriptor) DistributionManagement() bool {
	return d.HasIntegration(Deploy) && !d.ArtifactRepository.IsZero()
}

// SonarName returns the analysis server name, or "" when unset.
func (d *Descriptor) SonarName() string {
	if d.AnalysisServer == nil {
		return ""
	}
	return d.AnalysisServer.Name
}

// SonarURL returns the analysis server URL, or "" when unset.
func (d *Descriptor) SonarURL() string {
	if d.AnalysisServer == nil {
		return ""
	}
	return d.AnalysisServer.URL
}
