package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Defaults(t *testing.T) {
	d := Normalize(Descriptor{})

	assert.Equal(t, DefaultBaseName, d.BaseName)
	assert.Equal(t, Maven, d.BuildTool)
	assert.Equal(t, NPM, d.FrontendTool)
	assert.False(t, d.DockerExecutionMode)
	assert.Empty(t, d.Integrations)
	assert.NotNil(t, d.Integrations)
	assert.Nil(t, d.ArtifactRepository)
	assert.Nil(t, d.AnalysisServer)
	assert.Equal(t, DefaultJavaVersion, d.JavaVersion)
	assert.Equal(t, DefaultNodeVersion, d.NodeVersion)
	assert.Equal(t, DefaultRegistryURL, d.DockerRegistry.URL)
	assert.Equal(t, "app", d.HerokuAppName)
}

func TestNormalize_IntegrationsAliasesAndOrder(t *testing.T) {
	d := Normalize(Descriptor{
		Integrations: []Integration{"snyk", "heroku", "sonar", "deploy", "publishDocker", "sonar", "bogus"},
	})

	assert.Equal(t, []Integration{Deploy, SonarAnalysis, PublishDockerImage, HerokuDeploy, VulnerabilityScan}, d.Integrations)
}

func TestNormalize_EnumCase(t *testing.T) {
	d := Normalize(Descriptor{BuildTool: " Gradle ", FrontendTool: "YARN"})

	assert.Equal(t, Gradle, d.BuildTool)
	assert.Equal(t, Yarn, d.FrontendTool)
}

func TestNormalize_CopiesPointers(t *testing.T) {
	repo := &ArtifactRepository{SnapshotsID: " snapshots "}
	in := Descriptor{ArtifactRepository: repo}

	out := Normalize(in)
	out.ArtifactRepository.SnapshotsID = "changed"

	assert.Equal(t, " snapshots ", repo.SnapshotsID)
}

func TestNormalize_HerokuAppNameFromBaseName(t *testing.T) {
	d := Normalize(Descriptor{BaseName: "sampleMysql"})
	assert.Equal(t, "sample-mysql", d.HerokuAppName)

	d = Normalize(Descriptor{BaseName: "sampleMysql", HerokuAppName: "explicit"})
	assert.Equal(t, "explicit", d.HerokuAppName)
}

func TestKebabCase(t *testing.T) {
	cases := map[string]string{
		"sampleMysql":  "sample-mysql",
		"Sample App":   "sample-app",
		"jhipster":     "jhipster",
		"my_app2Store": "my-app2-store",
		"  trailing- ": "trailing",
	}
	for in, want := range cases {
		assert.Equal(t, want, KebabCase(in), "KebabCase(%q)", in)
	}
}

func TestParseIntegration(t *testing.T) {
	i, ok := ParseIntegration("Vulnerability-Scan")
	require.True(t, ok)
	assert.Equal(t, VulnerabilityScan, i)

	_, ok = ParseIntegration("nope")
	assert.False(t, ok)
}

func TestDistributionManagement(t *testing.T) {
	d := Normalize(Descriptor{Integrations: []Integration{Deploy}})
	assert.False(t, d.DistributionManagement(), "no coordinates")

	d.ArtifactRepository = &ArtifactRepository{ReleasesURL: "http://repo/releases"}
	assert.True(t, d.DistributionManagement())

	d.Integrations = nil
	assert.False(t, d.DistributionManagement(), "deploy disabled")
}

func TestJavaMajor(t *testing.T) {
	d := Descriptor{JavaVersion: "17.0.2"}
	assert.Equal(t, "17", d.JavaMajor())

	d.JavaVersion = "lts"
	assert.Equal(t, "lts", d.JavaMajor())
}

func TestSonarAccessorsNilSafe(t *testing.T) {
	d := Descriptor{}
	assert.Empty(t, d.SonarName())
	assert.Empty(t, d.SonarURL())
}
