package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/lucasnoah/pipegen/internal/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allActions = []Action{
	Clean, Checkstyle, InstallTools, InstallDependencies, Test, Verify,
	PackageAndAnalyze, BuildAndPublishImage, DeployArtifacts, DeployHeroku,
}

func TestFor_EveryActionUsesWrapper(t *testing.T) {
	for _, tool := range []descriptor.BuildTool{descriptor.Maven, descriptor.Gradle} {
		wrapper, err := Wrapper(tool)
		require.NoError(t, err)
		for _, a := range allActions {
			cmd, err := For(tool, a, Params{})
			require.NoError(t, err, "%s/%s", tool, a)
			assert.True(t, strings.HasPrefix(cmd, "./"+wrapper+" "), "%s/%s = %q", tool, a, cmd)
		}
	}
}

func TestFor_Deterministic(t *testing.T) {
	p := Params{Analyze: true, SonarURL: "http://sonar:9000", ImageName: "img", HerokuApp: "app"}
	for _, tool := range []descriptor.BuildTool{descriptor.Maven, descriptor.Gradle} {
		for _, a := range allActions {
			first := MustFor(tool, a, p)
			second := MustFor(tool, a, p)
			assert.Equal(t, first, second)
		}
	}
}

func TestPackageAndAnalyze_SonarSuffix(t *testing.T) {
	cmd := MustFor(descriptor.Maven, PackageAndAnalyze, Params{})
	assert.NotContains(t, cmd, "sonar")

	cmd = MustFor(descriptor.Maven, PackageAndAnalyze, Params{Analyze: true})
	assert.Contains(t, cmd, "sonar:sonar")
	assert.NotContains(t, cmd, "sonar.host.url")

	cmd = MustFor(descriptor.Maven, PackageAndAnalyze, Params{Analyze: true, SonarURL: "http://sonar.com:9000"})
	assert.Contains(t, cmd, "-Dsonar.host.url=http://sonar.com:9000")

	// A URL without analysis enabled must not leak into the package command.
	cmd = MustFor(descriptor.Gradle, PackageAndAnalyze, Params{SonarURL: "http://sonar.com:9000"})
	assert.NotContains(t, cmd, "sonar")

	cmd = MustFor(descriptor.Gradle, PackageAndAnalyze, Params{Analyze: true, SonarURL: "http://sonar.com:9000"})
	assert.Contains(t, cmd, "sonarqube -Dsonar.host.url=http://sonar.com:9000")
}

func TestBuildAndPublishImage_ImageName(t *testing.T) {
	assert.Equal(t,
		"./mvnw -ntp jib:build -Pprod -DskipTests -Djib.to.image=jhipster-publish-docker",
		MustFor(descriptor.Maven, BuildAndPublishImage, Params{ImageName: "jhipster-publish-docker"}))
	assert.NotContains(t, MustFor(descriptor.Gradle, BuildAndPublishImage, Params{}), "jib.to.image")
}

func TestDeployHeroku_AppName(t *testing.T) {
	assert.Contains(t, MustFor(descriptor.Maven, DeployHeroku, Params{HerokuApp: "sample-mysql"}), "-Dheroku.appName=sample-mysql")
	assert.Equal(t,
		"./gradlew deployHeroku -Pprod -x test --no-daemon -PherokuAppName=sample-mysql",
		MustFor(descriptor.Gradle, DeployHeroku, Params{HerokuApp: "sample-mysql"}))
}

func TestFrontendToolDelegation(t *testing.T) {
	npm := MustFor(descriptor.Maven, InstallDependencies, Params{FrontendTool: descriptor.NPM})
	yarn := MustFor(descriptor.Maven, InstallDependencies, Params{FrontendTool: descriptor.Yarn})
	assert.True(t, strings.HasSuffix(npm, ":npm"), npm)
	assert.True(t, strings.HasSuffix(yarn, ":yarn"), yarn)

	assert.Equal(t, "./gradlew yarn_run_test -PnodeInstall --no-daemon",
		MustFor(descriptor.Gradle, Test, Params{FrontendTool: descriptor.Yarn}))
}

func TestFor_Errors(t *testing.T) {
	_, err := For("ant", Clean, Params{})
	assert.True(t, errors.Is(err, ErrUnknownBuildTool))

	_, err = For(descriptor.Gradle, Action("lint"), Params{})
	assert.True(t, errors.Is(err, ErrUnknownAction))

	_, err = Wrapper("sbt")
	assert.Error(t, err)
}

func TestParamsFor(t *testing.T) {
	d := descriptor.Normalize(descriptor.Descriptor{
		BaseName:        "sampleMysql",
		Integrations:    []descriptor.Integration{descriptor.SonarAnalysis},
		AnalysisServer:  &descriptor.AnalysisServer{URL: "http://sonar"},
		DockerImageName: "img",
	})
	p := ParamsFor(&d)

	assert.True(t, p.Analyze)
	assert.Equal(t, "http://sonar", p.SonarURL)
	assert.Equal(t, "img", p.ImageName)
	assert.Equal(t, "sample-mysql", p.HerokuApp)
}

func TestReportsAndArtifacts(t *testing.T) {
	assert.Len(t, TestReports(descriptor.Maven), 2)
	assert.Equal(t, "build/libs/*.jar", ArtifactGlob(descriptor.Gradle))
	assert.Equal(t, ".maven", CacheDir(descriptor.Maven))
	for _, c := range ScanCommands() {
		assert.Contains(t, c, "snyk")
	}
}
