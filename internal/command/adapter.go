// Package command maps a build tool and a logical pipeline action to the exact
// wrapper invocation every platform renders. All functions are pure.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasnoah/pipegen/internal/descriptor"
)

// Action is a logical build step independent of the build tool.
type Action string

const (
	Clean                Action = "clean"
	Checkstyle           Action = "checkstyle"
	InstallTools         Action = "installTools"
	InstallDependencies  Action = "installDependencies"
	Test                 Action = "test"
	Verify               Action = "verify"
	PackageAndAnalyze    Action = "packageAndAnalyze"
	BuildAndPublishImage Action = "buildAndPublishImage"
	DeployArtifacts      Action = "deployArtifacts"
	DeployHeroku         Action = "deployHeroku"
)

// ErrUnknownAction is returned for actions outside the closed set.
var ErrUnknownAction = errors.New("unknown action")

// ErrUnknownBuildTool is returned for build tools other than maven and gradle.
var ErrUnknownBuildTool = errors.New("unknown build tool")

// Params carries the per-invocation values substituted into commands.
type Params struct {
	FrontendTool descriptor.FrontendTool
	// Analyze appends the static-analysis goals to PackageAndAnalyze.
	Analyze   bool
	SonarURL  string
	ImageName string
	HerokuApp string
}

// ParamsFor derives the command parameters from a normalized descriptor.
func ParamsFor(d *descriptor.Descriptor) Params {
	return Params{
		FrontendTool: d.FrontendTool,
		Analyze:      d.HasIntegration(descriptor.SonarAnalysis),
		SonarURL:     d.SonarURL(),
		ImageName:    d.DockerImageName,
		HerokuApp:    d.HerokuAppName,
	}
}

// Wrapper returns the wrapper script name checked into projects using tool.
func Wrapper(tool descriptor.BuildTool) (string, error) {
	switch tool {
	case descriptor.Maven:
		return "mvnw", nil
	case descriptor.Gradle:
		return "gradlew", nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownBuildTool, tool)
}

// For returns the command line for running action with tool.
func For(tool descriptor.BuildTool, action Action, p Params) (string, error) {
	switch tool {
	case descriptor.Maven:
		return maven(action, p)
	case descriptor.Gradle:
		return gradle(action, p)
	}
	return "", fmt.Errorf("%w %q", ErrUnknownBuildTool, tool)
}

// MustFor is For for callers that have already validated tool and action.
func MustFor(tool descriptor.BuildTool, action Action, p Params) string {
	cmd, err := For(tool, action, p)
	if err != nil {
		panic(err)
	}
	return cmd
}

func frontend(p Params) string {
	if p.FrontendTool == descriptor.Yarn {
		return "yarn"
	}
	return "npm"
}

const frontendPlugin = "com.github.eirslett:frontend-maven-plugin"

func maven(action Action, p Params) (string, error) {
	const mvnw = "./mvnw -ntp"
	fe := frontend(p)

	switch action {
	case Clean:
		return mvnw + " clean -P-webapp", nil
	case Checkstyle:
		return mvnw + " checkstyle:check", nil
	case InstallTools:
		return fmt.Sprintf("%s %s:install-node-and-%s@install-node-and-%s", mvnw, frontendPlugin, fe, fe), nil
	case InstallDependencies:
		return fmt.Sprintf("%s %s:%s", mvnw, frontendPlugin, fe), nil
	case Test:
		return fmt.Sprintf("%s %s:%s -Dfrontend.%s.arguments='run test'", mvnw, frontendPlugin, fe, fe), nil
	case Verify:
		return mvnw + " verify -P-webapp", nil
	case PackageAndAnalyze:
		var b strings.Builder
		b.WriteString(mvnw + " verify -P-webapp -Pprod -DskipTests")
		if p.Analyze {
			b.WriteString(" initialize sonar:sonar")
			if p.SonarURL != "" {
				b.WriteString(" -Dsonar.host.url=" + p.SonarURL)
			}
		}
		return b.String(), nil
	case BuildAndPublishImage:
		cmd := mvnw + " jib:build -Pprod -DskipTests"
		if p.ImageName != "" {
			cmd += " -Djib.to.image=" + p.ImageName
		}
		return cmd, nil
	case DeployArtifacts:
		return mvnw + " deploy -Pprod -DskipTests", nil
	case DeployHeroku:
		cmd := mvnw + " com.heroku.sdk:heroku-maven-plugin:2.0.5:deploy -DskipTests -Pprod -Dheroku.buildpacks=heroku/jvm"
		if p.HerokuApp != "" {
			cmd += " -Dheroku.appName=" + p.HerokuApp
		}
		return cmd, nil
	}
	return "", fmt.Errorf("%w %q for maven", ErrUnknownAction, action)
}

func gradle(action Action, p Params) (string, error) {
	const gradlew = "./gradlew"
	const flags = "-PnodeInstall --no-daemon"
	fe := frontend(p)

	switch action {
	case Clean:
		return gradlew + " clean --no-daemon", nil
	case Checkstyle:
		return gradlew + " checkstyleNohttp --no-daemon", nil
	case InstallTools:
		return fmt.Sprintf("%s %sSetup %s", gradlew, fe, flags), nil
	case InstallDependencies:
		return fmt.Sprintf("%s %s_install %s", gradlew, fe, flags), nil
	case Test:
		return fmt.Sprintf("%s %s_run_test %s", gradlew, fe, flags), nil
	case Verify:
		return gradlew + " test integrationTest " + flags, nil
	case PackageAndAnalyze:
		var b strings.Builder
		b.WriteString(gradlew + " bootJar -x test -Pprod " + flags)
		if p.Analyze {
			b.WriteString(" sonarqube")
			if p.SonarURL != "" {
				b.WriteString(" -Dsonar.host.url=" + p.SonarURL)
			}
		}
		return b.String(), nil
	case BuildAndPublishImage:
		cmd := gradlew + " jib -Pprod -x test --no-daemon"
		if p.ImageName != "" {
			cmd += " -Djib.to.image=" + p.ImageName
		}
		return cmd, nil
	case DeployArtifacts:
		return gradlew + " publish -Pprod -x test --no-daemon", nil
	case DeployHeroku:
		cmd := gradlew + " deployHeroku -Pprod -x test --no-daemon"
		if p.HerokuApp != "" {
			cmd += " -PherokuAppName=" + p.HerokuApp
		}
		return cmd, nil
	}
	return "", fmt.Errorf("%w %q for gradle", ErrUnknownAction, action)
}

// ScanCommands returns the build-tool independent vulnerability scan steps.
func ScanCommands() []string {
	return []string{
		"npm install -g snyk",
		"snyk test --all-projects --severity-threshold=high",
		"snyk monitor --all-projects",
	}
}

// TestReports returns the JUnit report globs produced by the test actions.
func TestReports(tool descriptor.BuildTool) []string {
	if tool == descriptor.Gradle {
		return []string{"build/test-results/**/TEST-*.xml"}
	}
	return []string{"target/surefire-reports/TEST-*.xml", "target/failsafe-reports/TEST-*.xml"}
}

// ArtifactGlob returns the glob matching the packaged application.
func ArtifactGlob(tool descriptor.BuildTool) string {
	if tool == descriptor.Gradle {
		return "build/libs/*.jar"
	}
	return "target/*.jar"
}

// CacheDir returns the dependency cache directory relative to the project root.
func CacheDir(tool descriptor.BuildTool) string {
	if tool == descriptor.Gradle {
		return ".gradle"
	}
	return ".maven"
}
