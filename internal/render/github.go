package render

import (
	"github.com/lucasnoah/pipegen/internal/descriptor"
)

// githubFormatter writes a GitHub Actions workflow. Commands are emitted as
// single-line run: values so substituted parameters stay on the wrapper
// invocation line.
type githubFormatter struct{}

func (githubFormatter) format(p *PipelinePlan) string {
	d := &p.Descriptor
	w := &yamlWriter{}
	w.line(0, "name: %s", scalar("Application CI"))
	w.line(0, "on: [push, pull_request]")
	w.line(0, "jobs:")
	w.line(1, "pipeline:")
	w.line(2, "name: %s", scalar(d.BaseName+" pipeline"))
	w.line(2, "runs-on: ubuntu-latest")
	w.line(2, "timeout-minutes: 40")
	w.line(2, "env:")
	w.line(3, "NODE_VERSION: %s", scalar(d.NodeVersion))
	w.line(3, "SPRING_OUTPUT_ANSI_ENABLED: DETECT")
	w.line(3, "NG_CLI_ANALYTICS: %s", scalar("false"))
	w.line(2, "steps:")
	w.line(3, "- uses: actions/checkout@v4")
	w.line(3, "- uses: actions/setup-node@v4")
	w.line(4, "with:")
	w.line(5, "node-version: %s", scalar(d.NodeVersion))
	w.line(3, "- uses: actions/setup-java@v4")
	w.line(4, "with:")
	w.line(5, "distribution: temurin")
	w.line(5, "java-version: %s", scalar(d.JavaMajor()))
	w.line(5, "cache: %s", string(d.BuildTool))

	for _, st := range p.Stages {
		for _, step := range st.Steps {
			cmd := step.Command
			var env [][2]string
			release := false
			switch st.Kind {
			case StageAnalysis:
				env = append(env, [2]string{"SONAR_TOKEN", "${{ secrets.SONAR_TOKEN }}"})
			case StagePublishImage:
				cmd += " -Djib.to.auth.username=${{ secrets.DOCKER_USERNAME }} -Djib.to.auth.password=${{ secrets.DOCKER_PASSWORD }}"
				release = true
			case StageDeployArtifacts:
				env = append(env, [2]string{"MAVEN_USERNAME", "${{ secrets.MAVEN_USERNAME }}"}, [2]string{"MAVEN_PASSWORD", "${{ secrets.MAVEN_PASSWORD }}"})
				release = true
			case StageDeployHeroku:
				env = append(env, [2]string{"HEROKU_API_KEY", "${{ secrets.HEROKU_API_KEY }}"})
				release = true
			case StageVulnerabilityScan:
				env = append(env, [2]string{"SNYK_TOKEN", "${{ secrets.SNYK_TOKEN }}"})
			}

			w.line(3, "- name: %s", scalar(title(step.Title)))
			if release {
				w.line(4, "if: %s", scalar("github.event_name == 'push' && github.ref == 'refs/heads/main'"))
			}
			w.line(4, "run: %s", scalar(cmd))
			if len(env) > 0 {
				w.line(4, "env:")
				for _, kv := range env {
					w.line(5, "%s: %s", kv[0], scalar(kv[1]))
				}
			}
		}
		if st.Kind == StageTest {
			w.line(3, "- name: %s", scalar("Upload test reports"))
			w.line(4, "if: always()")
			w.line(4, "uses: actions/upload-artifact@v4")
			w.line(4, "with:")
			w.line(5, "name: test-reports")
			w.line(5, "path: %s", scalar(testReportRoot(d.BuildTool)))
		}
	}
	return w.String()
}

func testReportRoot(tool descriptor.BuildTool) string {
	if tool == descriptor.Gradle {
		return "build/test-results"
	}
	return "target/surefire-reports"
}
