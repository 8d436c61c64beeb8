package render

import (
	"github.com/lucasnoah/pipegen/internal/command"
)

// azureFormatter writes azure-pipelines.yml with a single job whose script
// steps follow the plan.
type azureFormatter struct{}

func (azureFormatter) format(p *PipelinePlan) string {
	d := &p.Descriptor
	w := &yamlWriter{}
	w.line(0, "jobs:")
	w.line(1, "- job: Test")
	w.line(2, "pool:")
	w.line(3, "vmImage: ubuntu-latest")
	w.line(2, "variables:")
	w.line(3, "NODE_VERSION: %s", scalar(d.NodeVersion))
	w.line(3, "SPRING_OUTPUT_ANSI_ENABLED: NEVER")
	w.line(3, "NG_CLI_ANALYTICS: %s", scalar("false"))
	w.line(2, "steps:")
	w.line(3, "- task: NodeTool@0")
	w.line(4, "inputs:")
	w.line(5, "versionSpec: %s", scalar(d.NodeVersion))
	w.line(4, "displayName: %s", scalar("Use Node "+d.NodeVersion))
	w.line(3, "- task: JavaToolInstaller@0")
	w.line(4, "inputs:")
	w.line(5, "versionSpec: %s", scalar(d.JavaMajor()))
	w.line(5, "jdkArchitectureOption: x64")
	w.line(5, "jdkSourceOption: PreInstalled")
	w.line(4, "displayName: %s", scalar("Use Java "+d.JavaMajor()))

	for _, st := range p.Stages {
		for _, step := range st.Steps {
			w.line(3, "- script: %s", scalar(step.Command))
			w.line(4, "displayName: %s", scalar(title(step.Title)))
			var env [][2]string
			switch st.Kind {
			case StageAnalysis:
				env = append(env, [2]string{"SONAR_TOKEN", "$(SONAR_TOKEN)"})
			case StageDeployHeroku:
				env = append(env, [2]string{"HEROKU_API_KEY", "$(HEROKU_API_KEY)"})
			case StageVulnerabilityScan:
				env = append(env, [2]string{"SNYK_TOKEN", "$(SNYK_TOKEN)"})
			}
			if len(env) > 0 {
				w.line(4, "env:")
				for _, kv := range env {
					w.line(5, "%s: %s", kv[0], scalar(kv[1]))
				}
			}
		}
		if st.Kind == StageTest {
			w.line(3, "- task: PublishTestResults@2")
			w.line(4, "inputs:")
			w.line(5, "testResultsFormat: JUnit")
			w.line(5, "testResultsFiles: %s", scalar("**/TEST-*.xml"))
			w.line(5, "searchFolder: %s", scalar("$(Build.SourcesDirectory)/"+testReportRoot(d.BuildTool)))
			w.line(4, "condition: succeededOrFailed()")
			w.line(4, "displayName: %s", scalar("Publish test results"))
		}
		if st.Kind == StagePackage {
			w.line(3, "- publish: %s", scalar(reportDir(command.ArtifactGlob(d.BuildTool))))
			w.line(4, "artifact: application")
			w.line(4, "displayName: %s", scalar("Publish application"))
		}
	}
	return w.String()
}
