package render

import (
	"slices"

	"github.com/lucasnoah/pipegen/internal/command"
)

var gitlabStageNames = map[StageKind]string{
	StageCheckout:          "check",
	StageInstall:           "build",
	StageTest:              "test",
	StageAnalysis:          "analyze",
	StagePackage:           "package",
	StagePublishImage:      "release",
	StageDeployArtifacts:   "deploy",
	StageDeployHeroku:      "deploy",
	StageVulnerabilityScan: "security",
}

// gitlabFormatter writes .gitlab-ci.yml with one job per step. The base
// image line is only present in docker mode; autoconfigure keys off it.
type gitlabFormatter struct{}

func (gitlabFormatter) format(p *PipelinePlan) string {
	d := &p.Descriptor
	w := &yamlWriter{}
	w.comment("Pipeline for " + d.BaseName + ", regenerate it instead of editing by hand.")
	if p.Docker() {
		w.line(0, "image: %s", scalar(BaseImage))
		w.blank()
	}

	cache := command.CacheDir(d.BuildTool)
	w.line(0, "cache:")
	w.line(1, "key: %s", scalar("$CI_COMMIT_REF_NAME"))
	w.line(1, "paths:")
	w.line(2, "- %s", scalar(cache+"/"))
	w.line(2, "- node_modules/")

	w.line(0, "stages:")
	var seen []string
	for _, st := range p.Stages {
		name := gitlabStageNames[st.Kind]
		if slices.Contains(seen, name) {
			continue
		}
		seen = append(seen, name)
		w.line(1, "- %s", name)
	}

	w.blank()
	w.line(0, "before_script:")
	w.line(1, "- %s", scalar("export NG_CLI_ANALYTICS=false"))
	if cache == ".maven" {
		w.line(1, "- %s", scalar("export MAVEN_USER_HOME=`pwd`/.maven"))
	} else {
		w.line(1, "- %s", scalar("export GRADLE_USER_HOME=`pwd`/.gradle"))
	}

	for _, st := range p.Stages {
		stage := gitlabStageNames[st.Kind]
		if st.Kind == StageVulnerabilityScan {
			w.blank()
			w.line(0, "vulnerability-scan:")
			w.line(1, "stage: %s", stage)
			w.line(1, "script:")
			for _, step := range st.Steps {
				w.line(2, "- %s", scalar(step.Command))
			}
			continue
		}
		for _, step := range st.Steps {
			w.blank()
			w.line(0, "%s:", scalar(step.Key))
			w.line(1, "stage: %s", stage)
			w.line(1, "script:")
			w.line(2, "- %s", scalar(step.Command))
			switch {
			case step.Key == "backend-tests":
				w.line(1, "artifacts:")
				w.line(2, "reports:")
				w.line(3, "junit:")
				for _, r := range command.TestReports(d.BuildTool) {
					w.line(4, "- %s", scalar(r))
				}
			case step.Key == "packaging":
				w.line(1, "artifacts:")
				w.line(2, "paths:")
				w.line(3, "- %s", scalar(command.ArtifactGlob(d.BuildTool)))
				w.line(2, "expire_in: 1 day")
			case st.Kind == StageDeployHeroku:
				w.line(1, "when: manual")
			}
		}
	}
	return w.String()
}
