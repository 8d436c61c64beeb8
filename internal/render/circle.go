package render

import (
	"fmt"
	"strings"

	"github.com/lucasnoah/pipegen/internal/command"
	"github.com/lucasnoah/pipegen/internal/descriptor"
)

const circleMachineImage = "ubuntu-2204:current"

// circleFormatter writes .circleci/config.yml: a single machine job that
// runs every step in plan order, plus the workflow that triggers it.
type circleFormatter struct{}

func (circleFormatter) format(p *PipelinePlan) string {
	d := &p.Descriptor
	w := &yamlWriter{}
	cacheKey := circleCacheKey(d)
	cacheDir := "~/" + command.CacheDir(d.BuildTool)
	if d.BuildTool == descriptor.Maven {
		cacheDir = "~/.m2"
	}

	w.line(0, "version: 2.1")
	w.line(0, "jobs:")
	w.line(1, "build:")
	w.line(2, "machine:")
	w.line(3, "image: %s", scalar(circleMachineImage))
	w.line(2, "resource_class: large")
	w.line(2, "environment:")
	w.line(3, "NODE_VERSION: %s", scalar(d.NodeVersion))
	w.line(3, "SPRING_OUTPUT_ANSI_ENABLED: ALWAYS")
	w.line(2, "steps:")
	w.line(3, "- checkout")
	w.line(3, "- restore_cache:")
	w.line(5, "keys:")
	w.line(6, "- %s", scalar(cacheKey))
	w.line(6, "- %s", scalar("v1-dependencies-"))

	for _, st := range p.Stages {
		for _, step := range st.Steps {
			w.line(3, "- run:")
			w.line(5, "name: %s", scalar(title(step.Title)))
			w.line(5, "command: %s", scalar(step.Command))
		}
		if st.Kind == StageInstall {
			w.line(3, "- save_cache:")
			w.line(5, "paths:")
			w.line(6, "- %s", scalar(cacheDir))
			w.line(6, "- node_modules")
			w.line(5, "key: %s", scalar(cacheKey))
		}
		if st.Kind == StageTest {
			for _, r := range command.TestReports(d.BuildTool) {
				w.line(3, "- store_test_results:")
				w.line(5, "path: %s", scalar(reportDir(r)))
			}
		}
		if st.Kind == StagePackage {
			w.line(3, "- store_artifacts:")
			w.line(5, "path: %s", scalar(reportDir(command.ArtifactGlob(d.BuildTool))))
		}
	}

	w.line(0, "workflows:")
	w.line(1, "build:")
	w.line(2, "jobs:")
	w.line(3, "- build")
	return w.String()
}

func circleCacheKey(d *descriptor.Descriptor) string {
	buildFile := "pom.xml"
	if d.BuildTool == descriptor.Gradle {
		buildFile = "build.gradle"
	}
	lockFile := "package-lock.json"
	if d.FrontendTool == descriptor.Yarn {
		lockFile = "yarn.lock"
	}
	return fmt.Sprintf(`v1-dependencies-{{ checksum "%s" }}-{{ checksum "%s" }}`, buildFile, lockFile)
}

// reportDir trims a glob down to its static directory prefix.
func reportDir(glob string) string {
	if i := strings.IndexAny(glob, "*?["); i >= 0 {
		glob = glob[:i]
	}
	return strings.TrimSuffix(glob, "/")
}

// title upper-cases the first letter of a step title.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
