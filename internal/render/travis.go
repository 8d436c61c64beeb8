package render

import (
	"github.com/lucasnoah/pipegen/internal/command"
)

// travisFormatter writes .travis.yml. Stages map onto the fixed travis
// phases in plan order: setup to before_install, dependencies to install,
// verification and packaging to script, and release stages to after_success.
type travisFormatter struct{}

func (travisFormatter) format(p *PipelinePlan) string {
	d := &p.Descriptor
	w := &yamlWriter{}
	w.line(0, "os:")
	w.line(1, "- linux")
	w.line(0, "dist: jammy")
	w.line(0, "language: java")
	w.line(0, "jdk:")
	w.line(1, "- %s", scalar("openjdk"+d.JavaMajor()))
	w.line(0, "cache:")
	w.line(1, "directories:")
	w.line(2, "- %s", scalar("$HOME/"+command.CacheDir(d.BuildTool)))
	w.line(2, "- node_modules")
	w.line(0, "env:")
	w.line(1, "global:")
	w.line(2, "- %s", scalar("NODE_VERSION="+d.NodeVersion))
	w.line(2, "- %s", scalar("SPRING_OUTPUT_ANSI_ENABLED=ALWAYS"))
	w.line(2, "- %s", scalar("NG_CLI_ANALYTICS=false"))

	phases := []struct {
		name  string
		kinds []StageKind
	}{
		{"before_install", []StageKind{StageCheckout}},
		{"install", []StageKind{StageInstall}},
		{"script", []StageKind{StageTest, StageAnalysis, StagePackage}},
		{"after_success", []StageKind{StagePublishImage, StageDeployArtifacts, StageDeployHeroku, StageVulnerabilityScan}},
	}
	for _, phase := range phases {
		var cmds []string
		for _, k := range phase.kinds {
			st, ok := p.Stage(k)
			if !ok {
				continue
			}
			if k == StageCheckout {
				cmds = append(cmds, "nvm install $NODE_VERSION")
			}
			for _, step := range st.Steps {
				cmds = append(cmds, step.Command)
			}
		}
		if len(cmds) == 0 {
			continue
		}
		w.line(0, "%s:", phase.name)
		for _, c := range cmds {
			w.line(1, "- %s", scalar(c))
		}
	}

	w.line(0, "notifications:")
	w.line(1, "webhooks:")
	w.line(2, "on_success: change")
	w.line(2, "on_failure: always")
	w.line(2, "on_start: false")
	return w.String()
}
