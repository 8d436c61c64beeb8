package render

import (
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/lucasnoah/pipegen/internal/command"
	"github.com/lucasnoah/pipegen/internal/descriptor"
	"github.com/lucasnoah/pipegen/internal/fragment"
)

// Companion file paths emitted next to a containerized Jenkinsfile.
const (
	JenkinsComposePath = "src/main/docker/jenkins.yml"
	JenkinsGDSLPath    = "src/main/resources/idea.gdsl"
)

// Jenkins credential ids the generated Jenkinsfile expects to exist.
const (
	herokuCredentialsID = "heroku-api-key"
	snykCredentialsID   = "snyk-token"
)

// jenkinsFormatter writes a scripted Jenkinsfile. Each step becomes its own
// stage; in docker mode everything after checkout runs inside BaseImage.
type jenkinsFormatter struct{}

func (jenkinsFormatter) format(p *PipelinePlan) string {
	d := &p.Descriptor
	var b strings.Builder
	b.WriteString("#!/usr/bin/env groovy\n\n")
	b.WriteString("node {\n")

	indent := 1
	g := &groovyWriter{b: &b}
	g.line(indent, "stage('checkout') {")
	g.line(indent+1, "checkout scm")
	g.line(indent, "}")

	if p.Docker() {
		b.WriteByte('\n')
		g.line(indent, "%s.inside(%s) {", jenkinsImage(), groovySingle(jenkinsDockerArgs(d.BuildTool)))
		indent++
	}

	for _, st := range p.Stages {
		switch st.Kind {
		case StageAnalysis:
			b.WriteByte('\n')
			g.line(indent, "stage(%s) {", groovySingle(st.Steps[0].Title))
			if name := d.SonarName(); name != "" {
				g.line(indent+1, "withSonarQubeEnv(%s) {", groovySingle(name))
				g.sh(indent+2, st.Steps[0].Command)
				g.line(indent+1, "}")
			} else {
				g.sh(indent+1, st.Steps[0].Command)
			}
			g.line(indent, "}")
		case StagePublishImage:
			b.WriteByte('\n')
			g.line(indent, "def dockerImage")
			g.line(indent, "stage(%s) {", groovySingle(st.Steps[0].Title))
			if d.DockerImageName != "" {
				g.line(indent+1, "dockerImage = %s", groovySingle(d.DockerImageName))
			}
			g.line(indent+1, "docker.withRegistry(%s, %s) {", groovySingle(d.DockerRegistry.URL), groovySingle(d.DockerRegistry.CredentialsID))
			g.sh(indent+2, st.Steps[0].Command)
			g.line(indent+1, "}")
			g.line(indent, "}")
		case StageDeployHeroku:
			b.WriteByte('\n')
			g.line(indent, "stage(%s) {", groovySingle(st.Steps[0].Title))
			g.line(indent+1, "withCredentials([string(credentialsId: %s, variable: 'HEROKU_API_KEY')]) {", groovySingle(herokuCredentialsID))
			g.sh(indent+2, st.Steps[0].Command)
			g.line(indent+1, "}")
			g.line(indent, "}")
		case StageVulnerabilityScan:
			b.WriteByte('\n')
			g.line(indent, "stage('vulnerability scan') {")
			g.line(indent+1, "withCredentials([string(credentialsId: %s, variable: 'SNYK_TOKEN')]) {", groovySingle(snykCredentialsID))
			for _, step := range st.Steps {
				g.sh(indent+2, step.Command)
			}
			g.line(indent+1, "}")
			g.line(indent, "}")
		default:
			for _, step := range st.Steps {
				b.WriteByte('\n')
				g.line(indent, "stage(%s) {", groovySingle(step.Title))
				jenkinsStep(g, indent+1, d.BuildTool, step)
				g.line(indent, "}")
			}
		}
	}

	if p.Docker() {
		g.line(1, "}")
	}
	b.WriteString("}\n")
	return b.String()
}

func jenkinsStep(g *groovyWriter, indent int, tool descriptor.BuildTool, step Step) {
	switch step.Key {
	case "backend-tests":
		g.line(indent, "try {")
		g.sh(indent+1, step.Command)
		g.line(indent, "} catch(err) {")
		g.line(indent+1, "throw err")
		g.line(indent, "} finally {")
		g.line(indent+1, "junit %s", groovySingle(jenkinsReports(tool)))
		g.line(indent, "}")
	case "packaging":
		g.sh(indent, step.Command)
		g.line(indent, "archiveArtifacts artifacts: %s, fingerprint: true", groovySingle("**/"+command.ArtifactGlob(tool)))
	default:
		g.sh(indent, step.Command)
	}
}

func (jenkinsFormatter) companions(p *PipelinePlan, fsys billy.Filesystem) ([]File, error) {
	if !p.Docker() {
		return nil, nil
	}
	vars := fragment.Vars{
		"app_name":   descriptor.KebabCase(p.Descriptor.BaseName),
		"java_major": p.Descriptor.JavaMajor(),
		"base_image": BaseImage,
	}
	files := []File{
		{Path: JenkinsComposePath},
		{Path: JenkinsGDSLPath},
	}
	for i, name := range []string{fragment.JenkinsCompose, fragment.JenkinsGDSL} {
		tmpl, err := fragment.Load(name, fsys)
		if err != nil {
			return nil, err
		}
		files[i].Content, err = fragment.Render(tmpl, vars)
		if err != nil {
			return nil, fmt.Errorf("fragment %s: %w", name, err)
		}
	}
	return files, nil
}

func jenkinsImage() string {
	return "docker.image(" + groovySingle(BaseImage) + ")"
}

func jenkinsDockerArgs(tool descriptor.BuildTool) string {
	if tool == descriptor.Gradle {
		return "-u jhipster -e GRADLE_USER_HOME=" + command.CacheDir(tool)
	}
	return `-u jhipster -e MAVEN_OPTS="-Duser.home=./"`
}

func jenkinsReports(tool descriptor.BuildTool) string {
	reports := command.TestReports(tool)
	for i, r := range reports {
		reports[i] = "**/" + r
	}
	return strings.Join(reports, ",")
}

type groovyWriter struct {
	b *strings.Builder
}

func (g *groovyWriter) line(indent int, format string, args ...any) {
	g.b.WriteString(strings.Repeat("    ", indent))
	fmt.Fprintf(g.b, format, args...)
	g.b.WriteByte('\n')
}

func (g *groovyWriter) sh(indent int, cmd string) {
	g.line(indent, "sh %s", groovyDouble(cmd))
}

// groovyDouble quotes s as a GString whose value is s itself: no
// interpolation reaches the shell command.
func groovyDouble(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}

func groovySingle(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
