package render

import (
	"fmt"

	"github.com/lucasnoah/pipegen/internal/command"
	"github.com/lucasnoah/pipegen/internal/descriptor"
)

// BaseImageRepository and BaseImage form the container naming convention
// used when stages run inside a container. The autoconfigurator recognizes a
// prior pipeline by the repository prefix.
const (
	BaseImageRepository = "jhipster/jhipster"
	BaseImageTag        = "v7.9.3"
	BaseImage           = BaseImageRepository + ":" + BaseImageTag
)

// StageKind identifies a logical pipeline phase.
type StageKind int

const (
	StageCheckout StageKind = iota
	StageInstall
	StageTest
	StageAnalysis
	StagePackage
	StagePublishImage
	StageDeployArtifacts
	StageDeployHeroku
	StageVulnerabilityScan
)

var stageKindNames = map[StageKind]string{
	StageCheckout:          "checkout",
	StageInstall:           "install",
	StageTest:              "test",
	StageAnalysis:          "analysis",
	StagePackage:           "package",
	StagePublishImage:      "publish-image",
	StageDeployArtifacts:   "deploy-artifacts",
	StageDeployHeroku:      "deploy-heroku",
	StageVulnerabilityScan: "vulnerability-scan",
}

func (k StageKind) String() string {
	if name, ok := stageKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(k))
}

// Step is a single command within a stage. Key is a machine-friendly id
// (job names), Title the human label.
type Step struct {
	Key     string
	Title   string
	Command string
}

// Stage is an included pipeline phase with its resolved commands.
type Stage struct {
	Kind  StageKind
	Steps []Step
}

// Warning describes a degraded or omitted stage. Warnings never abort a run.
type Warning struct {
	Code    string `json:"code"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s [%s]: %s", w.Code, w.Stage, w.Message)
}

// Warning codes.
const (
	WarnSonarMissingServer      = "sonar-missing-server"
	WarnDockerImageMissing      = "docker-image-missing"
	WarnDeployMissingRepository = "deploy-missing-repository"
	WarnDeployPartialRepository = "deploy-partial-repository"
)

// PipelinePlan is the platform-independent, ordered list of stages a
// formatter turns into text.
type PipelinePlan struct {
	Descriptor descriptor.Descriptor
	Wrapper    string
	Stages     []Stage
}

// Has reports whether a stage of kind k was planned.
func (p *PipelinePlan) Has(k StageKind) bool {
	_, ok := p.Stage(k)
	return ok
}

// Stage returns the planned stage of kind k.
func (p *PipelinePlan) Stage(k StageKind) (Stage, bool) {
	for _, s := range p.Stages {
		if s.Kind == k {
			return s, true
		}
	}
	return Stage{}, false
}

// Kinds returns the planned stage kinds in order.
func (p *PipelinePlan) Kinds() []StageKind {
	kinds := make([]StageKind, len(p.Stages))
	for i, s := range p.Stages {
		kinds[i] = s.Kind
	}
	return kinds
}

// Steps returns every planned step in order.
func (p *PipelinePlan) Steps() []Step {
	var steps []Step
	for _, s := range p.Stages {
		steps = append(steps, s.Steps...)
	}
	return steps
}

// Docker reports whether stages run inside the base image.
func (p *PipelinePlan) Docker() bool {
	return p.Descriptor.DockerExecutionMode
}

// Plan normalizes d and selects the stages that apply to it. It is the only
// place stage inclusion is decided; formatters only lay the result out.
// It fails only for a build tool outside the supported set.
func Plan(d descriptor.Descriptor) (*PipelinePlan, []Warning, error) {
	d = descriptor.Normalize(d)
	wrapper, err := command.Wrapper(d.BuildTool)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	tool := d.BuildTool
	params := command.ParamsFor(&d)
	cmd := func(a command.Action, p command.Params) string {
		return command.MustFor(tool, a, p)
	}

	packageOnly := params
	packageOnly.Analyze = false

	plan := &PipelinePlan{Descriptor: d, Wrapper: wrapper}
	add := func(k StageKind, steps ...Step) {
		plan.Stages = append(plan.Stages, Stage{Kind: k, Steps: steps})
	}

	add(StageCheckout,
		Step{Key: "check-java", Title: "check java", Command: "java -version"},
		Step{Key: "wrapper-permissions", Title: "make wrapper executable", Command: "chmod +x " + wrapper},
		Step{Key: "clean", Title: "clean", Command: cmd(command.Clean, params)},
		Step{Key: "nohttp", Title: "nohttp", Command: cmd(command.Checkstyle, params)},
	)
	add(StageInstall,
		Step{Key: "install-tools", Title: "install tools", Command: cmd(command.InstallTools, params)},
		Step{Key: string(d.FrontendTool) + "-install", Title: string(d.FrontendTool) + " install", Command: cmd(command.InstallDependencies, params)},
	)
	add(StageTest,
		Step{Key: "backend-tests", Title: "backend tests", Command: cmd(command.Verify, params)},
		Step{Key: "frontend-tests", Title: "frontend tests", Command: cmd(command.Test, params)},
	)

	if d.HasIntegration(descriptor.SonarAnalysis) {
		if d.SonarURL() == "" && d.SonarName() == "" {
			warnings = append(warnings, Warning{
				Code:    WarnSonarMissingServer,
				Stage:   StageAnalysis.String(),
				Message: "no analysis server configured; emitting a server-less analysis invocation",
			})
		}
		add(StageAnalysis, Step{Key: "quality-analysis", Title: "quality analysis", Command: cmd(command.PackageAndAnalyze, params)})
	}

	add(StagePackage, Step{Key: "packaging", Title: "packaging", Command: cmd(command.PackageAndAnalyze, packageOnly)})

	if d.HasIntegration(descriptor.PublishDockerImage) {
		if d.DockerImageName == "" {
			warnings = append(warnings, Warning{
				Code:    WarnDockerImageMissing,
				Stage:   StagePublishImage.String(),
				Message: "no image name configured; the build file's image settings apply",
			})
		}
		add(StagePublishImage, Step{Key: "publish-docker", Title: "publish docker", Command: cmd(command.BuildAndPublishImage, params)})
	}

	if d.HasIntegration(descriptor.Deploy) {
		switch {
		case d.ArtifactRepository.IsZero():
			warnings = append(warnings, Warning{
				Code:    WarnDeployMissingRepository,
				Stage:   StageDeployArtifacts.String(),
				Message: "deploy requested without artifact repository coordinates; stage omitted",
			})
		default:
			if !d.ArtifactRepository.IsComplete() {
				warnings = append(warnings, Warning{
					Code:    WarnDeployPartialRepository,
					Stage:   StageDeployArtifacts.String(),
					Message: "artifact repository coordinates are incomplete; missing values are left empty",
				})
			}
			add(StageDeployArtifacts, Step{Key: "deploy-artifacts", Title: "deployment", Command: cmd(command.DeployArtifacts, params)})
		}
	}

	if d.HasIntegration(descriptor.HerokuDeploy) {
		add(StageDeployHeroku, Step{Key: "deploy-heroku", Title: "deploy to heroku", Command: cmd(command.DeployHeroku, params)})
	}

	if d.HasIntegration(descriptor.VulnerabilityScan) {
		scan := command.ScanCommands()
		add(StageVulnerabilityScan,
			Step{Key: "snyk-install", Title: "install snyk", Command: scan[0]},
			Step{Key: "snyk-test", Title: "snyk test", Command: scan[1]},
			Step{Key: "snyk-monitor", Title: "snyk monitor", Command: scan[2]},
		)
	}

	return plan, warnings, nil
}
