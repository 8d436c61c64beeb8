// Package autoconfig infers a Descriptor from what already exists in a
// target project so pipelines can be regenerated without prompting.
package autoconfig

import (
	"encoding/json"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/lucasnoah/pipegen/internal/descriptor"
	"github.com/lucasnoah/pipegen/internal/render"
)

// Result holds the inferred descriptor and the evidence behind it.
type Result struct {
	Descriptor descriptor.Descriptor `json:"descriptor"`
	PriorFile  string                `json:"prior_file,omitempty"`
	Reasons    []string              `json:"reasons"`
}

// build-tool marker files, checked in order
var buildToolMarkers = []struct {
	file string
	tool descriptor.BuildTool
}{
	{"pom.xml", descriptor.Maven},
	{"build.gradle", descriptor.Gradle},
	{"build.gradle.kts", descriptor.Gradle},
}

// Infer reads the project in fsys and returns a descriptor for platform.
// It never fails: anything missing or unreadable resolves to the safe
// default of no integrations and no container execution.
func Infer(fsys billy.Filesystem, platform render.Platform) *Result {
	result := &Result{
		Descriptor: descriptor.Descriptor{Integrations: []descriptor.Integration{}},
		Reasons:    []string{},
	}

	if name := DetectBaseName(fsys); name != "" {
		result.Descriptor.BaseName = name
		result.Reasons = append(result.Reasons, "Base name taken from package.json: "+name)
	}
	if tool, marker := detectBuildTool(fsys); tool != "" {
		result.Descriptor.BuildTool = tool
		result.Reasons = append(result.Reasons, "Build tool "+string(tool)+" detected from "+marker)
	}
	if fe := DetectFrontendTool(fsys); fe == descriptor.Yarn {
		result.Descriptor.FrontendTool = fe
		result.Reasons = append(result.Reasons, "Frontend tool yarn detected from yarn.lock")
	}

	path := platform.Path()
	if path == "" {
		result.Reasons = append(result.Reasons, "Unknown platform "+string(platform)+", using defaults")
		return result
	}
	data, err := util.ReadFile(fsys, path)
	if err != nil {
		result.Reasons = append(result.Reasons, "No prior "+path+", using defaults")
		return result
	}
	result.PriorFile = path

	if strings.Contains(string(data), render.BaseImageRepository) {
		result.Descriptor.DockerExecutionMode = true
		result.Reasons = append(result.Reasons, "Prior "+path+" references "+render.BaseImageRepository+", running stages in a container")
	} else {
		result.Reasons = append(result.Reasons, "Prior "+path+" runs on a bare agent")
	}
	return result
}

// DetectBuildTool returns the build tool whose marker file exists at the
// project root, or "" when none does.
func DetectBuildTool(fsys billy.Filesystem) descriptor.BuildTool {
	tool, _ := detectBuildTool(fsys)
	return tool
}

func detectBuildTool(fsys billy.Filesystem) (descriptor.BuildTool, string) {
	for _, m := range buildToolMarkers {
		if exists(fsys, m.file) {
			return m.tool, m.file
		}
	}
	return "", ""
}

// DetectFrontendTool returns yarn when a yarn.lock exists, npm otherwise.
func DetectFrontendTool(fsys billy.Filesystem) descriptor.FrontendTool {
	if exists(fsys, "yarn.lock") {
		return descriptor.Yarn
	}
	return descriptor.NPM
}

// DetectBaseName reads the application name from package.json. Returns ""
// when the file is missing, malformed or has no name.
func DetectBaseName(fsys billy.Filesystem) string {
	data, err := util.ReadFile(fsys, "package.json")
	if err != nil {
		return ""
	}
	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	// scoped packages: @org/name
	name := pkg.Name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}

// ExistingPlatforms lists the platforms whose pipeline file is present.
func ExistingPlatforms(fsys billy.Filesystem) []render.Platform {
	var found []render.Platform
	for _, p := range render.Platforms() {
		if exists(fsys, p.Path()) {
			found = append(found, p)
		}
	}
	return found
}

func exists(fsys billy.Filesystem, path string) bool {
	fi, err := fsys.Stat(path)
	return err == nil && !fi.IsDir()
}
