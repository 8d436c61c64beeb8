package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lucasnoah/pipegen/internal/render"
)

// resetFlags restores every flag to its default so executions do not leak
// state into each other through the package-level flag variables.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func executeCommand(args ...string) (string, error) {
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

const samplePom = "<project>\n    <artifactId>sample</artifactId>\n</project>\n"

const fullDescriptor = `platform: jenkins
project:
  base_name: sampleMysql
  build_tool: maven
  docker_execution_mode: true
  integrations: [deploy, sonar, publishDocker, heroku, snyk]
  artifact_repository:
    snapshots_id: snapshots
    snapshots_url: http://artifactory:8081/artifactory/libs-snapshot
    releases_id: releases
    releases_url: http://artifactory:8081/artifactory/libs-release
  analysis_server:
    name: sonar
    url: https://sonar.com
  docker_image_name: jhipster-publish-docker
`

func TestVersionCommand(t *testing.T) {
	SetVersion("test-version")
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "test-version") {
		t.Errorf("expected version output to contain 'test-version', got: %s", out)
	}
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedSubcommands := []string{
		"generate", "autoconfigure", "batch", "watch",
		"descriptor", "platforms", "version",
	}
	for _, sub := range expectedSubcommands {
		if !strings.Contains(out, sub) {
			t.Errorf("help output missing subcommand %q", sub)
		}
	}
}

func TestDescriptorSubcommands(t *testing.T) {
	subcmds := []string{"validate", "show"}
	for _, sub := range subcmds {
		out, err := executeCommand("descriptor", sub, "--help")
		if err != nil {
			t.Errorf("descriptor %s --help failed: %v", sub, err)
		}
		if out == "" {
			t.Errorf("descriptor %s --help produced no output", sub)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := executeCommand("nonexistent")
	if err == nil {
		t.Error("expected error for unknown command, got nil")
	}
}

func TestInvalidLogFormat(t *testing.T) {
	_, err := executeCommand("platforms", "--log-format", "xml")
	if err == nil || !strings.Contains(err.Error(), "--log-format") {
		t.Errorf("expected log format error, got %v", err)
	}
}

func TestPlatformsCommand(t *testing.T) {
	out, err := executeCommand("platforms")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range render.Platforms() {
		if !strings.Contains(out, string(p)) || !strings.Contains(out, p.Path()) {
			t.Errorf("platforms output missing %s (%s):\n%s", p, p.Path(), out)
		}
	}
}

func TestGenerate_DryRunFromDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pipegen.yaml"), fullDescriptor)

	out, err := executeCommand("generate", "--dir", dir, "--dry-run", "--log-level", "error")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	for _, want := range []string{
		"--- Jenkinsfile ---",
		"--- " + render.JenkinsComposePath + " ---",
		"--- " + render.JenkinsGDSLPath + " ---",
		"def dockerImage",
		"withSonarQubeEnv('sonar')",
		"--- pom.xml (fragment) ---",
		"<distributionManagement>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dry-run output missing %q", want)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "Jenkinsfile")); !errors.Is(err, os.ErrNotExist) {
		t.Error("dry run must not write files")
	}
}

func TestGenerate_WritesFilesAndBuildFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pipegen.yaml"), fullDescriptor)
	writeFile(t, filepath.Join(dir, "pom.xml"), samplePom)

	out, err := executeCommand("generate", "--dir", dir, "--platform", "github", "--apply-build-file")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}

	workflow := readFile(t, filepath.Join(dir, render.GitHub.Path()))
	if !strings.Contains(workflow, "-Dsonar.host.url=https://sonar.com") {
		t.Errorf("workflow missing sonar URL:\n%s", workflow)
	}
	pom := readFile(t, filepath.Join(dir, "pom.xml"))
	if strings.Count(pom, "<distributionManagement>") != 1 {
		t.Errorf("expected distribution management once:\n%s", pom)
	}

	// Second run leaves the build file alone.
	out, err = executeCommand("generate", "--dir", dir, "--platform", "github", "--apply-build-file")
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if !strings.Contains(out, "already has distribution management") {
		t.Errorf("expected idempotent build-file message, got:\n%s", out)
	}
	if readFile(t, filepath.Join(dir, "pom.xml")) != pom {
		t.Error("build file changed on second run")
	}
}

func TestGenerate_FlagOverridesWithoutDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "build.gradle"), "")

	out, err := executeCommand("generate", "--dir", dir, "--platform", "gitlab", "--docker", "-i", "snyk", "--dry-run")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "image: "+render.BaseImage) {
		t.Errorf("expected base image in docker mode:\n%s", out)
	}
	if !strings.Contains(out, "./gradlew") {
		t.Errorf("expected gradle commands from detected build.gradle:\n%s", out)
	}
	if !strings.Contains(out, "snyk test") {
		t.Errorf("expected scan stage:\n%s", out)
	}
}

func TestGenerate_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := executeCommand("generate", "--dir", dir, "--dry-run"); err == nil || !strings.Contains(err.Error(), "no platform") {
		t.Errorf("expected missing platform error, got %v", err)
	}

	_, err := executeCommand("generate", "--dir", dir, "--platform", "bamboo", "--dry-run")
	if !errors.Is(err, render.ErrUnknownPlatform) {
		t.Errorf("expected ErrUnknownPlatform, got %v", err)
	}

	if _, err := executeCommand("generate", "--dir", dir, "--platform", "github", "-i", "ftp", "--dry-run"); err == nil {
		t.Error("expected error for unknown integration flag")
	}

	writeFile(t, filepath.Join(dir, "pipegen.yaml"), "project:\n  build_tool: ant\n")
	if _, err := executeCommand("generate", "--dir", dir, "--platform", "github", "--dry-run"); err == nil || !strings.Contains(err.Error(), "validation") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestAutoconfigure_KeepsBaseImage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pom.xml"), samplePom)
	writeFile(t, filepath.Join(dir, ".gitlab-ci.yml"), "image: "+render.BaseImage+"\nstages:\n  - build\n")

	out, err := executeCommand("autoconfigure", "--dir", dir, "--platform", "gitlab")
	if err != nil {
		t.Fatalf("autoconfigure: %v\n%s", err, out)
	}
	content := readFile(t, filepath.Join(dir, ".gitlab-ci.yml"))
	if !strings.Contains(content, "image: "+render.BaseImage) {
		t.Errorf("regenerated file lost the base image:\n%s", content)
	}
	for _, marker := range []string{"sonar", "heroku", "snyk", "jib"} {
		if strings.Contains(content, marker) {
			t.Errorf("regenerated file contains %q", marker)
		}
	}
}

func TestDescriptorValidateAndShow(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	writeFile(t, good, "project:\n  integrations: [snyk]\n")

	out, err := executeCommand("descriptor", "validate", "-f", good)
	if err != nil || !strings.Contains(out, "Descriptor is valid.") {
		t.Errorf("validate good: err=%v out=%s", err, out)
	}

	out, err = executeCommand("descriptor", "show", "-f", good)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"build_tool: maven", "frontend_tool: npm", "- vulnerabilityScan", "heroku_app_name: app"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "platform: bamboo\nproject:\n  frontend_tool: pnpm\n")
	out, err = executeCommand("descriptor", "validate", "-f", bad)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(out, "platform") || !strings.Contains(out, "project.frontend_tool") {
		t.Errorf("validate output missing fields:\n%s", out)
	}
}

func TestBatchCommand(t *testing.T) {
	root := t.TempDir()
	shop := filepath.Join(root, "shop")
	empty := filepath.Join(root, "empty")
	writeFile(t, filepath.Join(shop, "pom.xml"), samplePom)
	writeFile(t, filepath.Join(shop, "Jenkinsfile"), "node {}\n")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand("batch", shop, empty, "--concurrency", "2")
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("expected one failed project, got %v", err)
	}
	if !strings.Contains(out, "no pipeline files found") {
		t.Errorf("expected failure reason in table:\n%s", out)
	}
	if !strings.Contains(readFile(t, filepath.Join(shop, "Jenkinsfile")), "checkout scm") {
		t.Error("Jenkinsfile not regenerated")
	}
}
