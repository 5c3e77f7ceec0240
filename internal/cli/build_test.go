// build_test.go tests the build command's helpers and its pre-build hook.

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/chakra/internal/model"
	"github.com/shinji-kodama/chakra/internal/pyproject"
)

// TestDistInfoName verifies the dist-info directory naming.
func TestDistInfoName(t *testing.T) {
	tests := []struct {
		name    string
		project string
		version string
		want    string
	}{
		{name: "simple", project: "spam", version: "1.0", want: "spam-1.0.dist-info"},
		{name: "dashes", project: "my-project", version: "0.1.0", want: "my_project-0.1.0.dist-info"},
		{name: "mixed case and dots", project: "Zope.Interface", version: "5.4b1", want: "zope_interface-5.4b1.dist-info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DistInfoName(tt.project, tt.version))
		})
	}
}

// withPreBuild sets tool.chakra.pre-build in the test project at path and
// writes the hook script next to it.
func withPreBuild(t *testing.T, path, script, body string) {
	t.Helper()
	dir := filepath.Dir(path)
	writeFile(t, dir, pyproject.FileName, testProject+"\n[tool.chakra]\npre-build = \""+script+"\"\n")
	writeFile(t, dir, script, body)
}

// TestBuildCommand_PreBuildHook verifies the hook runs from the project
// directory inside the build environment before dist-info is written.
func TestBuildCommand_PreBuildHook(t *testing.T) {
	path := setupProject(t)
	fakeTools(t, "3.12.1")
	dir := filepath.Dir(path)
	outdir := filepath.Join(dir, "dist")

	withPreBuild(t, path, "scripts/prebuild.sh", `#!/bin/bash
{
  echo "$PWD"
  echo "$VIRTUAL_ENV"
  echo "$CHAKRA_OUTDIR"
  [ -d "$CHAKRA_OUTDIR" ] && echo "outdir exists" || echo "outdir missing"
} > hook.out
`)

	_, _, err := runCLI(t, "", "build", "--outdir", outdir, "-f", path)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "hook.out"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	wantDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(lines[0])
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
	assert.Equal(t, filepath.Join(dir, ".envs", "build"), lines[1])
	assert.Equal(t, outdir, lines[2])
	assert.Equal(t, "outdir missing", lines[3])

	assert.DirExists(t, filepath.Join(outdir, "spam-1.0.dist-info"))
}

// TestBuildCommand_PreBuildHookErrors verifies failing and unsupported hooks
// stop the build without writing dist-info or keeping a new environment.
func TestBuildCommand_PreBuildHookErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		body   string
		want   model.ExitCode
	}{
		{name: "non-zero exit", script: "prebuild.sh", body: "exit 3\n", want: model.ExitCommandFailed},
		{name: "unsupported extension", script: "prebuild.bat", body: "@echo off\r\n", want: model.ExitConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := setupProject(t)
			fakeTools(t, "3.12.1")
			dir := filepath.Dir(path)
			outdir := filepath.Join(dir, "dist")
			withPreBuild(t, path, tt.script, tt.body)

			_, _, err := runCLI(t, "", "build", "--outdir", outdir, "-f", path)
			require.Error(t, err)
			assert.Equal(t, tt.want, exitCode(err))
			assert.NoDirExists(t, filepath.Join(outdir, "spam-1.0.dist-info"))
			assert.NoDirExists(t, filepath.Join(dir, ".envs", "build"))
		})
	}
}
