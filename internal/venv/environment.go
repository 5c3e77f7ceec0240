package venv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/shinji-kodama/chakra/internal/platform"
	"github.com/shinji-kodama/chakra/internal/runner"
	"github.com/shinji-kodama/chakra/internal/tempdir"
)

// DefaultTool is the program used to create environments.
const DefaultTool = "virtualenv"

// DefaultPython is the interpreter used when none is configured.
const DefaultPython = "python"

// Environment is a virtual environment rooted at Path.
type Environment struct {
	// Path is the environment directory.
	Path string

	// Python is the interpreter the environment is created with, as a
	// program name or a path.
	Python string

	// Tool is the environment creation program. Empty means DefaultTool.
	Tool string

	// OS selects the directory layout. The zero value means the running OS.
	OS platform.OS

	// Output, when set, receives the output of the external tools.
	Output io.Writer

	// Logger receives debug messages. Nil means log.Default().
	Logger *log.Logger
}

// New creates an Environment for path. An empty python means DefaultPython.
func New(path, python string) *Environment {
	if python == "" {
		python = DefaultPython
	}
	return &Environment{Path: path, Python: python}
}

func (e *Environment) targetOS() platform.OS {
	if e.OS == "" {
		return platform.Current()
	}
	return e.OS
}

func (e *Environment) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// Name returns the environment's directory name, which is also its prompt.
func (e *Environment) Name() string {
	return filepath.Base(e.Path)
}

// BinDir returns the directory holding the environment's executables.
func (e *Environment) BinDir() string {
	return filepath.Join(e.Path, e.targetOS().ScriptsDir())
}

// PythonExecutable returns the path of the environment's interpreter.
func (e *Environment) PythonExecutable() string {
	return filepath.Join(e.BinDir(), "python"+e.targetOS().ExeSuffix())
}

// PyvenvCfg returns the path of the pyvenv.cfg marker file.
func (e *Environment) PyvenvCfg() string {
	return filepath.Join(e.Path, "pyvenv.cfg")
}

// Exists reports whether the environment has been created.
func (e *Environment) Exists() bool {
	info, err := os.Stat(e.PyvenvCfg())
	return err == nil && info.Mode().IsRegular()
}

// CreateCommand returns the command Create runs. The interpreter is resolved
// through PATH when possible so the environment records an absolute path.
func (e *Environment) CreateCommand() *runner.Command {
	tool := e.Tool
	if tool == "" {
		tool = DefaultTool
	}

	python := e.Python
	if resolved, err := exec.LookPath(python); err == nil {
		if abs, err := filepath.Abs(resolved); err == nil {
			python = abs
		}
	}

	return &runner.Command{
		Args: []string{
			tool, e.Path,
			"--download",
			"--activators", "python",
			"--no-setuptools",
			"--no-wheel",
			"--prompt", e.Name(),
			"--python", python,
		},
		Output: e.Output,
		Logger: e.Logger,
	}
}

// Create creates the environment.
func (e *Environment) Create(ctx context.Context) error {
	e.logger().Debug("creating environment", "path", e.Path, "python", e.Python)

	res, err := e.CreateCommand().Run(ctx)
	if err != nil {
		return err
	}
	return res.Err()
}

// Remove deletes the environment directory. It returns an error wrapping
// fs.ErrNotExist when the environment does not exist.
func (e *Environment) Remove() error {
	if _, err := os.Stat(e.Path); err != nil {
		return fmt.Errorf("environment %s: %w", e.Path, err)
	}
	e.logger().Debug("removing environment", "path", e.Path)
	return os.RemoveAll(e.Path)
}

// ActivationEnv returns the variables that activate the environment for a
// child process: VIRTUAL_ENV, and PATH with the environment's BinDir first.
func (e *Environment) ActivationEnv() map[string]string {
	abs, err := filepath.Abs(e.Path)
	if err != nil {
		abs = e.Path
	}

	path := filepath.Join(abs, e.targetOS().ScriptsDir())
	if current := os.Getenv("PATH"); current != "" {
		path += e.targetOS().PathListSeparator() + current
	}
	return map[string]string{
		"VIRTUAL_ENV": abs,
		"PATH":        path,
	}
}

// Command returns a command that runs inside the activated environment.
func (e *Environment) Command(args ...string) *runner.Command {
	return &runner.Command{
		Args:   args,
		Env:    e.ActivationEnv(),
		Output: e.Output,
		Logger: e.Logger,
	}
}

// Install installs requirements into the environment with pip. Installing
// an empty list is a no-op.
func (e *Environment) Install(ctx context.Context, requirements []string) error {
	if len(requirements) == 0 {
		return nil
	}

	f, err := tempdir.NewFile("requirements.txt")
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(strings.Join(requirements, "\n") + "\n"); err != nil {
		return fmt.Errorf("failed to write requirements: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to write requirements: %w", err)
	}

	e.logger().Debug("installing requirements", "path", e.Path, "count", len(requirements))
	res, err := e.Command(e.PythonExecutable(), "-m", "pip", "install", "-r", f.Name()).Run(ctx)
	if err != nil {
		return err
	}
	return res.Err()
}

// SitePackages returns the environment's site-packages directory. On POSIX
// systems it is lib/python<X.Y>/site-packages; if several interpreter
// directories exist the first in sorted order is used.
func (e *Environment) SitePackages() (string, error) {
	if e.targetOS() == platform.Windows {
		return filepath.Join(e.Path, "Lib", "site-packages"), nil
	}

	matches, err := doublestar.Glob(os.DirFS(e.Path), "lib/python*/site-packages")
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("site-packages in %s: %w", e.Path, fs.ErrNotExist)
	}
	sort.Strings(matches)
	return filepath.Join(e.Path, filepath.FromSlash(matches[0])), nil
}

// HasInstalled reports whether package is installed in the environment.
//
// The package must exist in site-packages as a directory or a module file.
// With an empty version there must be exactly one <package>-*.dist-info
// directory; otherwise <package>-<version>.dist-info must exist.
func (e *Environment) HasInstalled(pkg, version string) (bool, error) {
	sp, err := e.SitePackages()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	if !exists(filepath.Join(sp, pkg)) && !exists(filepath.Join(sp, pkg+".py")) {
		return false, nil
	}

	if version != "" {
		return exists(filepath.Join(sp, pkg+"-"+version+".dist-info")), nil
	}

	matches, err := doublestar.Glob(os.DirFS(sp), pkg+"-*.dist-info")
	if err != nil {
		return false, err
	}
	return len(matches) == 1, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
