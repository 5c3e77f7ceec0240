package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	"github.com/shinji-kodama/chakra/internal/model"
)

// Command is an external program invocation.
type Command struct {
	// Args is the program followed by its arguments. It must not be empty.
	Args []string

	// Env holds the variables passed to the child in addition to PATH.
	// Setting PATH here overrides the inherited value.
	Env map[string]string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Output, when set, also receives stdout and stderr as they are written.
	Output io.Writer

	// Logger receives a debug line per run. Nil means log.Default().
	Logger *log.Logger
}

// Result is the outcome of a finished Command.
type Result struct {
	Args     []string `json:"args"`
	ExitCode int      `json:"exit_code"`
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
}

// OK reports whether the command exited with status 0.
func (r *Result) OK() bool {
	return r.ExitCode == 0
}

// Err converts a failed result into a *model.CLIError carrying
// ExitCommandFailed, or returns nil for a successful one.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	message := fmt.Sprintf("%s exited with status %d", quoteArgs(r.Args), r.ExitCode)
	if r.Stderr != "" {
		message = fmt.Sprintf("%s: %s", message, r.Stderr)
	}
	return model.NewCLIError(model.ExitCommandFailed, message)
}

// New creates a Command for args with no extra environment variables.
func New(args ...string) *Command {
	return &Command{Args: args}
}

// With returns a copy of c with key=value added to its environment.
func (c *Command) With(key, value string) *Command {
	cp := *c
	cp.Env = maps.Clone(c.Env)
	if cp.Env == nil {
		cp.Env = make(map[string]string)
	}
	cp.Env[key] = value
	return &cp
}

// String renders the command line with shell quoting, suitable for logs and
// for pasting into a POSIX shell.
func (c *Command) String() string {
	return quoteArgs(c.Args)
}

// Environ returns the child environment as KEY=value pairs, sorted by key.
func (c *Command) Environ() []string {
	env := map[string]string{"PATH": os.Getenv("PATH")}
	maps.Copy(env, c.Env)

	keys := slices.Sorted(maps.Keys(env))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

// Run starts the command, waits for it and returns its captured output.
// A non-zero exit status is reported in the Result, not as an error.
func (c *Command) Run(ctx context.Context) (*Result, error) {
	if len(c.Args) == 0 {
		return nil, errors.New("runner: empty command")
	}

	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Debug("running command", "cmd", c.String(), "dir", c.Dir)

	// #nosec G204 -- arguments come from the project configuration by design
	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	cmd.Env = c.Environ()
	cmd.Dir = c.Dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if c.Output != nil {
		cmd.Stdout = io.MultiWriter(&stdout, c.Output)
		cmd.Stderr = io.MultiWriter(&stderr, c.Output)
	}

	result := &Result{Args: slices.Clone(c.Args)}

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			return nil, fmt.Errorf("%s: %w", c.String(), ctx.Err())
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
			result.ExitCode = int(model.ExitCommandNotFound)
			result.Stderr = "command not found: " + c.Args[0]
			logger.Debug("command not found", "name", c.Args[0])
			return result, nil
		default:
			return nil, fmt.Errorf("failed to run %s: %w", c.String(), err)
		}
	}

	result.Stdout = strings.TrimSpace(stdout.String())
	result.Stderr = strings.TrimSpace(stderr.String())
	logger.Debug("command finished", "cmd", c.String(), "exit", result.ExitCode)
	return result, nil
}

// quoteArgs joins args with POSIX shell quoting. Arguments that cannot be
// expressed in shell syntax (such as those containing NUL bytes) fall back to
// Go string quoting.
func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		q, err := syntax.Quote(arg, syntax.LangPOSIX)
		if err != nil {
			q = strconv.Quote(arg)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}
