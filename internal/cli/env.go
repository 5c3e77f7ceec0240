// env.go implements the "chakra env" command group.
//
// Every development dependency group of a project (including the reserved
// build group) owns one virtual environment at <env-dir>/<group>. The
// subcommands manage those environments:
//
//	env create <group>    create the environment and install the group
//	env remove <group>    delete the environment
//	env list              show every group and whether its environment exists
//	env sync [group...]   create and install several groups concurrently

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shinji-kodama/chakra/internal/config"
	"github.com/shinji-kodama/chakra/internal/model"
	"github.com/shinji-kodama/chakra/internal/pyproject"
	"github.com/shinji-kodama/chakra/internal/venv"
)

// syncConcurrency bounds the number of environments set up at once by
// "env sync".
const syncConcurrency = 4

// NewEnvCommand creates the "env" cobra command and its subcommands.
func NewEnvCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage dependency group environments",
		Long: `Manage the virtual environments of the project's dependency groups.

Groups are declared under [tool.chakra.dev-deps]; the reserved "build"
group holds build-system.requires.

Examples:
  chakra env create test
  chakra env list
  chakra env sync
  chakra env remove --force test`,
	}

	cmd.AddCommand(newEnvCreateCommand())
	cmd.AddCommand(newEnvRemoveCommand())
	cmd.AddCommand(newEnvListCommand())
	cmd.AddCommand(newEnvSyncCommand())

	return cmd
}

// envResultJSON is the JSON output structure for one environment.
type envResultJSON struct {
	Group        string   `json:"group"`
	Path         string   `json:"path"`
	Requirements []string `json:"requirements"`
	Exists       bool     `json:"exists"`

	// Installed lists the requirements found in the environment's
	// site-packages.
	Installed []string `json:"installed"`
}

func newEnvResult(cfg *config.Config, g pyproject.Group) envResultJSON {
	env := cfg.Environment(g.Name)
	r := envResultJSON{
		Group:        g.Name,
		Path:         env.Path,
		Requirements: nonNil(g.Requirements),
		Exists:       env.Exists(),
		Installed:    []string{},
	}
	if r.Exists {
		r.Installed = installedRequirements(env, g.Requirements)
	}
	return r
}

// installedRequirements returns the requirements whose package is present in
// env. A requirement that cannot be checked counts as not installed.
func installedRequirements(env *venv.Environment, requirements []string) []string {
	installed := []string{}
	for _, req := range requirements {
		name := pyproject.RequirementName(req)
		if name == "" {
			continue
		}
		ok, err := env.HasInstalled(pyproject.PackageName(name), "")
		if err != nil {
			logger.Warn("cannot check requirement", "requirement", req, "env", env.Path, "err", err)
			continue
		}
		if ok {
			installed = append(installed, req)
		}
	}
	return installed
}

// lookupGroup returns the dependency group called name, or a CLIError with
// ExitEnvNotFound listing the groups that do exist.
func lookupGroup(cfg *config.Config, name string) (pyproject.Group, error) {
	g, ok := cfg.Group(name)
	if !ok {
		return pyproject.Group{}, model.NewCLIError(model.ExitEnvNotFound,
			fmt.Sprintf("unknown dependency group %q (available: %s)", name, strings.Join(cfg.GroupNames(), ", ")))
	}
	return g, nil
}

// checkInterpreter verifies the configured interpreter against the
// project's requires-python.
func checkInterpreter(ctx context.Context, cfg *config.Config) error {
	v, err := venv.CheckInterpreter(ctx, cfg.Python, cfg.Metadata.RequiresPython)
	if err != nil {
		return err
	}
	VerboseLog("Using %s (Python %s)", cfg.Python, v)
	return nil
}

// setupEnvironment creates the environment of group g unless it already
// exists, then installs the group's requirements into it. created reports
// whether this call created the environment. Tool output goes to out when it
// is non-nil.
func setupEnvironment(ctx context.Context, cfg *config.Config, g pyproject.Group, out io.Writer) (env *venv.Environment, created bool, err error) {
	env = cfg.Environment(g.Name)
	env.Logger = logger
	env.Output = out

	if env.Exists() {
		VerboseLog("Environment %q already exists at %s", g.Name, env.Path)
	} else {
		VerboseLog("Creating environment %q at %s", g.Name, env.Path)
		if err := env.Create(ctx); err != nil {
			return nil, false, fmt.Errorf("failed to create environment %q: %w", g.Name, err)
		}
		created = true
	}

	VerboseLog("Installing %d requirement(s) into %q", len(g.Requirements), g.Name)
	if err := env.Install(ctx, g.Requirements); err != nil {
		return nil, created, fmt.Errorf("failed to install group %q: %w", g.Name, err)
	}
	return env, created, nil
}

// toolOutput returns where external tool output is shown: stderr in verbose
// mode, nowhere otherwise.
func toolOutput(cmd *cobra.Command) io.Writer {
	if verbose {
		return cmd.ErrOrStderr()
	}
	return nil
}

func newEnvCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <group>",
		Short: "Create a group's environment and install its requirements",
		Long: `Create the virtual environment of a dependency group and install the
group's requirements into it. An existing environment is reused.

The configured interpreter must satisfy project.requires-python.

Examples:
  chakra env create test
  chakra env create build`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			g, err := lookupGroup(cfg, args[0])
			if err != nil {
				return err
			}
			if err := checkInterpreter(cmd.Context(), cfg); err != nil {
				return err
			}
			if _, _, err := setupEnvironment(cmd.Context(), cfg, g, toolOutput(cmd)); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if IsJSONOutput() {
				return printJSON(w, newEnvResult(cfg, g))
			}
			fmt.Fprintf(w, "Created environment %q at %s\n", g.Name, cfg.EnvPath(g.Name))
			fmt.Fprintf(w, "  Installed %d requirement(s)\n", len(g.Requirements))
			return nil
		},
	}
}

// envRemoveFlags holds the flag values for the env remove command.
type envRemoveFlags struct {
	// force skips the interactive confirmation prompt when true.
	force bool
}

func newEnvRemoveCommand() *cobra.Command {
	flags := &envRemoveFlags{}

	cmd := &cobra.Command{
		Use:   "remove <group>",
		Short: "Remove a group's environment",
		Long: `Remove the virtual environment of a dependency group.

Unless --force is specified, the command prompts for confirmation.

Examples:
  chakra env remove test
  chakra env remove --force test`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			g, err := lookupGroup(cfg, args[0])
			if err != nil {
				return err
			}

			env := cfg.Environment(g.Name)
			env.Logger = logger

			if !flags.force {
				confirmed, err := promptConfirmation(cmd.InOrStdin(), cmd.ErrOrStderr(), g.Name, env.Path)
				if err != nil {
					return model.WrapCLIError(model.ExitGeneralError, "failed to read user input", err)
				}
				if !confirmed {
					return model.NewCLIError(model.ExitGeneralError, "operation cancelled by user")
				}
			}

			if err := env.Remove(); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return model.WrapCLIError(model.ExitEnvNotFound,
						fmt.Sprintf("environment %q does not exist", g.Name), err)
				}
				return model.WrapCLIError(model.ExitGeneralError,
					fmt.Sprintf("failed to remove environment %q", g.Name), err)
			}

			w := cmd.OutOrStdout()
			if IsJSONOutput() {
				return printJSON(w, map[string]interface{}{
					"group":  g.Name,
					"action": "removed",
					"path":   env.Path,
				})
			}
			fmt.Fprintf(w, "Removed environment %q at %s\n", g.Name, env.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "Remove without confirmation")

	return cmd
}

// promptConfirmation asks the user to confirm removing an environment.
// It reads a single line from in and checks for "y" or "yes".
// Returns true if the user confirmed, false otherwise.
func promptConfirmation(in io.Reader, out io.Writer, group, path string) (bool, error) {
	fmt.Fprintf(out, "About to remove environment %q at %s\n", group, path)
	fmt.Fprint(out, "\nContinue? [y/N] ")

	// bufio.Scanner handles both LF and CRLF line endings.
	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	}

	// If input is closed or an error occurred, treat it as "no".
	if err := scanner.Err(); err != nil {
		return false, err
	}

	return false, nil
}

func newEnvListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dependency groups and their environments",
		Long: `List every dependency group with its environment path, whether the
environment has been created and how many of the group's requirements are
installed in it.

Examples:
  chakra env list
  chakra env list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}

			results := make([]envResultJSON, 0, len(cfg.Groups))
			for _, g := range cfg.Groups {
				results = append(results, newEnvResult(cfg, g))
			}
			return printEnvList(cmd.OutOrStdout(), results)
		},
	}
}

// printEnvList outputs the environment list in text or JSON format.
func printEnvList(w io.Writer, results []envResultJSON) error {
	if IsJSONOutput() {
		type resultJSON struct {
			Environments []envResultJSON `json:"environments"`
		}
		return printJSON(w, resultJSON{Environments: results})
	}
	printEnvListText(w, results)
	return nil
}

// printEnvListText outputs the environment list as a text table with
// aligned columns. PACKAGES shows installed/declared requirements.
//
// The table format is:
//
//	GROUP      STATUS       PACKAGES   PATH
//	test       created      1/2        /work/spam/.envs/test
//	build      missing      0/1        /work/spam/.envs/build
func printEnvListText(w io.Writer, results []envResultJSON) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No dependency groups found.")
		return
	}

	fmt.Fprintf(w, "%-10s %-12s %-10s %s\n", "GROUP", "STATUS", "PACKAGES", "PATH")
	for _, r := range results {
		packages := fmt.Sprintf("%d/%d", len(r.Installed), len(r.Requirements))
		fmt.Fprintf(w, "%-10s %-12s %-10s %s\n", r.Group, FormatEnvStatus(r.Exists), packages, r.Path)
	}
}

// FormatEnvStatus renders whether an environment exists.
func FormatEnvStatus(exists bool) string {
	if exists {
		return "created"
	}
	return "missing"
}

func newEnvSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [group...]",
		Short: "Create and install environments for several groups",
		Long: `Create and install the environments of the named dependency groups, or
of every group when none is named. Environments are set up concurrently.

Examples:
  chakra env sync
  chakra env sync lint test`,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			groups, err := selectGroups(cfg, args)
			if err != nil {
				return err
			}
			if err := checkInterpreter(cmd.Context(), cfg); err != nil {
				return err
			}

			if err := syncEnvironments(cmd.Context(), cfg, groups, toolOutput(cmd)); err != nil {
				return err
			}

			results := make([]envResultJSON, 0, len(groups))
			for _, g := range groups {
				results = append(results, newEnvResult(cfg, g))
			}
			w := cmd.OutOrStdout()
			if IsJSONOutput() {
				return printEnvList(w, results)
			}
			for _, r := range results {
				fmt.Fprintf(w, "Synced environment %q at %s\n", r.Group, r.Path)
			}
			return nil
		},
	}
}

// selectGroups resolves group names to groups, in the given order. No names
// selects every group.
func selectGroups(cfg *config.Config, names []string) ([]pyproject.Group, error) {
	if len(names) == 0 {
		return cfg.Groups, nil
	}
	groups := make([]pyproject.Group, 0, len(names))
	for _, name := range names {
		g, err := lookupGroup(cfg, name)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// syncEnvironments sets up the environments of groups with at most
// syncConcurrency running at once. The first failure cancels the rest.
func syncEnvironments(ctx context.Context, cfg *config.Config, groups []pyproject.Group, out io.Writer) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(syncConcurrency)

	for _, g := range groups {
		eg.Go(func() error {
			_, _, err := setupEnvironment(ctx, cfg, g, out)
			return err
		})
	}
	return eg.Wait()
}
