// build.go implements the "chakra build" command.
//
// The build command prepares the build environment and writes the
// distribution metadata directory:
//
//  1. Check the host platform and the interpreter against
//     project.requires-python
//  2. Create <env-dir>/build and install build-system.requires into it
//  3. Run the [tool.chakra] pre-build hook inside the build environment
//  4. Write <outdir>/<name>-<version>.dist-info/ with METADATA,
//     entry_points.txt and SOURCES.txt
//  5. Remove the build environment if step 2 created it, unless --keep-env
//     is given
//
// Producing wheel or sdist archives from the dist-info directory is left to
// the build backend.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/chakra/internal/config"
	"github.com/shinji-kodama/chakra/internal/model"
	"github.com/shinji-kodama/chakra/internal/platform"
	"github.com/shinji-kodama/chakra/internal/pyproject"
	"github.com/shinji-kodama/chakra/internal/runner"
	"github.com/shinji-kodama/chakra/internal/venv"
)

// outdirEnvVar tells the pre-build hook where the dist-info directory goes.
const outdirEnvVar = "CHAKRA_OUTDIR"

// Files written into the dist-info directory.
const (
	metadataFileName    = "METADATA"
	entryPointsFileName = "entry_points.txt"
	sourcesFileName     = "SOURCES.txt"
)

// buildFlags holds the flag values for the build command.
type buildFlags struct {
	// outdir is the directory the dist-info directory is written into.
	outdir string

	// keepEnv preserves the build environment after the build when true.
	keepEnv bool
}

// NewBuildCommand creates the "build" cobra command.
func NewBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the distribution metadata",
		Long: `Create the build environment, install build-system.requires into it and
write the <name>-<version>.dist-info directory with METADATA,
entry_points.txt and SOURCES.txt.

If [tool.chakra] sets pre-build, that script runs inside the build
environment first, from the project directory, with CHAKRA_OUTDIR set to
the absolute output directory. Scripts ending in .sh (or with no
extension) run with bash, .py with the environment's python and .ps1 with
powershell.

A build environment created by this command is removed afterwards unless
--keep-env is given. An environment that already existed is left in place.

Examples:
  chakra build
  chakra build --outdir out --keep-env`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) (err error) {
			host, err := platform.Detect()
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "cannot build on this platform", err)
			}
			VerboseLog("Building on %s", host)

			cfg, err := loadProject()
			if err != nil {
				return err
			}
			build, err := lookupGroup(cfg, config.BuildGroup)
			if err != nil {
				return err
			}
			if err := checkInterpreter(cmd.Context(), cfg); err != nil {
				return err
			}

			env, created, err := setupEnvironment(cmd.Context(), cfg, build, toolOutput(cmd))
			if err != nil {
				return err
			}
			if created && !flags.keepEnv {
				defer func() {
					VerboseLog("Removing build environment at %s", env.Path)
					if rmErr := env.Remove(); rmErr != nil && err == nil {
						err = model.WrapCLIError(model.ExitGeneralError, "failed to remove build environment", rmErr)
					}
				}()
			}

			if err := runPreBuildHook(cmd.Context(), cfg, env, flags.outdir); err != nil {
				return err
			}

			distInfo, files, err := writeDistInfo(cfg, flags.outdir)
			if err != nil {
				return err
			}
			kept := ""
			if !created || flags.keepEnv {
				kept = env.Path
			}
			return printBuildResult(cmd.OutOrStdout(), host, distInfo, files, kept)
		},
	}

	cmd.Flags().StringVar(&flags.outdir, "outdir", "dist", "Output directory")
	cmd.Flags().BoolVar(&flags.keepEnv, "keep-env", false, "Keep the build environment")

	return cmd
}

// DistInfoName returns the dist-info directory name for a project:
// "<name>-<version>.dist-info", with the name normalized like a package name.
func DistInfoName(name, version string) string {
	return fmt.Sprintf("%s-%s.dist-info", pyproject.PackageName(name), version)
}

// runPreBuildHook runs the project's pre-build script, if any, inside env.
// The script path is resolved against the project directory and the script
// runs from there.
func runPreBuildHook(ctx context.Context, cfg *config.Config, env *venv.Environment, outdir string) error {
	script := cfg.Document.Chakra.PreBuild
	if script == "" {
		return nil
	}
	if !filepath.IsAbs(script) {
		script = filepath.Join(cfg.ProjectDir(), script)
	}

	hook, err := runner.NewHook(script)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid pre-build hook", err)
	}
	absOut, err := filepath.Abs(outdir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to resolve output directory", err)
	}

	args := hook.Args
	if hook.Interpreter == "python" {
		args = append([]string{env.PythonExecutable()}, args[1:]...)
	}
	c := env.Command(args...).With(outdirEnvVar, absOut)
	c.Dir = cfg.ProjectDir()

	VerboseLog("Running pre-build hook %s", hook.Script)
	res, err := c.Run(ctx)
	if err != nil {
		return err
	}
	return res.Err()
}

// writeDistInfo writes the dist-info directory for cfg under outdir and
// returns its path and the source files listed in SOURCES.txt.
func writeDistInfo(cfg *config.Config, outdir string) (string, []string, error) {
	md := cfg.Metadata
	if md.Name == "" || md.Version == "" {
		return "", nil, model.NewCLIError(model.ExitConfigInvalid,
			"project.name and project.version are required to build")
	}

	files, err := cfg.Sources.Expand(cfg.ProjectDir())
	if err != nil {
		return "", nil, err
	}

	dir := filepath.Join(outdir, DistInfoName(md.Name, md.Version))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{metadataFileName, func(w io.Writer) error { _, err := md.WriteTo(w); return err }},
		{entryPointsFileName, func(w io.Writer) error { _, err := cfg.EntryPoints.WriteTo(w); return err }},
		{sourcesFileName, func(w io.Writer) error { return writeLines(w, files) }},
	}
	for _, fw := range writers {
		path := filepath.Join(dir, fw.name)
		VerboseLog("Writing %s", path)
		if err := writeFileWith(path, fw.write); err != nil {
			return "", nil, err
		}
	}
	return dir, files, nil
}

// writeFileWith creates path and fills it with write.
func writeFileWith(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func writeLines(w io.Writer, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// printBuildResult outputs the build result in text or JSON format. keptEnv
// is the path of the build environment left in place, or "" when it was
// removed.
func printBuildResult(w io.Writer, host platform.Platform, distInfo string, files []string, keptEnv string) error {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"platform":    host.String(),
			"distInfo":    distInfo,
			"sourceCount": len(files),
			"files":       []string{metadataFileName, entryPointsFileName, sourcesFileName},
		}
		if keptEnv != "" {
			result["buildEnv"] = keptEnv
		}
		return printJSON(w, result)
	}

	fmt.Fprintf(w, "Built %s on %s\n", distInfo, host)
	fmt.Fprintf(w, "  %d source file(s) listed in %s\n", len(files), sourcesFileName)
	if keptEnv != "" {
		fmt.Fprintf(w, "  Build environment kept at %s\n", keptEnv)
	}
	return nil
}
