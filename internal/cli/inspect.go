// inspect.go implements the "chakra inspect" command.
//
// The inspect command prints everything chakra resolved from the project in
// one view: environment settings, dependency groups, build system, source
// patterns, entry points and metadata. It is meant for debugging a
// pyproject.toml and for scripts that want the whole picture at once.

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/chakra/internal/config"
	"github.com/shinji-kodama/chakra/internal/metadata"
	"github.com/shinji-kodama/chakra/internal/model"
	"github.com/shinji-kodama/chakra/internal/pyproject"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// inspectFlags holds the flag values for the inspect command.
type inspectFlags struct {
	// format selects the output format: text, json or yaml.
	format string
}

// NewInspectCommand creates the "inspect" cobra command.
func NewInspectCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the resolved project configuration",
		Long: `Show the resolved project configuration: environments, dependency
groups, build system, source patterns, entry points and metadata.

The global --json flag is a shorthand for --format json.

Examples:
  chakra inspect
  chakra inspect --format yaml`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			format := flags.format
			if IsJSONOutput() {
				format = formatJSON
			}
			switch format {
			case formatText, formatJSON, formatYAML:
			default:
				return model.NewCLIError(model.ExitGeneralError,
					fmt.Sprintf("invalid format %q: valid values are text, json, yaml", format))
			}

			cfg, err := loadProject()
			if err != nil {
				return err
			}
			return printInspectResult(cmd.OutOrStdout(), newInspectView(cfg), format)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", formatText, "Output format: text, json, yaml")

	return cmd
}

// inspectView is the serialized shape of a resolved project.
type inspectView struct {
	ConfigFile  string                      `json:"configFile" yaml:"config_file"`
	ProjectDir  string                      `json:"projectDir" yaml:"project_dir"`
	EnvDir      string                      `json:"envDir" yaml:"env_dir"`
	Python      string                      `json:"python" yaml:"python"`
	VenvTool    string                      `json:"venvTool" yaml:"venv_tool"`
	BuildSystem inspectBuildSystem          `json:"buildSystem" yaml:"build_system"`
	Groups      []inspectGroup              `json:"groups" yaml:"groups"`
	Sources     inspectSources              `json:"sources" yaml:"sources"`
	EntryPoints []pyproject.EntryPointGroup `json:"entryPoints" yaml:"entry_points"`
	Metadata    *metadata.Metadata          `json:"metadata" yaml:"metadata"`
}

type inspectBuildSystem struct {
	Requires []string `json:"requires" yaml:"requires"`
	Backend  string   `json:"backend,omitempty" yaml:"backend,omitempty"`
}

type inspectGroup struct {
	Name         string   `json:"name" yaml:"name"`
	Requirements []string `json:"requirements" yaml:"requirements"`
	EnvPath      string   `json:"envPath" yaml:"env_path"`
	Exists       bool     `json:"exists" yaml:"exists"`
}

type inspectSources struct {
	Include []string `json:"include" yaml:"include"`
	Exclude []string `json:"exclude" yaml:"exclude"`
}

// newInspectView collects the resolved configuration. Slices are never nil
// so that JSON output shows [] instead of null.
func newInspectView(cfg *config.Config) inspectView {
	v := inspectView{
		ConfigFile: cfg.Document.Path,
		ProjectDir: cfg.ProjectDir(),
		EnvDir:     cfg.EnvDir,
		Python:     cfg.Python,
		VenvTool:   cfg.VenvTool,
		BuildSystem: inspectBuildSystem{
			Requires: nonNil(cfg.Document.BuildSystem.Requires),
			Backend:  cfg.Document.BuildSystem.BuildBackend,
		},
		Groups: make([]inspectGroup, 0, len(cfg.Groups)),
		Sources: inspectSources{
			Include: nonNil(cfg.Sources.Includes()),
			Exclude: nonNil(cfg.Sources.Excludes()),
		},
		EntryPoints: cfg.EntryPoints.Groups(),
		Metadata:    cfg.Metadata,
	}

	for _, g := range cfg.Groups {
		v.Groups = append(v.Groups, inspectGroup{
			Name:         g.Name,
			Requirements: nonNil(g.Requirements),
			EnvPath:      cfg.EnvPath(g.Name),
			Exists:       cfg.Environment(g.Name).Exists(),
		})
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// printInspectResult writes the view in the requested format.
func printInspectResult(w io.Writer, v inspectView, format string) error {
	switch format {
	case formatJSON:
		return printJSON(w, v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML output: %w", err)
		}
		return enc.Close()
	default:
		printInspectResultText(w, v)
		return nil
	}
}

// printInspectResultText writes the view as aligned "key: value" lines.
//
// The format is:
//
//	Project:      spam 1.0
//	Config file:  /work/spam/pyproject.toml
//	Env dir:      /work/spam/.envs
//	Python:       python3.12 (virtualenv)
//	Build system: chakra (chakra.backend)
//	Groups:
//	  lint     ruff                  (not created)
//	  build    chakra                (created)
//	Sources:      pyproject.toml, src/spam/**, spam/**
//	Excludes:     -
//	Entry points: console_scripts (1), gui_scripts (0)
func printInspectResultText(w io.Writer, v inspectView) {
	name := v.Metadata.Name
	if v.Metadata.Version != "" {
		name += " " + v.Metadata.Version
	}
	fmt.Fprintf(w, "%-14s%s\n", "Project:", orDash(name))
	fmt.Fprintf(w, "%-14s%s\n", "Config file:", v.ConfigFile)
	fmt.Fprintf(w, "%-14s%s\n", "Env dir:", v.EnvDir)
	fmt.Fprintf(w, "%-14s%s (%s)\n", "Python:", v.Python, v.VenvTool)

	build := joinOrDash(v.BuildSystem.Requires)
	if v.BuildSystem.Backend != "" {
		build += " (" + v.BuildSystem.Backend + ")"
	}
	fmt.Fprintf(w, "%-14s%s\n", "Build system:", build)

	fmt.Fprintln(w, "Groups:")
	for _, g := range v.Groups {
		state := "not created"
		if g.Exists {
			state = "created"
		}
		fmt.Fprintf(w, "  %-8s %-21s (%s)\n", g.Name, joinOrDash(g.Requirements), state)
	}

	fmt.Fprintf(w, "%-14s%s\n", "Sources:", joinOrDash(v.Sources.Include))
	fmt.Fprintf(w, "%-14s%s\n", "Excludes:", joinOrDash(v.Sources.Exclude))

	groups := make([]string, 0, len(v.EntryPoints))
	for _, g := range v.EntryPoints {
		groups = append(groups, fmt.Sprintf("%s (%d)", g.Name, len(g.Entries)))
	}
	fmt.Fprintf(w, "%-14s%s\n", "Entry points:", joinOrDash(groups))
}

func joinOrDash(s []string) string {
	return orDash(strings.Join(s, ", "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
