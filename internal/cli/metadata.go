// metadata.go implements the read-only project commands:
// "metadata", "entry-points" and "sources".
//
// Each command loads the project once and prints one derived artifact in
// the format it would have inside a built distribution, or as JSON with
// the --json flag.

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/chakra/internal/config"
	"github.com/shinji-kodama/chakra/internal/pyproject"
)

// NewMetadataCommand creates the "metadata" cobra command.
func NewMetadataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Print the package metadata",
		Long: `Print the core metadata resolved from the [project] table, in the
METADATA format used inside built distributions.

Examples:
  chakra metadata
  chakra metadata --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			return printMetadata(cmd.OutOrStdout(), cfg)
		},
	}
}

// printMetadata writes the resolved metadata as METADATA text or JSON.
func printMetadata(w io.Writer, cfg *config.Config) error {
	if IsJSONOutput() {
		return printJSON(w, cfg.Metadata)
	}
	_, err := cfg.Metadata.WriteTo(w)
	return err
}

// NewEntryPointsCommand creates the "entry-points" cobra command.
func NewEntryPointsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "entry-points",
		Short: "Print the entry points",
		Long: `Print the entry points declared by project.scripts, project.gui-scripts
and project.entry-points, in the entry_points.txt format.

Examples:
  chakra entry-points
  chakra entry-points --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			return printEntryPoints(cmd.OutOrStdout(), cfg)
		},
	}
}

// printEntryPoints writes the entry points as INI text or as a JSON array of
// groups.
func printEntryPoints(w io.Writer, cfg *config.Config) error {
	if IsJSONOutput() {
		type resultJSON struct {
			Groups []pyproject.EntryPointGroup `json:"groups"`
		}
		return printJSON(w, resultJSON{Groups: cfg.EntryPoints.Groups()})
	}
	_, err := fmt.Fprintln(w, cfg.EntryPoints.Text())
	return err
}

// NewSourcesCommand creates the "sources" cobra command.
func NewSourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the distributable source files",
		Long: `List the files matched by the project's source set, relative to the
project directory. The set always contains the configuration file and the
src-layout and flat-layout globs of every package in
[tool.chakra.source].packages.

Examples:
  chakra sources
  chakra sources --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProject()
			if err != nil {
				return err
			}
			files, err := cfg.Sources.Expand(cfg.ProjectDir())
			if err != nil {
				return err
			}
			VerboseLog("Matched %d files", len(files))
			return printSources(cmd.OutOrStdout(), cfg, files)
		},
	}
}

// printSources writes the expanded file list one path per line, or as JSON
// together with the patterns it was expanded from.
func printSources(w io.Writer, cfg *config.Config, files []string) error {
	if IsJSONOutput() {
		type resultJSON struct {
			Include []string `json:"include"`
			Exclude []string `json:"exclude"`
			Files   []string `json:"files"`
		}
		// Empty slices keep the JSON output as [] instead of null.
		result := resultJSON{
			Include: append([]string{}, cfg.Sources.Includes()...),
			Exclude: append([]string{}, cfg.Sources.Excludes()...),
			Files:   append([]string{}, files...),
		}
		return printJSON(w, result)
	}

	for _, f := range files {
		if _, err := fmt.Fprintln(w, f); err != nil {
			return err
		}
	}
	return nil
}
