// init.go implements the "chakra init" command.
//
// The init command writes a minimal pyproject.toml for a new project with
// [project], [build-system] and [tool.chakra] tables. An existing file is
// never overwritten.

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/chakra/internal/model"
	"github.com/shinji-kodama/chakra/internal/pyproject"
)

// initFlags holds the flag values for the init command.
type initFlags struct {
	name           string
	version        string
	description    string
	requiresPython string

	// authors are "Name <email>", "Name" or "email" strings.
	authors []string
}

// NewInitCommand creates the "init" cobra command.
func NewInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a pyproject.toml for a new project",
		Long: `Create a pyproject.toml for a new project.

The project name defaults to the name of the directory the file is created
in. The command fails if the file already exists.

Examples:
  chakra init
  chakra init --name spam --version 1.0.0 --author "Jane Doe <jane@example.com>"`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "Project name (default: directory name)")
	cmd.Flags().StringVar(&flags.version, "version", "0.1.0", "Project version")
	cmd.Flags().StringVar(&flags.description, "description", "", "One-line project summary")
	cmd.Flags().StringVar(&flags.requiresPython, "requires-python", "", "Supported Python versions (e.g. \">=3.9\")")
	cmd.Flags().StringArrayVar(&flags.authors, "author", nil, "Author as \"Name <email>\" (repeatable)")

	return cmd
}

// runInit is the main logic function for the init command.
func runInit(cmd *cobra.Command, flags *initFlags) error {
	path, err := filepath.Abs(configFile)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to resolve path", err)
	}

	name := flags.name
	if name == "" {
		name = filepath.Base(filepath.Dir(path))
		VerboseLog("Using directory name %q as project name", name)
	}

	opts := pyproject.SkeletonOptions{
		Name:           name,
		Version:        flags.version,
		Description:    flags.description,
		RequiresPython: flags.requiresPython,
	}
	for _, a := range flags.authors {
		opts.Authors = append(opts.Authors, ParseContributor(a))
	}

	if err := pyproject.WriteSkeleton(path, opts); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("%s already exists", path), err)
		}
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to write %s", path), err)
	}

	w := cmd.OutOrStdout()
	if IsJSONOutput() {
		return printJSON(w, map[string]interface{}{
			"path":    path,
			"name":    opts.Name,
			"version": opts.Version,
		})
	}
	fmt.Fprintf(w, "Created %s for project %q\n", path, opts.Name)
	return nil
}

// ParseContributor parses "Name <email>", a bare email or a bare name into
// a Contributor. A value containing '@' and no angle brackets is an email.
//
// Example:
//
//	"Jane Doe <jane@example.com>" → {Name: "Jane Doe", Email: "jane@example.com"}
//	"jane@example.com"            → {Email: "jane@example.com"}
//	"Jane Doe"                    → {Name: "Jane Doe"}
func ParseContributor(s string) pyproject.Contributor {
	s = strings.TrimSpace(s)
	if open := strings.LastIndex(s, "<"); open >= 0 && strings.HasSuffix(s, ">") {
		return pyproject.Contributor{
			Name:  strings.TrimSpace(s[:open]),
			Email: strings.TrimSpace(s[open+1 : len(s)-1]),
		}
	}
	if strings.Contains(s, "@") {
		return pyproject.Contributor{Email: s}
	}
	return pyproject.Contributor{Name: s}
}
