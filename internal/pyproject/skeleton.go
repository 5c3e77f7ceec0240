package pyproject

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"
)

// DefaultBuildRequires is written to build-system.requires by WriteSkeleton.
var DefaultBuildRequires = []string{"chakra"}

// DefaultBuildBackend is written to build-system.build-backend by WriteSkeleton.
const DefaultBuildBackend = "chakra.backend"

// SkeletonOptions describes a new project for WriteSkeleton.
type SkeletonOptions struct {
	Name           string
	Version        string
	Description    string
	RequiresPython string
	Authors        []Contributor
}

type skeletonProject struct {
	Name           string        `toml:"name"`
	Version        string        `toml:"version"`
	Description    string        `toml:"description,omitempty"`
	RequiresPython string        `toml:"requires-python,omitempty"`
	Authors        []Contributor `toml:"authors,omitempty,inline"`
	Dependencies   []string      `toml:"dependencies"`
}

type skeletonBuildSystem struct {
	Requires     []string `toml:"requires"`
	BuildBackend string   `toml:"build-backend"`
}

type skeletonSource struct {
	Packages []string `toml:"packages"`
}

type skeletonChakra struct {
	EnvDir string         `toml:"env-dir"`
	Source skeletonSource `toml:"source"`
}

type skeletonTool struct {
	Chakra skeletonChakra `toml:"chakra"`
}

type skeleton struct {
	Project     skeletonProject     `toml:"project"`
	BuildSystem skeletonBuildSystem `toml:"build-system"`
	Tool        skeletonTool        `toml:"tool"`
}

// PackageName converts a distribution name into an importable package name:
// lower case, with '-' and '.' replaced by '_'.
func PackageName(name string) string {
	return strings.NewReplacer("-", "_", ".", "_").Replace(strings.ToLower(name))
}

// WriteSkeleton writes a minimal document for a new project to path. It
// refuses to overwrite an existing file.
func WriteSkeleton(path string, opts SkeletonOptions) error {
	if opts.Name == "" {
		return errors.New("project name is required")
	}
	if opts.Version == "" {
		opts.Version = "0.1.0"
	}

	sk := skeleton{
		Project: skeletonProject{
			Name:           opts.Name,
			Version:        opts.Version,
			Description:    opts.Description,
			RequiresPython: opts.RequiresPython,
			Authors:        opts.Authors,
			Dependencies:   []string{},
		},
		BuildSystem: skeletonBuildSystem{
			Requires:     DefaultBuildRequires,
			BuildBackend: DefaultBuildBackend,
		},
		Tool: skeletonTool{
			Chakra: skeletonChakra{
				EnvDir: DefaultEnvDir,
				Source: skeletonSource{Packages: []string{PackageName(opts.Name)}},
			},
		},
	}

	return createNew(path, func(w io.Writer) error {
		return gotoml.NewEncoder(w).SetIndentTables(false).Encode(sk)
	})
}

// createNew creates path, which must not exist, and fills it with write. If
// write fails the partly written file is removed.
func createNew(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("refusing to overwrite %s: %w", path, fs.ErrExist)
		}
		return err
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return errors.Join(fmt.Errorf("failed to encode %s: %w", path, err), os.Remove(path))
	}
	return f.Close()
}
