// Package config loads everything chakra needs from a project in one pass:
// the parsed pyproject document, the resolved metadata and entry points, the
// source set, and the environment settings (env-dir, interpreter and
// dependency groups).
//
// The configuration document is read and parsed exactly once per Load; all
// derived values share that parse. Nothing is cached between loads.
package config

import (
	"path/filepath"
	"slices"

	"github.com/shinji-kodama/chakra/internal/metadata"
	"github.com/shinji-kodama/chakra/internal/pyproject"
	"github.com/shinji-kodama/chakra/internal/source"
	"github.com/shinji-kodama/chakra/internal/venv"
)

// BuildGroup is the reserved dependency group holding build-system.requires.
const BuildGroup = "build"

// Config is a fully loaded project.
type Config struct {
	// Document is the parsed configuration document.
	Document *pyproject.Document

	// EnvDir is the environment base directory, resolved against the
	// project directory.
	EnvDir string

	// Python is the interpreter environments are created with.
	Python string

	// VenvTool is the environment creation program.
	VenvTool string

	// Groups are the development dependency groups in declaration order,
	// including the reserved build group.
	Groups []pyproject.Group

	Metadata    *metadata.Metadata
	EntryPoints *metadata.EntryPoints
	Sources     *source.Set
}

// Load reads the document at path and resolves it. settings may be nil, in
// which case DefaultSettings is used.
func Load(path string, settings *Settings) (*Config, error) {
	doc, err := pyproject.Read(path)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, settings)
}

// FromDocument resolves an already parsed document.
func FromDocument(doc *pyproject.Document, settings *Settings) (*Config, error) {
	if settings == nil {
		settings = DefaultSettings()
	}

	md, err := metadata.Resolve(doc)
	if err != nil {
		return nil, err
	}

	envDir := firstNonEmpty(doc.Chakra.EnvDir, settings.EnvDir, pyproject.DefaultEnvDir)
	if !filepath.IsAbs(envDir) {
		envDir = filepath.Join(doc.Dir(), envDir)
	}

	sources := source.New(doc.FileName(), doc.Chakra.Source.Packages)
	for _, p := range doc.Chakra.Source.Include {
		sources.Include(p)
	}
	for _, p := range doc.Chakra.Source.Exclude {
		sources.Exclude(p)
	}

	return &Config{
		Document:    doc,
		EnvDir:      envDir,
		Python:      firstNonEmpty(doc.Chakra.Python, settings.Python, venv.DefaultPython),
		VenvTool:    firstNonEmpty(settings.VenvTool, venv.DefaultTool),
		Groups:      withBuildGroup(doc.Chakra.DevDeps, doc.BuildSystem.Requires),
		Metadata:    md,
		EntryPoints: metadata.ResolveEntryPoints(doc),
		Sources:     sources,
	}, nil
}

// withBuildGroup returns groups with the build group set to requires. A
// user-declared build group is replaced in place; otherwise the build group
// is appended.
func withBuildGroup(groups []pyproject.Group, requires []string) []pyproject.Group {
	build := pyproject.Group{Name: BuildGroup, Requirements: slices.Clone(requires)}

	out := slices.Clone(groups)
	if i := slices.IndexFunc(out, func(g pyproject.Group) bool { return g.Name == BuildGroup }); i >= 0 {
		out[i] = build
		return out
	}
	return append(out, build)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ProjectDir returns the directory containing the configuration document.
func (c *Config) ProjectDir() string {
	return c.Document.Dir()
}

// Group returns the dependency group called name.
func (c *Config) Group(name string) (pyproject.Group, bool) {
	i := slices.IndexFunc(c.Groups, func(g pyproject.Group) bool { return g.Name == name })
	if i < 0 {
		return pyproject.Group{}, false
	}
	return c.Groups[i], true
}

// GroupNames returns the dependency group names in order.
func (c *Config) GroupNames() []string {
	names := make([]string, len(c.Groups))
	for i, g := range c.Groups {
		names[i] = g.Name
	}
	return names
}

// EnvPath returns the environment directory for a group.
func (c *Config) EnvPath(group string) string {
	return filepath.Join(c.EnvDir, group)
}

// Environment returns the environment for a group, configured with the
// project's interpreter and tool.
func (c *Config) Environment(group string) *venv.Environment {
	e := venv.New(c.EnvPath(group), c.Python)
	e.Tool = c.VenvTool
	return e
}
