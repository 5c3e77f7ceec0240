package pyproject

import (
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/chakra/internal/model"
)

// FileName is the conventional name of the configuration document.
const FileName = "pyproject.toml"

// DefaultEnvDir is the directory environments are created in when
// tool.chakra.env-dir is not set.
const DefaultEnvDir = ".envs"

// SourceKind tags the shape a TextSource was declared with.
type SourceKind int

const (
	// SourceAbsent means the key (or both of its sub-keys) is missing.
	SourceAbsent SourceKind = iota

	// SourceFile means the text lives in a file referenced by path.
	SourceFile

	// SourceText means the text is given inline.
	SourceText
)

// String returns a short name for the kind.
func (k SourceKind) String() string {
	switch k {
	case SourceFile:
		return "file"
	case SourceText:
		return "text"
	default:
		return "absent"
	}
}

// TextSource is the resolved shape of project.readme or project.license:
// a file reference, inline text, or nothing.
type TextSource struct {
	// Kind selects which of Path and Text is meaningful.
	Kind SourceKind

	// Path is the referenced file, as written in the document. Only set for
	// SourceFile.
	Path string

	// Text is the inline text. Only set for SourceText.
	Text string

	// ContentType is the explicit content-type sub-key, if any. A readme given
	// as a bare path never has one; the resolver infers it from the extension.
	ContentType model.ContentType
}

// Contributor is one entry of project.authors or project.maintainers.
// An empty field means the key was absent.
type Contributor struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty" toml:"email,omitempty"`
}

// URL is one label → URL pair of project.urls.
type URL struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Group is a named list of requirement strings: an optional-dependency group
// or a development dependency group.
type Group struct {
	Name         string   `json:"name" yaml:"name"`
	Requirements []string `json:"requirements" yaml:"requirements"`
}

// RequirementName returns the distribution name a requirement string starts
// with, before any extras, version specifier, marker or URL. It is "" when
// the requirement does not start with a name.
//
// Example:
//
//	"pytest-cov[all] >= 4.0; python_version > '3.8'" → "pytest-cov"
func RequirementName(req string) string {
	req = strings.TrimSpace(req)
	end := strings.IndexFunc(req, func(r rune) bool {
		isName := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
			r == '-' || r == '_' || r == '.'
		return !isName
	})
	if end < 0 {
		return req
	}
	return req[:end]
}

// EntryPoint maps an entry-point name to its object reference
// ("module:object").
type EntryPoint struct {
	Name   string `json:"name" yaml:"name"`
	Object string `json:"object" yaml:"object"`
}

// EntryPointGroup is one named group of entry points.
type EntryPointGroup struct {
	Name    string       `json:"name" yaml:"name"`
	Entries []EntryPoint `json:"entries" yaml:"entries"`
}

// Project is the [project] table.
type Project struct {
	Name                 string
	Version              string
	Description          string
	Readme               TextSource
	RequiresPython       string
	License              TextSource
	Authors              []Contributor
	Maintainers          []Contributor
	Keywords             []string
	Classifiers          []string
	URLs                 []URL
	Dependencies         []string
	OptionalDependencies []Group
	Scripts              []EntryPoint
	GUIScripts           []EntryPoint
	EntryPoints          []EntryPointGroup
}

// BuildSystem is the [build-system] table.
type BuildSystem struct {
	Requires     []string
	BuildBackend string
	BackendPath  []string
}

// SourceConfig is the [tool.chakra.source] table.
type SourceConfig struct {
	Packages []string
	Include  []string
	Exclude  []string
}

// Chakra is the [tool.chakra] table.
type Chakra struct {
	// EnvDir is the base directory for environments. Empty when not set.
	EnvDir string

	// Python is the interpreter used to create environments. Empty when not set.
	Python string

	// PreBuild is the hook script run in the build environment before the
	// dist-info directory is written, relative to the document directory.
	// Empty when not set.
	PreBuild string

	// DevDeps are the [tool.chakra.dev-deps] groups in document order.
	DevDeps []Group

	Source SourceConfig
}

// Document is a parsed configuration document.
type Document struct {
	// Path is the file the document was read from, or "" when parsed from
	// memory.
	Path string

	Project     Project
	BuildSystem BuildSystem
	Chakra      Chakra
}

// Dir returns the directory relative paths in the document are resolved
// against: the directory of Path, or "." for in-memory documents.
func (d *Document) Dir() string {
	if d.Path == "" {
		return "."
	}
	return filepath.Dir(d.Path)
}

// FileName returns the base name of the document, defaulting to
// pyproject.toml for in-memory documents.
func (d *Document) FileName() string {
	if d.Path == "" {
		return FileName
	}
	return filepath.Base(d.Path)
}
