package pyproject

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/shinji-kodama/chakra/internal/model"
)

// rawContributor is the decode target for one authors/maintainers entry.
type rawContributor struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// rawProject is the decode target for [project].
// Readme and License are `any` because each accepts a string or a table.
type rawProject struct {
	Name                 string                       `toml:"name"`
	Version              string                       `toml:"version"`
	Description          string                       `toml:"description"`
	Readme               any                          `toml:"readme"`
	RequiresPython       string                       `toml:"requires-python"`
	License              any                          `toml:"license"`
	Authors              []rawContributor             `toml:"authors"`
	Maintainers          []rawContributor             `toml:"maintainers"`
	Keywords             []string                     `toml:"keywords"`
	Classifiers          []string                     `toml:"classifiers"`
	URLs                 map[string]string            `toml:"urls"`
	Dependencies         []string                     `toml:"dependencies"`
	OptionalDependencies map[string][]string          `toml:"optional-dependencies"`
	Scripts              map[string]string            `toml:"scripts"`
	GUIScripts           map[string]string            `toml:"gui-scripts"`
	EntryPoints          map[string]map[string]string `toml:"entry-points"`
}

type rawBuildSystem struct {
	Requires     []string `toml:"requires"`
	BuildBackend string   `toml:"build-backend"`
	BackendPath  []string `toml:"backend-path"`
}

type rawSource struct {
	Packages []string `toml:"packages"`
	Include  []string `toml:"include"`
	Exclude  []string `toml:"exclude"`
}

type rawChakra struct {
	EnvDir   string              `toml:"env-dir"`
	Python   string              `toml:"python"`
	PreBuild string              `toml:"pre-build"`
	DevDeps  map[string][]string `toml:"dev-deps"`
	Source   rawSource           `toml:"source"`
}

// rawDocument enumerates every key path the reader recognises. Keys outside
// it (other tools' tables, unknown project keys) are ignored.
type rawDocument struct {
	Project     rawProject     `toml:"project"`
	BuildSystem rawBuildSystem `toml:"build-system"`
	Tool        struct {
		Chakra rawChakra `toml:"chakra"`
	} `toml:"tool"`
}

// Read loads and parses the document at path.
//
// A missing file is returned unchanged from the filesystem (check with
// errors.Is(err, fs.ErrNotExist)); malformed content yields a
// *model.ConfigParseError.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse parses document text. path is recorded in the result and used in
// error messages; it may be empty.
func Parse(data []byte, path string) (*Document, error) {
	var raw rawDocument
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, &model.ConfigParseError{Path: path, Err: err}
	}

	readme, err := readmeSource(raw.Project.Readme)
	if err != nil {
		return nil, &model.ConfigParseError{Path: path, Err: err}
	}
	license, err := licenseSource(raw.Project.License)
	if err != nil {
		return nil, &model.ConfigParseError{Path: path, Err: err}
	}

	p := raw.Project
	doc := &Document{
		Path: path,
		Project: Project{
			Name:           p.Name,
			Version:        p.Version,
			Description:    p.Description,
			Readme:         readme,
			RequiresPython: p.RequiresPython,
			License:        license,
			Authors:        contributors(p.Authors),
			Maintainers:    contributors(p.Maintainers),
			Keywords:       p.Keywords,
			Classifiers:    p.Classifiers,
			Dependencies:   p.Dependencies,
		},
		BuildSystem: BuildSystem{
			Requires:     raw.BuildSystem.Requires,
			BuildBackend: raw.BuildSystem.BuildBackend,
			BackendPath:  raw.BuildSystem.BackendPath,
		},
		Chakra: Chakra{
			EnvDir:   raw.Tool.Chakra.EnvDir,
			Python:   raw.Tool.Chakra.Python,
			PreBuild: raw.Tool.Chakra.PreBuild,
			Source: SourceConfig{
				Packages: raw.Tool.Chakra.Source.Packages,
				Include:  raw.Tool.Chakra.Source.Include,
				Exclude:  raw.Tool.Chakra.Source.Exclude,
			},
		},
	}

	for _, label := range orderedKeys(md, p.URLs, "project", "urls") {
		doc.Project.URLs = append(doc.Project.URLs, URL{Label: label, URL: p.URLs[label]})
	}
	doc.Project.OptionalDependencies = groups(md, p.OptionalDependencies, "project", "optional-dependencies")
	doc.Project.Scripts = entries(md, p.Scripts, "project", "scripts")
	doc.Project.GUIScripts = entries(md, p.GUIScripts, "project", "gui-scripts")
	for _, name := range orderedKeys(md, p.EntryPoints, "project", "entry-points") {
		doc.Project.EntryPoints = append(doc.Project.EntryPoints, EntryPointGroup{
			Name:    name,
			Entries: entries(md, p.EntryPoints[name], "project", "entry-points", name),
		})
	}
	doc.Chakra.DevDeps = groups(md, raw.Tool.Chakra.DevDeps, "tool", "chakra", "dev-deps")

	return doc, nil
}

// readmeSource resolves project.readme. A bare string is a file path; a table
// holds file or text plus an optional content-type.
func readmeSource(v any) (TextSource, error) {
	switch val := v.(type) {
	case nil:
		return TextSource{}, nil
	case string:
		return TextSource{Kind: SourceFile, Path: val}, nil
	case map[string]any:
		return tableSource("readme", val)
	default:
		return TextSource{}, fmt.Errorf("project.readme must be a string or a table, got %T", v)
	}
}

// licenseSource resolves project.license. A bare string is taken as inline
// license text (typically an SPDX expression).
func licenseSource(v any) (TextSource, error) {
	switch val := v.(type) {
	case nil:
		return TextSource{}, nil
	case string:
		return TextSource{Kind: SourceText, Text: val}, nil
	case map[string]any:
		return tableSource("license", val)
	default:
		return TextSource{}, fmt.Errorf("project.license must be a string or a table, got %T", v)
	}
}

// tableSource resolves the {file = ..., text = ..., content-type = ...} form.
// file wins over text when both are present.
func tableSource(key string, table map[string]any) (TextSource, error) {
	var src TextSource

	if ct, ok := table["content-type"]; ok {
		s, ok := ct.(string)
		if !ok {
			return TextSource{}, fmt.Errorf("project.%s.content-type must be a string, got %T", key, ct)
		}
		src.ContentType = model.ContentType(s)
	}

	if file, ok := table["file"]; ok {
		s, ok := file.(string)
		if !ok {
			return TextSource{}, fmt.Errorf("project.%s.file must be a string, got %T", key, file)
		}
		src.Kind = SourceFile
		src.Path = s
		return src, nil
	}

	if text, ok := table["text"]; ok {
		s, ok := text.(string)
		if !ok {
			return TextSource{}, fmt.Errorf("project.%s.text must be a string, got %T", key, text)
		}
		src.Kind = SourceText
		src.Text = s
		return src, nil
	}

	return TextSource{}, nil
}

func contributors(raw []rawContributor) []Contributor {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Contributor, len(raw))
	for i, c := range raw {
		out[i] = Contributor{Name: c.Name, Email: c.Email}
	}
	return out
}

func groups(md toml.MetaData, m map[string][]string, parent ...string) []Group {
	var out []Group
	for _, name := range orderedKeys(md, m, parent...) {
		out = append(out, Group{Name: name, Requirements: m[name]})
	}
	return out
}

func entries(md toml.MetaData, m map[string]string, parent ...string) []EntryPoint {
	var out []EntryPoint
	for _, name := range orderedKeys(md, m, parent...) {
		out = append(out, EntryPoint{Name: name, Object: m[name]})
	}
	return out
}

// orderedKeys returns the keys of m in the order they appear in the document
// under the table at parent. Keys the metadata does not know about (which
// should not happen for decoded maps) are appended in sorted order.
func orderedKeys[V any](md toml.MetaData, m map[string]V, parent ...string) []string {
	if len(m) == 0 {
		return nil
	}

	out := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, key := range md.Keys() {
		if len(key) != len(parent)+1 || !hasPrefix(key, parent) {
			continue
		}
		name := key[len(parent)]
		if _, ok := m[name]; ok && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	var rest []string
	for name := range m {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func hasPrefix(key toml.Key, prefix []string) bool {
	for i, p := range prefix {
		if key[i] != p {
			return false
		}
	}
	return true
}
