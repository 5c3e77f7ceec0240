package metadata

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/chakra/internal/model"
	"github.com/shinji-kodama/chakra/internal/pyproject"
	"github.com/shinji-kodama/chakra/internal/rfc822"
)

// Version is the core metadata format version chakra writes.
const Version = "2.1"

// Metadata is the canonical package metadata record. Scalar fields use ""
// for absent values; list fields use nil. Description is the exception: it
// is nil when the project has no readme, and points to "" when the readme
// is empty, so DescriptionContentType is set exactly when Description is
// non-nil.
type Metadata struct {
	MetadataVersion        string            `json:"metadata_version" yaml:"metadata_version"`
	Name                   string            `json:"name,omitempty" yaml:"name,omitempty"`
	Version                string            `json:"version,omitempty" yaml:"version,omitempty"`
	Summary                string            `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description            *string           `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionContentType model.ContentType `json:"description_content_type,omitempty" yaml:"description_content_type,omitempty"`
	RequiresPython         string            `json:"requires_python,omitempty" yaml:"requires_python,omitempty"`
	License                string            `json:"license,omitempty" yaml:"license,omitempty"`
	Author                 string            `json:"author,omitempty" yaml:"author,omitempty"`
	AuthorEmail            string            `json:"author_email,omitempty" yaml:"author_email,omitempty"`
	Maintainer             string            `json:"maintainer,omitempty" yaml:"maintainer,omitempty"`
	MaintainerEmail        string            `json:"maintainer_email,omitempty" yaml:"maintainer_email,omitempty"`
	Keywords               string            `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Classifier             []string          `json:"classifier,omitempty" yaml:"classifier,omitempty"`
	ProjectURL             []string          `json:"project_url,omitempty" yaml:"project_url,omitempty"`
	RequiresDist           []string          `json:"requires_dist,omitempty" yaml:"requires_dist,omitempty"`
	ProvidesExtra          []string          `json:"provides_extra,omitempty" yaml:"provides_extra,omitempty"`
}

// Resolve builds Metadata from the [project] table of doc. Referenced
// readme and license files are read relative to the document's directory.
func Resolve(doc *pyproject.Document) (*Metadata, error) {
	p := doc.Project

	description, contentType, err := resolveReadme(doc.Dir(), p.Readme)
	if err != nil {
		return nil, err
	}
	license, err := resolveLicense(doc.Dir(), p.License)
	if err != nil {
		return nil, err
	}

	m := &Metadata{
		MetadataVersion:        Version,
		Name:                   p.Name,
		Version:                p.Version,
		Summary:                p.Description,
		Description:            description,
		DescriptionContentType: contentType,
		RequiresPython:         p.RequiresPython,
		License:                license,
		Keywords:               strings.Join(p.Keywords, ","),
		Classifier:             append([]string(nil), p.Classifiers...),
		RequiresDist:           append([]string(nil), p.Dependencies...),
	}
	m.Author, m.AuthorEmail = contributors(p.Authors)
	m.Maintainer, m.MaintainerEmail = contributors(p.Maintainers)

	for _, u := range p.URLs {
		m.ProjectURL = append(m.ProjectURL, u.Label+", "+u.URL)
	}

	for _, g := range p.OptionalDependencies {
		m.ProvidesExtra = append(m.ProvidesExtra, g.Name)
		for _, req := range g.Requirements {
			m.RequiresDist = append(m.RequiresDist, WithExtra(req, g.Name))
		}
	}

	return m, nil
}

// WithExtra appends the environment marker extra == '<group>' to a
// requirement string. A requirement that already has a marker clause is
// extended with "and"; otherwise a new clause is started with ";".
func WithExtra(requirement, group string) string {
	if strings.Contains(requirement, ";") {
		return requirement + " and extra == '" + group + "'"
	}
	return requirement + " ; extra == '" + group + "'"
}

// resolveReadme returns the long description and its content type. Both are
// absent when the project declares no readme.
func resolveReadme(dir string, src pyproject.TextSource) (*string, model.ContentType, error) {
	switch src.Kind {
	case pyproject.SourceFile:
		text, err := readText(dir, src.Path)
		if err != nil {
			return nil, "", err
		}
		ct := src.ContentType
		if ct == "" {
			ct = model.ContentTypeForExtension(filepath.Ext(src.Path))
		}
		return &text, ct, nil
	case pyproject.SourceText:
		ct := src.ContentType
		if ct == "" {
			ct = model.ContentTypePlain
		}
		text := src.Text
		return &text, ct, nil
	default:
		return nil, "", nil
	}
}

func resolveLicense(dir string, src pyproject.TextSource) (string, error) {
	switch src.Kind {
	case pyproject.SourceFile:
		return readText(dir, src.Path)
	case pyproject.SourceText:
		return src.Text, nil
	default:
		return "", nil
	}
}

func readText(dir, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// contributors partitions contributor entries into the name list and the
// email list. Entries with both fields become "Name <email>" and lead the
// name list, followed by the name-only entries. Email-only entries form the
// email list. Each bucket keeps declaration order.
func contributors(people []pyproject.Contributor) (names, emails string) {
	var both, nameOnly, emailOnly []string
	for _, c := range people {
		switch {
		case c.Name != "" && c.Email != "":
			both = append(both, c.Name+" <"+c.Email+">")
		case c.Email != "":
			emailOnly = append(emailOnly, c.Email)
		case c.Name != "":
			nameOnly = append(nameOnly, c.Name)
		}
	}
	return strings.Join(append(both, nameOnly...), ","), strings.Join(emailOnly, ",")
}

// Headers returns the metadata as ordered headers. Scalar fields become a
// single value; list fields one value per entry. Absent fields are recorded
// with an empty value, which the text format skips. The description is not
// a header; it is the body.
func (m *Metadata) Headers() *rfc822.Headers {
	fields := []struct {
		attr   string
		values []string
	}{
		{"metadata_version", []string{m.MetadataVersion}},
		{"name", []string{m.Name}},
		{"version", []string{m.Version}},
		{"summary", []string{m.Summary}},
		{"description_content_type", []string{m.DescriptionContentType.String()}},
		{"requires_python", []string{m.RequiresPython}},
		{"license", []string{m.License}},
		{"author", []string{m.Author}},
		{"author_email", []string{m.AuthorEmail}},
		{"maintainer", []string{m.Maintainer}},
		{"maintainer_email", []string{m.MaintainerEmail}},
		{"keywords", []string{m.Keywords}},
		{"classifier", m.Classifier},
		{"project_url", m.ProjectURL},
		{"requires_dist", m.RequiresDist},
		{"provides_extra", m.ProvidesExtra},
	}

	h := rfc822.NewHeaders()
	for _, f := range fields {
		h.Set(HeaderName(f.attr), f.values...)
	}
	return h
}

// Text renders the METADATA file contents.
func (m *Metadata) Text() string {
	return rfc822.Dumps(m.Headers(), m.body())
}

// WriteTo writes the METADATA file contents to w.
func (m *Metadata) WriteTo(w io.Writer) (int64, error) {
	n, err := rfc822.Dump(w, m.Headers(), m.body())
	return int64(n), err
}

// body returns the METADATA body: the description, or "" without one.
func (m *Metadata) body() string {
	if m.Description == nil {
		return ""
	}
	return *m.Description
}
