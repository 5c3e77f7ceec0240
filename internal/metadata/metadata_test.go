package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/chakra/internal/model"
	"github.com/shinji-kodama/chakra/internal/pyproject"
	"github.com/shinji-kodama/chakra/internal/rfc822"
)

// writeProject writes a pyproject.toml plus extra files into a temp dir and
// parses it.
func writeProject(t *testing.T, toml string, files map[string]string) *pyproject.Document {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	path := filepath.Join(dir, pyproject.FileName)
	require.NoError(t, os.WriteFile(path, []byte(toml), 0o644))

	doc, err := pyproject.Read(path)
	require.NoError(t, err)
	return doc
}

// TestResolve_Full checks every field of a representative document.
func TestResolve_Full(t *testing.T) {
	doc := writeProject(t, `
[project]
name = "spam"
version = "1.0"
description = "Lovely Spam!"
readme = "README.md"
requires-python = ">=3.8"
license = {file = "LICENSE"}
keywords = ["egg", "bacon"]
classifiers = ["Programming Language :: Python"]
authors = [{name = "A", email = "a@x.com"}, {email = "b@x.com"}, {name = "C"}]
maintainers = [{name = "M"}]
dependencies = ["httpx"]

[project.urls]
homepage = "https://example.com"
repository = "https://github.com/spam"

[project.optional-dependencies]
test = ["pytest"]
`, map[string]string{
		"README.md": "# Spam\n",
		"LICENSE":   "MIT License\n",
	})

	got, err := Resolve(doc)
	require.NoError(t, err)

	want := &Metadata{
		MetadataVersion:        "2.1",
		Name:                   "spam",
		Version:                "1.0",
		Summary:                "Lovely Spam!",
		Description:            ptr("# Spam\n"),
		DescriptionContentType: model.ContentTypeMarkdown,
		RequiresPython:         ">=3.8",
		License:                "MIT License\n",
		Author:                 "A <a@x.com>,C",
		AuthorEmail:            "b@x.com",
		Maintainer:             "M",
		Keywords:               "egg,bacon",
		Classifier:             []string{"Programming Language :: Python"},
		ProjectURL:             []string{"homepage, https://example.com", "repository, https://github.com/spam"},
		RequiresDist:           []string{"httpx", "pytest ; extra == 'test'"},
		ProvidesExtra:          []string{"test"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

// TestResolve_OptionalDependencyMarkers checks marker expansion with and
// without an existing marker clause.
func TestResolve_OptionalDependencyMarkers(t *testing.T) {
	doc, err := pyproject.Parse([]byte(`
[project]
dependencies = []

[project.optional-dependencies]
test = ["pytest", 'mock; python_version<"3.8"']
`), "")
	require.NoError(t, err)

	m, err := Resolve(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"pytest ; extra == 'test'",
		`mock; python_version<"3.8" and extra == 'test'`,
	}, m.RequiresDist)
	assert.Equal(t, []string{"test"}, m.ProvidesExtra)
}

// TestResolve_DoesNotAliasDocument verifies resolution leaves the document's
// dependency list untouched.
func TestResolve_DoesNotAliasDocument(t *testing.T) {
	doc, err := pyproject.Parse([]byte(`
[project]
dependencies = ["httpx"]

[project.optional-dependencies]
test = ["pytest"]
`), "")
	require.NoError(t, err)

	_, err = Resolve(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"httpx"}, doc.Project.Dependencies)
}

// TestResolve_Contributors covers the author bucketing rules.
func TestResolve_Contributors(t *testing.T) {
	tests := []struct {
		name       string
		people     []pyproject.Contributor
		wantNames  string
		wantEmails string
	}{
		{"none", nil, "", ""},
		{
			name:       "mixed",
			people:     []pyproject.Contributor{{Name: "A", Email: "a@x.com"}, {Email: "b@x.com"}, {Name: "C"}},
			wantNames:  "A <a@x.com>,C",
			wantEmails: "b@x.com",
		},
		{
			name:       "name only",
			people:     []pyproject.Contributor{{Name: "A"}, {Name: "B"}},
			wantNames:  "A,B",
			wantEmails: "",
		},
		{
			name:       "email only",
			people:     []pyproject.Contributor{{Email: "a@x.com"}, {Email: "b@x.com"}},
			wantNames:  "",
			wantEmails: "a@x.com,b@x.com",
		},
		{
			name:       "empty entry ignored",
			people:     []pyproject.Contributor{{}, {Name: "A"}},
			wantNames:  "A",
			wantEmails: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, emails := contributors(tt.people)
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantEmails, emails)
		})
	}
}

// TestResolve_Readme covers every readme shape and its content type.
func TestResolve_Readme(t *testing.T) {
	files := map[string]string{
		"README.rst":  "Spam\n====\n",
		"README.md":   "# Spam\n",
		"README":      "Spam",
		"README.adoc": "= Spam",
		"notes.txt":   "notes",
	}

	tests := []struct {
		name     string
		readme   string
		wantText string
		wantType model.ContentType
	}{
		{"absent", ``, "", ""},
		{"rst", `readme = "README.rst"`, "Spam\n====\n", model.ContentTypeRST},
		{"markdown", `readme = "README.md"`, "# Spam\n", model.ContentTypeMarkdown},
		{"no extension", `readme = "README"`, "Spam", model.ContentTypePlain},
		{"unknown extension", `readme = "README.adoc"`, "= Spam", model.ContentTypePlain},
		{"file table", `readme = {file = "notes.txt", content-type = "text/markdown"}`, "notes", model.ContentTypeMarkdown},
		{"file table without type", `readme = {file = "README.rst"}`, "Spam\n====\n", model.ContentTypeRST},
		{"text table", `readme = {text = "inline", content-type = "text/x-rst"}`, "inline", model.ContentTypeRST},
		{"text table without type", `readme = {text = "inline"}`, "inline", model.ContentTypePlain},
		{"table without file or text", `readme = {content-type = "text/markdown"}`, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := writeProject(t, "[project]\n"+tt.readme+"\n", files)

			m, err := Resolve(doc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, m.DescriptionContentType)
			if tt.wantType == "" {
				assert.Nil(t, m.Description)
				return
			}
			require.NotNil(t, m.Description)
			assert.Equal(t, tt.wantText, *m.Description)
		})
	}
}

// TestResolve_EmptyReadme verifies an empty readme is a present, empty
// description that keeps its content type in every rendering.
func TestResolve_EmptyReadme(t *testing.T) {
	doc := writeProject(t, "[project]\nname = \"spam\"\nreadme = \"README.md\"\n", map[string]string{
		"README.md": "",
	})

	m, err := Resolve(doc)
	require.NoError(t, err)
	require.NotNil(t, m.Description)
	assert.Equal(t, "", *m.Description)
	assert.Equal(t, model.ContentTypeMarkdown, m.DescriptionContentType)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"description":""`)
	assert.Contains(t, string(data), `"description_content_type":"text/markdown"`)

	noReadme, err := Resolve(writeProject(t, "[project]\nname = \"spam\"\n", nil))
	require.NoError(t, err)
	data, err = json.Marshal(noReadme)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"description"`)
	assert.NotContains(t, string(data), `"description_content_type"`)
}

// TestResolve_License covers the license shapes.
func TestResolve_License(t *testing.T) {
	tests := []struct {
		name    string
		license string
		want    string
	}{
		{"absent", ``, ""},
		{"file", `license = {file = "LICENSE"}`, "BSD\n"},
		{"text", `license = {text = "MIT"}`, "MIT"},
		{"neither", `license = {}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := writeProject(t, "[project]\n"+tt.license+"\n", map[string]string{"LICENSE": "BSD\n"})

			m, err := Resolve(doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.License)
		})
	}
}

// TestResolve_MissingFile verifies a missing referenced file fails with a
// not-exist error and no partial result.
func TestResolve_MissingFile(t *testing.T) {
	for _, toml := range []string{
		"[project]\nreadme = \"README.md\"\n",
		"[project]\nreadme = {file = \"README.md\", content-type = \"text/markdown\"}\n",
		"[project]\nlicense = {file = \"LICENSE\"}\n",
	} {
		doc := writeProject(t, toml, nil)

		m, err := Resolve(doc)
		require.Error(t, err)
		assert.Nil(t, m)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	}
}

// TestMetadata_Text checks the exact METADATA rendering and that it parses
// back to the same headers and body.
func TestMetadata_Text(t *testing.T) {
	m := &Metadata{
		MetadataVersion:        "2.1",
		Name:                   "spam",
		Version:                "1.0",
		Summary:                "Lovely Spam!",
		Description:            ptr("# Spam\n\nWonderful.\n"),
		DescriptionContentType: model.ContentTypeMarkdown,
		RequiresPython:         ">=3.8",
		Author:                 "A <a@x.com>,C",
		AuthorEmail:            "b@x.com",
		Keywords:               "egg,bacon",
		Classifier:             []string{"Programming Language :: Python", "Typing :: Typed"},
		ProjectURL:             []string{"homepage, https://example.com"},
		RequiresDist:           []string{"httpx", "pytest ; extra == 'test'"},
		ProvidesExtra:          []string{"test"},
	}

	want := "Metadata-Version: 2.1\n" +
		"Name: spam\n" +
		"Version: 1.0\n" +
		"Summary: Lovely Spam!\n" +
		"Description-Content-Type: text/markdown\n" +
		"Requires-Python: >=3.8\n" +
		"Author: A <a@x.com>,C\n" +
		"Author-Email: b@x.com\n" +
		"Keywords: egg,bacon\n" +
		"Classifier: Programming Language :: Python\n" +
		"Classifier: Typing :: Typed\n" +
		"Project-Url: homepage, https://example.com\n" +
		"Requires-Dist: httpx\n" +
		"Requires-Dist: pytest ; extra == 'test'\n" +
		"Provides-Extra: test\n" +
		"\n" +
		"# Spam\n\nWonderful.\n"
	assert.Equal(t, want, m.Text())

	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(want)), n)
	assert.Equal(t, want, buf.String())

	h, body := rfc822.Loads(m.Text())
	assert.Equal(t, *m.Description, body)
	assert.Equal(t, []string{"Programming Language :: Python", "Typing :: Typed"}, h.Values("Classifier"))
	assert.NotContains(t, h.Names(), "License")
}

// TestMetadata_Headers verifies absent fields keep their position but render
// nothing.
func TestMetadata_Headers(t *testing.T) {
	m := &Metadata{MetadataVersion: Version}
	h := m.Headers()

	assert.Equal(t, []string{
		"Metadata-Version", "Name", "Version", "Summary", "Description-Content-Type",
		"Requires-Python", "License", "Author", "Author-Email", "Maintainer",
		"Maintainer-Email", "Keywords", "Classifier", "Project-Url", "Requires-Dist",
		"Provides-Extra",
	}, h.Names())
	assert.Equal(t, "Metadata-Version: 2.1\n\n", m.Text())
}

// TestHeaderName covers the snake_case to header conversion.
func TestHeaderName(t *testing.T) {
	tests := map[string]string{
		"name":                     "Name",
		"metadata_version":         "Metadata-Version",
		"description_content_type": "Description-Content-Type",
		"project_url":              "Project-Url",
		"author_email":             "Author-Email",
		"requires_python":          "Requires-Python",
		"x2y":                      "X2Y",
	}
	for in, want := range tests {
		assert.Equal(t, want, HeaderName(in), in)
	}
}

// TestWithExtra covers both marker joining forms.
func TestWithExtra(t *testing.T) {
	assert.Equal(t, "pytest ; extra == 'test'", WithExtra("pytest", "test"))
	assert.Equal(t, `mock; python_version<"3.8" and extra == 'test'`, WithExtra(`mock; python_version<"3.8"`, "test"))
}

func ptr(s string) *string {
	return &s
}
