package ini

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/chakra/internal/model"
)

// sampleData mirrors a typical two-section document.
func sampleData() *Data {
	d := New()
	foo := d.Section("foo_section")
	foo.Set("foo", "bar")
	foo.Set("bar", "baz")
	foo.Set("baz", "foo")
	d.Section("bar_section").Set("bar", "baz")
	return d
}

const sampleText = "[foo_section]\n" +
	"foo = bar\n" +
	"bar = baz\n" +
	"baz = foo\n" +
	"\n" +
	"[bar_section]\n" +
	"bar = baz"

// TestDumps verifies the exact INI rendering.
func TestDumps(t *testing.T) {
	assert.Equal(t, sampleText, Dumps(sampleData()))
}

// TestLoads verifies parsing preserves section and key order.
func TestLoads(t *testing.T) {
	d, err := Loads(sampleText)
	require.NoError(t, err)

	assert.Equal(t, []string{"foo_section", "bar_section"}, d.SectionNames())

	foo, ok := d.Lookup("foo_section")
	require.True(t, ok)
	assert.Equal(t, []string{"foo", "bar", "baz"}, foo.Keys())

	v, ok := foo.Get("baz")
	assert.True(t, ok)
	assert.Equal(t, "foo", v)

	assert.True(t, sampleData().Equal(d))
}

// TestRoundTrip checks both identities for format-generated input.
func TestRoundTrip(t *testing.T) {
	d, err := Loads(Dumps(sampleData()))
	require.NoError(t, err)
	assert.True(t, sampleData().Equal(d))

	d, err = Loads(sampleText)
	require.NoError(t, err)
	assert.Equal(t, sampleText, Dumps(d))
}

// TestRoundTrip_MultilineValue verifies continuation lines written by Dumps
// are read back without their indentation.
func TestRoundTrip_MultilineValue(t *testing.T) {
	d := New()
	s := d.Section("a")
	s.Set("k", "line1\nline2")
	s.Set("three", "x = 1\ny = 2\nz = 3")
	s.Set("after", "plain")

	text := Dumps(d)
	assert.Equal(t, "[a]\nk = line1\n\tline2\nthree = x = 1\n\ty = 2\n\tz = 3\nafter = plain", text)

	got, err := Loads(text)
	require.NoError(t, err)
	sec, ok := got.Lookup("a")
	require.True(t, ok)
	v, ok := sec.Get("k")
	require.True(t, ok)
	assert.Equal(t, "line1\nline2", v)
	assert.True(t, d.Equal(got))
	assert.Equal(t, text, Dumps(got))
}

// TestBoundaryCases covers empty documents, empty sections and empty values.
func TestBoundaryCases(t *testing.T) {
	t.Run("no data", func(t *testing.T) {
		assert.Equal(t, "", Dumps(New()))

		d, err := Loads("")
		require.NoError(t, err)
		assert.Empty(t, d.Sections())
	})

	t.Run("empty sections", func(t *testing.T) {
		d := New()
		d.Section("a")
		d.Section("b")
		text := "[a]\n\n[b]"

		assert.Equal(t, text, Dumps(d))

		got, err := Loads(text)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got.SectionNames())
		assert.True(t, d.Equal(got))
	})

	t.Run("empty values", func(t *testing.T) {
		d := New()
		s := d.Section("foo_section")
		s.Set("foo", "")
		s.Set("bar", "")
		text := "[foo_section]\nfoo = \nbar ="

		assert.Equal(t, text, Dumps(d))

		got, err := Loads(text)
		require.NoError(t, err)
		assert.True(t, d.Equal(got))
	})
}

// TestLoads_EntryPointValues checks that object references, quotes and
// comment characters in values are kept verbatim.
func TestLoads_EntryPointValues(t *testing.T) {
	text := "[console_scripts]\n" +
		"chakra = chakra.main:cli\n" +
		"Tool = pkg.mod:obj [extra]\n" +
		"\n" +
		"[gui_scripts]\n" +
		"quoted = \"pkg:main\"\n" +
		"hash = pkg:main#frag"

	d, err := Loads(text)
	require.NoError(t, err)

	console, ok := d.Lookup("console_scripts")
	require.True(t, ok)
	assert.Equal(t, []string{"chakra", "Tool"}, console.Keys())
	v, _ := console.Get("Tool")
	assert.Equal(t, "pkg.mod:obj [extra]", v)

	gui, ok := d.Lookup("gui_scripts")
	require.True(t, ok)
	v, _ = gui.Get("quoted")
	assert.Equal(t, `"pkg:main"`, v)
	v, _ = gui.Get("hash")
	assert.Equal(t, "pkg:main#frag", v)

	assert.Equal(t, text, Dumps(d))
}

// TestLoads_KeyOutsideSection documents the unsupported sectionless shape.
func TestLoads_KeyOutsideSection(t *testing.T) {
	_, err := Loads("foo = bar\nbar = baz")
	require.Error(t, err)

	var fe *model.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "foo", fe.Input)
}

// TestSection_SetKeepsPosition verifies overwriting a key keeps its order.
func TestSection_SetKeepsPosition(t *testing.T) {
	d := New()
	s := d.Section("x")
	s.Set("a", "1")
	s.Set("b", "2")
	s.Set("a", "3")

	assert.Equal(t, []string{"a", "b"}, s.Keys())
	assert.Equal(t, 2, s.Len())
	assert.Same(t, s, d.Section("x"))
	assert.Equal(t, "[x]\na = 3\nb = 2", Dumps(d))
}

// TestDumpLoad exercises the io.Writer / io.Reader variants.
func TestDumpLoad(t *testing.T) {
	var buf bytes.Buffer
	_, err := Dump(&buf, sampleData())
	require.NoError(t, err)
	assert.Equal(t, sampleText, buf.String())

	d, err := Load(strings.NewReader(sampleText))
	require.NoError(t, err)
	assert.True(t, sampleData().Equal(d))
}
