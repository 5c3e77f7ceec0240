package ini

import (
	"fmt"
	"io"
	"strings"

	goini "github.com/go-ini/ini"

	"github.com/shinji-kodama/chakra/internal/model"
)

// delimiter separates keys from values in rendered text.
const delimiter = " = "

// Section is an ordered mapping of keys to values under one "[name]" header.
type Section struct {
	name   string
	keys   []string
	values map[string]string
}

// Name returns the section name.
func (s *Section) Name() string {
	return s.name
}

// Set assigns value to key. A new key is appended after existing keys; an
// existing key keeps its position.
func (s *Section) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the value for key and whether it exists.
func (s *Section) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (s *Section) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys in the section.
func (s *Section) Len() int {
	return len(s.keys)
}

// Data is an ordered collection of sections. The zero value is empty and
// ready to use.
type Data struct {
	sections []*Section
	index    map[string]*Section
}

// New creates empty Data.
func New() *Data {
	return &Data{}
}

// Section returns the named section, creating it at the end if it does not
// exist yet. Creating a section without keys still renders its header.
func (d *Data) Section(name string) *Section {
	if s, ok := d.index[name]; ok {
		return s
	}
	if d.index == nil {
		d.index = make(map[string]*Section)
	}
	s := &Section{name: name}
	d.sections = append(d.sections, s)
	d.index[name] = s
	return s
}

// Lookup returns the named section without creating it.
func (d *Data) Lookup(name string) (*Section, bool) {
	s, ok := d.index[name]
	return s, ok
}

// Sections returns the sections in insertion order.
func (d *Data) Sections() []*Section {
	return append([]*Section(nil), d.sections...)
}

// SectionNames returns the section names in insertion order.
func (d *Data) SectionNames() []string {
	names := make([]string, 0, len(d.sections))
	for _, s := range d.sections {
		names = append(names, s.name)
	}
	return names
}

// Equal reports whether both documents have the same sections, keys and
// values in the same order.
func (d *Data) Equal(other *Data) bool {
	if len(d.sections) != len(other.sections) {
		return false
	}
	for i, s := range d.sections {
		o := other.sections[i]
		if s.name != o.name || len(s.keys) != len(o.keys) {
			return false
		}
		for j, key := range s.keys {
			if o.keys[j] != key || o.values[key] != s.values[key] {
				return false
			}
		}
	}
	return true
}

// Dumps renders data as INI text.
//
// Multi-line values continue on tab-indented lines. Leading and trailing
// whitespace of the whole document is trimmed, which means an empty value on
// the very last line renders as "key =".
func Dumps(d *Data) string {
	var b strings.Builder
	for _, s := range d.sections {
		b.WriteString("[" + s.name + "]\n")
		for _, key := range s.keys {
			value := strings.ReplaceAll(s.values[key], "\n", "\n\t")
			b.WriteString(key + delimiter + value + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// Loads parses INI text produced by Dumps (or written in the same shape).
func Loads(text string) (*Data, error) {
	cfg, err := goini.LoadSources(goini.LoadOptions{
		KeyValueDelimiters:         "=",
		IgnoreInlineComment:        true,
		IgnoreContinuation:         true,
		PreserveSurroundedQuote:    true,
		AllowPythonMultilineValues: true,
	}, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ini text: %w", err)
	}

	d := New()
	for _, sec := range cfg.Sections() {
		if sec.Name() == goini.DefaultSection {
			// go-ini collects keys written before any header here.
			if keys := sec.Keys(); len(keys) > 0 {
				return nil, &model.FormatError{
					Kind:   "ini key",
					Input:  keys[0].Name(),
					Reason: "key is not under any section",
				}
			}
			continue
		}

		s := d.Section(sec.Name())
		for _, key := range sec.Keys() {
			// go-ini keeps the indentation Dumps puts on continuation lines.
			s.Set(key.Name(), strings.ReplaceAll(key.Value(), "\n\t", "\n"))
		}
	}
	return d, nil
}

// Dump writes the rendered data to w.
func Dump(w io.Writer, d *Data) (int, error) {
	return io.WriteString(w, Dumps(d))
}

// Load reads all of r and parses it with Loads.
func Load(r io.Reader) (*Data, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Loads(string(data))
}
