package rfc822

import (
	"io"
	"strings"
)

// continuationIndent prefixes every line of a multi-line value after the first.
const continuationIndent = "        "

// separator splits a header line into name and value.
const separator = ": "

// Headers is an ordered multimap of header names to values. Names are
// iterated in first-insertion order; values of one name keep insertion order.
// The zero value is an empty, ready-to-use Headers.
type Headers struct {
	names  []string
	values map[string][]string
}

// NewHeaders creates an empty Headers.
func NewHeaders() *Headers {
	return &Headers{}
}

// Add appends a value for name, registering the name if it is new.
func (h *Headers) Add(name, value string) {
	if h.values == nil {
		h.values = make(map[string][]string)
	}
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = append(h.values[name], value)
}

// Set replaces all values for name. The name keeps its original position
// if it was already present. Passing no values registers the name with an
// empty list, which Dumps skips.
func (h *Headers) Set(name string, values ...string) {
	if h.values == nil {
		h.values = make(map[string][]string)
	}
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = append([]string{}, values...)
}

// Names returns the header names in insertion order.
func (h *Headers) Names() []string {
	return append([]string(nil), h.names...)
}

// Values returns the values recorded for name, or nil.
func (h *Headers) Values(name string) []string {
	return append([]string(nil), h.values[name]...)
}

// Get returns the first value for name and whether it exists.
func (h *Headers) Get(name string) (string, bool) {
	vs := h.values[name]
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Len returns the number of distinct header names.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// Equal reports whether both headers have the same names in the same order
// with the same value lists.
func (h *Headers) Equal(other *Headers) bool {
	if h.Len() != other.Len() {
		return false
	}
	if h.Len() == 0 {
		return true
	}
	for i, name := range h.names {
		if other.names[i] != name {
			return false
		}
		a, b := h.values[name], other.values[name]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// appendToLast extends the most recent value of name. It reports false when
// name has no values yet.
func (h *Headers) appendToLast(name, suffix string) bool {
	vs := h.values[name]
	if len(vs) == 0 {
		return false
	}
	vs[len(vs)-1] += suffix
	return true
}

// Dumps renders headers and body as text.
//
// Each value is trimmed and split on newlines; blank lines inside a value are
// dropped, so consecutive newlines collapse to one. The first line is written
// as "Name: line" and the rest as continuation lines. A value with no lines
// left (an empty string) is skipped. One blank line separates the headers from
// the body, which is written verbatim, so Dumps(empty, "") is "\n".
func Dumps(h *Headers, body string) string {
	var lines []string

	if h != nil {
		for _, name := range h.names {
			for _, entry := range h.values[name] {
				valueLines := splitValue(entry)
				if len(valueLines) == 0 {
					continue
				}
				lines = append(lines, name+separator+valueLines[0])
				for _, line := range valueLines[1:] {
					lines = append(lines, continuationIndent+line)
				}
			}
		}
	}

	lines = append(lines, "", body)
	return strings.Join(lines, "\n")
}

// splitValue trims a header value and returns its non-empty lines.
func splitValue(value string) []string {
	raw := strings.Split(strings.TrimSpace(value), "\n")
	lines := raw[:0]
	for _, line := range raw {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Loads parses text into headers and body.
//
// A line containing ": " starts a new value: the text before the first ": "
// is the name, the rest is the value (both trimmed). A line without ": " is a
// continuation of the previous value; it is trimmed and appended after a
// newline. Continuation lines appearing before any header are ignored. The
// first empty line ends the headers; everything after it is the body.
func Loads(text string) (*Headers, string) {
	lines := strings.Split(text, "\n")
	h := NewHeaders()
	lastKey := ""
	haveKey := false

	idx := 0
	for ; idx < len(lines); idx++ {
		line := lines[idx]
		if line == "" {
			break
		}

		key, value, ok := strings.Cut(line, separator)
		if !ok {
			if haveKey {
				h.appendToLast(lastKey, "\n"+strings.TrimSpace(line))
			}
			continue
		}

		key = strings.TrimSpace(key)
		h.Add(key, strings.TrimSpace(value))
		lastKey, haveKey = key, true
	}

	body := ""
	if idx+1 < len(lines) {
		body = strings.Join(lines[idx+1:], "\n")
	}
	return h, body
}

// Dump writes the rendered headers and body to w.
func Dump(w io.Writer, h *Headers, body string) (int, error) {
	return io.WriteString(w, Dumps(h, body))
}

// Load reads all of r and parses it with Loads.
func Load(r io.Reader) (*Headers, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	h, body := Loads(string(data))
	return h, body, nil
}
