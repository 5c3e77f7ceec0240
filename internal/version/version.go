// Package version parses, renders and orders dotted numeric versions such as
// "3", "3.11" or "3.8.11b5", and evaluates simple requires-python style
// constraints against them.
//
// A Version has a required major component, optional minor and patch
// components and an optional free-form tag suffix (e.g. "rc1", "b5", "+local").
// Numeric comparison walks the components both versions have; a component
// missing on either side ends the comparison, so "3" and "3.8" compare equal
// numerically. Tags then decide: an untagged version sorts before a tagged
// one, and two tags compare lexicographically by bytes.
package version

import (
	"cmp"
	"regexp"
	"strconv"
	"strings"

	"github.com/shinji-kodama/chakra/internal/model"
)

// versionPattern matches major[.minor[.patch]][tag]. The tag must start with a
// character that cannot continue a numeric component and may not contain dots.
var versionPattern = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]+))?(?:\.([0-9]+))?([A-Za-z_+~-][0-9A-Za-z_+~-]*)?$`)

// Version is an immutable parsed version. Use New or Parse to build one; the
// zero value renders as "0".
type Version struct {
	major, minor, patch int

	// parts is the number of numeric components present (1 to 3).
	parts int

	tag string
}

// New creates a version from its numeric components. At most two components
// may follow major; passing more is a programming error and panics.
func New(major int, rest ...int) Version {
	if len(rest) > 2 {
		panic("version: at most major.minor.patch components are supported")
	}
	v := Version{major: major, parts: 1 + len(rest)}
	if len(rest) > 0 {
		v.minor = rest[0]
	}
	if len(rest) > 1 {
		v.patch = rest[1]
	}
	return v
}

// WithTag returns a copy of v carrying tag. An empty tag removes the tag.
func (v Version) WithTag(tag string) Version {
	v.tag = tag
	return v
}

// Parse parses text of the form major[.minor[.patch]][tag].
//
// It returns a *model.FormatError for empty input, a leading dot, more than
// three numeric components, non-digit characters inside numeric components,
// and numeric components with leading zeros (which would not render back to
// the same text).
func Parse(text string) (Version, error) {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return Version{}, &model.FormatError{Kind: "version", Input: text}
	}

	var nums []int
	for _, group := range m[1:4] {
		if group == "" {
			break
		}
		if len(group) > 1 && group[0] == '0' {
			return Version{}, &model.FormatError{Kind: "version", Input: text, Reason: "leading zero in numeric component"}
		}
		n, err := strconv.Atoi(group)
		if err != nil {
			return Version{}, &model.FormatError{Kind: "version", Input: text, Reason: err.Error()}
		}
		nums = append(nums, n)
	}

	return New(nums[0], nums[1:]...).WithTag(m[4]), nil
}

// MustParse is like Parse but panics on malformed input. It is intended for
// constants and tests.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// Major returns the major component.
func (v Version) Major() int {
	return v.major
}

// Minor returns the minor component and whether it is present.
func (v Version) Minor() (int, bool) {
	return v.minor, v.parts >= 2
}

// Patch returns the patch component and whether it is present.
func (v Version) Patch() (int, bool) {
	return v.patch, v.parts >= 3
}

// Tag returns the tag suffix, or "" when there is none.
func (v Version) Tag() string {
	return v.tag
}

// numeric returns the numeric components that are present.
func (v Version) numeric() []int {
	all := []int{v.major, v.minor, v.patch}
	return all[:max(v.parts, 1)]
}

// truncate drops numeric components beyond n and the tag.
func (v Version) truncate(n int) Version {
	if n < v.parts {
		v.parts = max(n, 1)
	}
	v.tag = ""
	return v
}

// String renders exactly the components present, dot-joined, followed by the
// tag with no separator.
func (v Version) String() string {
	nums := v.numeric()
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".") + v.tag
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to,
// or after b.
func Compare(a, b Version) int {
	an, bn := a.numeric(), b.numeric()
	for i := 0; i < min(len(an), len(bn)); i++ {
		if c := cmp.Compare(an[i], bn[i]); c != 0 {
			return c
		}
	}
	return strings.Compare(a.tag, b.tag)
}

// Equal reports whether the numeric components compare equal and the tags
// are identical.
func (v Version) Equal(other Version) bool {
	return Compare(v, other) == 0
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool {
	return Compare(v, other) < 0
}
