// Package ini converts between an ordered two-level mapping (section → key →
// value) and INI text, the format of entry_points.txt.
//
// Dumps renders "[section]" headers followed by "key = value" lines, with one
// blank line between sections and no trailing separator after the last one.
// Loads parses such text with github.com/go-ini/ini configured to use "=" as
// the only delimiter and to keep values verbatim (no inline comments, no
// quote stripping, no backslash continuations), so entry-point references
// such as "pkg.module:func" survive unchanged. Keys that appear before any
// section header are not supported and are reported as a FormatError.
package ini
