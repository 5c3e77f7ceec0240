// Package metadata resolves a parsed pyproject document into the core
// package metadata record and the entry-points table, and renders both to
// their distribution file formats.
//
// Metadata is rendered with the rfc822 headered text format (the METADATA
// file of a dist-info directory); EntryPoints is rendered with the ini
// key/value format (entry_points.txt).
//
// Resolution is all-or-nothing: on error no partial Metadata is returned.
// Filesystem errors from reading a referenced readme or license file are
// returned as-is, so errors.Is(err, fs.ErrNotExist) works for callers.
package metadata
