// Package pyproject reads the declarative project description
// (pyproject.toml) into an explicit schema.
//
// Every recognised key path is enumerated once, in rawDocument, and decoded
// with github.com/BurntSushi/toml. A value of the wrong TOML type is reported
// as a *model.ConfigParseError instead of being silently ignored. Keys whose
// value may take several shapes (project.readme, project.license) are
// resolved into a TextSource tagged union. Mapping-valued keys whose order
// matters (urls, optional-dependencies, entry points, dev-deps) are returned
// as slices in document order, recovered from the decoder's key metadata.
//
// The package performs no file reads beyond the configuration document
// itself; files referenced by the document (readme, license) are read by the
// metadata resolver. WriteSkeleton writes a new document using
// github.com/pelletier/go-toml/v2.
package pyproject
