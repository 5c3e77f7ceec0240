package metadata

import (
	"io"

	"github.com/shinji-kodama/chakra/internal/ini"
	"github.com/shinji-kodama/chakra/internal/pyproject"
)

const (
	// ConsoleScripts is the entry-point group for project.scripts.
	ConsoleScripts = "console_scripts"

	// GUIScripts is the entry-point group for project.gui-scripts.
	GUIScripts = "gui_scripts"
)

// EntryPoints is the entry_points.txt table: console_scripts, gui_scripts
// and any custom groups, in that order.
type EntryPoints struct {
	data *ini.Data
}

// ResolveEntryPoints builds the entry-points table from doc. The
// console_scripts and gui_scripts sections are always present, even when
// empty. A custom group reusing one of those names is merged into it.
func ResolveEntryPoints(doc *pyproject.Document) *EntryPoints {
	d := ini.New()

	console := d.Section(ConsoleScripts)
	for _, e := range doc.Project.Scripts {
		console.Set(e.Name, e.Object)
	}
	gui := d.Section(GUIScripts)
	for _, e := range doc.Project.GUIScripts {
		gui.Set(e.Name, e.Object)
	}

	for _, g := range doc.Project.EntryPoints {
		s := d.Section(g.Name)
		for _, e := range g.Entries {
			s.Set(e.Name, e.Object)
		}
	}

	return &EntryPoints{data: d}
}

// Groups returns the table as entry-point groups, in section order.
func (e *EntryPoints) Groups() []pyproject.EntryPointGroup {
	var out []pyproject.EntryPointGroup
	for _, s := range e.data.Sections() {
		g := pyproject.EntryPointGroup{Name: s.Name(), Entries: []pyproject.EntryPoint{}}
		for _, key := range s.Keys() {
			obj, _ := s.Get(key)
			g.Entries = append(g.Entries, pyproject.EntryPoint{Name: key, Object: obj})
		}
		out = append(out, g)
	}
	return out
}

// Data returns the underlying ini table.
func (e *EntryPoints) Data() *ini.Data {
	return e.data
}

// Text renders the entry_points.txt contents.
func (e *EntryPoints) Text() string {
	return ini.Dumps(e.data)
}

// WriteTo writes the entry_points.txt contents to w.
func (e *EntryPoints) WriteTo(w io.Writer) (int64, error) {
	n, err := ini.Dump(w, e.data)
	return int64(n), err
}
