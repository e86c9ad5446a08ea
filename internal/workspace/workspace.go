// Package workspace owns the backing storage for one compilation session.
// Everything allocated through a Workspace — interned strings, source
// files — lives for the session's lifetime; nothing is freed until the
// whole Workspace is dropped. This lets AST and type nodes reference each
// other by plain Go pointer without reference counting (see spec.md §4.1
// and §9's note on avoiding self-referential allocation schemes).
package workspace

import "github.com/felico-lang/felico/internal/source"

// Workspace is the session-scoped arena. It is not safe for concurrent
// use; Felico's pipeline is single-threaded by design (spec.md §5).
type Workspace struct {
	strings map[string]*string
	files   []*source.File
}

// New creates an empty Workspace.
func New() *Workspace {
	return &Workspace{
		strings: make(map[string]*string),
	}
}

// Intern returns a workspace-owned copy of s. The first call for a
// given string stores the copy; later calls with an equal string return
// that same stored copy, sharing its backing bytes.
func (w *Workspace) Intern(s string) string {
	if existing, ok := w.strings[s]; ok {
		return *existing
	}
	// Copy s so the map key and the returned value do not alias a
	// caller-owned buffer (e.g. a slice of source.File.Content) that
	// might be reused.
	copied := string(append([]byte(nil), s...))
	w.strings[s] = &copied
	return copied
}

// SourceFileFromString allocates path and content inside the workspace
// and returns a *source.File usable for the remainder of the session.
func (w *Workspace) SourceFileFromString(path, content string) *source.File {
	f := &source.File{
		Path:    w.Intern(path),
		Content: content,
	}
	w.files = append(w.files, f)
	return f
}

// Files returns every source file allocated in this workspace, in
// allocation order.
func (w *Workspace) Files() []*source.File {
	return w.files
}
