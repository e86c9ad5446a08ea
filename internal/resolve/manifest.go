package resolve

import (
	"sort"
	"strings"

	"github.com/felico-lang/felico/internal/ast"
	"github.com/felico-lang/felico/internal/types"
)

// Manifest is the exported interface of a resolved module: every
// module-scope name paired with its resolved type signature (spec.md
// §4.4, §6).
type Manifest struct {
	ModuleName string
	Exports    map[string]*types.Type
}

// Names returns the manifest's export names in ascending order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Exports))
	for n := range m.Exports {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// String renders the manifest in the stable textual form of spec.md
// §6: a "Module" header followed by one "  <name>: <signature>" line
// per export in ascending name order.
func (m *Manifest) String() string {
	var sb strings.Builder
	sb.WriteString("Module\n")
	for _, name := range m.Names() {
		sb.WriteString("  ")
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(m.Exports[name].Signature())
		sb.WriteString("\n")
	}
	return sb.String()
}

// buildManifest collects every module-scope name (functions, structs,
// traits, and top-level lets) declared directly in mod's statement
// list, using the types the resolver already annotated onto them.
func (r *Resolver) buildManifest(mod *ast.Module) *Manifest {
	m := &Manifest{ModuleName: mod.Name, Exports: make(map[string]*types.Type)}
	for _, stmt := range mod.Statements {
		switch n := stmt.(type) {
		case *ast.FunDecl:
			m.Exports[n.Name] = n.Type
		case *ast.StructDecl:
			m.Exports[n.Name] = types.TypeOfType
		case *ast.TraitDecl:
			m.Exports[n.Name] = types.TypeOfType
		case *ast.LetStmt:
			m.Exports[n.Name] = n.Type
		}
	}
	return m
}
