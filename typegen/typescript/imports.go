package typescript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/typegen"
	"github.com/teranos/contractor/typegen/identity"
)

// SchemaLibraryImport is emitted first in every file when schemas are enabled
const SchemaLibraryImport = "import { z } from 'zod';"

// Declarations is the resolved set of one run, keyed by identity
type Declarations struct {
	byID  map[identity.Identity]*typegen.OutputType
	order []*typegen.OutputType
}

// NewDeclarations indexes the resolved declarations
func NewDeclarations(decls []*typegen.OutputType) *Declarations {
	d := &Declarations{byID: make(map[identity.Identity]*typegen.OutputType, len(decls))}
	for _, o := range decls {
		if _, dup := d.byID[o.Identity]; dup {
			continue
		}
		d.byID[o.Identity] = o
		d.order = append(d.order, o)
	}
	return d
}

// Lookup finds a declaration by identity
func (d *Declarations) Lookup(id identity.Identity) (*typegen.OutputType, bool) {
	o, ok := d.byID[id]
	return o, ok
}

// All returns the declarations in their original order
func (d *Declarations) All() []*typegen.OutputType {
	return d.order
}

// Len is the number of declarations
func (d *Declarations) Len() int {
	return len(d.order)
}

// ReferencedBy lists every declaration with a property referencing id
func (d *Declarations) ReferencedBy(id identity.Identity) []identity.Identity {
	var refs []identity.Identity
	for _, o := range d.order {
		found := false
		o.References(func(ref identity.Identity) {
			if ref == id {
				found = true
			}
		})
		if found {
			refs = append(refs, o.Identity)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	return refs
}

// UnresolvedImportError reports a reference to an identity that is not in the resolved set
type UnresolvedImportError struct {
	Consumer     identity.Identity
	Missing      identity.Identity
	ReferencedBy []identity.Identity
}

func (e *UnresolvedImportError) Error() string {
	msg := fmt.Sprintf("unresolved import: %s references %s", e.Consumer, e.Missing)
	if len(e.ReferencedBy) > 0 {
		names := make([]string, len(e.ReferencedBy))
		for i, id := range e.ReferencedBy {
			names[i] = id.String()
		}
		msg += " (also referenced by " + strings.Join(names, ", ") + ")"
	}
	return msg
}

// Is matches errors.ErrUnresolvedImport
func (e *UnresolvedImportError) Is(target error) bool {
	return target == errors.ErrUnresolvedImport
}

// Import is one import statement
type Import struct {
	Identity identity.Identity
	// Names are the imported bindings: the declaration, then its schema when used
	Names     []string
	Specifier string
}

func (i Import) String() string {
	return fmt.Sprintf("import { %s } from '%s';", strings.Join(i.Names, ", "), i.Specifier)
}

// ImportRequest describes what a consumer needs imported
type ImportRequest struct {
	// Consumer is the identity of the importing module; it never imports itself
	Consumer identity.Identity
	// Dir is the output-relative folder of the importing file
	Dir string
	// Types are the destination types used by the consumer, in order
	Types []typegen.DestinationType
	// Schemas adds the companion schema binding for directly used identities
	Schemas bool
	// SchemaTypes, when set, replaces Types as the source of directly used identities
	SchemaTypes []typegen.DestinationType
	// Rooted uses Layout.RootedImport instead of relative paths
	Rooted bool
}

// ResolveImports computes one import per referenced identity, in order of first use.
// Every identity reachable from the request's types, including nested generic arguments,
// must be present in decls.
func ResolveImports(req ImportRequest, decls *Declarations, layout Layout) ([]Import, error) {
	schemaTypes := req.Types
	if req.SchemaTypes != nil {
		schemaTypes = req.SchemaTypes
	}
	direct := make(map[identity.Identity]bool)
	for _, t := range schemaTypes {
		SchemaReferences(t, func(id identity.Identity) { direct[id] = true })
	}

	var imports []Import
	seen := make(map[identity.Identity]bool)
	var firstErr error
	for _, t := range req.Types {
		t.References(func(id identity.Identity) {
			if firstErr != nil || seen[id] || id == req.Consumer {
				return
			}
			seen[id] = true

			producer, ok := decls.Lookup(id)
			if !ok {
				firstErr = &UnresolvedImportError{
					Consumer:     req.Consumer,
					Missing:      id,
					ReferencedBy: without(decls.ReferencedBy(id), req.Consumer),
				}
				return
			}

			imp := Import{Identity: id, Names: []string{producer.Name()}}
			if req.Rooted {
				imp.Specifier = layout.RootedImport(req.Dir, id)
			} else {
				imp.Specifier = layout.RelativeImport(req.Dir, id)
			}
			if req.Schemas && direct[id] {
				imp.Names = append(imp.Names, SchemaName(producer.Name()))
			}
			imports = append(imports, imp)
		})
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return imports, nil
}

// PropertyTypes collects the destination types of a declaration's properties
func PropertyTypes(o *typegen.OutputType) []typegen.DestinationType {
	types := make([]typegen.DestinationType, len(o.Properties))
	for i, p := range o.Properties {
		types[i] = p.Type
	}
	return types
}

func without(ids []identity.Identity, skip identity.Identity) []identity.Identity {
	out := ids[:0:0]
	for _, id := range ids {
		if id != skip {
			out = append(out, id)
		}
	}
	return out
}
