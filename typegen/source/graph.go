// Package source holds the language-neutral type graph consumed by the generator:
// named types with members and structural capabilities, plus API client endpoints.
package source

import "strings"

// Graph is one extracted type/member/endpoint graph
type Graph struct {
	Version string    `json:"version" yaml:"version"`
	Types   []*Type   `json:"types" yaml:"types"`
	Roots   []string  `json:"roots,omitempty" yaml:"roots,omitempty"`
	Clients []*Client `json:"clients,omitempty" yaml:"clients,omitempty"`

	index map[string]*Type
}

// Type is one named source type
type Type struct {
	FullName          string       `json:"fullName" yaml:"fullName"`
	Enum              bool         `json:"enum,omitempty" yaml:"enum,omitempty"`
	Text              bool         `json:"text,omitempty" yaml:"text,omitempty"`
	Dynamic           bool         `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	Deprecated        bool         `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	DeprecationReason string       `json:"deprecationReason,omitempty" yaml:"deprecationReason,omitempty"`
	GenericParameters []string     `json:"genericParameters,omitempty" yaml:"genericParameters,omitempty"`
	Base              *Ref         `json:"base,omitempty" yaml:"base,omitempty"`
	Implements        []*Ref       `json:"implements,omitempty" yaml:"implements,omitempty"`
	Members           []*Member    `json:"members,omitempty" yaml:"members,omitempty"`
	Values            []*EnumValue `json:"values,omitempty" yaml:"values,omitempty"`

	// Structural capabilities of a named type, e.g. a collection class
	Sequence *Ref     `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Mapping  *Mapping `json:"mapping,omitempty" yaml:"mapping,omitempty"`
	Tuple    []*Ref   `json:"tuple,omitempty" yaml:"tuple,omitempty"`
	Nullable *Ref     `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

// Structural reports whether the type is described by a capability rather than by members
func (t *Type) Structural() bool {
	return t.Sequence != nil || t.Mapping != nil || len(t.Tuple) > 0 || t.Nullable != nil
}

// Declarable reports whether the type emits its own declaration
func (t *Type) Declarable() bool {
	return !t.Structural() && !t.Text && !t.Dynamic
}

// Member is one property of a record type
type Member struct {
	Name              string `json:"name" yaml:"name"`
	Type              *Ref   `json:"type" yaml:"type"`
	Readonly          bool   `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Dynamic           bool   `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	Deprecated        bool   `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	DeprecationReason string `json:"deprecationReason,omitempty" yaml:"deprecationReason,omitempty"`
}

// EnumValue is one enum arm
type EnumValue struct {
	Name              string `json:"name" yaml:"name"`
	Value             int64  `json:"value" yaml:"value"`
	Deprecated        bool   `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	DeprecationReason string `json:"deprecationReason,omitempty" yaml:"deprecationReason,omitempty"`
}

// Mapping is a key/value capability
type Mapping struct {
	Key   *Ref `json:"key" yaml:"key"`
	Value *Ref `json:"value" yaml:"value"`
}

// Ref references a source type. Exactly one of the fields is set,
// except Args which accompanies Name for constructed generics.
type Ref struct {
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Args      []*Ref   `json:"args,omitempty" yaml:"args,omitempty"`
	Sequence  *Ref     `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Mapping   *Mapping `json:"mapping,omitempty" yaml:"mapping,omitempty"`
	Tuple     []*Ref   `json:"tuple,omitempty" yaml:"tuple,omitempty"`
	Nullable  *Ref     `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Dynamic   bool     `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	Parameter string   `json:"parameter,omitempty" yaml:"parameter,omitempty"`
}

// Named returns a reference to a named type
func Named(fullName string, args ...*Ref) *Ref {
	return &Ref{Name: fullName, Args: args}
}

// SequenceOf returns a sequence reference
func SequenceOf(elem *Ref) *Ref {
	return &Ref{Sequence: elem}
}

// MappingOf returns a mapping reference
func MappingOf(key, value *Ref) *Ref {
	return &Ref{Mapping: &Mapping{Key: key, Value: value}}
}

// TupleOf returns a tuple reference
func TupleOf(slots ...*Ref) *Ref {
	return &Ref{Tuple: slots}
}

// NullableOf returns a nullable reference
func NullableOf(inner *Ref) *Ref {
	return &Ref{Nullable: inner}
}

// ParseRef parses the string shorthand of a reference:
// "Acme.Order", "Acme.Order[]" (sequence), "Acme.Order?" (nullable), "Acme.Order[]?", "T" is a plain name.
func ParseRef(s string) *Ref {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "?"):
		return NullableOf(ParseRef(strings.TrimSuffix(s, "?")))
	case strings.HasSuffix(s, "[]"):
		return SequenceOf(ParseRef(strings.TrimSuffix(s, "[]")))
	default:
		return Named(s)
	}
}

// set counts how many alternatives the reference carries
func (r *Ref) set() int {
	n := 0
	for _, ok := range []bool{r.Name != "", r.Sequence != nil, r.Mapping != nil, len(r.Tuple) > 0, r.Nullable != nil, r.Dynamic, r.Parameter != ""} {
		if ok {
			n++
		}
	}
	return n
}

func (r *Ref) String() string {
	if r == nil {
		return "<nil>"
	}
	switch {
	case r.Name != "" && len(r.Args) > 0:
		args := make([]string, len(r.Args))
		for i, a := range r.Args {
			args[i] = a.String()
		}
		return r.Name + "<" + strings.Join(args, ", ") + ">"
	case r.Name != "":
		return r.Name
	case r.Sequence != nil:
		return r.Sequence.String() + "[]"
	case r.Mapping != nil:
		return "map<" + r.Mapping.Key.String() + ", " + r.Mapping.Value.String() + ">"
	case len(r.Tuple) > 0:
		slots := make([]string, len(r.Tuple))
		for i, s := range r.Tuple {
			slots[i] = s.String()
		}
		return "(" + strings.Join(slots, ", ") + ")"
	case r.Nullable != nil:
		return r.Nullable.String() + "?"
	case r.Dynamic:
		return "dynamic"
	case r.Parameter != "":
		return r.Parameter
	}
	return "<empty>"
}

// Walk visits r and every nested reference depth-first
func (r *Ref) Walk(fn func(*Ref)) {
	if r == nil {
		return
	}
	fn(r)
	for _, a := range r.Args {
		a.Walk(fn)
	}
	r.Sequence.Walk(fn)
	if r.Mapping != nil {
		r.Mapping.Key.Walk(fn)
		r.Mapping.Value.Walk(fn)
	}
	for _, s := range r.Tuple {
		s.Walk(fn)
	}
	r.Nullable.Walk(fn)
}

// Lookup finds a type by full name
func (g *Graph) Lookup(fullName string) (*Type, bool) {
	if g.index == nil {
		g.reindex()
	}
	t, ok := g.index[fullName]
	return t, ok
}

func (g *Graph) reindex() {
	g.index = make(map[string]*Type, len(g.Types))
	for _, t := range g.Types {
		if _, dup := g.index[t.FullName]; !dup {
			g.index[t.FullName] = t
		}
	}
}

// normalize turns plain names that match a type's own generic parameters into parameter refs
func (g *Graph) normalize() {
	for _, t := range g.Types {
		if len(t.GenericParameters) == 0 {
			continue
		}
		params := make(map[string]bool, len(t.GenericParameters))
		for _, p := range t.GenericParameters {
			params[p] = true
		}
		rewrite := func(r *Ref) {
			if r.Name != "" && len(r.Args) == 0 && params[r.Name] {
				r.Parameter, r.Name = r.Name, ""
			}
		}
		for _, m := range t.Members {
			m.Type.Walk(rewrite)
		}
		t.Base.Walk(rewrite)
		for _, iface := range t.Implements {
			iface.Walk(rewrite)
		}

		t.Sequence.Walk(rewrite)
		if t.Mapping != nil {
			t.Mapping.Key.Walk(rewrite)
			t.Mapping.Value.Walk(rewrite)
		}
		for _, slot := range t.Tuple {
			slot.Walk(rewrite)
		}
		t.Nullable.Walk(rewrite)
	}
}

// RootNames returns the configured roots, or every declarable type in document order
func (g *Graph) RootNames() []string {
	if len(g.Roots) > 0 {
		return g.Roots
	}
	var roots []string
	for _, t := range g.Types {
		if t.Declarable() {
			roots = append(roots, t.FullName)
		}
	}
	return roots
}
