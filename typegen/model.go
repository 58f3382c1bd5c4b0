package typegen

import (
	"strings"

	"github.com/teranos/contractor/typegen/identity"
)

// Builtin TypeScript type texts
const (
	AnyType     = "any"
	StringType  = "string"
	BooleanType = "boolean"
	NumberType  = "number"
)

// Kind discriminates how a DestinationType was produced
type Kind int

const (
	KindReference Kind = iota // named declaration (possibly a constructed generic)
	KindLiteral               // type-map text substitution
	KindMapping               // { [key: K]: V }
	KindTuple                 // { item1: A, item2: B }
	KindDynamic               // any
	KindParameter             // generic parameter placeholder, e.g. T
)

// DestinationType is one rendered type reference
type DestinationType struct {
	Text     string
	Kind     Kind
	Builtin  bool
	Array    bool
	Readonly bool
	// Nullable is carried to the referencing property as "?" and never changes Text
	Nullable bool
	// Identity of the referenced declaration, set for KindReference
	Identity *identity.Identity
	// Nested holds generic arguments, mapping key/value or tuple slots, in order
	Nested []DestinationType
}

// FullText is the type text including the array suffix
func (d DestinationType) FullText() string {
	if d.Array {
		return d.Text + "[]"
	}
	return d.Text
}

// References walks d and its nested types, calling fn for every non-builtin declaration reference
func (d DestinationType) References(fn func(identity.Identity)) {
	if d.Identity != nil && !d.Builtin {
		fn(*d.Identity)
	}
	for _, nested := range d.Nested {
		nested.References(fn)
	}
}

// Deprecation marks a member, value or declaration as deprecated
type Deprecation struct {
	Reason string
}

// OutputProperty is one interface member
type OutputProperty struct {
	SourceName  string
	Name        string
	Type        DestinationType
	Nullable    bool
	Deprecation *Deprecation
}

// OutputEnumMember is one enum arm
type OutputEnumMember struct {
	Name        string
	Value       int64
	Deprecation *Deprecation
}

// OutputType is one emitted declaration
type OutputType struct {
	Identity          identity.Identity
	FullName          string
	Enum              bool
	Properties        []OutputProperty
	EnumMembers       []OutputEnumMember
	Deprecation       *Deprecation
	GenericParameters []string
}

// Name is the declared name
func (o *OutputType) Name() string {
	return o.Identity.Name
}

// DeclaredName includes generic parameters, e.g. "Page<T>"
func (o *OutputType) DeclaredName() string {
	if len(o.GenericParameters) == 0 {
		return o.Identity.Name
	}
	return o.Identity.Name + "<" + strings.Join(o.GenericParameters, ", ") + ">"
}

// References calls fn once per property for each referenced declaration identity
func (o *OutputType) References(fn func(identity.Identity)) {
	for _, p := range o.Properties {
		p.Type.References(fn)
	}
}
