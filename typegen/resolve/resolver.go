// Package resolve turns source type references into destination types.
//
// Rules are checked in a fixed order and the first match wins:
//
//  1. literal type-map entry             -> builtin text
//  2. identity already in the cache      -> reference to it
//  3. mapping capability                 -> { [key: K]: V }
//  4. sequence capability (not text)     -> element with array flag
//  5. tuple capability                   -> { item1: A, item2: B }
//  6. nullable-of-T                      -> T, nullability moves to the property
//  7. dynamic                            -> any
//  8. anything else                      -> reserve, resolve members, fill
//
// A declaration slot is reserved before its members are decomposed, so
// self-referential and mutually referential graphs close through rule 2.
package resolve

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/logger"
	"github.com/teranos/contractor/typegen"
	"github.com/teranos/contractor/typegen/identity"
	"github.com/teranos/contractor/typegen/source"
	"github.com/teranos/contractor/typegen/util"
)

// Rule names used in debug logs
const (
	RuleTypeMap   = "type-map"
	RuleCached    = "cached"
	RuleMapping   = "mapping"
	RuleSequence  = "sequence"
	RuleTuple     = "tuple"
	RuleNullable  = "nullable"
	RuleDynamic   = "dynamic"
	RuleParameter = "parameter"
	RuleText      = "text"
	RuleDeclare   = "declare"
)

// Resolver resolves references against one graph, populating one Cache
type Resolver struct {
	graph    *source.Graph
	registry *identity.Registry
	typeMaps map[string]string
	cache    *Cache
	log      *zap.SugaredLogger

	// structural named types currently being decomposed
	active map[string]bool
}

// New creates a resolver. typeMaps should already include defaults (see MergeTypeMaps).
func New(graph *source.Graph, registry *identity.Registry, typeMaps map[string]string, cache *Cache) *Resolver {
	return &Resolver{
		graph:    graph,
		registry: registry,
		typeMaps: typeMaps,
		cache:    cache,
		log:      logger.ComponentLogger("resolve"),
		active:   make(map[string]bool),
	}
}

// Cache returns the resolution context
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// IsMapped reports whether a full name has a literal type-map entry
func (r *Resolver) IsMapped(fullName string) bool {
	_, ok := r.typeMaps[fullName]
	return ok
}

// Lookup returns a filled declaration
func (r *Resolver) Lookup(id identity.Identity) (*typegen.OutputType, bool) {
	return r.cache.Lookup(id)
}

// Declare resolves a root type by full name, declaring it if it is a novel complex type
func (r *Resolver) Declare(fullName string) (typegen.DestinationType, error) {
	return r.Resolve(source.Named(fullName))
}

// Resolve turns one reference into a destination type
func (r *Resolver) Resolve(ref *source.Ref) (typegen.DestinationType, error) {
	return r.resolve(ref, nil)
}

// Close asserts that every reserved slot was filled. A leftover reservation means a
// resolution path returned without completing its declaration.
func (r *Resolver) Close() error {
	if pending := r.cache.Pending(); len(pending) > 0 {
		names := make([]string, len(pending))
		for i, id := range pending {
			names[i] = id.String()
		}
		return errors.AssertionFailedf("reserved declarations never filled: %s", strings.Join(names, ", "))
	}
	return nil
}

// bindings maps generic parameter names to the references bound to them
type bindings map[string]*source.Ref

func (r *Resolver) resolve(ref *source.Ref, env bindings) (typegen.DestinationType, error) {
	if ref == nil {
		return typegen.DestinationType{}, errors.AssertionFailedf("nil type reference")
	}

	switch {
	case ref.Name != "":
		return r.resolveNamed(ref, env)
	case ref.Mapping != nil:
		return r.resolveMapping(ref.Mapping, env)
	case ref.Sequence != nil:
		return r.resolveSequence(ref.Sequence, env)
	case len(ref.Tuple) > 0:
		return r.resolveTuple(ref.Tuple, env)
	case ref.Nullable != nil:
		return r.resolveNullable(ref.Nullable, env)
	case ref.Dynamic:
		return dynamic(), nil
	case ref.Parameter != "":
		if bound, ok := env[ref.Parameter]; ok {
			return r.resolve(bound, nil)
		}
		r.trace(ref.Parameter, RuleParameter)
		return typegen.DestinationType{Text: ref.Parameter, Kind: typegen.KindParameter, Builtin: true}, nil
	}
	return typegen.DestinationType{}, errors.NewInvalidGraphError("empty type reference")
}

func (r *Resolver) resolveNamed(ref *source.Ref, env bindings) (typegen.DestinationType, error) {
	name := ref.Name

	// 1. literal type-map override
	if text, ok := r.typeMaps[name]; ok {
		r.trace(name, RuleTypeMap)
		return typegen.DestinationType{Text: text, Kind: typegen.KindLiteral, Builtin: true}, nil
	}

	t, ok := r.graph.Lookup(name)
	if !ok {
		return typegen.DestinationType{}, errors.NewUnknownTypeError(name)
	}

	// Arguments of a constructed generic bind the definition's parameters
	args := make([]*source.Ref, len(ref.Args))
	for i, a := range ref.Args {
		args[i] = substitute(a, env)
	}

	// 2. already reserved or filled
	id := r.registry.Derive(name)
	if t.Declarable() && r.cache.Contains(id) {
		r.trace(name, RuleCached)
		return r.reference(t, id, args)
	}

	if t.Structural() {
		// A structural type that reaches itself through its own capability has no
		// name to close the cycle on; it degrades to any.
		if r.active[name] {
			r.log.Warnw("Self-referential structural type rendered as any", logger.FieldType, name)
			return dynamic(), nil
		}
		r.active[name] = true
		defer delete(r.active, name)

		local := bind(t.GenericParameters, args)
		switch {
		// 3. mapping
		case t.Mapping != nil:
			r.trace(name, RuleMapping)
			return r.resolveMapping(t.Mapping, local)
		// 4. sequence, unless the type is text
		case t.Sequence != nil && !t.Text:
			r.trace(name, RuleSequence)
			return r.resolveSequence(t.Sequence, local)
		// 5. tuple
		case len(t.Tuple) > 0:
			r.trace(name, RuleTuple)
			return r.resolveTuple(t.Tuple, local)
		// 6. nullable
		case t.Nullable != nil:
			r.trace(name, RuleNullable)
			return r.resolveNullable(t.Nullable, local)
		}
	}

	// 7. dynamic
	if t.Dynamic {
		r.trace(name, RuleDynamic)
		return dynamic(), nil
	}
	if t.Text {
		r.trace(name, RuleText)
		return typegen.DestinationType{Text: typegen.StringType, Kind: typegen.KindLiteral, Builtin: true}, nil
	}

	// 8. novel complex type
	r.trace(name, RuleDeclare)
	if err := r.declare(t, id); err != nil {
		return typegen.DestinationType{}, err
	}
	return r.reference(t, id, args)
}

// reference renders a named declaration, with generic arguments when constructed
func (r *Resolver) reference(t *source.Type, id identity.Identity, args []*source.Ref) (typegen.DestinationType, error) {
	ref := id
	d := typegen.DestinationType{Text: id.Name, Kind: typegen.KindReference, Identity: &ref}

	if len(args) == 0 {
		if n := len(t.GenericParameters); n > 0 {
			d.Text += "<" + strings.TrimSuffix(strings.Repeat(typegen.AnyType+", ", n), ", ") + ">"
		}
		return d, nil
	}

	texts := make([]string, len(args))
	for i, a := range args {
		nested, err := r.resolve(a, nil)
		if err != nil {
			return typegen.DestinationType{}, err
		}
		// Nullability has no place inside a type argument
		nested.Nullable = false
		d.Nested = append(d.Nested, nested)
		texts[i] = nested.FullText()
	}
	d.Text += "<" + strings.Join(texts, ", ") + ">"
	return d, nil
}

func (r *Resolver) resolveMapping(m *source.Mapping, env bindings) (typegen.DestinationType, error) {
	key, err := r.resolve(m.Key, env)
	if err != nil {
		return typegen.DestinationType{}, errors.Wrap(err, "mapping key")
	}
	value, err := r.resolve(m.Value, env)
	if err != nil {
		return typegen.DestinationType{}, errors.Wrap(err, "mapping value")
	}
	key.Nullable, value.Nullable = false, false

	return typegen.DestinationType{
		Text:    "{ [key: " + key.FullText() + "]: " + value.FullText() + " }",
		Kind:    typegen.KindMapping,
		Builtin: key.Builtin && value.Builtin,
		Nested:  []typegen.DestinationType{key, value},
	}, nil
}

func (r *Resolver) resolveSequence(elem *source.Ref, env bindings) (typegen.DestinationType, error) {
	d, err := r.resolve(elem, env)
	if err != nil {
		return typegen.DestinationType{}, err
	}
	if d.Array {
		// sequence of sequence keeps every level: number[][]
		d.Text = d.FullText()
	}
	d.Array = true
	d.Nullable = false
	return d, nil
}

func (r *Resolver) resolveTuple(slots []*source.Ref, env bindings) (typegen.DestinationType, error) {
	d := typegen.DestinationType{Kind: typegen.KindTuple, Builtin: true}
	fields := make([]string, len(slots))
	for i, s := range slots {
		slot, err := r.resolve(s, env)
		if err != nil {
			return typegen.DestinationType{}, errors.Wrapf(err, "tuple item%d", i+1)
		}
		slot.Nullable = false
		d.Builtin = d.Builtin && slot.Builtin
		d.Nested = append(d.Nested, slot)
		fields[i] = "item" + strconv.Itoa(i+1) + ": " + slot.FullText()
	}
	d.Text = "{ " + strings.Join(fields, ", ") + " }"
	return d, nil
}

func (r *Resolver) resolveNullable(inner *source.Ref, env bindings) (typegen.DestinationType, error) {
	d, err := r.resolve(inner, env)
	if err != nil {
		return typegen.DestinationType{}, err
	}
	d.Nullable = true
	return d, nil
}

// declare reserves the identity, resolves the type's members and fills the slot
func (r *Resolver) declare(t *source.Type, id identity.Identity) error {
	if !r.cache.Reserve(id, t.FullName) {
		return nil
	}
	r.log.Debugw("Reserved declaration", logger.FieldType, t.FullName, logger.FieldIdentity, id.String())

	out := &typegen.OutputType{
		Identity:          id,
		FullName:          t.FullName,
		Enum:              t.Enum,
		Deprecation:       deprecation(t.Deprecated, t.DeprecationReason),
		GenericParameters: t.GenericParameters,
	}

	if t.Enum {
		for _, v := range t.Values {
			out.EnumMembers = append(out.EnumMembers, typegen.OutputEnumMember{
				Name:        v.Name,
				Value:       v.Value,
				Deprecation: deprecation(v.Deprecated, v.DeprecationReason),
			})
		}
	} else {
		props, err := r.collect(t, nil, make(map[string]bool), make(map[string]bool))
		if err != nil {
			return errors.Wrapf(err, "resolving %s", t.FullName)
		}
		out.Properties = props
	}

	return r.cache.Fill(out)
}

// collect gathers own members, then base members, then each implemented capability's
// members, recursively. Names already collected are skipped: first occurrence wins.
func (r *Resolver) collect(t *source.Type, env bindings, names, visited map[string]bool) ([]typegen.OutputProperty, error) {
	if visited[t.FullName] {
		return nil, nil
	}
	visited[t.FullName] = true

	var props []typegen.OutputProperty
	for _, m := range t.Members {
		if names[m.Name] {
			continue
		}
		names[m.Name] = true

		prop, err := r.property(m, env)
		if err != nil {
			return nil, errors.Wrapf(err, "member %s", m.Name)
		}
		props = append(props, prop)
	}

	parents := make([]*source.Ref, 0, 1+len(t.Implements))
	if t.Base != nil {
		parents = append(parents, t.Base)
	}
	parents = append(parents, t.Implements...)

	for _, parentRef := range parents {
		parentRef = substitute(parentRef, env)
		if parentRef.Name == "" || r.IsMapped(parentRef.Name) {
			continue
		}
		parent, ok := r.graph.Lookup(parentRef.Name)
		if !ok {
			return nil, errors.NewUnknownTypeError(parentRef.Name)
		}
		inherited, err := r.collect(parent, bind(parent.GenericParameters, parentRef.Args), names, visited)
		if err != nil {
			return nil, errors.Wrapf(err, "inherited from %s", parent.FullName)
		}
		props = append(props, inherited...)
	}
	return props, nil
}

func (r *Resolver) property(m *source.Member, env bindings) (typegen.OutputProperty, error) {
	var d typegen.DestinationType
	if m.Dynamic {
		d = dynamic()
	} else {
		var err error
		if d, err = r.resolve(m.Type, env); err != nil {
			return typegen.OutputProperty{}, err
		}
	}
	if m.Readonly {
		d.Readonly = true
	}

	return typegen.OutputProperty{
		SourceName:  m.Name,
		Name:        util.ToCamelCase(m.Name),
		Type:        d,
		Nullable:    d.Nullable,
		Deprecation: deprecation(m.Deprecated, m.DeprecationReason),
	}, nil
}

func (r *Resolver) trace(name, rule string) {
	if logger.Enabled(logger.OutputResolution) {
		r.log.Debugw("Resolved reference", logger.FieldType, name, logger.FieldRule, rule)
	}
}

func dynamic() typegen.DestinationType {
	return typegen.DestinationType{Text: typegen.AnyType, Kind: typegen.KindDynamic, Builtin: true}
}

func deprecation(deprecated bool, reason string) *typegen.Deprecation {
	if !deprecated {
		return nil
	}
	return &typegen.Deprecation{Reason: reason}
}

// bind pairs generic parameter names with arguments; missing arguments stay unbound
func bind(params []string, args []*source.Ref) bindings {
	if len(params) == 0 || len(args) == 0 {
		return nil
	}
	env := make(bindings, len(params))
	for i, p := range params {
		if i < len(args) {
			env[p] = args[i]
		}
	}
	return env
}

// substitute replaces bound parameter references in ref, returning a copy when anything changed
func substitute(ref *source.Ref, env bindings) *source.Ref {
	if ref == nil || len(env) == 0 {
		return ref
	}
	if ref.Parameter != "" {
		if bound, ok := env[ref.Parameter]; ok {
			return bound
		}
		return ref
	}

	out := *ref
	if len(ref.Args) > 0 {
		out.Args = make([]*source.Ref, len(ref.Args))
		for i, a := range ref.Args {
			out.Args[i] = substitute(a, env)
		}
	}
	out.Sequence = substitute(ref.Sequence, env)
	out.Nullable = substitute(ref.Nullable, env)
	if ref.Mapping != nil {
		out.Mapping = &source.Mapping{Key: substitute(ref.Mapping.Key, env), Value: substitute(ref.Mapping.Value, env)}
	}
	if len(ref.Tuple) > 0 {
		out.Tuple = make([]*source.Ref, len(ref.Tuple))
		for i, s := range ref.Tuple {
			out.Tuple[i] = substitute(s, env)
		}
	}
	return &out
}
