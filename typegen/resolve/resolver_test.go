package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/typegen"
	"github.com/teranos/contractor/typegen/identity"
	"github.com/teranos/contractor/typegen/source"
)

func newResolver(types ...*source.Type) *Resolver {
	g := &source.Graph{Version: "1.0.0", Types: types}
	registry := identity.NewRegistry(identity.Rules{Strip: []string{"Acme."}})
	return New(g, registry, MergeTypeMaps(nil), NewCache())
}

func member(name string, ref *source.Ref) *source.Member {
	return &source.Member{Name: name, Type: ref}
}

func names(props []typegen.OutputProperty) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.Name
	}
	return out
}

func TestTypeMapIsBuiltin(t *testing.T) {
	r := newResolver()
	d, err := r.Resolve(source.Named("System.Int32"))
	require.NoError(t, err)
	assert.Equal(t, "number", d.Text)
	assert.True(t, d.Builtin)
	assert.Nil(t, d.Identity)
	assert.Zero(t, r.Cache().Len())
}

func TestConfiguredTypeMapWins(t *testing.T) {
	g := &source.Graph{Types: []*source.Type{{FullName: "Acme.Money"}}}
	r := New(g, identity.NewRegistry(identity.Rules{}), MergeTypeMaps([][2]string{{"Acme.Money", "string"}, {"System.DateTime", "Date"}}), NewCache())

	d, err := r.Resolve(source.Named("Acme.Money"))
	require.NoError(t, err)
	assert.Equal(t, "string", d.Text)
	assert.True(t, d.Builtin)

	d, err = r.Resolve(source.Named("System.DateTime"))
	require.NoError(t, err)
	assert.Equal(t, "Date", d.Text)
}

func TestSelfReferenceTerminates(t *testing.T) {
	r := newResolver(&source.Type{
		FullName: "Acme.Tree.Node",
		Members: []*source.Member{
			member("Value", source.Named("System.String")),
			member("Children", source.SequenceOf(source.Named("Acme.Tree.Node"))),
			member("Parent", source.NullableOf(source.Named("Acme.Tree.Node"))),
		},
	})

	d, err := r.Declare("Acme.Tree.Node")
	require.NoError(t, err)
	require.NoError(t, r.Close())

	assert.Equal(t, "Node", d.Text)
	assert.False(t, d.Builtin)
	require.Equal(t, 1, r.Cache().Len())

	node := r.Cache().Declarations()[0]
	assert.Equal(t, identity.Identity{Path: "tree", Name: "Node"}, node.Identity)
	require.Len(t, node.Properties, 3)
	assert.Equal(t, "Node", node.Properties[1].Type.Text)
	assert.True(t, node.Properties[1].Type.Array)
	assert.True(t, node.Properties[2].Nullable)
	assert.Equal(t, node.Identity, *node.Properties[2].Type.Identity)
}

func TestMutualReferenceTerminates(t *testing.T) {
	r := newResolver(
		&source.Type{FullName: "Acme.Orders.Order", Members: []*source.Member{member("Lines", source.SequenceOf(source.Named("Acme.Orders.Line")))}},
		&source.Type{FullName: "Acme.Orders.Line", Members: []*source.Member{member("Order", source.Named("Acme.Orders.Order"))}},
	)

	for _, root := range []string{"Acme.Orders.Order", "Acme.Orders.Line"} {
		_, err := r.Declare(root)
		require.NoError(t, err)
	}
	require.NoError(t, r.Close())

	decls := r.Cache().Declarations()
	require.Len(t, decls, 2)
	assert.Equal(t, "Line", decls[0].Name())
	assert.Equal(t, "Order", decls[1].Name())
}

func TestIdempotentResolution(t *testing.T) {
	types := []*source.Type{
		{FullName: "Acme.A", Members: []*source.Member{member("B", source.Named("Acme.B"))}},
		{FullName: "Acme.B", Members: []*source.Member{member("A", source.Named("Acme.A")), member("N", source.Named("System.Int32"))}},
	}

	run := func() []*typegen.OutputType {
		r := newResolver(types...)
		_, err := r.Declare("Acme.A")
		require.NoError(t, err)
		return r.Cache().Declarations()
	}
	assert.Equal(t, run(), run())
}

func TestMappingOfSequence(t *testing.T) {
	r := newResolver(&source.Type{FullName: "Acme.Formula", Members: []*source.Member{member("Id", source.Named("System.Guid"))}})

	d, err := r.Resolve(source.MappingOf(source.Named("System.Guid"), source.SequenceOf(source.Named("Acme.Formula"))))
	require.NoError(t, err)
	assert.Equal(t, "{ [key: string]: Formula[] }", d.Text)
	assert.False(t, d.Builtin)
	assert.Equal(t, typegen.KindMapping, d.Kind)
}

func TestNestedMappingCollapsesToOneReference(t *testing.T) {
	r := newResolver(&source.Type{FullName: "Acme.Formula"})

	ref := source.MappingOf(
		source.Named("System.Guid"),
		source.MappingOf(source.Named("System.String"), source.SequenceOf(source.Named("Acme.Formula"))),
	)
	d, err := r.Resolve(ref)
	require.NoError(t, err)
	assert.Equal(t, "{ [key: string]: { [key: string]: Formula[] } }", d.Text)

	var refs []identity.Identity
	d.References(func(id identity.Identity) { refs = append(refs, id) })
	assert.Equal(t, []identity.Identity{{Name: "Formula"}}, refs)
}

func TestBuiltinMappingAndTuple(t *testing.T) {
	r := newResolver()

	d, err := r.Resolve(source.MappingOf(source.Named("System.String"), source.Named("System.Int32")))
	require.NoError(t, err)
	assert.Equal(t, "{ [key: string]: number }", d.Text)
	assert.True(t, d.Builtin)

	d, err = r.Resolve(source.TupleOf(source.Named("System.Int32"), source.Named("System.String")))
	require.NoError(t, err)
	assert.Equal(t, "{ item1: number, item2: string }", d.Text)
	assert.True(t, d.Builtin)
	assert.Equal(t, typegen.KindTuple, d.Kind)
}

func TestTupleWithReferenceIsNotBuiltin(t *testing.T) {
	r := newResolver(&source.Type{FullName: "Acme.Point"})
	d, err := r.Resolve(source.TupleOf(source.Named("Acme.Point"), source.SequenceOf(source.Named("System.Int32"))))
	require.NoError(t, err)
	assert.Equal(t, "{ item1: Point, item2: number[] }", d.Text)
	assert.False(t, d.Builtin)
}

func TestSequenceOfSequence(t *testing.T) {
	r := newResolver()
	d, err := r.Resolve(source.SequenceOf(source.SequenceOf(source.Named("System.Int32"))))
	require.NoError(t, err)
	assert.Equal(t, "number[][]", d.FullText())
	assert.True(t, d.Builtin)
}

func TestNullableIsTransparent(t *testing.T) {
	r := newResolver(&source.Type{FullName: "Acme.Person"})

	plain, err := r.Resolve(source.Named("Acme.Person"))
	require.NoError(t, err)
	wrapped, err := r.Resolve(source.NullableOf(source.Named("Acme.Person")))
	require.NoError(t, err)

	assert.Equal(t, plain.Text, wrapped.Text)
	assert.Equal(t, plain.Identity, wrapped.Identity)
	assert.False(t, plain.Nullable)
	assert.True(t, wrapped.Nullable)
	assert.Equal(t, 1, r.Cache().Len())
}

func TestDynamic(t *testing.T) {
	r := newResolver(
		&source.Type{FullName: "Acme.Bag", Dynamic: true},
		&source.Type{FullName: "Acme.Holder", Members: []*source.Member{
			{Name: "Payload", Type: source.Named("Acme.Bag")},
			{Name: "Extra", Dynamic: true},
			{Name: "Inline", Type: &source.Ref{Dynamic: true}},
		}},
	)
	_, err := r.Declare("Acme.Holder")
	require.NoError(t, err)

	holder := r.Cache().Declarations()[0]
	for _, p := range holder.Properties {
		assert.Equal(t, "any", p.Type.Text, p.Name)
		assert.True(t, p.Type.Builtin, p.Name)
	}
}

func TestTextTypeIsNeverASequence(t *testing.T) {
	r := newResolver(&source.Type{FullName: "Acme.Name", Text: true, Sequence: source.Named("System.Char")})
	d, err := r.Resolve(source.Named("Acme.Name"))
	require.NoError(t, err)
	assert.Equal(t, "string", d.Text)
	assert.False(t, d.Array)
}

func TestConstructedGeneric(t *testing.T) {
	r := newResolver(
		&source.Type{
			FullName:          "Acme.Paging.Page`1",
			GenericParameters: []string{"T"},
			Members: []*source.Member{
				member("Items", source.SequenceOf(&source.Ref{Parameter: "T"})),
				member("Total", source.Named("System.Int32")),
			},
		},
		&source.Type{FullName: "Acme.Orders.Order"},
	)

	d, err := r.Resolve(source.Named("Acme.Paging.Page`1", source.Named("Acme.Orders.Order")))
	require.NoError(t, err)
	assert.Equal(t, "Page<Order>", d.Text)
	assert.Equal(t, identity.Identity{Path: "paging", Name: "Page"}, *d.Identity)
	require.Len(t, d.Nested, 1)
	assert.Equal(t, "Order", d.Nested[0].Text)

	page, ok := r.Lookup(identity.Identity{Path: "paging", Name: "Page"})
	require.True(t, ok)
	assert.Equal(t, "Page<T>", page.DeclaredName())
	assert.Equal(t, "T", page.Properties[0].Type.Text)
	assert.Equal(t, typegen.KindParameter, page.Properties[0].Type.Kind)
	assert.True(t, page.Properties[0].Type.Array)

	// second use hits the cache and still renders its own argument
	d, err = r.Resolve(source.Named("Acme.Paging.Page`1", source.Named("System.String")))
	require.NoError(t, err)
	assert.Equal(t, "Page<string>", d.Text)
	assert.Equal(t, 2, r.Cache().Len())

	d, err = r.Resolve(source.Named("Acme.Paging.Page`1"))
	require.NoError(t, err)
	assert.Equal(t, "Page<any>", d.Text)
}

func TestStructuralGenericBindsArguments(t *testing.T) {
	r := newResolver(
		&source.Type{FullName: "Acme.Collections.List`1", GenericParameters: []string{"T"}, Sequence: &source.Ref{Parameter: "T"}},
		&source.Type{FullName: "Acme.Collections.Lookup`2", GenericParameters: []string{"K", "V"}, Mapping: &source.Mapping{Key: &source.Ref{Parameter: "K"}, Value: &source.Ref{Parameter: "V"}}},
		&source.Type{FullName: "Acme.Orders.Order"},
	)

	d, err := r.Resolve(source.Named("Acme.Collections.List`1", source.Named("Acme.Orders.Order")))
	require.NoError(t, err)
	assert.Equal(t, "Order[]", d.FullText())

	d, err = r.Resolve(source.Named("Acme.Collections.Lookup`2",
		source.Named("System.String"),
		source.Named("Acme.Collections.List`1", source.Named("System.Int32"))))
	require.NoError(t, err)
	assert.Equal(t, "{ [key: string]: number[] }", d.Text)
	assert.True(t, d.Builtin)
}

func TestParsedStructuralGenericBindsArguments(t *testing.T) {
	const doc = `{
  "version": "1.0.0",
  "types": [
    {"fullName": "Acme.Collections.List` + "`" + `1", "genericParameters": ["T"], "sequence": "T"},
    {"fullName": "Acme.Collections.Maybe` + "`" + `1", "genericParameters": ["T"], "nullable": "T"},
    {"fullName": "Acme.Orders.Order"}
  ]
}`
	g, err := source.Parse([]byte(doc), source.FormatJSON)
	require.NoError(t, err)
	r := New(g, identity.NewRegistry(identity.Rules{Strip: []string{"Acme."}}), MergeTypeMaps(nil), NewCache())

	tests := []struct {
		name string
		ref  *source.Ref
		want string
	}{
		{name: "sequence", ref: source.Named("Acme.Collections.List`1", source.Named("Acme.Orders.Order")), want: "Order[]"},
		{name: "nullable", ref: source.Named("Acme.Collections.Maybe`1", source.Named("Acme.Orders.Order")), want: "Order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := r.Resolve(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.FullText())
		})
	}
}

func TestSelfReferentialStructuralDegradesToAny(t *testing.T) {
	r := newResolver(&source.Type{FullName: "Acme.Json", Mapping: &source.Mapping{Key: source.Named("System.String"), Value: source.Named("Acme.Json")}})
	d, err := r.Resolve(source.Named("Acme.Json"))
	require.NoError(t, err)
	assert.Equal(t, "{ [key: string]: any }", d.Text)
}

func TestMemberOrderAndDeduplication(t *testing.T) {
	r := newResolver(
		&source.Type{
			FullName:   "Acme.Derived",
			Base:       source.Named("Acme.Base"),
			Implements: []*source.Ref{source.Named("Acme.IAudited")},
			Members: []*source.Member{
				member("Name", source.Named("System.String")),
				member("Id", source.Named("System.Int32")),
			},
		},
		&source.Type{
			FullName: "Acme.Base",
			Base:     source.Named("Acme.Root"),
			Members: []*source.Member{
				member("Id", source.Named("System.Guid")),
				member("Created", source.Named("System.DateTime")),
			},
		},
		&source.Type{FullName: "Acme.Root", Members: []*source.Member{member("Version", source.Named("System.Int64"))}},
		&source.Type{
			FullName: "Acme.IAudited",
			Members: []*source.Member{
				member("Created", source.Named("System.String")),
				member("Owner", source.Named("System.String")),
			},
		},
	)

	_, err := r.Declare("Acme.Derived")
	require.NoError(t, err)

	derived, ok := r.Lookup(identity.Identity{Name: "Derived"})
	require.True(t, ok)
	assert.Equal(t, []string{"name", "id", "created", "version", "owner"}, names(derived.Properties))
	// first occurrence wins: Id stays number, not the base's string
	assert.Equal(t, "number", derived.Properties[1].Type.Text)
	// bases are flattened, not declared
	assert.Equal(t, 1, r.Cache().Len())
}

func TestGenericBaseBindsArguments(t *testing.T) {
	r := newResolver(
		&source.Type{FullName: "Acme.Page`1", GenericParameters: []string{"T"}, Members: []*source.Member{member("Items", source.SequenceOf(&source.Ref{Parameter: "T"}))}},
		&source.Type{FullName: "Acme.OrderPage", Base: source.Named("Acme.Page`1", source.Named("Acme.Order"))},
		&source.Type{FullName: "Acme.Order"},
	)

	_, err := r.Declare("Acme.OrderPage")
	require.NoError(t, err)

	page, ok := r.Lookup(identity.Identity{Name: "OrderPage"})
	require.True(t, ok)
	require.Len(t, page.Properties, 1)
	assert.Equal(t, "Order[]", page.Properties[0].Type.FullText())
	assert.False(t, page.Properties[0].Type.Builtin)
}

func TestEnumDeclaration(t *testing.T) {
	r := newResolver(&source.Type{
		FullName: "Acme.Status",
		Enum:     true,
		Values: []*source.EnumValue{
			{Name: "None", Value: 0},
			{Name: "Paid", Value: 2, Deprecated: true, DeprecationReason: "No longer used"},
		},
	})

	d, err := r.Declare("Acme.Status")
	require.NoError(t, err)
	assert.Equal(t, "Status", d.Text)
	assert.False(t, d.Builtin)

	status := r.Cache().Declarations()[0]
	assert.True(t, status.Enum)
	require.Len(t, status.EnumMembers, 2)
	assert.Nil(t, status.EnumMembers[0].Deprecation)
	assert.Equal(t, "No longer used", status.EnumMembers[1].Deprecation.Reason)
}

func TestReadonlyAndDeprecatedMembers(t *testing.T) {
	r := newResolver(&source.Type{FullName: "Acme.Thing", Members: []*source.Member{
		{Name: "Id", Type: source.Named("System.Int32"), Readonly: true},
		{Name: "Old", Type: source.Named("System.Int32"), Deprecated: true},
	}})
	_, err := r.Declare("Acme.Thing")
	require.NoError(t, err)

	thing := r.Cache().Declarations()[0]
	assert.True(t, thing.Properties[0].Type.Readonly)
	require.NotNil(t, thing.Properties[1].Deprecation)
	assert.Empty(t, thing.Properties[1].Deprecation.Reason)
}

func TestUnknownType(t *testing.T) {
	r := newResolver(&source.Type{FullName: "Acme.A", Members: []*source.Member{member("B", source.Named("Acme.Missing"))}})
	_, err := r.Declare("Acme.A")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownType))
	assert.Contains(t, err.Error(), "Acme.Missing")
}

func TestCloseReportsUnfilledReservation(t *testing.T) {
	r := newResolver()
	r.Cache().Reserve(identity.Identity{Name: "Ghost"}, "Acme.Ghost")

	err := r.Close()
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
	assert.Contains(t, err.Error(), "Ghost")
}

func TestCacheTwoPhase(t *testing.T) {
	c := NewCache()
	id := identity.Identity{Path: "a", Name: "X"}

	assert.True(t, errors.HasAssertionFailure(c.Fill(&typegen.OutputType{Identity: id})))

	assert.True(t, c.Reserve(id, "A.X"))
	assert.False(t, c.Reserve(id, "A.X"))
	assert.True(t, c.Contains(id))
	_, filled := c.Lookup(id)
	assert.False(t, filled)
	assert.Equal(t, []identity.Identity{id}, c.Pending())

	require.NoError(t, c.Fill(&typegen.OutputType{Identity: id}))
	assert.True(t, errors.HasAssertionFailure(c.Fill(&typegen.OutputType{Identity: id})))
	assert.Empty(t, c.Pending())
	assert.Len(t, c.Declarations(), 1)
}
