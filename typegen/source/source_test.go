package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/contractor/errors"
)

const ordersJSON = `{
  "version": "1.2.0",
  "types": [
    {
      "fullName": "Acme.Orders.OrderDto",
      "members": [
        {"name": "Id", "type": "System.Guid"},
        {"name": "Lines", "type": "Acme.Orders.OrderLine[]"},
        {"name": "Note", "type": "System.String?"},
        {"name": "Tags", "type": {"mapping": {"key": "System.String", "value": "System.Int32[]"}}}
      ]
    },
    {
      "fullName": "Acme.Orders.OrderLine",
      "members": [{"name": "Order", "type": "Acme.Orders.OrderDto", "readonly": true}]
    },
    {
      "fullName": "Acme.Paging.Page` + "`" + `1",
      "genericParameters": ["T"],
      "members": [{"name": "Items", "type": "T[]"}, {"name": "Total", "type": "System.Int32"}]
    },
    {"fullName": "Acme.Orders.Status", "enum": true, "values": [{"name": "Open", "value": 0}, {"name": "Closed", "value": 1, "deprecated": true}]},
    {"fullName": "Acme.Orders.OrderMap", "mapping": {"key": "System.String", "value": "Acme.Orders.OrderDto"}}
  ],
  "clients": [
    {
      "name": "OrdersController",
      "prefix": "orders",
      "endpoints": [
        {"name": "get", "route": "{id}", "method": "get", "parameters": [{"name": "id", "type": "System.Guid"}], "returns": "Acme.Orders.OrderDto"}
      ]
    }
  ]
}`

var builtins = map[string]bool{"System.Guid": true, "System.String": true, "System.Int32": true}

func mapped(name string) bool { return builtins[name] }

func TestParseJSON(t *testing.T) {
	g, err := Parse([]byte(ordersJSON), FormatJSON)
	require.NoError(t, err)
	require.NoError(t, g.Validate(mapped))

	order, ok := g.Lookup("Acme.Orders.OrderDto")
	require.True(t, ok)
	require.Len(t, order.Members, 4)
	assert.Equal(t, "System.Guid", order.Members[0].Type.Name)
	assert.Equal(t, "Acme.Orders.OrderLine", order.Members[1].Type.Sequence.Name)
	assert.Equal(t, "System.String", order.Members[2].Type.Nullable.Name)
	assert.Equal(t, "System.Int32", order.Members[3].Type.Mapping.Value.Sequence.Name)

	page, ok := g.Lookup("Acme.Paging.Page`1")
	require.True(t, ok)
	// plain "T" inside the generic definition becomes a parameter reference
	assert.Equal(t, "T", page.Members[0].Type.Sequence.Parameter)
	assert.Empty(t, page.Members[0].Type.Sequence.Name)

	assert.Equal(t, []string{"Acme.Orders.OrderDto", "Acme.Orders.OrderLine", "Acme.Paging.Page`1", "Acme.Orders.Status"}, g.RootNames())
	require.Len(t, g.Clients, 1)
	assert.Equal(t, "get", g.Clients[0].Endpoints[0].Method)
}

func TestParseJSONUnknownField(t *testing.T) {
	_, err := Parse([]byte(`{"version": "1.0.0", "typez": []}`), FormatJSON)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidGraph))
}

func TestParseYAML(t *testing.T) {
	doc := `
version: 1.0.0
roots: [Acme.Person]
types:
  - fullName: Acme.Person
    members:
      - name: Name
        type: System.String
      - name: Friends
        type:
          sequence: Acme.Person
      - name: Scores
        type:
          tuple: [System.Int32, System.String]
`
	g, err := Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)
	require.NoError(t, g.Validate(mapped))

	person, ok := g.Lookup("Acme.Person")
	require.True(t, ok)
	assert.Equal(t, "Acme.Person", person.Members[1].Type.Sequence.Name)
	require.Len(t, person.Members[2].Type.Tuple, 2)
	assert.Equal(t, []string{"Acme.Person"}, g.RootNames())
}

func TestParseTOML(t *testing.T) {
	doc := `
version = "1.0.0"

[[types]]
fullName = "Acme.Color"
enum = true
values = [{ name = "Red", value = 1 }, { name = "Blue", value = 2 }]

[[types]]
fullName = "Acme.Palette"
members = [{ name = "Primary", type = "Acme.Color" }, { name = "Extra", type = "Acme.Color[]?" }]
`
	g, err := Parse([]byte(doc), FormatTOML)
	require.NoError(t, err)
	require.NoError(t, g.Validate(mapped))

	color, ok := g.Lookup("Acme.Color")
	require.True(t, ok)
	assert.True(t, color.Enum)
	assert.Equal(t, int64(2), color.Values[1].Value)

	palette, _ := g.Lookup("Acme.Palette")
	assert.Equal(t, "Acme.Color", palette.Members[1].Type.Nullable.Sequence.Name)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(ordersJSON), 0644))

	g, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, g.Types, 5)

	_, err = Load(filepath.Join(dir, "graph.xml"))
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"1.0.0", true},
		{"1.9.3", true},
		{"2.0.0", false},
		{"0.9.0", false},
		{"", false},
		{"banana", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := CheckVersion(tt.version)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidGraph))
			}
		})
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		graph   *Graph
		wantErr error
		msg     string
	}{
		{
			name:    "unknown member type",
			graph:   &Graph{Types: []*Type{{FullName: "A", Members: []*Member{{Name: "B", Type: Named("Missing")}}}}},
			wantErr: errors.ErrUnknownType,
			msg:     "Missing",
		},
		{
			name:    "duplicate type",
			graph:   &Graph{Types: []*Type{{FullName: "A"}, {FullName: "A"}}},
			wantErr: errors.ErrInvalidGraph,
			msg:     "duplicate type A",
		},
		{
			name:    "ambiguous reference",
			graph:   &Graph{Types: []*Type{{FullName: "A", Members: []*Member{{Name: "B", Type: &Ref{Name: "System.Int32", Dynamic: true}}}}}},
			wantErr: errors.ErrInvalidGraph,
			msg:     "exactly one",
		},
		{
			name:    "undeclared parameter",
			graph:   &Graph{Types: []*Type{{FullName: "A", Members: []*Member{{Name: "B", Type: &Ref{Parameter: "U"}}}}}},
			wantErr: errors.ErrInvalidGraph,
			msg:     "generic parameter U",
		},
		{
			name:    "unknown root",
			graph:   &Graph{Roots: []string{"Nope"}},
			wantErr: errors.ErrUnknownType,
			msg:     "Nope",
		},
		{
			name: "two bodies",
			graph: &Graph{Clients: []*Client{{Name: "C", Endpoints: []*Endpoint{{
				Name: "save", Method: "POST",
				Parameters: []*Parameter{
					{Name: "a", Type: Named("System.Int32"), Source: FromBody},
					{Name: "b", Type: Named("System.Int32"), Source: FromBody},
				},
			}}}}},
			wantErr: errors.ErrInvalidGraph,
			msg:     "2 body parameters",
		},
		{
			name: "body on GET",
			graph: &Graph{Clients: []*Client{{Name: "C", Endpoints: []*Endpoint{{
				Name: "list", Method: "GET",
				Parameters: []*Parameter{{Name: "a", Type: Named("System.Int32"), Source: FromBody}},
			}}}}},
			wantErr: errors.ErrInvalidGraph,
			msg:     "sends a body with GET",
		},
		{
			name:    "unknown method",
			graph:   &Graph{Clients: []*Client{{Name: "C", Endpoints: []*Endpoint{{Name: "x", Method: "FETCH"}}}}},
			wantErr: errors.ErrInvalidGraph,
			msg:     `unknown method "FETCH"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.graph.Validate(mapped)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), err.Error())
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestStructuralTypeParameters(t *testing.T) {
	const doc = `{
  "version": "1.0.0",
  "types": [
    {"fullName": "Acme.List` + "`" + `1", "genericParameters": ["T"], "sequence": "T"},
    {"fullName": "Acme.Lookup` + "`" + `2", "genericParameters": ["K", "V"], "mapping": {"key": "K", "value": "V[]"}},
    {"fullName": "Acme.Pair` + "`" + `2", "genericParameters": ["A", "B"], "tuple": ["A", "B"]},
    {"fullName": "Acme.Maybe` + "`" + `1", "genericParameters": ["T"], "nullable": "T"}
  ]
}`
	g, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)
	require.NoError(t, g.Validate(mapped))

	lookup := func(name string) *Type {
		typ, ok := g.Lookup(name)
		require.True(t, ok, name)
		return typ
	}

	tests := []struct {
		name  string
		ref   *Ref
		param string
	}{
		{name: "sequence element", ref: lookup("Acme.List`1").Sequence, param: "T"},
		{name: "mapping key", ref: lookup("Acme.Lookup`2").Mapping.Key, param: "K"},
		{name: "mapping value inside sequence", ref: lookup("Acme.Lookup`2").Mapping.Value.Sequence, param: "V"},
		{name: "first tuple slot", ref: lookup("Acme.Pair`2").Tuple[0], param: "A"},
		{name: "second tuple slot", ref: lookup("Acme.Pair`2").Tuple[1], param: "B"},
		{name: "nullable inner", ref: lookup("Acme.Maybe`1").Nullable, param: "T"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.ref)
			assert.Equal(t, tt.param, tt.ref.Parameter)
			assert.Empty(t, tt.ref.Name)
		})
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme.Order", "Acme.Order"},
		{"Acme.Order[]", "Acme.Order[]"},
		{"Acme.Order?", "Acme.Order?"},
		{"Acme.Order[]?", "Acme.Order[]?"},
		{"Acme.Order[][]", "Acme.Order[][]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseRef(tt.in).String())
	}

	assert.Equal(t, "Acme.Page<Acme.Order>", Named("Acme.Page", Named("Acme.Order")).String())
	assert.Equal(t, "map<K, V>", MappingOf(Named("K"), Named("V")).String())
	assert.Equal(t, "(A, B)", TupleOf(Named("A"), Named("B")).String())
}

func TestParameterIsOptional(t *testing.T) {
	assert.True(t, (&Parameter{Name: "a", Type: NullableOf(Named("X"))}).IsOptional())
	assert.True(t, (&Parameter{Name: "a", Type: Named("X"), Optional: true}).IsOptional())
	assert.False(t, (&Parameter{Name: "a", Type: Named("X")}).IsOptional())
}

func TestMethodClasses(t *testing.T) {
	assert.True(t, BodyCapable("post"))
	assert.False(t, BodyCapable("DELETE"))
	assert.True(t, BodyForbidden("head"))
	assert.True(t, ValidMethod("Options"))
}
