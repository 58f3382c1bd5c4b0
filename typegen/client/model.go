package client

import (
	"fmt"
	"strings"

	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/typegen"
	"github.com/teranos/contractor/typegen/identity"
	"github.com/teranos/contractor/typegen/source"
	"github.com/teranos/contractor/typegen/typescript"
)

// Model is the data handed to a Renderer for one client file.
// Field names are part of the template contract for user-supplied templates.
type Model struct {
	Header            string
	Name              string
	FullName          string
	Deprecated        bool
	DeprecationReason string
	Schemas           bool
	// Imports are complete import statements, the schema library first
	Imports   []string
	Endpoints []EndpointModel
}

// EndpointModel is one generated method
type EndpointModel struct {
	Name              string
	Method            string
	MethodUpper       string
	Deprecated        bool
	DeprecationReason string
	Arguments         []ArgumentModel
	Path              PathModel
	Query             []QueryModel
	// SendsBody is set for methods whose client call takes a payload argument
	SendsBody bool
	// Body is the name of the body parameter, empty when there is none
	Body string
	// Returns is false when the response is handed back unparsed
	Returns    bool
	ReturnType string
	// ReturnElement is the return type with one sequence level unwrapped
	ReturnElement string
	ReturnsArray  bool
	// Schema validates the response when schemas are enabled
	Schema        string
	SchemaGeneric string
}

// ArgumentModel is one method argument
type ArgumentModel struct {
	Name     string
	Type     string
	Optional bool
	// Declaration is the rendered argument, e.g. "year: number | undefined"
	Declaration string
}

// PathModel is the URL path construction plan
type PathModel struct {
	// Template is the path with required placeholders substituted as ${name}
	Template string
	// Expression is Template as a string literal, backquoted when Dynamic
	Expression string
	Dynamic    bool
	Optional   []OptionalSegment
}

// OptionalSegment is an optional placeholder kept in the path until call time
type OptionalSegment struct {
	Name        string
	Placeholder string
	// Removal is the text removed when the argument is absent, separator included
	Removal string
}

// QueryModel is one query-string entry
type QueryModel struct {
	Key   string
	Value string
	// Guard is the condition the append is wrapped in, empty when unconditional
	Guard string
	Array bool
	// Statement is the rendered append call
	Statement string
}

// Options control how render models are built
type Options struct {
	Layout  typescript.Layout
	Schemas bool
	// Folder is the output-relative folder client files are written to
	Folder string
}

// File is the output-relative path of a client module
func (o Options) File(name string) string {
	return strings.TrimPrefix(o.Folder+"/"+o.Layout.FileName(name)+"."+typescript.FileExtension, "/")
}

// BuildModel builds the render model of a resolved client against the final declaration set
func BuildModel(res *Resolved, decls *typescript.Declarations, opts Options) (*Model, error) {
	c := res.Client
	model := &Model{
		Header:            typescript.Header,
		Name:              res.Name,
		FullName:          c.FullName,
		Deprecated:        c.Deprecated,
		DeprecationReason: c.DeprecationReason,
		Schemas:           opts.Schemas,
	}

	var types []typegen.DestinationType
	schemaTypes := []typegen.DestinationType{}
	for _, ep := range res.Endpoints {
		em, err := buildEndpoint(ep, decls, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "client %s endpoint %s", res.Name, ep.Endpoint.Name)
		}
		model.Endpoints = append(model.Endpoints, em)

		for _, p := range ep.Params {
			types = append(types, p.Type)
		}
		if ep.Returns != nil {
			types = append(types, *ep.Returns)
			schemaTypes = append(schemaTypes, *ep.Returns)
		}
	}

	imports, err := typescript.ResolveImports(typescript.ImportRequest{
		Consumer:    identity.Identity{Path: opts.Folder, Name: res.Name},
		Dir:         opts.Folder,
		Types:       types,
		Schemas:     opts.Schemas,
		SchemaTypes: schemaTypes,
		Rooted:      true,
	}, decls, opts.Layout)
	if err != nil {
		return nil, errors.Wrapf(err, "client %s", res.Name)
	}

	if opts.Schemas {
		model.Imports = append(model.Imports, typescript.SchemaLibraryImport)
	}
	for _, imp := range imports {
		model.Imports = append(model.Imports, imp.String())
	}
	return model, nil
}

func buildEndpoint(ep ResolvedEndpoint, decls *typescript.Declarations, opts Options) (EndpointModel, error) {
	e := ep.Endpoint
	em := EndpointModel{
		Name:              ep.Name,
		Method:            strings.ToLower(e.Method),
		MethodUpper:       strings.ToUpper(e.Method),
		Deprecated:        e.Deprecated,
		DeprecationReason: e.DeprecationReason,
		SendsBody:         source.BodyCapable(e.Method),
	}

	byName := make(map[string]ResolvedParam, len(ep.Params))
	for _, p := range ep.Params {
		byName[strings.ToLower(p.Name)] = p

		typeText := p.Type.FullText()
		decl := p.Name + ": " + typeText
		if p.Optional {
			decl += " | undefined"
		}
		em.Arguments = append(em.Arguments, ArgumentModel{Name: p.Name, Type: typeText, Optional: p.Optional, Declaration: decl})

		switch p.Source {
		case source.FromBody:
			em.Body = p.Name
		case source.FromQuery:
			entries, err := queryEntries(p, decls)
			if err != nil {
				return EndpointModel{}, err
			}
			em.Query = append(em.Query, entries...)
		}
	}

	path, err := buildPath(ep.Segments, byName)
	if err != nil {
		return EndpointModel{}, err
	}
	em.Path = path

	if ep.Returns != nil {
		d := *ep.Returns
		em.Returns = true
		em.ReturnType = d.FullText()
		em.ReturnElement = d.Text
		em.ReturnsArray = d.Array
		if opts.Schemas {
			em.Schema = typescript.ReturnSchema(d)
			if !d.Builtin {
				em.SchemaGeneric = "<" + em.ReturnType + ">"
			}
		}
	}
	return em, nil
}

func buildPath(segments []Segment, params map[string]ResolvedParam) (PathModel, error) {
	var pm PathModel
	var sb strings.Builder
	for i, s := range segments {
		if !s.IsParam() {
			sb.WriteString(s.Literal)
			continue
		}

		p, ok := params[strings.ToLower(s.Param)]
		if !ok {
			return PathModel{}, errors.NewInvalidGraphError("route parameter %q has no matching argument", s.Param)
		}

		if s.Optional {
			removal := s.Raw
			if i > 0 && strings.HasSuffix(segments[i-1].Literal, "/") {
				removal = "/" + s.Raw
			}
			pm.Optional = append(pm.Optional, OptionalSegment{Name: p.Name, Placeholder: s.Raw, Removal: removal})
			sb.WriteString(s.Raw)
			continue
		}

		pm.Dynamic = true
		sb.WriteString("${" + p.Name + "}")
	}

	pm.Template = sb.String()
	if pm.Dynamic {
		pm.Expression = "`" + pm.Template + "`"
	} else {
		pm.Expression = "'" + pm.Template + "'"
	}
	return pm, nil
}

// queryEntries applies the per-kind guard policy: optional scalars are guarded, required and
// enum values are appended unconditionally. Structured values without a type-map rule are
// unpacked into one entry per scalar member. Sequences of records have no query string form.
func queryEntries(p ResolvedParam, decls *typescript.Declarations) ([]QueryModel, error) {
	if p.Type.Kind == typegen.KindReference && !p.Type.Builtin && p.Type.Identity != nil {
		if decl, ok := decls.Lookup(*p.Type.Identity); ok {
			switch {
			case decl.Enum && !p.Type.Array:
				return []QueryModel{query(p.Name, p.Name, "", false)}, nil
			case decl.Enum:
				// enum sequences repeat the key like scalar sequences
			case p.Type.Array:
				return nil, errors.WithHint(
					errors.NewInvalidGraphError("query parameter %s is a sequence of %s records", p.Name, decl.Name()),
					"send the records in the request body or map the type to a scalar with type_maps",
				)
			default:
				return unpack(p, decl), nil
			}
		}
	}

	guard := ""
	if p.Optional {
		guard = p.Name + " != undefined"
	}
	return []QueryModel{query(p.Name, p.Name, guard, p.Type.Array)}, nil
}

func unpack(p ResolvedParam, decl *typegen.OutputType) []QueryModel {
	access := p.Name
	if p.Optional {
		access += "?"
	}

	var entries []QueryModel
	for _, prop := range decl.Properties {
		t := prop.Type
		if !t.Builtin || t.Kind == typegen.KindMapping || t.Kind == typegen.KindTuple {
			continue
		}
		value := p.Name + "." + prop.Name
		guard := ""
		if p.Optional || prop.Nullable {
			guard = access + "." + prop.Name + " != undefined"
		}
		entries = append(entries, query(prop.Name, value, guard, t.Array))
	}
	return entries
}

func query(key, value, guard string, array bool) QueryModel {
	q := QueryModel{Key: key, Value: value, Guard: guard, Array: array}
	if array {
		q.Statement = fmt.Sprintf("%s.forEach(x => url.searchParams.append('%s', x.toString()));", value, key)
	} else {
		q.Statement = fmt.Sprintf("url.searchParams.append('%s', %s.toString());", key, value)
	}
	return q
}
