package typescript

import (
	"strconv"
	"strings"

	"github.com/teranos/contractor/typegen"
	"github.com/teranos/contractor/typegen/identity"
)

// SchemaName is the name of the companion schema export of a declaration
func SchemaName(name string) string {
	return name + "Schema"
}

// SchemaReferences calls fn for every identity a schema expression of d refers to.
// Generic arguments are not part of a schema, so they are skipped.
func SchemaReferences(d typegen.DestinationType, fn func(identity.Identity)) {
	switch d.Kind {
	case typegen.KindReference:
		if d.Identity != nil && !d.Builtin {
			fn(*d.Identity)
		}
	case typegen.KindMapping, typegen.KindTuple:
		for _, nested := range d.Nested {
			SchemaReferences(nested, fn)
		}
	}
}

// Schema renders the zod expression validating d. References to other declarations are
// wrapped in z.lazy so that cyclic schemas evaluate.
func Schema(d typegen.DestinationType) string {
	return schema(d, true)
}

// ReturnSchema renders the zod expression used to validate a client response
func ReturnSchema(d typegen.DestinationType) string {
	return schema(d, false)
}

func schema(d typegen.DestinationType, lazy bool) string {
	depth := 0
	if d.Array {
		depth++
	}
	text := d.Text
	for strings.HasSuffix(text, "[]") {
		text = strings.TrimSuffix(text, "[]")
		depth++
	}

	var expr string
	switch d.Kind {
	case typegen.KindReference:
		name := text
		if d.Identity != nil {
			name = d.Identity.Name
		}
		expr = SchemaName(name)
		if lazy {
			expr = "z.lazy(() => " + expr + ")"
		}
	case typegen.KindMapping:
		expr = "z.record(" + schema(d.Nested[0], lazy) + ", " + schema(d.Nested[1], lazy) + ")"
	case typegen.KindTuple:
		fields := make([]string, len(d.Nested))
		for i, slot := range d.Nested {
			fields[i] = tupleField(i) + ": " + schema(slot, lazy)
		}
		expr = "z.object({ " + strings.Join(fields, ", ") + " })"
	default:
		expr = literalSchema(text)
	}

	for i := 0; i < depth; i++ {
		expr = "z.array(" + expr + ")"
	}
	return expr
}

func literalSchema(text string) string {
	switch text {
	case typegen.StringType:
		return "z.string()"
	case typegen.NumberType:
		return "z.number()"
	case typegen.BooleanType:
		return "z.boolean()"
	default:
		return "z.any()"
	}
}

func tupleField(i int) string {
	return "item" + strconv.Itoa(i+1)
}

// writeSchema appends the companion schema export of o
func writeSchema(sb *strings.Builder, o *typegen.OutputType) {
	name := SchemaName(o.Name())
	if o.Enum {
		sb.WriteString("export const " + name + " = z.nativeEnum(" + o.Name() + ");\n")
		return
	}
	if len(o.Properties) == 0 {
		sb.WriteString("export const " + name + " = z.object({});\n")
		return
	}

	sb.WriteString("export const " + name + " = z.object({\n")
	for _, p := range o.Properties {
		expr := Schema(p.Type)
		if p.Nullable {
			expr += ".nullable().optional()"
		}
		sb.WriteString("  " + p.Name + ": " + expr + ",\n")
	}
	sb.WriteString("});\n")
}
