// Package typescript renders resolved declarations as TypeScript modules,
// with optional zod schemas and a barrel index.
package typescript

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/logger"
	"github.com/teranos/contractor/typegen"
)

// Options configure a Generator
type Options struct {
	Layout Layout
	// Schemas emits a zod schema after every declaration
	Schemas bool
	// Newline terminates every emitted line; defaults to "\n"
	Newline string
}

// Generator renders one declaration module at a time. It holds no mutable state,
// so a single Generator can be shared by parallel workers.
type Generator struct {
	opts Options
	log  *zap.SugaredLogger
}

// NewGenerator creates a TypeScript generator
func NewGenerator(opts Options) *Generator {
	if opts.Newline == "" {
		opts.Newline = "\n"
	}
	return &Generator{opts: opts, log: logger.ComponentLogger("typescript")}
}

// Language returns "typescript"
func (g *Generator) Language() string {
	return "typescript"
}

// FileExtension returns "ts"
func (g *Generator) FileExtension() string {
	return FileExtension
}

// Layout returns the file layout used for paths and imports
func (g *Generator) Layout() Layout {
	return g.opts.Layout
}

// Generate renders the module declaring o. decls must contain every declaration o references.
func (g *Generator) Generate(o *typegen.OutputType, decls *Declarations) (string, error) {
	imports, err := ResolveImports(ImportRequest{
		Consumer: o.Identity,
		Dir:      o.Identity.Path,
		Types:    PropertyTypes(o),
		Schemas:  g.opts.Schemas,
	}, decls, g.opts.Layout)
	if err != nil {
		return "", errors.WithHint(err, "every referenced type must be resolved in the same run; check roots and type maps")
	}
	if logger.Enabled(logger.OutputImports) {
		g.log.Debugw("Computed imports", logger.FieldIdentity, o.Identity.String(), logger.FieldCount, len(imports))
	}

	var sb strings.Builder
	sb.WriteString(Header + "\n")

	if g.opts.Schemas {
		sb.WriteString(SchemaLibraryImport + "\n")
	}
	for _, imp := range imports {
		sb.WriteString(imp.String() + "\n")
	}
	if len(imports) > 0 || g.opts.Schemas {
		sb.WriteString("\n")
	}

	writeDeprecation(&sb, o.Deprecation, "")
	if o.Enum {
		writeEnum(&sb, o)
	} else {
		writeInterface(&sb, o)
	}

	if g.opts.Schemas {
		sb.WriteString("\n")
		writeSchema(&sb, o)
	}

	return Normalize(sb.String(), g.opts.Newline), nil
}

func writeInterface(sb *strings.Builder, o *typegen.OutputType) {
	sb.WriteString(fmt.Sprintf("export interface %s {\n", o.DeclaredName()))
	for _, p := range o.Properties {
		writeDeprecation(sb, p.Deprecation, "  ")

		readonly := ""
		if p.Type.Readonly {
			readonly = "readonly "
		}
		optional := ""
		if p.Nullable {
			optional = "?"
		}
		sb.WriteString(fmt.Sprintf("  %s%s%s: %s;\n", readonly, p.Name, optional, p.Type.FullText()))
	}
	sb.WriteString("}\n")
}

func writeEnum(sb *strings.Builder, o *typegen.OutputType) {
	sb.WriteString(fmt.Sprintf("export enum %s {\n", o.Name()))
	for _, m := range o.EnumMembers {
		writeDeprecation(sb, m.Deprecation, "  ")
		sb.WriteString(fmt.Sprintf("  %s = %d,\n", m.Name, m.Value))
	}
	sb.WriteString("}\n")
}

// writeDeprecation emits a JSDoc @deprecated block, with the reason when one is given
func writeDeprecation(sb *strings.Builder, d *typegen.Deprecation, indent string) {
	if d == nil {
		return
	}
	sb.WriteString(indent + "/**\n")
	if d.Reason != "" {
		sb.WriteString(indent + " * @deprecated " + d.Reason + "\n")
	} else {
		sb.WriteString(indent + " * @deprecated\n")
	}
	sb.WriteString(indent + " */\n")
}
