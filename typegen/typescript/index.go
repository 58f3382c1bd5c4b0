package typescript

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/teranos/contractor/typegen"
)

// IndexFile is the barrel module written at the output root
const IndexFile = "index.ts"

// PackageExport represents one output folder and the declarations it exports
type PackageExport struct {
	PackageName string
	Modules     []ModuleExport
}

// ModuleExport is one generated module re-exported by the barrel
type ModuleExport struct {
	Specifier string
	// Types are interface names, re-exported with "export type"
	Types []string
	// Values are enums and schemas, which exist at runtime
	Values []string
}

// CollectExports groups declarations by folder for GenerateIndex
func CollectExports(decls []*typegen.OutputType, layout Layout, schemas bool) []PackageExport {
	byPackage := make(map[string]*PackageExport)
	for _, o := range decls {
		exp, ok := byPackage[o.Identity.Path]
		if !ok {
			exp = &PackageExport{PackageName: o.Identity.Path}
			byPackage[o.Identity.Path] = exp
		}

		mod := ModuleExport{Specifier: "./" + path.Join(o.Identity.Path, layout.FileName(o.Name()))}
		if o.Enum {
			mod.Values = append(mod.Values, o.Name())
		} else {
			mod.Types = append(mod.Types, o.Name())
		}
		if schemas {
			mod.Values = append(mod.Values, SchemaName(o.Name()))
		}
		exp.Modules = append(exp.Modules, mod)
	}

	exports := make([]PackageExport, 0, len(byPackage))
	for _, exp := range byPackage {
		exports = append(exports, *exp)
	}
	return exports
}

// GenerateIndex renders a barrel export file (index.ts) for cleaner imports
func GenerateIndex(exports []PackageExport, newline string) string {
	var sb strings.Builder

	sb.WriteString(Header + "\n")
	sb.WriteString("/* eslint-disable */\n\n")

	// Sort packages for deterministic output
	sort.Slice(exports, func(i, j int) bool {
		return exports[i].PackageName < exports[j].PackageName
	})

	for _, exp := range exports {
		if len(exp.Modules) == 0 {
			continue
		}

		modules := make([]ModuleExport, len(exp.Modules))
		copy(modules, exp.Modules)
		sort.Slice(modules, func(i, j int) bool {
			return modules[i].Specifier < modules[j].Specifier
		})

		name := exp.PackageName
		if name == "" {
			name = "."
		}
		sb.WriteString(fmt.Sprintf("// Types from %s\n", name))
		for _, mod := range modules {
			if len(mod.Types) > 0 {
				sb.WriteString(fmt.Sprintf("export type { %s } from '%s';\n", strings.Join(mod.Types, ", "), mod.Specifier))
			}
			if len(mod.Values) > 0 {
				sb.WriteString(fmt.Sprintf("export { %s } from '%s';\n", strings.Join(mod.Values, ", "), mod.Specifier))
			}
		}
		sb.WriteString("\n")
	}

	if newline == "" {
		newline = "\n"
	}
	return Normalize(sb.String(), newline)
}
