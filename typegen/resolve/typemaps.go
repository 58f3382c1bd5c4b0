package resolve

import "github.com/teranos/contractor/typegen"

// DefaultTypeMaps are the literal substitutions applied before any structural rule.
// Configured type maps are layered on top and win on conflict.
var DefaultTypeMaps = map[string]string{
	// Neutral names
	"string":   typegen.StringType,
	"uuid":     typegen.StringType,
	"date":     typegen.StringType,
	"datetime": typegen.StringType,
	"duration": typegen.StringType,
	"number":   typegen.NumberType,
	"int":      typegen.NumberType,
	"long":     typegen.NumberType,
	"float":    typegen.NumberType,
	"double":   typegen.NumberType,
	"decimal":  typegen.NumberType,
	"bool":     typegen.BooleanType,
	"boolean":  typegen.BooleanType,
	"object":   typegen.AnyType,
	"any":      typegen.AnyType,

	// .NET names as emitted by reflection-based extractors
	"System.String":         typegen.StringType,
	"System.Char":           typegen.StringType,
	"System.Guid":           typegen.StringType,
	"System.Uri":            typegen.StringType,
	"System.DateTime":       typegen.StringType,
	"System.DateTimeOffset": typegen.StringType,
	"System.DateOnly":       typegen.StringType,
	"System.TimeOnly":       typegen.StringType,
	"System.TimeSpan":       typegen.StringType,
	"System.Boolean":        typegen.BooleanType,
	"System.Byte":           typegen.NumberType,
	"System.SByte":          typegen.NumberType,
	"System.Int16":          typegen.NumberType,
	"System.UInt16":         typegen.NumberType,
	"System.Int32":          typegen.NumberType,
	"System.UInt32":         typegen.NumberType,
	"System.Int64":          typegen.NumberType,
	"System.UInt64":         typegen.NumberType,
	"System.Single":         typegen.NumberType,
	"System.Double":         typegen.NumberType,
	"System.Decimal":        typegen.NumberType,
	"System.Object":         typegen.AnyType,

	"System.Text.Json.JsonElement": typegen.AnyType,
}

// MergeTypeMaps layers configured (source, text) pairs over DefaultTypeMaps
func MergeTypeMaps(configured [][2]string) map[string]string {
	merged := make(map[string]string, len(DefaultTypeMaps)+len(configured))
	for k, v := range DefaultTypeMaps {
		merged[k] = v
	}
	for _, pair := range configured {
		merged[pair[0]] = pair[1]
	}
	return merged
}
