package util

import (
	"strings"
	"unicode"

	"github.com/teranos/contractor/errors"
)

// Casing selects how generated file names are cased
type Casing int

const (
	Pascal Casing = iota
	Camel
	Kebab
	Snake
)

var casingNames = map[Casing]string{
	Pascal: "pascal",
	Camel:  "camel",
	Kebab:  "kebab",
	Snake:  "snake",
}

func (c Casing) String() string {
	if name, ok := casingNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCasing parses a casing name (case-insensitive).
// Unknown values are configuration errors.
func ParseCasing(s string) (Casing, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range casingNames {
		if n == name {
			return c, nil
		}
	}
	return 0, errors.WithHint(
		errors.NewConfigurationError("unknown casing %q", s),
		"valid casings are pascal, camel, kebab and snake",
	)
}

// Apply renders name in the selected casing
func (c Casing) Apply(name string) string {
	switch c {
	case Pascal:
		return ToPascalCase(name)
	case Camel:
		return ToCamelCase(name)
	case Kebab:
		return ToKebabCase(name)
	case Snake:
		return ToSnakeCase(name)
	default:
		return name
	}
}

// ToPascalCase upper-cases the first letter and leaves the rest untouched
func ToPascalCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ToCamelCase lower-cases the first letter and leaves the rest untouched
func ToCamelCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// ToKebabCase inserts a hyphen before every internal upper-case letter, then lower-cases all.
// Acronyms are split per letter: "DTOItem" -> "d-t-o-item".
func ToKebabCase(s string) string {
	return separateUpper(s, '-')
}

// ToSnakeCase is ToKebabCase with underscores: "PersonDto" -> "person_dto"
func ToSnakeCase(s string) string {
	return separateUpper(s, '_')
}

func separateUpper(s string, sep rune) string {
	var result strings.Builder
	for i, r := range []rune(s) {
		if i > 0 && unicode.IsUpper(r) {
			result.WriteRune(sep)
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}
