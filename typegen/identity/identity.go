// Package identity derives the destination module identity (folder + declared name)
// of a source type from its namespace-qualified full name.
package identity

import (
	"strings"
	"sync"

	"github.com/teranos/contractor/typegen/util"
)

// Identity is the canonical key of one destination declaration
type Identity struct {
	// Path is the slash-separated module folder, e.g. "acme/orders" ("" for the output root)
	Path string
	// Name is the declared name, e.g. "OrderDto"
	Name string
}

func (i Identity) String() string {
	if i.Path == "" {
		return i.Name
	}
	return i.Path + "/" + i.Name
}

// IsZero reports whether the identity is unset
func (i Identity) IsZero() bool {
	return i.Path == "" && i.Name == ""
}

// Less orders identities by path, then name
func (i Identity) Less(other Identity) bool {
	if i.Path != other.Path {
		return i.Path < other.Path
	}
	return i.Name < other.Name
}

// Rules are the configured rewrite rules, applied in precedence order:
// literal override > prefix strip > substring replace > namespace-to-path mapping.
type Rules struct {
	// Overrides maps a source full name directly to its identity
	Overrides map[string]Identity
	// Strip lists namespace prefixes; the first matching prefix is removed
	Strip []string
	// Replacements are (search, replace) pairs applied in order to the namespace
	Replacements [][2]string
}

// Registry derives and memoizes identities
type Registry struct {
	rules Rules
	mu    sync.Mutex
	seen  map[string]Identity
}

// NewRegistry creates a registry over the given rules
func NewRegistry(rules Rules) *Registry {
	return &Registry{
		rules: rules,
		seen:  make(map[string]Identity),
	}
}

// Derive returns the identity for a source full name such as
// "Acme.Orders.OrderDto" or "Acme.Paging.Page`1". Deterministic for equal input.
func (r *Registry) Derive(fullName string) Identity {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.seen[fullName]; ok {
		return id
	}
	id := r.derive(fullName)
	r.seen[fullName] = id
	return id
}

func (r *Registry) derive(fullName string) Identity {
	if id, ok := r.rules.Overrides[fullName]; ok {
		return id
	}

	namespace, name := Split(fullName)
	// Trailing separator lets "Acme." strip the namespace "Acme" entirely
	namespace += "."

	for _, prefix := range r.rules.Strip {
		if prefix != "" && strings.HasPrefix(namespace, prefix) {
			namespace = strings.TrimPrefix(namespace, prefix)
			break
		}
	}

	for _, rep := range r.rules.Replacements {
		if rep[0] == "" {
			continue
		}
		namespace = strings.ReplaceAll(namespace, rep[0], rep[1])
	}

	return Identity{Path: NamespacePath(namespace), Name: name}
}

// Split separates a full name into namespace and declared name.
// Generic arity suffixes ("`1") are dropped and nested types ("Outer+Inner") keep the inner name.
func Split(fullName string) (namespace, name string) {
	if idx := strings.IndexByte(fullName, '`'); idx >= 0 {
		fullName = fullName[:idx]
	}

	if idx := strings.LastIndexByte(fullName, '.'); idx >= 0 {
		namespace, name = fullName[:idx], fullName[idx+1:]
	} else {
		name = fullName
	}

	if idx := strings.LastIndexByte(name, '+'); idx >= 0 {
		name = name[idx+1:]
	}
	return namespace, name
}

// NamespacePath maps "TypeContractor.Tests.TypeScript" to "type-contractor/tests/type-script"
func NamespacePath(namespace string) string {
	var segments []string
	for _, segment := range strings.Split(namespace, ".") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		segments = append(segments, util.ToKebabCase(segment))
	}
	return strings.Join(segments, "/")
}

// ParseOverride parses an override target of the form "folder/path/Name"
func ParseOverride(target string) Identity {
	target = strings.Trim(target, "/")
	if idx := strings.LastIndexByte(target, '/'); idx >= 0 {
		return Identity{Path: target[:idx], Name: target[idx+1:]}
	}
	return Identity{Name: target}
}
