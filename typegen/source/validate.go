package source

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/contractor/errors"
)

// SupportedVersions is the graph document version range this generator reads
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// CheckVersion validates a document version against SupportedVersions
func CheckVersion(version string) error {
	if version == "" {
		return errors.WithHint(errors.NewInvalidGraphError("graph document has no version"),
			`add "version": "1.0.0" to the document`)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrap(errors.WithSecondaryError(errors.ErrInvalidGraph, err),
			"graph version is not semver")
	}

	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return errors.NewAssertionErrorWithWrappedErrf(err, "invalid supported version constraint")
	}

	if !constraint.Check(v) {
		return errors.WithHintf(
			errors.NewInvalidGraphError("graph version %s is not supported", version),
			"this generator reads versions %s", SupportedVersions,
		)
	}
	return nil
}

// Validate checks that every reference resolves either to a type in the graph or to a
// name accepted by mapped (type-map entries), and that clients respect the endpoint contract.
func (g *Graph) Validate(mapped func(fullName string) bool) error {
	g.normalize()
	g.index = nil
	seen := make(map[string]bool, len(g.Types))
	for _, t := range g.Types {
		if t.FullName == "" {
			return errors.NewInvalidGraphError("type without fullName")
		}
		if seen[t.FullName] {
			return errors.NewInvalidGraphError("duplicate type %s", t.FullName)
		}
		seen[t.FullName] = true
	}
	g.reindex()

	for _, t := range g.Types {
		if err := g.validateType(t, mapped); err != nil {
			return errors.Wrapf(err, "type %s", t.FullName)
		}
	}

	for _, root := range g.Roots {
		if _, ok := g.index[root]; !ok && !mapped(root) {
			return errors.Wrap(errors.NewUnknownTypeError(root), "roots")
		}
	}

	for _, c := range g.Clients {
		if err := g.validateClient(c, mapped); err != nil {
			return errors.Wrapf(err, "client %s", c.Name)
		}
	}
	return nil
}

func (g *Graph) validateType(t *Type, mapped func(string) bool) error {
	if t.Enum && len(t.Members) > 0 {
		return errors.NewInvalidGraphError("enum cannot declare members")
	}

	params := make(map[string]bool, len(t.GenericParameters))
	for _, p := range t.GenericParameters {
		params[p] = true
	}

	check := func(where string, r *Ref) error {
		if err := g.validateRef(r, params, mapped); err != nil {
			return errors.Wrap(err, where)
		}
		return nil
	}

	for _, m := range t.Members {
		if m.Name == "" {
			return errors.NewInvalidGraphError("member without name")
		}
		if m.Dynamic && m.Type == nil {
			continue
		}
		if err := check("member "+m.Name, m.Type); err != nil {
			return err
		}
	}
	if t.Base != nil {
		if err := check("base", t.Base); err != nil {
			return err
		}
	}
	for _, iface := range t.Implements {
		if err := check("implements", iface); err != nil {
			return err
		}
	}
	if t.Sequence != nil {
		if err := check("sequence", t.Sequence); err != nil {
			return err
		}
	}
	if t.Mapping != nil {
		if err := check("mapping", &Ref{Mapping: t.Mapping}); err != nil {
			return err
		}
	}
	for _, s := range t.Tuple {
		if err := check("tuple", s); err != nil {
			return err
		}
	}
	if t.Nullable != nil {
		if err := check("nullable", t.Nullable); err != nil {
			return err
		}
	}
	return nil
}

// validateRef checks shape and name resolution of a reference tree
func (g *Graph) validateRef(r *Ref, params map[string]bool, mapped func(string) bool) error {
	if r == nil {
		return errors.NewInvalidGraphError("missing type reference")
	}

	var err error
	r.Walk(func(n *Ref) {
		if err != nil {
			return
		}
		if n.set() != 1 {
			err = errors.NewInvalidGraphError("reference %s must set exactly one of name, sequence, mapping, tuple, nullable, dynamic, parameter", n)
			return
		}
		if n.Mapping != nil && (n.Mapping.Key == nil || n.Mapping.Value == nil) {
			err = errors.NewInvalidGraphError("mapping %s needs key and value", n)
			return
		}
		if n.Parameter != "" && !params[n.Parameter] {
			err = errors.NewInvalidGraphError("generic parameter %s is not declared", n.Parameter)
			return
		}
		if n.Name == "" {
			return
		}
		// Generic parameters may be written as plain names inside their declaring type
		if params[n.Name] && len(n.Args) == 0 {
			return
		}
		if _, ok := g.index[n.Name]; !ok && !mapped(n.Name) {
			err = errors.NewUnknownTypeError(n.Name)
		}
	})
	return err
}

func (g *Graph) validateClient(c *Client, mapped func(string) bool) error {
	if c.Name == "" {
		return errors.NewInvalidGraphError("client without name")
	}

	none := map[string]bool{}
	for _, e := range c.Endpoints {
		if !ValidMethod(e.Method) {
			return errors.NewInvalidGraphError("endpoint %s has unknown method %q", e.Name, e.Method)
		}

		bodies := 0
		for _, p := range e.Parameters {
			switch strings.ToLower(p.Source) {
			case "", FromRoute, FromQuery:
			case FromBody:
				bodies++
			default:
				return errors.NewInvalidGraphError("parameter %s of %s has unknown source %q", p.Name, e.Name, p.Source)
			}
			if err := g.validateRef(p.Type, none, mapped); err != nil {
				return errors.Wrapf(err, "parameter %s of %s", p.Name, e.Name)
			}
		}
		if bodies > 1 {
			return errors.NewInvalidGraphError("endpoint %s declares %d body parameters", e.Name, bodies)
		}
		if bodies == 1 && BodyForbidden(e.Method) {
			return errors.NewInvalidGraphError("endpoint %s sends a body with %s", e.Name, strings.ToUpper(e.Method))
		}

		if e.Returns != nil {
			if err := g.validateRef(e.Returns, none, mapped); err != nil {
				return errors.Wrapf(err, "return type of %s", e.Name)
			}
		}
	}
	return nil
}
