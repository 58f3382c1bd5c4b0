package client

import (
	"strings"

	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/typegen"
	"github.com/teranos/contractor/typegen/resolve"
	"github.com/teranos/contractor/typegen/source"
	"github.com/teranos/contractor/typegen/util"
)

// Resolved is a client whose parameter and return types went through the resolver.
// Clients must be resolved before the resolver closes so that every type they use is declared.
type Resolved struct {
	Client    *source.Client
	Name      string
	Endpoints []ResolvedEndpoint
}

// ResolvedEndpoint is one endpoint with classified, resolved parameters
type ResolvedEndpoint struct {
	Endpoint *source.Endpoint
	Name     string
	Segments []Segment
	Params   []ResolvedParam
	// Returns is nil when the endpoint has no response payload
	Returns *typegen.DestinationType
}

// ResolvedParam is one classified parameter
type ResolvedParam struct {
	Name     string
	Source   string
	Optional bool
	Type     typegen.DestinationType
}

// DisplayName is the generated class name: a "Controller" suffix becomes "Client"
func DisplayName(c *source.Client) string {
	name := c.Name
	if name == "" {
		name = c.FullName
		if i := strings.LastIndexAny(name, ".+"); i >= 0 {
			name = name[i+1:]
		}
	}
	if strings.HasSuffix(name, "Controller") {
		name = strings.TrimSuffix(name, "Controller") + "Client"
	}
	return name
}

// Resolve classifies every parameter of c and resolves its parameter and return types
func Resolve(r *resolve.Resolver, c *source.Client) (*Resolved, error) {
	res := &Resolved{Client: c, Name: DisplayName(c)}

	for _, e := range c.Endpoints {
		ep := ResolvedEndpoint{
			Endpoint: e,
			Name:     util.ToCamelCase(e.Name),
			Segments: ParseRoute(JoinRoute(c.Prefix, e.Route)),
		}

		sources := Classify(e, RouteParams(ep.Segments))
		for i, p := range e.Parameters {
			d, err := r.Resolve(p.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "client %s endpoint %s parameter %s", res.Name, e.Name, p.Name)
			}
			ep.Params = append(ep.Params, ResolvedParam{
				Name:     util.ToCamelCase(p.Name),
				Source:   sources[i],
				Optional: p.IsOptional(),
				Type:     d,
			})
		}

		if e.Returns != nil {
			d, err := r.Resolve(e.Returns)
			if err != nil {
				return nil, errors.Wrapf(err, "client %s endpoint %s return type", res.Name, e.Name)
			}
			d.Nullable = false
			ep.Returns = &d
		}
		res.Endpoints = append(res.Endpoints, ep)
	}
	return res, nil
}

// Classify assigns every parameter exactly one source, by index.
// An explicit source wins; a name found in the route is a route parameter; the first unmarked
// parameter of a body-capable method is the body, unless a body was marked explicitly;
// everything else is a query parameter.
func Classify(e *source.Endpoint, routeParams map[string]bool) []string {
	sources := make([]string, len(e.Parameters))
	hasBody := false
	for i, p := range e.Parameters {
		if s := strings.ToLower(p.Source); s != "" {
			sources[i] = s
			hasBody = hasBody || s == source.FromBody
		}
	}

	for i, p := range e.Parameters {
		if sources[i] != "" {
			continue
		}
		switch {
		case routeParams[strings.ToLower(p.Name)]:
			sources[i] = source.FromRoute
		case !hasBody && source.BodyCapable(e.Method):
			sources[i] = source.FromBody
			hasBody = true
		default:
			sources[i] = source.FromQuery
		}
	}
	return sources
}
