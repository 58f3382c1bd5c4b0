package source

import "strings"

// Parameter sources
const (
	FromRoute = "route"
	FromQuery = "query"
	FromBody  = "body"
)

// Client is one API client (a controller, in server terms)
type Client struct {
	Name              string      `json:"name" yaml:"name"`
	FullName          string      `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	Prefix            string      `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Deprecated        bool        `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	DeprecationReason string      `json:"deprecationReason,omitempty" yaml:"deprecationReason,omitempty"`
	Endpoints         []*Endpoint `json:"endpoints" yaml:"endpoints"`
}

// Endpoint is one HTTP operation of a client
type Endpoint struct {
	Name              string       `json:"name" yaml:"name"`
	Route             string       `json:"route,omitempty" yaml:"route,omitempty"`
	Method            string       `json:"method" yaml:"method"`
	Parameters        []*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Returns           *Ref         `json:"returns,omitempty" yaml:"returns,omitempty"`
	Deprecated        bool         `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	DeprecationReason string       `json:"deprecationReason,omitempty" yaml:"deprecationReason,omitempty"`
}

// Parameter is one endpoint argument
type Parameter struct {
	Name     string `json:"name" yaml:"name"`
	Type     *Ref   `json:"type" yaml:"type"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"` // route, query, body; empty = inferred
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// HTTP methods accepted on endpoints
var httpMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "OPTIONS": true, "HEAD": true,
}

// ValidMethod reports whether m is a supported HTTP method (case-insensitive)
func ValidMethod(m string) bool {
	return httpMethods[strings.ToUpper(m)]
}

// BodyCapable reports whether a method may carry a request payload inferred from an unmarked parameter
func BodyCapable(m string) bool {
	switch strings.ToUpper(m) {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// BodyForbidden reports whether a method never carries a payload
func BodyForbidden(m string) bool {
	switch strings.ToUpper(m) {
	case "GET", "HEAD":
		return true
	}
	return false
}

// IsOptional reports whether the parameter may be omitted by callers
func (p *Parameter) IsOptional() bool {
	return p.Optional || (p.Type != nil && p.Type.Nullable != nil)
}
