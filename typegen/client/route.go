package client

import "strings"

// Segment is one piece of a route template: literal text or a parameter placeholder
type Segment struct {
	Literal string
	// Param is the parameter name, without constraint or optional marker
	Param    string
	Optional bool
	// Raw is the placeholder as written, e.g. "{year?}" or "{id:int}"
	Raw string
}

// IsParam reports whether the segment is a placeholder
func (s Segment) IsParam() bool {
	return s.Param != ""
}

// ParseRoute splits a route template into alternating literal and parameter segments.
// "{name}" is required, "{name?}" optional; a ":constraint" suffix inside the braces is ignored
// for naming. Unbalanced braces are kept as literal text.
func ParseRoute(template string) []Segment {
	var segments []Segment
	rest := template
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			segments = append(segments, Segment{Literal: rest})
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			segments = append(segments, Segment{Literal: rest})
			break
		}
		end += open

		if open > 0 {
			segments = append(segments, Segment{Literal: rest[:open]})
		}

		raw := rest[open : end+1]
		inner := raw[1 : len(raw)-1]
		optional := strings.HasSuffix(inner, "?")
		inner = strings.TrimSuffix(inner, "?")
		if name, _, found := strings.Cut(inner, ":"); found {
			inner = name
		}
		inner = strings.TrimPrefix(inner, "*")
		segments = append(segments, Segment{Param: inner, Optional: optional, Raw: raw})

		rest = rest[end+1:]
	}
	return segments
}

// JoinRoute joins the client prefix and an endpoint route, without leading or trailing slash
func JoinRoute(prefix, route string) string {
	prefix = strings.Trim(prefix, "/")
	route = strings.Trim(route, "/")
	switch {
	case prefix == "":
		return route
	case route == "":
		return prefix
	default:
		return prefix + "/" + route
	}
}

// RouteParams returns the lower-cased names of every placeholder in segments
func RouteParams(segments []Segment) map[string]bool {
	names := make(map[string]bool)
	for _, s := range segments {
		if s.IsParam() {
			names[strings.ToLower(s.Param)] = true
		}
	}
	return names
}
