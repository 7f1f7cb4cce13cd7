// Package query turns untrusted query parameters into owner-scoped store filters.
// Only allow-listed values survive; everything else is dropped silently.
package query

import (
	"net/url"
	"strings"

	"github.com/VenusCh001/studytracker/core"
)

// Params are raw query parameters, one value per name.
type Params map[string]string

// FromValues keeps the first value of each parameter.
func FromValues(vals url.Values) Params {
	params := make(Params, len(vals))
	for k, v := range vals {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

// Rule maps one query parameter onto one document field.
type Rule struct {
	Param   string
	Field   string
	allowed map[string]struct{}
	list    bool
}

// Enum accepts `param` when its value is exactly one of `allowed`; it filters the field of the same name.
func Enum(param string, allowed ...string) Rule {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return Rule{Param: param, Field: param, allowed: set}
}

// Tags accepts a comma separated list; each element must match core.TagRegex.
func Tags(param string) Rule {
	return Rule{Param: param, Field: param, list: true}
}

// On sets the filtered document field when it differs from the parameter name.
func (r Rule) On(field string) Rule {
	r.Field = field
	return r
}

// Build returns a Filter scoped to `owner` plus one condition per rule whose parameter value is allowed.
func Build(owner string, params Params, rules ...Rule) core.Filter {
	filter := core.OwnedBy(owner)
	for _, rule := range rules {
		raw, ok := params[rule.Param]
		if !ok {
			continue
		}
		if rule.list {
			if tags := SplitTags(raw); len(tags) > 0 {
				filter = filter.Where(rule.Field, core.OpHasAny, tags)
			}
			continue
		}
		if _, ok := rule.allowed[raw]; ok {
			filter = filter.Where(rule.Field, core.OpEq, raw)
		}
	}
	return filter
}

// SplitTags splits a comma separated list, trims each element and keeps the valid ones.
func SplitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if core.TagRegex.MatchString(tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}
