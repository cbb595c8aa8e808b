// Package crs provides coordinate reference system specification templates
// and the process-wide template registry.
//
// A template turns a short, ordered list of user-supplied parameter values
// (for example a single EPSG code) into a full projection specification
// string and a display name for the resulting coordinates. Substitution is
// purely textual: each parameter owns an @key@ marker, and markers without
// a supplied value stay in the output so a template can also describe
// itself generically.
package crs

import "strings"

// Parameter describes one user-supplied value of a template.
type Parameter struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

// Template builds projection specification strings from parameter values.
// Templates are immutable once registered.
type Template struct {
	id       string
	params   []Parameter
	specTmpl string
	namePat  string
}

// NewTemplate creates a template. The specification template and name
// pattern refer to parameters as @key@.
func NewTemplate(id string, params []Parameter, specTemplate, namePattern string) Template {
	return Template{
		id:       id,
		params:   append([]Parameter(nil), params...),
		specTmpl: specTemplate,
		namePat:  namePattern,
	}
}

// ID returns the registry identifier of the template.
func (t Template) ID() string { return t.id }

// Parameters returns the ordered parameter descriptors. The count is fixed
// per template.
func (t Template) Parameters() []Parameter {
	return append([]Parameter(nil), t.params...)
}

// SpecificationTemplate returns the raw specification string with its
// @key@ markers left in place.
func (t Template) SpecificationTemplate() string { return t.specTmpl }

// Specification substitutes values into the specification template in
// parameter order. Fewer values than parameters leave the remaining
// markers literal; that is a documented outcome, not an error.
func (t Template) Specification(values ...string) string {
	return t.substitute(t.specTmpl, values)
}

// CoordinatesName substitutes values into the display-name pattern. With
// no values it returns the generic label, markers included, e.g.
// "EPSG @code@ coordinates".
func (t Template) CoordinatesName(values ...string) string {
	return t.substitute(t.namePat, values)
}

func (t Template) substitute(pattern string, values []string) string {
	out := pattern
	for i, v := range values {
		if i >= len(t.params) {
			break
		}
		out = strings.ReplaceAll(out, "@"+t.params[i].Key+"@", v)
	}
	return out
}
