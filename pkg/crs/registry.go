package crs

import (
	_ "embed"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var catalogYAML []byte

// Registry is a read-only catalog of CRS templates keyed by identifier.
type Registry struct {
	byID  map[string]Template
	order []string
}

// NewRegistry builds a registry from the given templates. Duplicate
// identifiers are rejected.
func NewRegistry(templates ...Template) (*Registry, error) {
	r := &Registry{byID: make(map[string]Template, len(templates))}
	for _, t := range templates {
		if t.id == "" {
			return nil, eris.New("crs: template without identifier")
		}
		if _, dup := r.byID[t.id]; dup {
			return nil, eris.Errorf("crs: duplicate template %q", t.id)
		}
		r.byID[t.id] = t
		r.order = append(r.order, t.id)
	}
	return r, nil
}

// Find looks up a template by exact identifier. Absence is a normal
// outcome the caller must check.
func (r *Registry) Find(id string) (Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// IDs returns the template identifiers in catalog order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

type catalogFile struct {
	Templates []struct {
		ID              string      `yaml:"id"`
		Parameters      []Parameter `yaml:"parameters"`
		Specification   string      `yaml:"specification"`
		CoordinatesName string      `yaml:"coordinates_name"`
	} `yaml:"templates"`
}

func loadCatalog(data []byte) (*Registry, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "crs: parse template catalog")
	}
	templates := make([]Template, 0, len(f.Templates))
	for _, e := range f.Templates {
		if e.Specification == "" {
			return nil, eris.Errorf("crs: template %q without specification", e.ID)
		}
		templates = append(templates, NewTemplate(e.ID, e.Parameters, e.Specification, e.CoordinatesName))
	}
	return NewRegistry(templates...)
}

// The default registry is built once from the embedded catalog. A broken
// catalog is a build defect, hence the panic.
var defaultRegistry = func() *Registry {
	r, err := loadCatalog(catalogYAML)
	if err != nil {
		panic(err)
	}
	return r
}()

// DefaultRegistry returns the process-wide template catalog. The returned
// registry and its templates live for the process lifetime.
func DefaultRegistry() *Registry { return defaultRegistry }

// Find looks up a template in the default registry.
func Find(id string) (Template, bool) { return defaultRegistry.Find(id) }
