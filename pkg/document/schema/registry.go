// Package schema holds the catalog of node types and the containment
// grammar that constrains which types may be nested in which.
package schema

import (
	"sync"

	"github.com/elliotchance/orderedmap"
	"github.com/pkg/errors"
)

var ErrUnknownType = errors.New("unknown node type")

// ContentKind describes how a node's textual payload is treated by the
// markup serializer.
type ContentKind int

const (
	NoContent ContentKind = iota
	// TextContent is escaped on output.
	TextContent
	// HTMLContent is verbatim markup. It is never escaped.
	HTMLContent
)

func (k ContentKind) String() string {
	switch k {
	case TextContent:
		return "text"
	case HTMLContent:
		return "html"
	default:
		return "none"
	}
}

func (k ContentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Prop is a single default property value.
type Prop struct {
	Key   string `yaml:"key"`
	Value any    `yaml:"value"`
}

// Template describes a subtree instantiated together with a new node.
type Template struct {
	Type     string     `yaml:"type"`
	Props    []Prop     `yaml:"props,omitempty"`
	Content  string     `yaml:"content,omitempty"`
	Children []Template `yaml:"children,omitempty"`
}

// Definition is the static description of a node type.
//
// AllowedParents is advisory metadata for UI filtering. Containment is only
// ever enforced from the parent's side, through AllowedChildren.
type Definition struct {
	Type            string      `yaml:"type"`
	Label           string      `yaml:"label"`
	CanHaveChildren bool        `yaml:"can_have_children"`
	AllowedChildren []string    `yaml:"allowed_children,omitempty"`
	AllowedParents  []string    `yaml:"allowed_parents,omitempty"`
	DefaultProps    []Prop      `yaml:"default_props,omitempty"`
	DefaultContent  string      `yaml:"default_content,omitempty"`
	DefaultChildren []Template  `yaml:"default_children,omitempty"`
	Content         ContentKind `yaml:"content,omitempty"`
	SelfClosing     bool        `yaml:"self_closing,omitempty"`
	Fields          []Field     `yaml:"fields,omitempty"`
}

func (d Definition) AcceptsChild(childType string) bool {
	if !d.CanHaveChildren {
		return false
	}
	for _, t := range d.AllowedChildren {
		if t == childType {
			return true
		}
	}
	return false
}

// Registry is a read-only catalog of definitions once built.
type Registry struct {
	defs *orderedmap.OrderedMap
}

func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: orderedmap.NewOrderedMap()}
	for _, def := range defs {
		if err := r.register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(def Definition) error {
	if def.Type == "" {
		return errors.New("definition without a type")
	}
	if _, ok := r.defs.Get(def.Type); ok {
		return errors.Errorf("duplicate definition for %q", def.Type)
	}
	if !def.CanHaveChildren && (len(def.AllowedChildren) > 0 || len(def.DefaultChildren) > 0) {
		return errors.Errorf("childless type %q declares children", def.Type)
	}
	r.defs.Set(def.Type, def)
	return nil
}

func (r *Registry) Lookup(nodeType string) (Definition, bool) {
	v, ok := r.defs.Get(nodeType)
	if !ok {
		return Definition{}, false
	}
	return v.(Definition), true
}

// MustLookup is Lookup for types known to be registered.
func (r *Registry) MustLookup(nodeType string) Definition {
	def, ok := r.Lookup(nodeType)
	if !ok {
		panic(errors.Wrapf(ErrUnknownType, "%q", nodeType))
	}
	return def
}

func (r *Registry) Known(nodeType string) bool {
	_, ok := r.defs.Get(nodeType)
	return ok
}

// Accepts reports whether childType may be placed under parentType.
func (r *Registry) Accepts(parentType, childType string) bool {
	def, ok := r.Lookup(parentType)
	if !ok {
		return false
	}
	return def.AcceptsChild(childType)
}

// CanHaveChildren is false for unknown types.
func (r *Registry) CanHaveChildren(nodeType string) bool {
	def, ok := r.Lookup(nodeType)
	return ok && def.CanHaveChildren
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []string {
	result := make([]string, 0, r.defs.Len())
	for el := r.defs.Front(); el != nil; el = el.Next() {
		result = append(result, el.Key.(string))
	}
	return result
}

func (r *Registry) Definitions() []Definition {
	result := make([]Definition, 0, r.defs.Len())
	for el := r.defs.Front(); el != nil; el = el.Next() {
		result = append(result, el.Value.(Definition))
	}
	return result
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the built-in catalog. It is built once per process.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		r, err := NewRegistry(catalog()...)
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
