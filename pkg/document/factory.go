package document

import (
	"github.com/pkg/errors"

	"github.com/stateful/mailtree/pkg/document/schema"
)

// IdentityResolver mints fresh node ids.
type IdentityResolver interface {
	NewID() string
}

// Instantiate creates a node of the given type seeded with the schema
// defaults, including the whole default subtree. Every node of the new
// subtree receives a fresh id.
func Instantiate(registry *schema.Registry, ids IdentityResolver, nodeType string) (*Node, error) {
	def, ok := registry.Lookup(nodeType)
	if !ok {
		return nil, errors.Wrapf(schema.ErrUnknownType, "%q", nodeType)
	}

	node := &Node{
		ID:      ids.NewID(),
		Type:    def.Type,
		Props:   NewProps(),
		Content: def.DefaultContent,
	}
	for _, p := range def.DefaultProps {
		node.Props.Set(p.Key, p.Value)
	}

	if def.CanHaveChildren {
		node.Children = make([]*Node, 0, len(def.DefaultChildren))
		for _, tmpl := range def.DefaultChildren {
			child, err := instantiateTemplate(registry, ids, tmpl)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	}

	return node, nil
}

// instantiateTemplate starts from the type's own defaults, then applies
// the template's overrides. A template without children falls back to the
// type's default subtree.
func instantiateTemplate(registry *schema.Registry, ids IdentityResolver, tmpl schema.Template) (*Node, error) {
	node, err := Instantiate(registry, ids, tmpl.Type)
	if err != nil {
		return nil, err
	}
	for _, p := range tmpl.Props {
		node.Props.Set(p.Key, p.Value)
	}
	if tmpl.Content != "" {
		node.Content = tmpl.Content
	}
	if len(tmpl.Children) > 0 && node.Children != nil {
		node.Children = node.Children[:0]
		for _, childTmpl := range tmpl.Children {
			child, err := instantiateTemplate(registry, ids, childTmpl)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}

// CloneWithNewIDs copies the subtree and assigns a fresh id to every node.
func CloneWithNewIDs(node *Node, ids IdentityResolver) *Node {
	clone := node.Clone()
	Walk(clone, func(n *Node, _ int) bool {
		n.ID = ids.NewID()
		return true
	})
	return clone
}
