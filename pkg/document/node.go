// Package document contains the email document tree: nodes, their props,
// the head settings travelling with the tree, and the pure read operations
// used by the editor and the serializer.
package document

// Node is a single element of the document tree.
//
// Children is nil for types that can never have children and non-nil,
// possibly empty, for types that can. Content is empty when absent.
// Locked holds only the node's own flag; inheritance is computed by IsLocked.
type Node struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Props    *Props  `json:"props"`
	Content  string  `json:"content,omitempty"`
	Children []*Node `json:"children,omitempty"`
	Locked   bool    `json:"locked,omitempty"`
}

// Clone copies the subtree rooted at n, keeping ids.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := &Node{
		ID:      n.ID,
		Type:    n.Type,
		Props:   n.Props.Clone(),
		Content: n.Content,
		Locked:  n.Locked,
	}
	if n.Children != nil {
		clone.Children = make([]*Node, 0, len(n.Children))
		for _, child := range n.Children {
			clone.Children = append(clone.Children, child.Clone())
		}
	}
	return clone
}

// HasChildren reports whether the node currently has at least one child.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// IndexOf returns the position of the child with the given id, or -1.
func (n *Node) IndexOf(id string) int {
	for i, child := range n.Children {
		if child.ID == id {
			return i
		}
	}
	return -1
}
