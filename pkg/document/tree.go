package document

// Walk visits the subtree depth-first, parents before children. Returning
// false from fn skips the node's children.
func Walk(root *Node, fn func(node *Node, depth int) bool) {
	walk(root, 0, fn)
}

func walk(node *Node, depth int, fn func(*Node, int) bool) {
	if node == nil {
		return
	}
	if !fn(node, depth) {
		return
	}
	for _, child := range node.Children {
		walk(child, depth+1, fn)
	}
}

// Find returns the node with the given id or nil.
func Find(root *Node, id string) *Node {
	if root == nil || id == "" {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, child := range root.Children {
		if n := Find(child, id); n != nil {
			return n
		}
	}
	return nil
}

// FindParent returns the parent of the node with the given id and the
// node's index within it. The root has no parent.
func FindParent(root *Node, id string) (*Node, int) {
	if root == nil || id == "" {
		return nil, -1
	}
	if i := root.IndexOf(id); i >= 0 {
		return root, i
	}
	for _, child := range root.Children {
		if parent, idx := FindParent(child, id); parent != nil {
			return parent, idx
		}
	}
	return nil, -1
}

// Path returns the nodes from root to the node with the given id,
// inclusive, or nil if the id is not in the tree.
func Path(root *Node, id string) []*Node {
	if root == nil || id == "" {
		return nil
	}
	if root.ID == id {
		return []*Node{root}
	}
	for _, child := range root.Children {
		if p := Path(child, id); p != nil {
			return append([]*Node{root}, p...)
		}
	}
	return nil
}

// Contains reports whether id is anywhere within the subtree of node,
// node itself included.
func Contains(node *Node, id string) bool {
	return Find(node, id) != nil
}

// IsLocked reports whether the node or any of its ancestors carries an
// explicit lock.
func IsLocked(root *Node, id string) bool {
	path := Path(root, id)
	for _, n := range path {
		if n.Locked {
			return true
		}
	}
	return false
}

// IDs returns every id of the subtree in depth-first order.
func IDs(root *Node) []string {
	var result []string
	Walk(root, func(n *Node, _ int) bool {
		result = append(result, n.ID)
		return true
	})
	return result
}

// Count returns the number of nodes in the subtree.
func Count(root *Node) int {
	count := 0
	Walk(root, func(*Node, int) bool {
		count++
		return true
	})
	return count
}
