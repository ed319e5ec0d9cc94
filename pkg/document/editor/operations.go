package editor

import (
	"strings"

	"go.uber.org/zap"

	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/markup"
)

// CreateNode instantiates a detached node of nodeType with its default
// props, content and subtree. It does not touch the session state.
func (s *Session) CreateNode(nodeType string) (*document.Node, error) {
	return document.Instantiate(s.registry, s.ids, nodeType)
}

func (s *Session) accepts(parentType, childType string) bool {
	return !s.strict || s.registry.Accepts(parentType, childType)
}

// collides reports whether any id of the subtree is already in the tree.
func collides(root, subtree *document.Node) bool {
	existing := make(map[string]struct{}, document.Count(root))
	for _, id := range document.IDs(root) {
		existing[id] = struct{}{}
	}
	seen := make(map[string]struct{})
	for _, id := range document.IDs(subtree) {
		if _, ok := existing[id]; ok {
			return true
		}
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func insertAt(children []*document.Node, node *document.Node, index int) []*document.Node {
	if index < 0 || index > len(children) {
		index = len(children)
	}
	children = append(children, nil)
	copy(children[index+1:], children[index:])
	children[index] = node
	return children
}

func removeAt(children []*document.Node, index int) []*document.Node {
	result := make([]*document.Node, 0, len(children)-1)
	result = append(result, children[:index]...)
	return append(result, children[index+1:]...)
}

// InsertChild inserts node under parentID at index, or at the end when
// index is Append or out of range, and selects it. Nothing happens when
// the parent is missing or cannot have children, when node would break id
// uniqueness, or when strict containment rejects the pair.
func (s *Session) InsertChild(parentID string, node *document.Node, index int) bool {
	if node == nil {
		return false
	}

	next := s.state.clone()
	parent := document.Find(next.Root, parentID)
	if parent == nil || parent.Children == nil {
		return false
	}
	if !s.accepts(parent.Type, node.Type) || collides(next.Root, node) {
		return false
	}

	parent.Children = insertAt(parent.Children, node.Clone(), index)
	if !s.commit("insert", next, zap.String("parent", parentID), zap.String("node", node.ID)) {
		return false
	}
	s.selectedID = node.ID
	return true
}

// RemoveNode detaches the subtree rooted at id. The root cannot be removed.
func (s *Session) RemoveNode(id string) bool {
	next := s.state.clone()
	parent, index := document.FindParent(next.Root, id)
	if parent == nil {
		return false
	}
	parent.Children = removeAt(parent.Children, index)

	if !s.commit("remove", next, zap.String("node", id)) {
		return false
	}
	s.dropStaleSelection()
	return true
}

// MoveNode detaches id and reinserts it under newParentID so that it ends
// up at newIndex among the new siblings, or last when newIndex is Append or
// out of range. Moving [A B C D] A to index 2 of the same parent yields
// [B C A D]. Nothing happens for the root, a missing or childless target,
// a target inside the moved subtree, or a strict containment violation.
func (s *Session) MoveNode(id, newParentID string, newIndex int) bool {
	next := s.state.clone()
	parent, index := document.FindParent(next.Root, id)
	if parent == nil {
		return false
	}
	node := parent.Children[index]

	target := document.Find(next.Root, newParentID)
	if target == nil || target.Children == nil {
		return false
	}
	if document.Contains(node, newParentID) {
		return false
	}
	if !s.accepts(target.Type, node.Type) {
		return false
	}

	parent.Children = removeAt(parent.Children, index)
	target.Children = insertAt(target.Children, node, newIndex)

	// a move back to the same position is not a change and is not recorded
	return s.commit("move", next, zap.String("node", id), zap.String("parent", newParentID), zap.Int("index", newIndex))
}

// DropNode moves id in front of the node currently at slot among the
// children of newParentID, as a drag and drop does. slot counts the
// siblings before the move, so the node's own position is still included:
// when the node moves forward within its parent the effective index is
// slot-1. Dropping a node right before or after itself is a no-op.
func (s *Session) DropNode(id, newParentID string, slot int) bool {
	parent, index := document.FindParent(s.state.Root, id)
	if parent == nil {
		return false
	}
	if parent.ID == newParentID && slot >= 0 && slot <= len(parent.Children) && index < slot {
		slot--
	}
	return s.MoveNode(id, newParentID, slot)
}

// DuplicateNode clones id with fresh ids for the whole subtree, places the
// clone right after the original, selects it and returns a copy of it.
// The root cannot be duplicated.
func (s *Session) DuplicateNode(id string) *document.Node {
	next := s.state.clone()
	parent, index := document.FindParent(next.Root, id)
	if parent == nil {
		return nil
	}

	clone := document.CloneWithNewIDs(parent.Children[index], s.ids)
	parent.Children = insertAt(parent.Children, clone, index+1)

	if !s.commit("duplicate", next, zap.String("node", id), zap.String("clone", clone.ID)) {
		return nil
	}
	s.selectedID = clone.ID
	return clone.Clone()
}

// UpdateProps merges patch into the node's props. Keys whose patch value is
// nil or the empty string are removed.
func (s *Session) UpdateProps(id string, patch *document.Props) bool {
	next := s.state.clone()
	node := document.Find(next.Root, id)
	if node == nil {
		return false
	}
	if node.Props == nil {
		node.Props = document.NewProps()
	}
	node.Props.Patch(patch)
	return s.commit("props", next, zap.String("node", id))
}

func (s *Session) UpdateContent(id, content string) bool {
	next := s.state.clone()
	node := document.Find(next.Root, id)
	if node == nil {
		return false
	}
	node.Content = content
	return s.commit("content", next, zap.String("node", id))
}

// UpdateChildren replaces the children of id, typically with a reordering
// of the current ones. Ids are kept as given; the list is rejected when it
// would duplicate an id found elsewhere in the tree, when id cannot have
// children, or when strict containment refuses one of the entries.
func (s *Session) UpdateChildren(id string, children []*document.Node) bool {
	next := s.state.clone()
	node := document.Find(next.Root, id)
	if node == nil || node.Children == nil {
		return false
	}

	node.Children = []*document.Node{}
	replacement := make([]*document.Node, 0, len(children))
	for _, child := range children {
		if child == nil || !s.accepts(node.Type, child.Type) {
			return false
		}
		replacement = append(replacement, child.Clone())
	}
	if collides(next.Root, &document.Node{Children: replacement}) {
		return false
	}
	node.Children = replacement

	if !s.commit("children", next, zap.String("node", id)) {
		return false
	}
	s.dropStaleSelection()
	return true
}

// SetLocked sets the node's own lock flag. Descendants inherit it through
// IsLocked without being modified.
func (s *Session) SetLocked(id string, locked bool) bool {
	next := s.state.clone()
	node := document.Find(next.Root, id)
	if node == nil {
		return false
	}
	node.Locked = locked
	return s.commit("lock", next, zap.String("node", id), zap.Bool("locked", locked))
}

// UpdateHead applies fn to a copy of the head and records the result.
func (s *Session) UpdateHead(fn func(head *document.Head)) bool {
	next := s.state.clone()
	fn(&next.Head)
	next.Head.CSS = strings.TrimSpace(next.Head.CSS)
	return s.commit("head", next)
}

// PasteMarkup parses a markup fragment and inserts the resulting nodes
// under parentID starting at index, as a single edit. The pasted nodes
// receive fresh ids. Nodes refused by strict containment are dropped.
func (s *Session) PasteMarkup(parentID, text string, index int) ([]*document.Node, error) {
	nodes, err := markup.ParseNodes(text, s.markupOptions())
	if err != nil {
		return nil, err
	}

	next := s.state.clone()
	parent := document.Find(next.Root, parentID)
	if parent == nil || parent.Children == nil {
		return nil, nil
	}
	if index < 0 || index > len(parent.Children) {
		index = len(parent.Children)
	}

	var pasted []*document.Node
	for _, node := range nodes {
		if !s.accepts(parent.Type, node.Type) {
			continue
		}
		parent.Children = insertAt(parent.Children, node, index)
		index++
		pasted = append(pasted, node.Clone())
	}
	if len(pasted) == 0 || !s.commit("paste", next, zap.String("parent", parentID), zap.Int("count", len(pasted))) {
		return nil, nil
	}
	s.selectedID = pasted[len(pasted)-1].ID
	return pasted, nil
}
