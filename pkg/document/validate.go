package document

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/stateful/mailtree/pkg/document/schema"
)

var (
	ErrDuplicateID      = errors.New("duplicate node id")
	ErrContainment      = errors.New("child type not allowed")
	ErrChildrenNotAllow = errors.New("type cannot have children")
)

// Validate checks the tree against the containment grammar and the id
// uniqueness invariant. It reports every violation and never corrects them.
func Validate(root *Node, registry *schema.Registry) error {
	var err error
	seen := make(map[string]struct{})

	Walk(root, func(n *Node, _ int) bool {
		if _, ok := seen[n.ID]; ok {
			err = multierr.Append(err, errors.Wrapf(ErrDuplicateID, "%q", n.ID))
		}
		seen[n.ID] = struct{}{}

		def, ok := registry.Lookup(n.Type)
		if !ok {
			err = multierr.Append(err, errors.Wrapf(schema.ErrUnknownType, "node %s: %q", n.ID, n.Type))
			return true
		}
		if n.Children != nil && !def.CanHaveChildren {
			err = multierr.Append(err, errors.Wrapf(ErrChildrenNotAllow, "node %s (%s)", n.ID, n.Type))
		}
		for _, child := range n.Children {
			if !def.AcceptsChild(child.Type) {
				err = multierr.Append(err, errors.Wrapf(ErrContainment, "%s under %s (node %s)", child.Type, n.Type, child.ID))
			}
		}
		return true
	})

	return err
}
