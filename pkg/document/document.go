package document

import (
	"github.com/stateful/mailtree/pkg/document/schema"
)

// Font is a custom font declaration emitted in the markup head.
type Font struct {
	Name string `json:"name" yaml:"name"`
	Href string `json:"href" yaml:"href"`
}

// Head holds document-level settings that are not part of the node tree
// but travel with it through serialization and history.
// CSS holds the user rules only. Surrounding whitespace is not kept: the
// serializer writes the rules trimmed and the editor trims them on update.
type Head struct {
	Title      string `json:"title,omitempty"`
	Preview    string `json:"preview,omitempty"`
	Fonts      []Font `json:"fonts,omitempty"`
	CSS        string `json:"css,omitempty"`
	Breakpoint string `json:"breakpoint,omitempty"`
}

func (h Head) Clone() Head {
	clone := h
	if h.Fonts != nil {
		clone.Fonts = append([]Font(nil), h.Fonts...)
	}
	return clone
}

// Document is the root node, conventionally of type body, plus its head.
type Document struct {
	Root *Node `json:"root"`
	Head Head  `json:"head"`
}

// New creates an empty document with a fresh body node.
func New(ids IdentityResolver) *Document {
	return &Document{
		Root: &Node{
			ID:       ids.NewID(),
			Type:     schema.TypeBody,
			Props:    NewProps(),
			Children: []*Node{},
		},
	}
}

func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{
		Root: d.Root.Clone(),
		Head: d.Head.Clone(),
	}
}
