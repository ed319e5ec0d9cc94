package templates

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/identity"
	"github.com/stateful/mailtree/pkg/document/markup"
	"github.com/stateful/mailtree/pkg/document/schema"
)

var headingSizes = map[int]string{
	1: "28px",
	2: "22px",
}

// FromMarkdown converts a markdown document into a single-column document.
// Headings and plain paragraphs become text nodes, images standing alone
// become image nodes and thematic breaks become dividers. Every other block
// is rendered to HTML and kept in a raw-html node. The first heading is
// used as the title.
func FromMarkdown(src []byte, opts markup.Options) (*document.Document, error) {
	c := &converter{
		src:      src,
		md:       goldmark.New(),
		registry: opts.Registry,
		ids:      opts.IdentityResolver,
	}
	if c.registry == nil {
		c.registry = schema.Default()
	}
	if c.ids == nil {
		c.ids = identity.Default()
	}

	root, err := document.Instantiate(c.registry, c.ids, schema.TypeBody)
	if err != nil {
		return nil, err
	}
	section, err := document.Instantiate(c.registry, c.ids, schema.TypeSection)
	if err != nil {
		return nil, err
	}
	if !section.HasChildren() {
		return nil, errors.New("section has no default column")
	}
	column := section.Children[0]
	root.Children = append(root.Children, section)

	var head document.Head
	tree := c.md.Parser().Parse(text.NewReader(src))
	for n := tree.FirstChild(); n != nil; n = n.NextSibling() {
		node, err := c.block(n)
		if err != nil {
			return nil, err
		}
		if node == nil {
			continue
		}
		if _, ok := n.(*ast.Heading); ok && head.Title == "" {
			head.Title = node.Content
		}
		column.Children = append(column.Children, node)
	}

	return &document.Document{Root: root, Head: head}, nil
}

type converter struct {
	src      []byte
	md       goldmark.Markdown
	registry *schema.Registry
	ids      document.IdentityResolver
}

func (c *converter) instantiate(nodeType string) *document.Node {
	node, err := document.Instantiate(c.registry, c.ids, nodeType)
	if err != nil {
		// the catalog always defines the content types used here
		panic(err)
	}
	return node
}

func (c *converter) block(n ast.Node) (*document.Node, error) {
	switch n := n.(type) {
	case *ast.Heading:
		node := c.instantiate(schema.TypeText)
		size, ok := headingSizes[n.Level]
		if !ok {
			size = "18px"
		}
		node.Props.Set("font-size", size)
		node.Props.Set("font-weight", "bold")
		node.Content = c.inlineText(n)
		return node, nil

	case *ast.Paragraph:
		if img, ok := n.FirstChild().(*ast.Image); ok && n.ChildCount() == 1 {
			node := c.instantiate(schema.TypeImage)
			node.Props.Set("src", string(img.Destination))
			node.Props.Set("alt", c.inlineText(img))
			return node, nil
		}
		if c.plain(n) {
			node := c.instantiate(schema.TypeText)
			node.Content = c.inlineText(n)
			return node, nil
		}

	case *ast.ThematicBreak:
		return c.instantiate(schema.TypeDivider), nil
	}

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, c.src, n); err != nil {
		return nil, errors.Wrap(err, "failed to render markdown block")
	}
	content := strings.TrimSpace(buf.String())
	if content == "" {
		return nil, nil
	}
	node := c.instantiate(schema.TypeRawHTML)
	node.Content = content
	return node, nil
}

// plain reports whether the inline content carries no formatting.
func (c *converter) plain(n ast.Node) bool {
	plain := true
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || child == n {
			return ast.WalkContinue, nil
		}
		switch child.(type) {
		case *ast.Text, *ast.String:
			return ast.WalkContinue, nil
		}
		plain = false
		return ast.WalkStop, nil
	})
	return plain
}

func (c *converter) inlineText(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(c.src))
			if t.HardLineBreak() {
				b.WriteByte('\n')
			} else if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
