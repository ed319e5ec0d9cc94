package markup

import (
	"strings"

	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/schema"
)

// Generate returns the full markup of the document: the envelope with
// the head settings followed by the body.
func Generate(doc *document.Document, opts Options) string {
	var b strings.Builder
	g := &generator{registry: opts.registry(), b: &b}

	b.WriteString("<" + tagRoot + ">\n")
	g.writeHead(doc.Head, 1)
	if doc.Root != nil {
		g.writeNode(doc.Root, 1)
	}
	b.WriteString("</" + tagRoot + ">\n")

	return b.String()
}

// GenerateNode returns the markup of a single subtree, starting at
// indentation depth zero.
func GenerateNode(node *document.Node, opts Options) string {
	var b strings.Builder
	g := &generator{registry: opts.registry(), b: &b}
	g.writeNode(node, 0)
	return b.String()
}

type generator struct {
	registry *schema.Registry
	b        *strings.Builder
}

func (g *generator) writeHead(head document.Head, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	inner := indent + indentUnit

	g.b.WriteString(indent + "<" + tagHead + ">\n")

	if head.Title != "" {
		g.b.WriteString(inner + "<" + tagTitle + ">" + escapeText(head.Title) + "</" + tagTitle + ">\n")
	}
	if head.Preview != "" {
		g.b.WriteString(inner + "<" + tagPreview + ">" + escapeText(head.Preview) + "</" + tagPreview + ">\n")
	}
	for _, font := range head.Fonts {
		g.b.WriteString(inner + "<" + tagFont + ` name="` + escapeAttribute(font.Name) + `" href="` + escapeAttribute(font.Href) + `" />` + "\n")
	}
	if head.Breakpoint != "" {
		g.b.WriteString(inner + "<" + tagBreakpoint + ` width="` + escapeAttribute(head.Breakpoint) + `" />` + "\n")
	}

	css := BaselineCSS
	if userCSS := strings.TrimSpace(head.CSS); userCSS != "" {
		css += "\n" + userCSS
	}
	g.b.WriteString(inner + "<" + tagStyle + ">\n")
	g.b.WriteString(reindent(css, inner+indentUnit) + "\n")
	g.b.WriteString(inner + "</" + tagStyle + ">\n")

	g.b.WriteString(indent + "</" + tagHead + ">\n")
}

func (g *generator) writeNode(node *document.Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	def, _ := g.registry.Lookup(node.Type)
	open := "<" + node.Type + attributes(node)

	switch {
	case def.CanHaveChildren && node.HasChildren():
		g.b.WriteString(indent + open + ">\n")
		for _, child := range node.Children {
			g.writeNode(child, depth+1)
		}
		g.b.WriteString(indent + "</" + node.Type + ">\n")

	case !def.CanHaveChildren && node.Content != "":
		body := node.Content
		if def.Content != schema.HTMLContent {
			body = escapeText(body)
		}
		if !strings.Contains(body, "\n") {
			g.b.WriteString(indent + open + ">" + body + "</" + node.Type + ">\n")
			return
		}
		g.b.WriteString(indent + open + ">\n")
		g.b.WriteString(reindent(body, indent+indentUnit) + "\n")
		g.b.WriteString(indent + "</" + node.Type + ">\n")

	case def.SelfClosing:
		g.b.WriteString(indent + open + " />\n")

	default:
		g.b.WriteString(indent + open + "></" + node.Type + ">\n")
	}
}

// attributes renders props in insertion order, skipping empty values,
// followed by the lock marker for explicitly locked nodes.
func attributes(node *document.Node) string {
	var b strings.Builder
	node.Props.Each(func(key string, value any) {
		if document.IsEmptyValue(value) {
			return
		}
		b.WriteString(" " + key + `="` + escapeAttribute(document.FormatValue(value)) + `"`)
	})
	if node.Locked {
		b.WriteString(" " + LockAttribute + `="true"`)
	}
	return b.String()
}
