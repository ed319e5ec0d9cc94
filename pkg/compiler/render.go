package compiler

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/schema"
)

// cssProps are the props copied into inline styles, keyed by prop name.
var cssProps = map[string]string{
	"align":            "text-align",
	"background-color": "background-color",
	"border":           "border",
	"border-radius":    "border-radius",
	"color":            "color",
	"direction":        "direction",
	"font-family":      "font-family",
	"font-size":        "font-size",
	"font-weight":      "font-weight",
	"height":           "height",
	"line-height":      "line-height",
	"padding":          "padding",
	"text-align":       "text-align",
	"vertical-align":   "vertical-align",
	"width":            "width",
}

const presentation = `role="presentation" cellpadding="0" cellspacing="0" border="0"`

type renderer struct {
	strings.Builder
	sanitize func(string) string
}

// style returns the inline style for the node, prefixed by extra
// declarations and skipping the given props.
func style(n *document.Node, extra string, skip ...string) string {
	var b strings.Builder
	b.WriteString(extra)

	n.Props.Each(func(key string, value any) {
		for _, s := range skip {
			if s == key {
				return
			}
		}
		if key == "background-url" {
			b.WriteString("background-image:url(" + document.FormatValue(value) + ");")
			return
		}
		property, ok := cssProps[key]
		if !ok || document.IsEmptyValue(value) {
			return
		}
		b.WriteString(property + ":" + document.FormatValue(value) + ";")
	})

	if b.Len() == 0 {
		return ""
	}
	return ` style="` + html.EscapeString(b.String()) + `"`
}

func attr(n *document.Node, key string) string {
	value, ok := n.Props.String(key)
	if !ok || value == "" {
		return ""
	}
	return " " + key + `="` + html.EscapeString(value) + `"`
}

func prop(n *document.Node, key, fallback string) string {
	if value, ok := n.Props.String(key); ok && value != "" {
		return value
	}
	return fallback
}

func textHTML(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}

func (r *renderer) children(n *document.Node) {
	for _, child := range n.Children {
		r.node(child)
	}
}

func (r *renderer) node(n *document.Node) {
	switch n.Type {
	case schema.TypeBody:
		r.WriteString(`<div class="mail-body"` + style(n, "margin:0 auto;", "width") + ">")
		r.WriteString(`<table ` + presentation + ` align="center"` + style(n, "", "background-color") + `><tr><td>`)
		r.children(n)
		r.WriteString("</td></tr></table></div>")

	case schema.TypeWrapper, schema.TypeHero:
		r.WriteString(`<table ` + presentation + ` width="100%"` + style(n, "") + `><tr><td>`)
		r.children(n)
		r.WriteString("</td></tr></table>")

	case schema.TypeSection, schema.TypeGroup:
		r.row(n)

	case schema.TypeColumn:
		r.WriteString(`<div class="mail-column"` + style(n, "") + ">")
		r.children(n)
		r.WriteString("</div>")

	case schema.TypeText, schema.TypeAccordionTitle, schema.TypeAccordionBody:
		r.WriteString("<div" + style(n, "") + ">" + textHTML(n.Content) + "</div>")

	case schema.TypeImage, schema.TypeCarouselSlide:
		r.image(n)

	case schema.TypeButton:
		r.WriteString(`<div` + style(n, "", "background-color", "color", "border-radius", "padding", "font-size", "font-weight", "font-family", "line-height", "border") + `>`)
		r.WriteString(`<a` + attr(n, "href") + ` target="_blank"` + style(n, "display:inline-block;text-decoration:none;", "align") + ">")
		r.WriteString(textHTML(n.Content) + "</a></div>")

	case schema.TypeDivider:
		border := prop(n, "border-width", "1px") + " " + prop(n, "border-style", "solid") + " " + prop(n, "border-color", "#000000")
		r.WriteString("<div" + style(n, "") + `><p style="` + html.EscapeString("border-top:"+border+";margin:0;font-size:1px;") + `"></p></div>`)

	case schema.TypeSpacer:
		height := prop(n, "height", "20px")
		r.WriteString(`<div style="` + html.EscapeString("height:"+height+";line-height:"+height+";") + `">&#8202;</div>`)

	case schema.TypeTable:
		r.WriteString("<table" + attr(n, "cellpadding") + attr(n, "cellspacing") + attr(n, "width") + style(n, "", "width") + ">")
		r.WriteString(r.sanitize(n.Content))
		r.WriteString("</table>")

	case schema.TypeRawHTML:
		r.WriteString(r.sanitize(n.Content))

	case schema.TypeSocial, schema.TypeNavbar:
		r.WriteString("<div" + style(n, "") + ">")
		for i, child := range n.Children {
			if i > 0 {
				r.WriteString("&nbsp;")
			}
			r.node(child)
		}
		r.WriteString("</div>")

	case schema.TypeSocialLink, schema.TypeNavbarLink:
		r.WriteString(`<a` + attr(n, "href") + ` target="_blank"` + style(n, "text-decoration:none;") + ">" + textHTML(n.Content) + "</a>")

	case schema.TypeAccordion, schema.TypeCarousel:
		r.WriteString("<div" + style(n, "") + ">")
		r.children(n)
		r.WriteString("</div>")

	case schema.TypeAccordionItem:
		r.WriteString("<div" + style(n, "") + ">")
		r.children(n)
		r.WriteString("</div>")

	default:
		r.children(n)
	}
}

// row lays the children out side by side, one cell each.
func (r *renderer) row(n *document.Node) {
	r.WriteString(`<table ` + presentation + ` width="100%"` + style(n, "") + "><tr>")
	for _, child := range n.Children {
		if child.Type == schema.TypeColumn {
			r.WriteString(`<td class="mail-column"` + style(child, "") + ">")
			r.children(child)
		} else {
			r.WriteString(`<td valign="top">`)
			r.node(child)
		}
		r.WriteString("</td>")
	}
	r.WriteString("</tr></table>")
}

func (r *renderer) image(n *document.Node) {
	img := "<img" + attr(n, "src") + ` alt="` + html.EscapeString(prop(n, "alt", "")) + `"`
	if width := strings.TrimSuffix(prop(n, "width", ""), "px"); width != "" {
		img += ` width="` + html.EscapeString(width) + `"`
	}
	img += style(n, "display:block;border:0;max-width:100%;", "padding", "align", "width", "height") + ">"

	if href := attr(n, "href"); href != "" {
		img = "<a" + href + ` target="_blank">` + img + "</a>"
	}

	r.WriteString("<div" + style(n, "", "width", "height", "border", "border-radius") + ">" + img + "</div>")
}
