package markup

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/schema"
)

// ErrMissingBody is returned when the markup has no body element.
var ErrMissingBody = errors.New("markup has no body element")

// voidElements never have an end tag in HTML, so skipping them must not
// wait for one.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "param": {}, "source": {}, "track": {}, "wbr": {},
}

// Parse converts markup text into a document. Tag names become node types
// and attributes become string props; numeric values are not coerced back.
// A markup without a body element yields ErrMissingBody and no document.
func Parse(text string, opts Options) (*document.Document, error) {
	p := newParser(text, opts)

	doc := &document.Document{}
	for {
		tt := p.z.Next()
		switch tt {
		case html.ErrorToken:
			if err := p.z.Err(); err != io.EOF {
				return nil, errors.Wrap(err, "failed to tokenize markup")
			}
			return nil, ErrMissingBody
		case html.StartTagToken, html.SelfClosingTagToken:
			name, attrs := p.tag()
			switch name {
			case tagHead:
				if tt == html.StartTagToken {
					doc.Head = p.head()
				}
			case tagBody:
				doc.Root = p.element(name, attrs, tt == html.SelfClosingTagToken)
				if p.err != nil {
					return nil, p.err
				}
				return doc, nil
			}
		}
	}
}

// ParseNodes converts a markup fragment into the top-level nodes it
// contains. Elements outside the node vocabulary are skipped.
func ParseNodes(text string, opts Options) ([]*document.Node, error) {
	p := newParser(text, opts)

	var result []*document.Node
	for {
		tt := p.z.Next()
		switch tt {
		case html.ErrorToken:
			if err := p.z.Err(); err != io.EOF {
				return nil, errors.Wrap(err, "failed to tokenize markup")
			}
			return result, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, attrs := p.tag()
			if !p.registry.Known(name) {
				continue
			}
			node := p.element(name, attrs, tt == html.SelfClosingTagToken)
			if p.err != nil {
				return nil, p.err
			}
			result = append(result, node)
		}
	}
}

type attribute struct {
	key   string
	value string
}

type parser struct {
	z        *html.Tokenizer
	registry *schema.Registry
	ids      document.IdentityResolver
	err      error
}

func newParser(text string, opts Options) *parser {
	return &parser{
		z:        html.NewTokenizer(strings.NewReader(text)),
		registry: opts.registry(),
		ids:      opts.identityResolver(),
	}
}

func (p *parser) tag() (string, []attribute) {
	name, hasAttr := p.z.TagName()
	tagName := strings.ToLower(string(name))

	var attrs []attribute
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = p.z.TagAttr()
		attrs = append(attrs, attribute{key: string(key), value: string(val)})
	}
	return tagName, attrs
}

func (p *parser) element(name string, attrs []attribute, selfClosing bool) *document.Node {
	node := &document.Node{
		ID:    p.ids.NewID(),
		Type:  name,
		Props: document.NewProps(),
	}
	for _, attr := range attrs {
		if attr.key == LockAttribute {
			node.Locked = attr.value == "" || strings.EqualFold(attr.value, "true")
			continue
		}
		node.Props.Set(attr.key, attr.value)
	}

	def, _ := p.registry.Lookup(name)
	if def.CanHaveChildren {
		node.Children = []*document.Node{}
	}
	if selfClosing {
		return node
	}
	if def.Content == schema.HTMLContent {
		node.Content = normalizeContent(p.raw(name))
		return node
	}

	var text strings.Builder
	for {
		tt := p.z.Next()
		switch tt {
		case html.ErrorToken:
			// An unterminated element ends with the input.
			if err := p.z.Err(); err != io.EOF {
				p.err = errors.Wrap(err, "failed to tokenize markup")
			}
			p.finish(node, def, text.String())
			return node
		case html.TextToken:
			text.Write(p.z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			childName, childAttrs := p.tag()
			if def.CanHaveChildren && p.registry.Known(childName) {
				node.Children = append(node.Children, p.element(childName, childAttrs, tt == html.SelfClosingTagToken))
				if p.err != nil {
					return node
				}
				continue
			}
			if tt == html.StartTagToken && p.skip(childName, name) {
				p.finish(node, def, text.String())
				return node
			}
		case html.EndTagToken:
			endName, _ := p.tag()
			if endName == name {
				p.finish(node, def, text.String())
				return node
			}
		}
	}
}

func (p *parser) finish(node *document.Node, def schema.Definition, text string) {
	if def.CanHaveChildren {
		return
	}
	node.Content = normalizeContent(text)
}

// skip consumes the subtree of an element that is not part of the node
// vocabulary. It reports true when the end tag of the enclosing element
// was consumed instead.
func (p *parser) skip(name, enclosing string) bool {
	if _, ok := voidElements[name]; ok {
		return false
	}
	depth := 1
	for {
		switch p.z.Next() {
		case html.ErrorToken:
			return true
		case html.StartTagToken:
			if tagName, _ := p.tag(); tagName == name {
				depth++
			}
		case html.EndTagToken:
			tagName, _ := p.tag()
			if tagName == name {
				depth--
				if depth == 0 {
					return false
				}
			} else if tagName == enclosing {
				return true
			}
		}
	}
}

// raw returns the verbatim source between the current start tag and its
// matching end tag.
func (p *parser) raw(name string) string {
	var b strings.Builder
	depth := 1
	for {
		tt := p.z.Next()
		if tt == html.ErrorToken {
			if err := p.z.Err(); err != io.EOF {
				p.err = errors.Wrap(err, "failed to tokenize markup")
			}
			return b.String()
		}
		// Raw must be read before TagName, which lower-cases in place.
		raw := string(p.z.Raw())
		switch tt {
		case html.StartTagToken:
			if tagName, _ := p.tag(); tagName == name {
				depth++
			}
		case html.EndTagToken:
			if tagName, _ := p.tag(); tagName == name {
				depth--
				if depth == 0 {
					return b.String()
				}
			}
		}
		b.WriteString(raw)
	}
}

func (p *parser) head() document.Head {
	var head document.Head
	for {
		tt := p.z.Next()
		switch tt {
		case html.ErrorToken:
			return head
		case html.EndTagToken:
			if name, _ := p.tag(); name == tagHead {
				return head
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, attrs := p.tag()
			selfClosing := tt == html.SelfClosingTagToken
			switch name {
			case tagTitle:
				if !selfClosing {
					head.Title = normalizeContent(p.text(name))
				}
			case tagPreview:
				if !selfClosing {
					head.Preview = normalizeContent(p.text(name))
				}
			case tagFont:
				head.Fonts = append(head.Fonts, document.Font{
					Name: attrValue(attrs, "name"),
					Href: attrValue(attrs, "href"),
				})
			case tagBreakpoint:
				head.Breakpoint = attrValue(attrs, "width")
			case tagStyle:
				if !selfClosing {
					css := normalizeContent(p.text(name))
					css = strings.TrimPrefix(css, BaselineCSS)
					head.CSS = strings.TrimSpace(css)
				}
			}
		}
	}
}

// text collects the text up to the end tag with the given name.
func (p *parser) text(name string) string {
	var b strings.Builder
	for {
		switch p.z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(p.z.Text())
		case html.EndTagToken:
			if tagName, _ := p.tag(); tagName == name {
				return b.String()
			}
		}
	}
}

func attrValue(attrs []attribute, key string) string {
	for _, attr := range attrs {
		if attr.key == key {
			return attr.value
		}
	}
	return ""
}
