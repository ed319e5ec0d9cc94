package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/identity"
	"github.com/stateful/mailtree/pkg/document/schema"
)

var testOptions = Options{IdentityResolver: identity.NewResolver()}

func node(id, nodeType string, props *document.Props, content string, children ...*document.Node) *document.Node {
	n := &document.Node{ID: id, Type: nodeType, Props: props, Content: content}
	if schema.Default().CanHaveChildren(nodeType) {
		n.Children = append([]*document.Node{}, children...)
	}
	return n
}

func testDocument() *document.Document {
	section := node("s1", schema.TypeSection, document.PropsOf("padding", "20px 0"), "",
		node("c1", schema.TypeColumn, document.NewProps(), "",
			node("t1", schema.TypeText, document.PropsOf("color", "#000"), "Hello & <world>"),
			node("i1", schema.TypeImage, document.PropsOf("src", "https://example.com/a.png", "alt", `a "b" <c>`), ""),
			node("r1", schema.TypeRawHTML, document.NewProps(), "<div class=\"x\">\n  <p>Hi &amp; bye</p>\n</div>"),
			node("tb1", schema.TypeTable, document.PropsOf("cellpadding", 0, "width", "100%"), "<tr><td>1 &lt; 2</td></tr>"),
			node("sp1", schema.TypeSpacer, document.NewProps(), ""),
			node("b1", schema.TypeButton, document.PropsOf("href", "#"), "Line one\nLine two"),
		),
	)
	section.Locked = true

	return &document.Document{
		Root: node("b", schema.TypeBody, document.PropsOf("width", "600px"), "",
			section,
			node("s2", schema.TypeSection, document.NewProps(), ""),
		),
		Head: document.Head{
			Title:      "Welcome & hello",
			Preview:    "Read <this>",
			Fonts:      []document.Font{{Name: "Roboto", Href: "https://fonts.example.com/roboto?a=1&b=2"}},
			CSS:        ".red { color: red; }\n.blue { color: blue; }",
			Breakpoint: "480px",
		},
	}
}

const testDocumentMarkup = `<mail>
  <head>
    <title>Welcome &amp; hello</title>
    <preview>Read &lt;this&gt;</preview>
    <font name="Roboto" href="https://fonts.example.com/roboto?a=1&amp;b=2" />
    <breakpoint width="480px" />
    <style>
      .mail-body { word-break: break-word; }
      .red { color: red; }
      .blue { color: blue; }
    </style>
  </head>
  <body width="600px">
    <section padding="20px 0" data-locked="true">
      <column>
        <text color="#000">Hello &amp; &lt;world&gt;</text>
        <image src="https://example.com/a.png" alt="a &quot;b&quot; &lt;c&gt;" />
        <raw-html>
          <div class="x">
            <p>Hi &amp; bye</p>
          </div>
        </raw-html>
        <table cellpadding="0" width="100%"><tr><td>1 &lt; 2</td></tr></table>
        <spacer />
        <button href="#">
          Line one
          Line two
        </button>
      </column>
    </section>
    <section></section>
  </body>
</mail>
`

func TestGenerate(t *testing.T) {
	assert.Equal(t, testDocumentMarkup, Generate(testDocument(), testOptions))
}

func TestGenerate_EmptyHead(t *testing.T) {
	doc := &document.Document{Root: node("b", schema.TypeBody, document.NewProps(), "")}
	assert.Equal(
		t,
		`<mail>
  <head>
    <style>
      .mail-body { word-break: break-word; }
    </style>
  </head>
  <body></body>
</mail>
`,
		Generate(doc, testOptions),
	)
}

func TestGenerateNode(t *testing.T) {
	n := node("n", schema.TypeNavbar, document.PropsOf("align", "center", "hamburger", ""), "",
		node("l1", schema.TypeNavbarLink, document.PropsOf("href", "/a"), "A"),
	)
	assert.Equal(
		t,
		"<navbar align=\"center\">\n  <navbar-link href=\"/a\">A</navbar-link>\n</navbar>\n",
		GenerateNode(n, testOptions),
	)
}

func TestGenerate_ContentPrecedence(t *testing.T) {
	// Children-bearing types never emit content.
	section := node("s", schema.TypeSection, document.NewProps(), "ignored")
	assert.Equal(t, "<section></section>\n", GenerateNode(section, testOptions))

	// Self-closing types with content are not self-closed.
	divider := node("d", schema.TypeDivider, document.NewProps(), "x")
	assert.Equal(t, "<divider>x</divider>\n", GenerateNode(divider, testOptions))
}

// stringifyNumbers mirrors the documented round-trip limitation: numeric
// props come back from markup as strings.
func stringifyNumbers(root *document.Node) *document.Node {
	clone := root.Clone()
	document.Walk(clone, func(n *document.Node, _ int) bool {
		n.Props.Each(func(key string, value any) {
			if _, ok := value.(string); !ok {
				n.Props.Set(key, document.FormatValue(value))
			}
		})
		return true
	})
	return clone
}

func TestRoundTrip(t *testing.T) {
	doc := testDocument()

	parsed, err := Parse(Generate(doc, testOptions), testOptions)
	require.NoError(t, err)

	opts := cmp.Options{cmpopts.IgnoreFields(document.Node{}, "ID")}
	expected := stringifyNumbers(doc.Root)
	require.True(t, cmp.Equal(expected, parsed.Root, opts), "%s", cmp.Diff(expected, parsed.Root, opts))
	assert.Equal(t, doc.Head, parsed.Head)

	// HTML content is preserved byte for byte and never unescaped.
	raw := document.Find(doc.Root, "r1")
	var parsedRaw *document.Node
	document.Walk(parsed.Root, func(n *document.Node, _ int) bool {
		if n.Type == schema.TypeRawHTML {
			parsedRaw = n
		}
		return true
	})
	require.NotNil(t, parsedRaw)
	assert.Equal(t, raw.Content, parsedRaw.Content)

	// Numbers come back as strings.
	v, _ := parsed.Root.Children[0].Children[0].Children[3].Props.Get("cellpadding")
	assert.Equal(t, "0", v)

	// Generation is stable after one round trip.
	assert.Equal(t, Generate(doc, testOptions), Generate(parsed, testOptions))
}

func TestRoundTrip_MixedCaseKeys(t *testing.T) {
	n := node("i", schema.TypeImage, document.NewProps(), "")
	n.Props.Patch(document.PropsOf("dataTrack", "promo", "src", "a.png"))

	nodes, err := ParseNodes(GenerateNode(n, testOptions), testOptions)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, []string{"datatrack", "src"}, nodes[0].Props.Keys())
	assert.True(t, n.Props.Equal(nodes[0].Props))

	// attribute names are read lower-cased
	nodes, err = ParseNodes(`<image dataTrack="promo" />`, testOptions)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, []string{"datatrack"}, nodes[0].Props.Keys())
}

func TestParse_FreshIDs(t *testing.T) {
	text := Generate(testDocument(), testOptions)

	first, err := Parse(text, testOptions)
	require.NoError(t, err)
	second, err := Parse(text, testOptions)
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for _, id := range append(document.IDs(first.Root), document.IDs(second.Root)...) {
		_, dup := seen[id]
		require.False(t, dup, "id %q minted twice", id)
		seen[id] = struct{}{}
	}
	assert.Nil(t, document.Find(first.Root, "s1"))
}

func TestAttributeEscaping(t *testing.T) {
	value := `say "hi" <b> & bye`
	n := node("i", schema.TypeImage, document.PropsOf("alt", value), "")

	text := GenerateNode(n, testOptions)
	assert.Equal(t, "<image alt=\"say &quot;hi&quot; &lt;b&gt; &amp; bye\" />\n", text)

	nodes, err := ParseNodes(text, testOptions)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	got, _ := nodes[0].Props.Get("alt")
	assert.Equal(t, value, got)
}

func TestParse_MissingBody(t *testing.T) {
	for _, text := range []string{
		"",
		"just text",
		"<mail><head><title>x</title></head></mail>",
		"<section><column></column></section>",
	} {
		doc, err := Parse(text, testOptions)
		require.ErrorIs(t, err, ErrMissingBody, "input %q", text)
		assert.Nil(t, doc)
	}
}

func TestParse_Lenient(t *testing.T) {
	text := `<BODY Width="500px">
  <Section>
    <column>
      <text>Hello<br>world <b>bold</b> end</text>
      <unknown><text>skipped</text></unknown>
      <spacer height="10px"/>
    </column>
  </Section>
  <marquee>ignored</marquee>
</BODY>`

	doc, err := Parse(text, testOptions)
	require.NoError(t, err)

	root := doc.Root
	assert.Equal(t, schema.TypeBody, root.Type)
	width, _ := root.Props.Get("width")
	assert.Equal(t, "500px", width)
	require.Len(t, root.Children, 1)

	column := root.Children[0].Children[0]
	require.Len(t, column.Children, 2)
	assert.Equal(t, "Helloworld  end", column.Children[0].Content)
	assert.Nil(t, column.Children[0].Children)
	assert.Equal(t, schema.TypeSpacer, column.Children[1].Type)
	assert.Empty(t, doc.Head)
}

func TestParse_Unterminated(t *testing.T) {
	doc, err := Parse("<body><section><column><text>Hi", testOptions)
	require.NoError(t, err)
	text := doc.Root.Children[0].Children[0].Children[0]
	assert.Equal(t, "Hi", text.Content)
}

func TestParse_Lock(t *testing.T) {
	doc, err := Parse(`<body><section data-locked="true"></section><section data-locked="false"></section><section data-locked></section></body>`, testOptions)
	require.NoError(t, err)
	require.Len(t, doc.Root.Children, 3)
	assert.True(t, doc.Root.Children[0].Locked)
	assert.False(t, doc.Root.Children[1].Locked)
	assert.True(t, doc.Root.Children[2].Locked)
	assert.Equal(t, 0, doc.Root.Children[0].Props.Len())
}

func TestParse_NestedHTMLContent(t *testing.T) {
	text := "<body><section><column><table>\n<tr><td><table><tr><td>in</td></tr></table></td></tr>\n</table><spacer /></column></section></body>"
	doc, err := Parse(text, testOptions)
	require.NoError(t, err)

	column := doc.Root.Children[0].Children[0]
	require.Len(t, column.Children, 2)
	assert.Equal(t, "<tr><td><table><tr><td>in</td></tr></table></td></tr>", column.Children[0].Content)
}

func TestParseNodes(t *testing.T) {
	nodes, err := ParseNodes("<divider />\n<p>skip</p>\n<text>A</text>", testOptions)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, schema.TypeDivider, nodes[0].Type)
	assert.Equal(t, "A", nodes[1].Content)
}

func TestNormalizeContent(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"  x  ", "x"},
		{"\n      a\n        b\n      c\n    ", "a\n  b\nc"},
		{"\n    a\n\n    b\n", "a\n\nb"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, normalizeContent(tc.in), "input %q", tc.in)
	}
}
