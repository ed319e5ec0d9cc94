package compiler

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/markup"
	"github.com/stateful/mailtree/pkg/document/schema"
)

const mimeHTML = "text/html"

// Preview renders documents as simple table-based HTML. It does not aim at
// email client accuracy.
//
// Content of table and raw-html nodes is copied verbatim unless a sanitizer
// is configured, so untrusted markup must be compiled WithSanitizer.
type Preview struct {
	registry  *schema.Registry
	sanitizer *bluemonday.Policy
	strip     *bluemonday.Policy
	minifier  *minify.M
	generator string
	logger    *zap.Logger
}

var _ Compiler = (*Preview)(nil)

type Option func(*Preview)

func WithRegistry(registry *schema.Registry) Option {
	return func(p *Preview) {
		p.registry = registry
	}
}

// WithSanitizer filters the HTML content of table and raw-html nodes.
// bluemonday.UGCPolicy() is a reasonable default.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(p *Preview) {
		p.sanitizer = policy
	}
}

func WithMinify() Option {
	return func(p *Preview) {
		p.minifier = minify.New()
		p.minifier.AddFunc(mimeHTML, minhtml.Minify)
	}
}

// WithPlainText controls whether Result.Text is produced. It is by default.
func WithPlainText(enabled bool) Option {
	return func(p *Preview) {
		if enabled {
			p.strip = bluemonday.StrictPolicy()
		} else {
			p.strip = nil
		}
	}
}

// WithGenerator names the producing tool in a generator meta tag.
func WithGenerator(name string) Option {
	return func(p *Preview) {
		p.generator = name
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Preview) {
		p.logger = logger
	}
}

func NewPreview(opts ...Option) *Preview {
	p := &Preview{
		registry: schema.Default(),
		strip:    bluemonday.StrictPolicy(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Preview) Compile(ctx context.Context, text string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := markup.Parse(text, markup.Options{Registry: p.registry})
	if err != nil {
		p.logger.Info("failed to parse markup", zap.Error(err))
		result := &Result{}
		result.addError(ErrorTypeParse, err.Error())
		return result, nil
	}

	return p.CompileDocument(ctx, doc)
}

// CompileDocument renders an already parsed document.
func (p *Preview) CompileDocument(ctx context.Context, doc *document.Document) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, err := range multierr.Errors(document.Validate(doc.Root, p.registry)) {
		result.addError(ErrorTypeValidation, err.Error())
	}

	r := &renderer{sanitize: p.sanitize}
	r.node(doc.Root)
	body := r.String()

	result.HTML = envelope(doc.Head, p.generator, body)
	if p.strip != nil {
		result.Text = plainText(p.strip, body)
	}

	if p.minifier != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		minified, err := p.minifier.String(mimeHTML, result.HTML)
		if err != nil {
			result.addError(ErrorTypeMinify, err.Error())
		} else {
			result.HTML = minified
		}
	}

	p.logger.Debug(
		"compiled document",
		zap.Int("nodes", document.Count(doc.Root)),
		zap.Int("bytes", len(result.HTML)),
		zap.Int("errors", len(result.Errors)),
	)

	return result, nil
}

func (p *Preview) sanitize(s string) string {
	if p.sanitizer == nil {
		return s
	}
	return p.sanitizer.Sanitize(s)
}

func envelope(head document.Head, generator, body string) string {
	var b strings.Builder

	b.WriteString(`<!doctype html><html><head><meta charset="utf-8">`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	if generator != "" {
		b.WriteString(`<meta name="generator" content="` + html.EscapeString(generator) + `">`)
	}
	if head.Title != "" {
		b.WriteString("<title>" + html.EscapeString(head.Title) + "</title>")
	}
	for _, font := range head.Fonts {
		b.WriteString(`<link href="` + html.EscapeString(font.Href) + `" rel="stylesheet" type="text/css">`)
	}

	b.WriteString("<style>" + markup.BaselineCSS)
	if head.Breakpoint != "" {
		b.WriteString("@media only screen and (max-width:" + head.Breakpoint + "){.mail-column{display:block!important;width:100%!important;}}")
	}
	if head.CSS != "" {
		b.WriteString(head.CSS)
	}
	b.WriteString("</style></head><body>")

	if head.Preview != "" {
		b.WriteString(`<div style="display:none;max-height:0;overflow:hidden;">` + html.EscapeString(head.Preview) + "</div>")
	}
	b.WriteString(body)
	b.WriteString("</body></html>")

	return b.String()
}

var blockBreaks = strings.NewReplacer(
	"<div", "\n<div",
	"</div>", "</div>\n",
	"<tr", "\n<tr",
	"<br", "\n<br",
	"<p", "\n<p",
	"<a ", " <a ",
)

// plainText strips all markup from rendered HTML, keeping one line per
// block of text.
func plainText(strip *bluemonday.Policy, body string) string {
	stripped := html.UnescapeString(strip.Sanitize(blockBreaks.Replace(body)))

	var lines []string
	for _, line := range strings.Split(stripped, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
