// Package markup converts document trees to the markup dialect and back.
//
// Generation is deterministic: attributes follow props insertion order,
// each tree level is indented by two spaces, and only the self-closing
// types are emitted as self-closed tags. Parsing mints a fresh id for every
// node; ids are never carried in markup.
package markup

import (
	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/identity"
	"github.com/stateful/mailtree/pkg/document/schema"
)

const (
	// LockAttribute marks a node as explicitly locked. The locked-region
	// scanner looks for the same attribute.
	LockAttribute = "data-locked"

	// BaselineCSS is always emitted first in the head style block.
	BaselineCSS = ".mail-body { word-break: break-word; }"

	indentUnit = "  "

	tagRoot       = "mail"
	tagHead       = "head"
	tagBody       = "body"
	tagTitle      = "title"
	tagPreview    = "preview"
	tagFont       = "font"
	tagBreakpoint = "breakpoint"
	tagStyle      = "style"
)

type Options struct {
	Registry         *schema.Registry
	IdentityResolver document.IdentityResolver
}

func (o Options) registry() *schema.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return schema.Default()
}

func (o Options) identityResolver() document.IdentityResolver {
	if o.IdentityResolver != nil {
		return o.IdentityResolver
	}
	return identity.Default()
}
