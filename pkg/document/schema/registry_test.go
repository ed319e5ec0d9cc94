package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Catalog(t *testing.T) {
	r := Default()

	require.Len(t, r.Types(), 23)
	assert.Equal(t, TypeBody, r.Types()[0])

	for _, def := range r.Definitions() {
		t.Run(def.Type, func(t *testing.T) {
			for _, child := range def.AllowedChildren {
				assert.True(t, r.Known(child), "unknown child type %q", child)
			}
			for _, parent := range def.AllowedParents {
				assert.True(t, r.Known(parent), "unknown parent type %q", parent)
			}
			for _, tmpl := range def.DefaultChildren {
				assert.True(t, def.AcceptsChild(tmpl.Type), "default child %q not accepted", tmpl.Type)
			}
			if def.SelfClosing {
				assert.False(t, def.CanHaveChildren)
				assert.Empty(t, def.DefaultContent)
			}
			if def.Content != NoContent {
				assert.False(t, def.CanHaveChildren)
			}
		})
	}
}

func TestRegistry_Accepts(t *testing.T) {
	r := Default()

	assert.True(t, r.Accepts(TypeBody, TypeSection))
	assert.True(t, r.Accepts(TypeSection, TypeColumn))
	assert.True(t, r.Accepts(TypeColumn, TypeText))
	assert.False(t, r.Accepts(TypeBody, TypeColumn))
	assert.False(t, r.Accepts(TypeColumn, TypeSection))
	assert.False(t, r.Accepts(TypeText, TypeText))
	assert.False(t, r.Accepts("unknown", TypeText))
}

func TestRegistry_AllowedParentsIsAdvisory(t *testing.T) {
	r := Default()

	// raw-html lists several parents, but only the parent's AllowedChildren
	// decides placement.
	def := r.MustLookup(TypeRawHTML)
	assert.Contains(t, def.AllowedParents, TypeColumn)
	assert.True(t, r.Accepts(TypeColumn, TypeRawHTML))

	def = r.MustLookup(TypeSocialLink)
	assert.Equal(t, []string{TypeSocial}, def.AllowedParents)
	assert.False(t, r.Accepts(TypeColumn, TypeSocialLink))
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry(Definition{Type: "a"}, Definition{Type: "a"})
	require.Error(t, err)

	_, err = NewRegistry(Definition{Type: "leaf", AllowedChildren: []string{"x"}})
	require.Error(t, err)

	_, err = NewRegistry(Definition{})
	require.Error(t, err)
}

func TestRegistry_MustLookup(t *testing.T) {
	require.Panics(t, func() {
		Default().MustLookup("nope")
	})
}
