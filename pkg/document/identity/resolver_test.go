package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stateful/mailtree/internal/ulid"
)

func TestResolver(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		resolver := NewResolver()
		id := resolver.NewID()
		assert.True(t, resolver.Valid(id))
		assert.True(t, ulid.ValidID(id))
		assert.NotEqual(t, id, resolver.NewID())
	})

	t.Run("WithGenerator", func(t *testing.T) {
		resolver := NewResolver(WithGenerator(ulid.FixedSequence("n1", "n2")))
		assert.Equal(t, "n1", resolver.NewID())
		assert.Equal(t, "n2", resolver.NewID())
		assert.False(t, resolver.Valid("n1"))
	})
}
