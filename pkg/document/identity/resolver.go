package identity

import (
	"github.com/stateful/mailtree/internal/ulid"
)

// Resolver mints node identities. Identities are never carried in markup,
// so every parse, clone and template instantiation goes through a Resolver.
type Resolver struct {
	generate func() string
}

type ResolverOption func(*Resolver)

// WithGenerator overrides the id source. The generator must never
// return the same value twice.
func WithGenerator(fn func() string) ResolverOption {
	return func(r *Resolver) {
		r.generate = fn
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.generate == nil {
		r.generate = ulid.GenerateID
	}
	return r
}

// NewID returns a fresh node id.
func (r *Resolver) NewID() string {
	return r.generate()
}

// Valid reports whether id looks like an id minted by the default generator.
func (r *Resolver) Valid(id string) bool {
	return ulid.ValidID(id)
}

var defaultResolver = NewResolver()

// Default returns the process-wide resolver backed by ULIDs.
func Default() *Resolver {
	return defaultResolver
}
