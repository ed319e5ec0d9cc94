package ulid

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     io.Reader
	entropyOnce sync.Once

	mu        sync.RWMutex
	generator = DefaultGenerator
)

// DefaultEntropy returns a monotonic reader shared by all generators.
// Monotonic entropy keeps ids minted within the same millisecond ordered,
// which in turn keeps freshly cloned subtrees sortable by creation.
func DefaultEntropy() io.Reader {
	entropyOnce.Do(func() {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))

		entropy = &ulid.LockedMonotonicReader{
			MonotonicReader: ulid.Monotonic(rng, 0),
		}
	})
	return entropy
}

// ValidID reports whether id is a canonical, upper-case ULID.
func ValidID(id string) bool {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return false
	}
	return parsed.String() == id
}

// GenerateID returns a new id from the current generator.
func GenerateID() string {
	mu.RLock()
	gen := generator
	mu.RUnlock()
	return gen()
}

func DefaultGenerator() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), DefaultEntropy()).String()
}

// SetGenerator replaces the process generator and returns a function
// restoring the previous one. It is meant for tests.
func SetGenerator(gen func() string) (restore func()) {
	mu.Lock()
	prev := generator
	generator = gen
	mu.Unlock()

	return func() {
		mu.Lock()
		generator = prev
		mu.Unlock()
	}
}

// FixedSequence returns a generator that yields the given ids in order
// and falls back to DefaultGenerator once they are exhausted.
func FixedSequence(ids ...string) func() string {
	var (
		seqMu sync.Mutex
		next  int
	)
	return func() string {
		seqMu.Lock()
		defer seqMu.Unlock()
		if next < len(ids) {
			id := ids[next]
			next++
			return id
		}
		return DefaultGenerator()
	}
}
