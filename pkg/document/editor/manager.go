package editor

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stateful/mailtree/internal/lru"
	"github.com/stateful/mailtree/pkg/document"
)

const DefaultMaxSessions = 32

var ErrSessionNotFound = errors.New("session not found")

// Manager keeps independent sessions keyed by id. Once full, the least
// recently used session is dropped. Each session is guarded by its own
// lock, acquired through Do.
type Manager struct {
	logger   *zap.Logger
	sessions *lru.Cache[*managed]
	opts     []Option
}

type managed struct {
	mu      sync.Mutex
	session *Session
}

func (m *managed) Identifier() string { return m.session.ID() }

type ManagerOption func(*managerConfig)

type managerConfig struct {
	capacity int
	logger   *zap.Logger
	opts     []Option
}

func WithMaxSessions(n int) ManagerOption {
	return func(c *managerConfig) {
		c.capacity = n
	}
}

func WithManagerLogger(logger *zap.Logger) ManagerOption {
	return func(c *managerConfig) {
		c.logger = logger
	}
}

// WithSessionOptions sets the options applied to every session the
// manager creates.
func WithSessionOptions(opts ...Option) ManagerOption {
	return func(c *managerConfig) {
		c.opts = append(c.opts, opts...)
	}
}

func NewManager(opts ...ManagerOption) *Manager {
	cfg := &managerConfig{
		capacity: DefaultMaxSessions,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	return &Manager{
		logger: logger,
		sessions: lru.NewCache(cfg.capacity, lru.WithOnEvict(func(m *managed) {
			logger.Info("evicted session", zap.String("session", m.session.ID()))
		})),
		opts: append([]Option{WithLogger(logger)}, cfg.opts...),
	}
}

// Open creates a session on doc and returns its id.
func (m *Manager) Open(doc *document.Document, opts ...Option) string {
	return m.open(doc, opts).session.ID()
}

func (m *Manager) open(doc *document.Document, opts []Option) *managed {
	entry := &managed{session: New(doc, append(append([]Option{}, m.opts...), opts...)...)}
	m.sessions.Add(entry)
	m.logger.Debug("opened session", zap.String("session", entry.session.ID()))
	return entry
}

// OpenDo creates a session on doc, runs fn with exclusive access to it and
// closes it. The session stays available to fn even if it is evicted by
// sessions opened in the meantime.
func (m *Manager) OpenDo(doc *document.Document, fn func(*Session) error, opts ...Option) error {
	entry := m.open(doc, opts)
	defer m.Close(entry.session.ID())

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return fn(entry.session)
}

// Do runs fn with exclusive access to the session.
func (m *Manager) Do(id string, fn func(*Session) error) error {
	entry, ok := m.sessions.GetByID(id)
	if !ok {
		return errors.Wrapf(ErrSessionNotFound, "%q", id)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return fn(entry.session)
}

func (m *Manager) Close(id string) bool {
	ok := m.sessions.DeleteByID(id)
	if ok {
		m.logger.Debug("closed session", zap.String("session", id))
	}
	return ok
}

// IDs lists open sessions from the least to the most recently used.
func (m *Manager) IDs() []string {
	entries := m.sessions.List()
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.Identifier())
	}
	return ids
}

func (m *Manager) Len() int {
	return m.sessions.Size()
}
