// Package editor applies structural edits to a document tree. Every edit
// produces a new snapshot which is recorded in the session history, so
// the previous snapshot stays untouched and can be restored by Undo.
//
// A Session is not safe for concurrent use. Use Manager to share sessions
// between goroutines.
package editor

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stateful/mailtree/internal/ulid"
	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/history"
	"github.com/stateful/mailtree/pkg/document/identity"
	"github.com/stateful/mailtree/pkg/document/markup"
	"github.com/stateful/mailtree/pkg/document/schema"
)

// Append used as an index inserts at the end of the children list.
const Append = -1

// State is one history snapshot. Snapshots are never mutated once committed.
type State struct {
	Root *document.Node
	Head document.Head
}

func (s State) clone() State {
	return State{
		Root: s.Root.Clone(),
		Head: s.Head.Clone(),
	}
}

type Session struct {
	id       string
	registry *schema.Registry
	ids      document.IdentityResolver
	strict   bool
	limit    int
	logger   *zap.Logger

	state   State
	history *history.Log[State]

	selectedID string
	hoveredID  string
}

type Option func(*Session)

func WithRegistry(registry *schema.Registry) Option {
	return func(s *Session) {
		s.registry = registry
	}
}

func WithIdentityResolver(ids document.IdentityResolver) Option {
	return func(s *Session) {
		s.ids = ids
	}
}

// WithStrictContainment turns insertions and moves that violate the
// schema's allowed-children rules into no-ops.
func WithStrictContainment() Option {
	return func(s *Session) {
		s.strict = true
	}
}

func WithHistoryLimit(limit int) Option {
	return func(s *Session) {
		s.limit = limit
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New opens a session on doc. A nil doc starts from an empty body.
// The session owns a private copy of doc.
func New(doc *document.Document, opts ...Option) *Session {
	s := &Session{
		id:       ulid.GenerateID(),
		registry: schema.Default(),
		ids:      identity.Default(),
		limit:    history.DefaultLimit,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if doc == nil {
		doc = document.New(s.ids)
	}
	s.state = State{Root: doc.Root.Clone(), Head: doc.Head.Clone()}
	s.history = history.New(history.WithLimit[State](s.limit))

	return s
}

// ID identifies the session, e.g. in a Manager.
func (s *Session) ID() string { return s.id }

func (s *Session) Identifier() string { return s.id }

func (s *Session) Registry() *schema.Registry { return s.registry }

func (s *Session) Strict() bool { return s.strict }

// Document returns the current snapshot. It must be treated as read-only.
func (s *Session) Document() *document.Document {
	return &document.Document{Root: s.state.Root, Head: s.state.Head}
}

func (s *Session) Root() *document.Node { return s.state.Root }

func (s *Session) Head() document.Head { return s.state.Head }

func (s *Session) markupOptions() markup.Options {
	return markup.Options{Registry: s.registry, IdentityResolver: s.ids}
}

// Markup serializes the current snapshot.
func (s *Session) Markup() string {
	return markup.Generate(s.Document(), s.markupOptions())
}

// commit records next and makes it current. It reports false, leaving the
// session untouched, when next is deep-equal to the current snapshot.
func (s *Session) commit(op string, next State, fields ...zap.Field) bool {
	if !s.history.Record(s.state, next) {
		return false
	}
	s.state = next
	s.logger.Debug(
		"applied edit",
		append([]zap.Field{zap.String("session", s.id), zap.String("op", op)}, fields...)...,
	)
	return true
}

func (s *Session) Undo() bool {
	prev, ok := s.history.Undo(s.state)
	if !ok {
		return false
	}
	s.state = prev
	s.dropStaleSelection()
	s.logger.Debug("undo", zap.String("session", s.id), zap.Int("remaining", s.history.Len()))
	return true
}

func (s *Session) Redo() bool {
	next, ok := s.history.Redo(s.state)
	if !ok {
		return false
	}
	s.state = next
	s.dropStaleSelection()
	s.logger.Debug("redo", zap.String("session", s.id), zap.Int("remaining", s.history.FutureLen()))
	return true
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }

func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// HistoryLen is the number of snapshots that can be undone.
func (s *Session) HistoryLen() int { return s.history.Len() }

// Replace makes doc the current snapshot as a regular, undoable edit.
func (s *Session) Replace(doc *document.Document) bool {
	if doc == nil || doc.Root == nil {
		return false
	}
	changed := s.commit("replace", State{Root: doc.Root.Clone(), Head: doc.Head.Clone()})
	if changed {
		s.dropStaleSelection()
	}
	return changed
}

// LoadMarkup parses text and replaces the current snapshot with the result.
// On a parse error the session is left untouched.
func (s *Session) LoadMarkup(text string) error {
	doc, err := markup.Parse(text, s.markupOptions())
	if err != nil {
		return errors.WithMessage(err, "failed to load markup")
	}
	s.Replace(doc)
	return nil
}

func (s *Session) Find(id string) *document.Node {
	return document.Find(s.state.Root, id)
}

func (s *Session) FindParentAndIndex(id string) (*document.Node, int) {
	return document.FindParent(s.state.Root, id)
}

func (s *Session) IsLocked(id string) bool {
	return document.IsLocked(s.state.Root, id)
}

// Select marks id as selected. An empty id clears the selection and an
// unknown id is ignored.
func (s *Session) Select(id string) {
	if id != "" && s.Find(id) == nil {
		return
	}
	s.selectedID = id
}

func (s *Session) Hover(id string) {
	if id != "" && s.Find(id) == nil {
		return
	}
	s.hoveredID = id
}

// Selection returns the selected and hovered ids, empty when unset.
func (s *Session) Selection() (selected, hovered string) {
	return s.selectedID, s.hoveredID
}

func (s *Session) dropStaleSelection() {
	if s.selectedID != "" && s.Find(s.selectedID) == nil {
		s.selectedID = ""
	}
	if s.hoveredID != "" && s.Find(s.hoveredID) == nil {
		s.hoveredID = ""
	}
}
