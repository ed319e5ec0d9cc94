// Package history implements a linear undo/redo log over whole snapshots.
package history

import (
	"github.com/google/go-cmp/cmp"
)

// DefaultLimit is the maximum number of undo steps kept.
const DefaultLimit = 50

// Log keeps past and future snapshots around a current state owned by the
// caller. Snapshots must be treated as immutable once recorded.
type Log[T any] struct {
	past   []T
	future []T
	limit  int
	equal  func(a, b T) bool
}

type Option[T any] func(*Log[T])

func WithLimit[T any](limit int) Option[T] {
	return func(l *Log[T]) {
		if limit > 0 {
			l.limit = limit
		}
	}
}

// WithEqual replaces the structural comparison used to coalesce
// consecutive identical states.
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(l *Log[T]) {
		l.equal = equal
	}
}

func New[T any](opts ...Option[T]) *Log[T] {
	l := &Log[T]{limit: DefaultLimit}
	for _, opt := range opts {
		opt(l)
	}
	if l.equal == nil {
		l.equal = func(a, b T) bool { return cmp.Equal(a, b) }
	}
	return l
}

// Record registers the transition from prev to next. Nothing is recorded
// and false is returned when both states are structurally identical.
// Otherwise prev is pushed onto the past stack, dropping the oldest entry
// past the limit, and the future stack is cleared.
func (l *Log[T]) Record(prev, next T) bool {
	if l.equal(prev, next) {
		return false
	}
	l.past = append(l.past, prev)
	if over := len(l.past) - l.limit; over > 0 {
		var zero T
		for i := 0; i < over; i++ {
			l.past[i] = zero
		}
		l.past = l.past[over:]
	}
	l.future = nil
	return true
}

// Undo returns the previous state and stores current as the next redo step.
func (l *Log[T]) Undo(current T) (T, bool) {
	if len(l.past) == 0 {
		var zero T
		return zero, false
	}
	prev := l.past[len(l.past)-1]
	l.past = l.past[:len(l.past)-1]
	l.future = append(l.future, current)
	return prev, true
}

// Redo is the mirror of Undo.
func (l *Log[T]) Redo(current T) (T, bool) {
	if len(l.future) == 0 {
		var zero T
		return zero, false
	}
	next := l.future[len(l.future)-1]
	l.future = l.future[:len(l.future)-1]
	l.past = append(l.past, current)
	return next, true
}

func (l *Log[T]) CanUndo() bool { return len(l.past) > 0 }

func (l *Log[T]) CanRedo() bool { return len(l.future) > 0 }

// Len returns the number of undo steps.
func (l *Log[T]) Len() int { return len(l.past) }

// FutureLen returns the number of redo steps.
func (l *Log[T]) FutureLen() int { return len(l.future) }

func (l *Log[T]) Limit() int { return l.limit }

func (l *Log[T]) Clear() {
	l.past = nil
	l.future = nil
}
