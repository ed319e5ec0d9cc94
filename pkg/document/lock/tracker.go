package lock

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultDecorationDelay = 50 * time.Millisecond

var ErrInvalidRange = errors.New("range is outside of the text")

// Tracker follows the text of a source editor. Edits are checked
// synchronously against the latest text. Decorations (the regions shown to
// the user) are recomputed after a short delay and may be briefly stale.
//
// Tracker is safe for concurrent use.
type Tracker struct {
	delay      time.Duration
	onDecorate func([]Region)
	logger     *zap.Logger

	mu          sync.Mutex
	text        string
	decorations []Region
	timer       *time.Timer
	generation  uint64
	closed      bool
}

type TrackerOption func(*Tracker)

func WithDelay(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		t.delay = d
	}
}

// WithOnDecorate registers a callback invoked with fresh decorations.
// It runs on the timer goroutine.
func WithOnDecorate(fn func([]Region)) TrackerOption {
	return func(t *Tracker) {
		t.onDecorate = fn
	}
}

func WithLogger(logger *zap.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func NewTracker(text string, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		delay: DefaultDecorationDelay,
		text:  text,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	t.decorations = FindLockedRegions(text)
	return t
}

func (t *Tracker) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// Decorations returns the last computed regions.
func (t *Tracker) Decorations() []Region {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Region(nil), t.decorations...)
}

// SetText replaces the text and schedules a decoration refresh. A refresh
// still pending from a previous call is discarded.
func (t *Tracker) SetText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.text = text
	t.scheduleLocked()
}

// Check rejects an edit that intersects a locked region of the latest text.
func (t *Tracker) Check(edit Range) error {
	t.mu.Lock()
	text := t.text
	t.mu.Unlock()

	return Check(text, edit)
}

// Edit replaces the given range with replacement unless the range
// intersects a locked region. Rejected edits leave the text untouched.
func (t *Tracker) Edit(edit Range, replacement string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := Check(t.text, edit); err != nil {
		t.logger.Info("rejected edit", zap.Any("range", edit), zap.Error(err))
		return err
	}

	start, ok := offset(t.text, edit.StartLine, edit.StartColumn)
	if !ok {
		return errors.WithStack(ErrInvalidRange)
	}
	end, ok := offset(t.text, edit.EndLine, edit.EndColumn)
	if !ok || end < start {
		return errors.WithStack(ErrInvalidRange)
	}

	t.text = t.text[:start] + replacement + t.text[end:]
	t.scheduleLocked()
	return nil
}

// Flush computes pending decorations immediately.
func (t *Tracker) Flush() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	gen := t.generation
	t.mu.Unlock()

	t.decorate(gen)
}

// Close cancels a pending refresh. Later text changes are still accepted
// but no longer decorated.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Tracker) scheduleLocked() {
	t.generation++
	if t.closed {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	gen := t.generation
	t.timer = time.AfterFunc(t.delay, func() { t.decorate(gen) })
}

func (t *Tracker) decorate(gen uint64) {
	t.mu.Lock()
	if gen != t.generation {
		t.mu.Unlock()
		return
	}
	text := t.text
	t.mu.Unlock()

	regions := FindLockedRegions(text)

	t.mu.Lock()
	if gen != t.generation {
		t.mu.Unlock()
		return
	}
	t.decorations = regions
	t.timer = nil
	onDecorate := t.onDecorate
	t.mu.Unlock()

	t.logger.Debug("decorations refreshed", zap.Int("regions", len(regions)))

	if onDecorate != nil {
		onDecorate(append([]Region(nil), regions...))
	}
}

// offset converts a 1-based line and rune column into a byte offset.
// The column may point one past the end of the line.
func offset(text string, line, column int) (int, bool) {
	if line < 1 || column < 1 {
		return 0, false
	}
	pos := 0
	for l := 1; l < line; l++ {
		idx := strings.IndexByte(text[pos:], '\n')
		if idx < 0 {
			return 0, false
		}
		pos += idx + 1
	}
	lineEnd := strings.IndexByte(text[pos:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text) - pos
	}
	lineText := text[pos : pos+lineEnd]
	if column-1 > utf8.RuneCountInString(lineText) {
		return 0, false
	}
	for col := 1; col < column; col++ {
		_, size := utf8.DecodeRuneInString(lineText)
		lineText = lineText[size:]
		pos += size
	}
	return pos, true
}
