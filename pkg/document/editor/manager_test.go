package editor

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestManager(t *testing.T) {
	m := NewManager(
		WithMaxSessions(2),
		WithManagerLogger(zaptest.NewLogger(t)),
		WithSessionOptions(WithStrictContainment()),
	)

	first := m.Open(testDocument())
	second := m.Open(nil)
	assert.Equal(t, []string{first, second}, m.IDs())

	err := m.Do(first, func(s *Session) error {
		assert.True(t, s.Strict())
		assert.True(t, s.UpdateContent("t1", "managed"))
		return nil
	})
	require.NoError(t, err)

	// first is now the most recently used, so second is evicted
	third := m.Open(nil)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{first, third}, m.IDs())

	err = m.Do(second, func(*Session) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = m.Do(first, func(s *Session) error {
		assert.Equal(t, "managed", s.Find("t1").Content)
		return errors.New("stop")
	})
	assert.EqualError(t, err, "stop")

	assert.True(t, m.Close(first))
	assert.False(t, m.Close(first))
	assert.Equal(t, []string{third}, m.IDs())
}

func TestManager_Concurrent(t *testing.T) {
	m := NewManager()
	id := m.Open(sectionsDocument())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Do(id, func(s *Session) error {
				s.MoveNode("A", "body", Append)
				return nil
			})
		}()
	}
	wg.Wait()

	err := m.Do(id, func(s *Session) error {
		assert.Len(t, s.Root().Children, 4)
		assertUniqueIDs(t, s.Root())
		return nil
	})
	require.NoError(t, err)
}

func TestManager_OpenDo(t *testing.T) {
	m := NewManager(
		WithMaxSessions(1),
		WithManagerLogger(zaptest.NewLogger(t)),
	)

	var other string
	err := m.OpenDo(testDocument(), func(s *Session) error {
		// a session opened meanwhile evicts this one from the manager
		other = m.Open(nil)
		assert.Equal(t, []string{other}, m.IDs())

		assert.True(t, s.UpdateContent("t1", "still editable"))
		assert.Equal(t, "still editable", s.Find("t1").Content)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{other}, m.IDs())

	err = m.OpenDo(nil, func(*Session) error { return errors.New("stop") })
	assert.EqualError(t, err, "stop")
	assert.Equal(t, []string{other}, m.IDs())
}

func TestManager_OpenDoConcurrent(t *testing.T) {
	m := NewManager(WithMaxSessions(1))

	errs := make([]error, 16)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = m.OpenDo(sectionsDocument(), func(s *Session) error {
				_ = m.Open(nil)
				s.MoveNode("A", "body", Append)
				return nil
			})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, m.Len())
}
