package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/stateful/mailtree/pkg/document/editor"
)

const testMarkup = `<mail>
  <head></head>
  <body>
    <section>
      <column>
        <text>Hello</text>
      </column>
    </section>
  </body>
</mail>
`

func newSession(t *testing.T) *editor.Session {
	t.Helper()
	s := editor.New(nil)
	require.NoError(t, s.LoadMarkup(testMarkup))
	return s
}

func TestRun(t *testing.T) {
	steps, err := Parse([]byte(`
- op: insert
  parent: type == "column"
  type: button
  props:
    href: https://example.com
    background-color: null
    border-radius: null
    padding: null
    color: null
    width: 120
  content: Buy now
- op: content
  target: type == "text"
  content: Welcome
- op: move
  target: type == "button"
  parent: type == "column"
  index: 0
- op: lock
  target: type == "section"
- op: head
  head:
    title: Sale
- op: duplicate
  target: type == "text"
- op: remove
  target: type == "text" && content == "Welcome" && id != ""
- op: undo
`))
	require.NoError(t, err)

	s := newSession(t)
	results, err := NewRunner(s, zaptest.NewLogger(t)).Run(steps)
	require.NoError(t, err)
	require.Len(t, results, 8)
	for _, r := range results {
		assert.True(t, r.Changed, "step %d (%s)", r.Step, r.Op)
	}

	expected := `<mail>
  <head>
    <title>Sale</title>
    <style>
      .mail-body { word-break: break-word; }
    </style>
  </head>
  <body>
    <section data-locked="true">
      <column>
        <button href="https://example.com" width="120">Buy now</button>
        <text>Welcome</text>
        <text>Welcome</text>
      </column>
    </section>
  </body>
</mail>
`
	assert.Equal(t, expected, s.Markup())
}

func TestRun_NoChange(t *testing.T) {
	steps, err := Parse([]byte(`
- op: content
  target: type == "text"
  content: Hello
- op: redo
`))
	require.NoError(t, err)

	results, err := NewRunner(newSession(t), nil).Run(steps)
	require.NoError(t, err)
	assert.False(t, results[0].Changed)
	assert.False(t, results[1].Changed)
}

func TestRun_NoMatch(t *testing.T) {
	steps, err := Parse([]byte(`
- op: remove
  target: type == "image"
`))
	require.NoError(t, err)

	_, err = NewRunner(newSession(t), nil).Run(steps)
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Contains(t, err.Error(), "step 1 (remove)")
}

func TestRun_Paste(t *testing.T) {
	steps, err := Parse([]byte(`
- op: paste
  parent: type == "column"
  index: 0
  markup: <spacer height="10px" /><divider />
`))
	require.NoError(t, err)

	s := newSession(t)
	_, err = NewRunner(s, nil).Run(steps)
	require.NoError(t, err)

	column := s.Root().Children[0].Children[0]
	require.Len(t, column.Children, 3)
	assert.Equal(t, "spacer", column.Children[0].Type)
	assert.Equal(t, "divider", column.Children[1].Type)
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		script string
	}{
		{name: "UnknownOp", script: "- op: explode\n"},
		{name: "MissingTarget", script: "- op: remove\n"},
		{name: "MissingType", script: "- op: insert\n  parent: 'true'\n"},
		{name: "MissingHead", script: "- op: head\n"},
		{name: "PropsNotMapping", script: "- op: props\n  target: 'true'\n  props: [a]\n"},
		{name: "NotAList", script: "op: undo\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.script))
			assert.Error(t, err)
		})
	}
}
