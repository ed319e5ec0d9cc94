package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/schema"
)

func testTree() *document.Node {
	return &document.Node{
		ID:    "body",
		Type:  schema.TypeBody,
		Props: document.NewProps(),
		Children: []*document.Node{
			{
				ID:     "s1",
				Type:   schema.TypeSection,
				Props:  document.PropsOf("padding", "0"),
				Locked: true,
				Children: []*document.Node{
					{
						ID:    "c1",
						Type:  schema.TypeColumn,
						Props: document.NewProps(),
						Children: []*document.Node{
							{ID: "t1", Type: schema.TypeText, Props: document.NewProps(), Content: "Footer"},
							{ID: "b1", Type: schema.TypeButton, Props: document.PropsOf("href", "http://example.com"), Content: "Go"},
						},
					},
				},
			},
			{
				ID:    "s2",
				Type:  schema.TypeSection,
				Props: document.NewProps(),
				Children: []*document.Node{
					{
						ID:    "c2",
						Type:  schema.TypeColumn,
						Props: document.NewProps(),
						Children: []*document.Node{
							{ID: "t2", Type: schema.TypeText, Props: document.NewProps(), Content: "Hello"},
							{ID: "tb", Type: schema.TypeTable, Props: document.PropsOf("cellpadding", 0), Content: "<tr></tr>"},
						},
					},
				},
			},
		},
	}
}

func selectIDs(t *testing.T, condition string) []string {
	t.Helper()

	f, err := Compile(condition)
	require.NoError(t, err)

	matches, err := Select(testTree(), f)
	require.NoError(t, err)

	var ids []string
	for _, m := range matches {
		ids = append(ids, m.Node.ID)
	}
	return ids
}

func TestSelect(t *testing.T) {
	testCases := []struct {
		condition string
		expected  []string
	}{
		{`type == "text"`, []string{"t1", "t2"}},
		{`type == "text" && locked`, []string{"t1"}},
		{`self_locked`, []string{"s1"}},
		{`props["href"] startsWith "http://"`, []string{"b1"}},
		{`props.cellpadding == "0"`, []string{"tb"}},
		{`depth == 1`, []string{"s1", "s2"}},
		{`children == 0 && parent == "column" && content contains "o"`, []string{"t1", "b1", "t2"}},
		{`id in ["c1", "c2"]`, []string{"c1", "c2"}},
		{`false`, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.condition, func(t *testing.T) {
			assert.Equal(t, tc.expected, selectIDs(t, tc.condition))
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile(`type + 1`)
	assert.Error(t, err)

	_, err = Compile(`unknown == 1`)
	assert.Error(t, err)

	_, err = Compile(`type`)
	assert.Error(t, err, "non-boolean result")
}

func TestSelect_Nil(t *testing.T) {
	f, err := Compile(`true`)
	require.NoError(t, err)

	matches, err := Select(nil, f)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
