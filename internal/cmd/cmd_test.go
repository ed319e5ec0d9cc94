package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateful/mailtree/pkg/document/lock"
	"github.com/stateful/mailtree/pkg/document/schema"
	"github.com/stateful/mailtree/pkg/templates"
)

const helloMarkup = `<mail>
  <head>
    <title>Hello</title>
  </head>
  <body>
    <section>
      <column>
        <text>Hello world</text>
      </column>
    </section>
  </body>
</mail>
`

func init() {
	color.NoColor = true
}

func execute(t *testing.T, args ...string) (stdout, stderr string, _ error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := Root()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func templateFile(t *testing.T, name string) string {
	t.Helper()
	src, err := templates.Source(name)
	require.NoError(t, err)
	return writeFile(t, name+".mail", src)
}

func TestFmt(t *testing.T) {
	t.Run("Canonical", func(t *testing.T) {
		path := templateFile(t, "newsletter")
		src, err := templates.Source("newsletter")
		require.NoError(t, err)

		stdout, _, err := execute(t, "fmt", path)
		require.NoError(t, err)
		assert.Equal(t, src, stdout)
	})

	t.Run("Write", func(t *testing.T) {
		path := writeFile(t, "hello.mail", `<mail><body><section><column><text>Hi</text></column></section></body></mail>`)

		stdout, _, err := execute(t, "fmt", "-w", path)
		require.NoError(t, err)
		assert.Empty(t, stdout)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n      <column>\n")
	})

	t.Run("MissingBody", func(t *testing.T) {
		path := writeFile(t, "broken.mail", `<mail><head></head></mail>`)
		_, _, err := execute(t, "fmt", path)
		assert.Error(t, err)
	})
}

func TestLocks(t *testing.T) {
	path := templateFile(t, "locked-footer")

	t.Run("List", func(t *testing.T) {
		stdout, _, err := execute(t, "locks", path)
		require.NoError(t, err)
		assert.Equal(t, "<section> lines 15-26\n", stdout)
	})

	t.Run("None", func(t *testing.T) {
		stdout, _, err := execute(t, "locks", writeFile(t, "hello.mail", helloMarkup))
		require.NoError(t, err)
		assert.Equal(t, "no locked regions\n", stdout)
	})

	t.Run("CheckAllowed", func(t *testing.T) {
		stdout, _, err := execute(t, "locks", "--check", "12:1-12:5", path)
		require.NoError(t, err)
		assert.Equal(t, "allowed 12:1-12:5\n", stdout)
	})

	t.Run("CheckRejected", func(t *testing.T) {
		_, stderr, err := execute(t, "locks", "--check", "18:1-18:5", path)
		assert.ErrorIs(t, err, lock.ErrLockedRegion)
		assert.True(t, strings.HasPrefix(stderr, "rejected "))
	})

	t.Run("Replace", func(t *testing.T) {
		stdout, _, err := execute(t, "locks", "--check", "12:1-12:1", "--replace", "<!-- x -->", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "<!-- x -->        <text padding=\"10px 25px\">")
	})

	t.Run("ReplaceRejected", func(t *testing.T) {
		stdout, _, err := execute(t, "locks", "--check", "16:1-16:1", "--replace", "x", path)
		assert.ErrorIs(t, err, lock.ErrLockedRegion)
		assert.Empty(t, stdout)
	})

	t.Run("InvalidRange", func(t *testing.T) {
		_, _, err := execute(t, "locks", "--check", "12:1", path)
		assert.Error(t, err)

		_, _, err = execute(t, "locks", "--check", "0:1-1:1", path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := writeFile(t, "valid.mail", helloMarkup)
	invalid := writeFile(t, "invalid.mail", `<mail><body><text>Loose</text></body></mail>`)

	stdout, _, err := execute(t, "validate", valid)
	require.NoError(t, err)
	assert.Equal(t, "ok "+valid+"\n", stdout)

	stdout, _, err = execute(t, "validate", valid, invalid)
	assert.ErrorIs(t, err, errInvalidDocuments)
	assert.Contains(t, stdout, "ok "+valid+"\n")
	assert.Contains(t, stdout, "invalid "+invalid+"\n")
}

func TestSchema(t *testing.T) {
	stdout, _, err := execute(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, stdout, "type: button")
	assert.Contains(t, stdout, "type: section")

	stdout, _, err = execute(t, "schema", "button")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "type: button\n"))

	stdout, _, err = execute(t, "schema", "navbar*")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "- type: navbar\n"))
	assert.Contains(t, stdout, "- type: navbar-link\n")
	assert.NotContains(t, stdout, "type: button")

	_, _, err = execute(t, "schema", "marquee")
	assert.ErrorIs(t, err, schema.ErrUnknownType)

	_, _, err = execute(t, "schema", "marquee*")
	assert.ErrorIs(t, err, schema.ErrUnknownType)
}

func TestReadInput_Binary(t *testing.T) {
	path := writeFile(t, "image.mail", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

	_, _, err := execute(t, "fmt", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a text file (detected image/png)")
}

func TestQuery(t *testing.T) {
	path := templateFile(t, "locked-footer")

	stdout, _, err := execute(t, "query", path, `type == "text"`)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Edit this announcement.")
	assert.Contains(t, lines[0], "-")
	assert.Contains(t, lines[1], "inherited")

	_, _, err = execute(t, "query", path, `type ==`)
	assert.Error(t, err)
}

func TestCompile(t *testing.T) {
	path := writeFile(t, "hello.mail", helloMarkup)

	t.Run("Stdout", func(t *testing.T) {
		stdout, _, err := execute(t, "compile", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "<title>Hello</title>")
		assert.Contains(t, stdout, "Hello world")
	})

	t.Run("Text", func(t *testing.T) {
		stdout, _, err := execute(t, "compile", "--text", path)
		require.NoError(t, err)
		assert.Equal(t, "Hello world\n", stdout)
	})

	t.Run("OutputDir", func(t *testing.T) {
		other := templateFile(t, "newsletter")
		dir := t.TempDir()

		stdout, _, err := execute(t, "compile", "-o", dir, path, other)
		require.NoError(t, err)
		assert.Empty(t, stdout)

		for _, name := range []string{"hello.html", "newsletter.html"} {
			data, err := os.ReadFile(filepath.Join(dir, name))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(data), "<!doctype html>"), name)
		}
	})

	t.Run("NestedConfig", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		t.Cleanup(func() { _ = os.Chdir(wd) })

		const rawHTML = `<mail><body><section><column><raw-html><script>alert(1)</script><b>bold</b></raw-html></column></section></body></mail>`

		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "untrusted"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "trusted.mail"), []byte(rawHTML), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "untrusted", "a.mail"), []byte(rawHTML), 0o644))
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, "untrusted", "mailtree.yaml"),
			[]byte("version: v1alpha1\ncompiler:\n  sanitize_html_content: true\n"),
			0o644,
		))

		stdout, _, err := execute(t, "--chdir", dir, "compile", "untrusted/a.mail")
		require.NoError(t, err)
		assert.Contains(t, stdout, "<b>bold</b>")
		assert.NotContains(t, stdout, "<script>")

		stdout, _, err = execute(t, "--chdir", dir, "compile", "trusted.mail")
		require.NoError(t, err)
		assert.Contains(t, stdout, "<script>alert(1)</script>")
	})

	t.Run("SoftErrors", func(t *testing.T) {
		invalid := writeFile(t, "invalid.mail", `<mail><body><text>Loose</text></body></mail>`)

		stdout, stderr, err := execute(t, "compile", invalid)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Loose")
		assert.Contains(t, stderr, invalid+": validation: ")
	})
}

func TestNew(t *testing.T) {
	stdout, _, err := execute(t, "new", "--list")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(templates.Names(), "\n")+"\n", stdout)

	stdout, _, err = execute(t, "new")
	require.NoError(t, err)
	assert.Contains(t, stdout, `<breakpoint width="480px" />`)
	assert.Contains(t, stdout, "<section")

	md := writeFile(t, "hello.md", "# Greetings\n\nSome text.\n")
	stdout, _, err = execute(t, "new", "--markdown", md)
	require.NoError(t, err)
	assert.Contains(t, stdout, "<title>Greetings</title>")
	assert.Contains(t, stdout, "Some text.")

	_, _, err = execute(t, "new", "-t", "missing")
	assert.ErrorIs(t, err, templates.ErrNotFound)
}

func TestApply(t *testing.T) {
	path := writeFile(t, "hello.mail", helloMarkup)
	edits := writeFile(t, "edits.yaml", `
- op: content
  target: type == "text"
  content: Goodbye
- op: lock
  target: type == "section"
  locked: true
`)

	stdout, stderr, err := execute(t, "apply", "--report", path, edits)
	require.NoError(t, err)
	assert.Contains(t, stdout, "<text>Goodbye</text>")
	assert.Contains(t, stdout, `<section data-locked="true">`)
	assert.Equal(t, "step 1 content: changed\nstep 2 lock: changed\n", stderr)
}
