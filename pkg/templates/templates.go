// Package templates provides starter documents.
package templates

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/markup"
)

const ext = ".mail"

//go:embed data/*.mail
var files embed.FS

var ErrNotFound = errors.New("template not found")

// Names returns the available template names, sorted.
func Names() []string {
	entries, err := fs.ReadDir(files, "data")
	if err != nil {
		panic(err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ext) {
			names = append(names, strings.TrimSuffix(entry.Name(), ext))
		}
	}
	sort.Strings(names)
	return names
}

// Source returns the markup of the named template.
func Source(name string) (string, error) {
	data, err := files.ReadFile(path.Join("data", name+ext))
	if err != nil {
		return "", errors.Wrapf(ErrNotFound, "%q", name)
	}
	return string(data), nil
}

// Load parses the named template. Every call yields fresh node ids.
func Load(name string, opts markup.Options) (*document.Document, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	doc, err := markup.Parse(src, opts)
	return doc, errors.WithMessagef(err, "failed to parse template %q", name)
}
