package config

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultFileName = "mailtree.yaml"

// Loader resolves the configuration of mail documents stored in a file
// system. A mailtree.yaml at the root applies to every document and each
// directory on the way to a document can override it with its own file.
type Loader struct {
	fsys     fs.FS
	fileName string
	logger   *zap.Logger
}

type LoaderOption func(*Loader)

func WithFileName(name string) LoaderOption {
	return func(l *Loader) {
		l.fileName = name
	}
}

func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:     fsys,
		fileName: DefaultFileName,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.fileName == "" {
		panic("config file name is not set")
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	return l
}

// Load returns the configuration of the document or directory at name:
// the defaults, overridden by every configuration file from the root down
// to the directory of name. An empty name stands for the root.
func (l *Loader) Load(name string) (*Config, error) {
	files, err := l.Files(name)
	if err != nil {
		return nil, err
	}

	chain := make([][]byte, 0, len(files))
	for _, file := range files {
		data, err := fs.ReadFile(l.fsys, file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %q", file)
		}
		chain = append(chain, data)
	}

	cfg, err := ParseYAMLChain(chain)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid configuration for %q", name)
	}

	l.logger.Debug("loaded configuration", zap.String("name", name), zap.Strings("files", files))

	return cfg, nil
}

// Files lists the configuration files applying to name, outermost first.
func (l *Loader) Files(name string) ([]string, error) {
	dir, err := l.dir(name)
	if err != nil {
		return nil, err
	}

	var result []string

	candidates := []string{l.fileName}
	if dir != "." {
		current := ""
		for _, fragment := range strings.Split(dir, "/") {
			current = path.Join(current, fragment)
			candidates = append(candidates, path.Join(current, l.fileName))
		}
	}

	for _, candidate := range candidates {
		_, err := fs.Stat(l.fsys, candidate)
		switch {
		case err == nil:
			result = append(result, candidate)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, errors.Wrapf(err, "failed to check %q", candidate)
		}
	}

	return result, nil
}

// dir returns the slash-separated directory of name within the file system.
func (l *Loader) dir(name string) (string, error) {
	name = filepath.ToSlash(name)
	if name == "" {
		return ".", nil
	}
	name = path.Clean(name)
	if !fs.ValidPath(name) {
		return "", errors.Errorf("path %q is outside of the configuration root", name)
	}

	info, err := fs.Stat(l.fsys, name)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get the path info for %q", name)
	}
	if info.IsDir() {
		return name, nil
	}
	return path.Dir(name), nil
}
