package config

import (
	_ "embed"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is a uniform configuration structure for mailtree.
// It should unify all past, current, and future config versions.
type Config struct {
	Version  string         `yaml:"version" validate:"required"`
	History  ConfigHistory  `yaml:"history"`
	Editor   ConfigEditor   `yaml:"editor"`
	Compiler ConfigCompiler `yaml:"compiler"`
	Head     ConfigHead     `yaml:"head"`
	Log      ConfigLog      `yaml:"log"`
}

type ConfigHistory struct {
	Limit int `yaml:"limit" validate:"gte=1,lte=1000"`
}

type ConfigEditor struct {
	StrictContainment bool          `yaml:"strict_containment"`
	DecorationDelay   time.Duration `yaml:"decoration_delay" validate:"gte=0"`
	MaxSessions       int           `yaml:"max_sessions" validate:"gte=1"`
}

type ConfigCompiler struct {
	Minify              bool `yaml:"minify"`
	SanitizeHTMLContent bool `yaml:"sanitize_html_content"`
	PlainText           bool `yaml:"plain_text"`
}

type ConfigHead struct {
	Breakpoint string `yaml:"breakpoint" validate:"omitempty,endswith=px"`
}

type ConfigLog struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
	Verbose bool   `yaml:"verbose"`
}

//go:embed defaults.yaml
var defaultsYAML []byte

var defaults Config

func init() {
	cfg, err := parse(defaultsYAML, Config{})
	if err != nil {
		panic(err)
	}
	defaults = *cfg
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	cfg := defaults
	return &cfg
}

// ParseYAML parses a single configuration file on top of the defaults.
func ParseYAML(data []byte) (*Config, error) {
	return parse(data, defaults)
}

// ParseYAMLChain applies the configuration files in order, so that later
// files, typically nested deeper in the project, override earlier ones.
func ParseYAMLChain(chain [][]byte) (*Config, error) {
	cfg := Default()
	for _, data := range chain {
		next, err := parse(data, *cfg)
		if err != nil {
			return nil, err
		}
		cfg = next
	}
	return cfg, nil
}

func parse(data []byte, base Config) (*Config, error) {
	version, err := parseVersionFromYAML(data)
	if err != nil {
		return nil, err
	}
	switch version {
	case "v1alpha1":
		cfg, err := parseYAMLv1alpha1(data, base)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse v1alpha1 config")
		}

		if err := validateConfig(cfg); err != nil {
			return nil, errors.Wrap(err, "failed to validate v1alpha1 config")
		}

		return cfg, nil
	default:
		return nil, errors.Errorf("unknown version: %q", version)
	}
}

type versionOnly struct {
	Version string `yaml:"version"`
}

func parseVersionFromYAML(data []byte) (string, error) {
	var result versionOnly

	if err := yaml.Unmarshal(data, &result); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal version")
	}

	return result.Version, nil
}

// parseYAMLv1alpha1 decodes data over base. Keys absent from data keep the
// value from base.
func parseYAMLv1alpha1(data []byte, base Config) (*Config, error) {
	cfg := base

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal yaml")
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateConfig(cfg *Config) error {
	return errors.WithStack(validate.Struct(cfg))
}
