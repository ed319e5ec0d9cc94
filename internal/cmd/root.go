package cmd

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stateful/mailtree/internal/config"
	"github.com/stateful/mailtree/internal/log"
)

var (
	fChdir   string
	fStrict  bool
	fVerbose bool
	fLogPath string

	cfg    = config.Default()
	loader *config.Loader
)

func Root() *cobra.Command {
	cmd := cobra.Command{
		Use:           "mailtree",
		Short:         "Edit, format and compile email documents",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if fChdir != "" && fChdir != "." {
				if err := os.Chdir(fChdir); err != nil {
					return errors.Wrapf(err, "failed to change directory to %q", fChdir)
				}
			}

			loader = config.NewLoader(os.DirFS("."), config.WithLogger(log.Get()))
			loaded, err := loader.Load("")
			if err != nil {
				return errors.WithMessage(err, "failed to load configuration")
			}
			cfg = loaded
			applyFlags(cfg)

			if cfg.Log.Enabled {
				path := cfg.Log.Path
				if fVerbose && fLogPath == "" {
					path = ""
				}
				if err := log.Set(cfg.Log.Verbose, path); err != nil {
					return errors.Wrap(err, "failed to set up logger")
				}
			}

			log.Get().Debug("final configuration", zap.Any("config", cfg))

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			log.Flush()
		},
	}

	pflags := cmd.PersistentFlags()

	pflags.StringVar(&fChdir, "chdir", ".", "Switch to a different working directory before executing the command.")
	pflags.BoolVar(&fStrict, "strict", false, "Reject edits breaking the allowed-children rules.")
	pflags.BoolVarP(&fVerbose, "verbose", "v", false, "Log debug messages to stderr.")
	pflags.StringVar(&fLogPath, "log-path", "", "Write logs to the given file.")

	cmd.AddCommand(fmtCmd())
	cmd.AddCommand(compileCmd())
	cmd.AddCommand(locksCmd())
	cmd.AddCommand(schemaCmd())
	cmd.AddCommand(newCmd())
	cmd.AddCommand(queryCmd())
	cmd.AddCommand(validateCmd())
	cmd.AddCommand(applyCmd())

	return &cmd
}

// applyFlags overrides configuration values with the global flags.
func applyFlags(c *config.Config) {
	if fStrict {
		c.Editor.StrictContainment = true
	}
	if fVerbose {
		c.Log.Enabled = true
		c.Log.Verbose = true
	}
	if fLogPath != "" {
		c.Log.Enabled = true
		c.Log.Path = fLogPath
	}
}

// documentConfig returns the configuration applying to a document given on
// the command line. Nested mailtree.yaml files are only looked up for paths
// relative to the working directory.
func documentConfig(fileName string) (*config.Config, error) {
	if loader == nil || fileName == "-" || filepath.IsAbs(fileName) {
		return cfg, nil
	}
	c, err := loader.Load(fileName)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to load configuration")
	}
	applyFlags(c)
	return c, nil
}
