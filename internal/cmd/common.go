package cmd

import (
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/stateful/mailtree/internal/config"
	"github.com/stateful/mailtree/internal/log"
	"github.com/stateful/mailtree/pkg/document/editor"
)

// readInput reads a file, or stdin for "-". Binary content is rejected.
func readInput(cmd *cobra.Command, fileName string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if fileName == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "failed to read from stdin")
		}
	} else {
		data, err = os.ReadFile(fileName)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read from file %q", fileName)
		}
	}

	if detected := mimetype.Detect(data); len(data) > 0 && !isText(detected) {
		return nil, errors.Errorf("%q is not a text file (detected %s)", fileName, detected)
	}
	return data, nil
}

func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func sessionOptions(c *config.Config) []editor.Option {
	opts := []editor.Option{
		editor.WithLogger(log.Get()),
		editor.WithHistoryLimit(c.History.Limit),
	}
	if c.Editor.StrictContainment {
		opts = append(opts, editor.WithStrictContainment())
	}
	return opts
}

// openSession loads a markup file into a new editor session.
func openSession(cmd *cobra.Command, fileName string) (*editor.Session, error) {
	data, err := readInput(cmd, fileName)
	if err != nil {
		return nil, err
	}

	c, err := documentConfig(fileName)
	if err != nil {
		return nil, err
	}

	session := editor.New(nil, sessionOptions(c)...)
	if err := session.LoadMarkup(string(data)); err != nil {
		return nil, errors.WithMessagef(err, "%s", fileName)
	}
	return session, nil
}

// writeOutput writes data to fileName, or to stdout when fileName is empty
// or "-".
func writeOutput(cmd *cobra.Command, fileName string, data []byte) error {
	if fileName == "" || fileName == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return errors.Wrap(err, "failed to write result")
	}
	return errors.Wrapf(os.WriteFile(fileName, data, 0o644), "failed to write %q", fileName)
}
