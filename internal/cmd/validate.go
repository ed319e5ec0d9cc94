package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/stateful/mailtree/pkg/document"
)

var errInvalidDocuments = errors.New("invalid documents")

func validateCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "validate [file ...]",
		Short: "Check documents against the containment rules.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := 0
			out := cmd.OutOrStdout()

			for _, fileName := range args {
				session, err := openSession(cmd, fileName)
				if err != nil {
					return err
				}

				errs := multierr.Errors(document.Validate(session.Root(), session.Registry()))
				if len(errs) == 0 {
					_, _ = fmt.Fprintf(out, "%s %s\n", color.GreenString("ok"), fileName)
					continue
				}

				invalid++
				_, _ = fmt.Fprintf(out, "%s %s\n", color.RedString("invalid"), fileName)
				for _, err := range errs {
					_, _ = fmt.Fprintf(out, "  %s\n", err)
				}
			}

			if invalid > 0 {
				return errors.Wrapf(errInvalidDocuments, "%d of %d", invalid, len(args))
			}
			return nil
		},
	}

	return &cmd
}
