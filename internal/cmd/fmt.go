package cmd

import (
	"github.com/spf13/cobra"
)

func fmtCmd() *cobra.Command {
	var write bool

	cmd := cobra.Command{
		Use:   "fmt [file ...]",
		Short: "Format mail documents into canonical markup.",
		Long: `Format parses each document and writes it back in canonical form:
two-space indentation, props in their original order and the lock marker
after the props. Use "-" to read from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, fileName := range args {
				session, err := openSession(cmd, fileName)
				if err != nil {
					return err
				}

				target := ""
				if write && fileName != "-" {
					target = fileName
				}
				if err := writeOutput(cmd, target, []byte(session.Markup())); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the source file instead of stdout.")

	return &cmd
}
