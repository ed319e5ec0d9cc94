package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stateful/mailtree/internal/log"
	"github.com/stateful/mailtree/internal/script"
)

func applyCmd() *cobra.Command {
	var (
		outputFile string
		report     bool
	)

	cmd := cobra.Command{
		Use:   "apply <file> <script>",
		Short: "Apply a YAML script of edits to a document.",
		Long: `Apply runs the editing steps of the script against the document and
prints the resulting markup. Steps select nodes with the same conditions
as the query command; the first match is used.`,
		Example: `  mailtree apply welcome.mail edits.yaml -o welcome.mail`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}

			data, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			steps, err := script.Parse(data)
			if err != nil {
				return err
			}

			results, err := script.NewRunner(session, log.Get()).Run(steps)
			if err != nil {
				return err
			}

			if report {
				for _, r := range results {
					status := "changed"
					if !r.Changed {
						status = "unchanged"
					}
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "step %d %s: %s\n", r.Step, r.Op, status)
				}
			}

			return writeOutput(cmd, outputFile, []byte(session.Markup()))
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the result to the file instead of stdout.")
	cmd.Flags().BoolVar(&report, "report", false, "Print the outcome of every step to stderr.")

	return &cmd
}
