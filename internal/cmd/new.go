package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/stateful/mailtree/pkg/document"
	"github.com/stateful/mailtree/pkg/document/markup"
	"github.com/stateful/mailtree/pkg/templates"
)

func newCmd() *cobra.Command {
	var (
		templateName string
		markdownFile string
		outputFile   string
		list         bool
	)

	cmd := cobra.Command{
		Use:   "new",
		Short: "Create a document from a template or a markdown file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(templates.Names(), "\n"))
				return errors.WithStack(err)
			}

			var (
				doc *document.Document
				err error
			)
			switch {
			case markdownFile != "":
				var data []byte
				data, err = readInput(cmd, markdownFile)
				if err != nil {
					return err
				}
				doc, err = templates.FromMarkdown(data, markup.Options{})
			default:
				doc, err = templates.Load(templateName, markup.Options{})
			}
			if err != nil {
				return err
			}

			if doc.Head.Breakpoint == "" {
				doc.Head.Breakpoint = cfg.Head.Breakpoint
			}

			return writeOutput(cmd, outputFile, []byte(markup.Generate(doc, markup.Options{})))
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "blank", "Name of the template to start from.")
	cmd.Flags().StringVar(&markdownFile, "markdown", "", "Import a markdown file instead of using a template.")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the document to the file instead of stdout.")
	cmd.Flags().BoolVar(&list, "list", false, "List the available templates.")

	cmd.MarkFlagsMutuallyExclusive("template", "markdown")

	return &cmd
}
