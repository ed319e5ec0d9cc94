package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stateful/mailtree/pkg/document/query"
)

func queryCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "query <file> <condition>",
		Short: "Select nodes with an expression.",
		Long: `Query prints the nodes for which the condition is true.

Available variables: id, type, content, props, locked, self_locked, depth,
children and parent. The syntax is documented at
https://expr-lang.org/docs/language-definition.`,
		Example: `  mailtree query welcome.mail 'type == "button" && !(props.href startsWith "https://")'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := query.Compile(args[1])
			if err != nil {
				return err
			}

			session, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}

			matches, err := query.Select(session.Root(), f)
			if err != nil {
				return err
			}

			isTTY, width := terminal(cmd.OutOrStdout())
			table := tableprinter.New(cmd.OutOrStdout(), isTTY, width)
			table.AddHeader([]string{"TYPE", "LOCK", "ID", "CONTENT"})
			for _, m := range matches {
				table.AddField(strings.Repeat("  ", m.Env.Depth) + m.Env.Type)
				table.AddField(lockLabel(m.Env))
				table.AddField(m.Env.ID)
				table.AddField(summary(m.Env.Content))
				table.EndRow()
			}
			return errors.WithStack(table.Render())
		},
	}

	return &cmd
}

// terminal reports whether w is a terminal and its width.
func terminal(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return false, 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		width = 80
	}
	return true, width
}

func lockLabel(env query.Env) string {
	switch {
	case env.SelfLocked:
		return "locked"
	case env.Locked:
		return "inherited"
	default:
		return "-"
	}
}

func summary(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	const maxLen = 40
	if r := []rune(content); len(r) > maxLen {
		return string(r[:maxLen-1]) + "…"
	}
	return content
}
