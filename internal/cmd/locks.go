package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/stateful/mailtree/internal/log"
	"github.com/stateful/mailtree/pkg/document/lock"
)

func locksCmd() *cobra.Command {
	var (
		check       string
		replacement string
	)

	cmd := cobra.Command{
		Use:   "locks <file>",
		Short: "List locked regions of a document.",
		Long: `Locks prints the line ranges of the locked elements of a document.
With --check, it tells whether an edit of the given range, written as
LINE:COL-LINE:COL with 1-based positions, would touch a locked region.
Adding --replace performs the edit and prints the new text when allowed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			text := string(data)
			out := cmd.OutOrStdout()

			tracker := lock.NewTracker(
				text,
				lock.WithDelay(cfg.Editor.DecorationDelay),
				lock.WithLogger(log.Get()),
			)
			defer tracker.Close()

			if check != "" {
				edit, err := parseRange(check)
				if err != nil {
					return err
				}

				if cmd.Flags().Changed("replace") {
					err = tracker.Edit(edit, replacement)
				} else {
					err = tracker.Check(edit)
				}
				if err != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("rejected"), err)
					return err
				}

				if cmd.Flags().Changed("replace") {
					_, err := fmt.Fprint(out, tracker.Text())
					return errors.WithStack(err)
				}
				_, _ = fmt.Fprintf(out, "%s %s\n", color.GreenString("allowed"), check)
				return nil
			}

			tracker.Flush()
			regions := tracker.Decorations()
			if len(regions) == 0 {
				_, _ = fmt.Fprintln(out, "no locked regions")
				return nil
			}
			for _, r := range regions {
				_, _ = fmt.Fprintf(
					out,
					"%s lines %d-%d\n",
					color.YellowString("<%s>", r.Tag),
					r.StartLine,
					r.EndLine,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&check, "check", "", "Check whether an edit of the range LINE:COL-LINE:COL is allowed.")
	cmd.Flags().StringVar(&replacement, "replace", "", "Replace the checked range with the text, unless it is locked.")

	return &cmd
}

func parseRange(s string) (lock.Range, error) {
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return lock.Range{}, errors.Errorf("invalid range %q: expected LINE:COL-LINE:COL", s)
	}
	startLine, startCol, err := parsePosition(start)
	if err != nil {
		return lock.Range{}, errors.WithMessagef(err, "invalid range %q", s)
	}
	endLine, endCol, err := parsePosition(end)
	if err != nil {
		return lock.Range{}, errors.WithMessagef(err, "invalid range %q", s)
	}
	return lock.Range{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}, nil
}

func parsePosition(s string) (line, col int, _ error) {
	l, c, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, errors.Errorf("invalid position %q", s)
	}
	line, err := strconv.Atoi(l)
	if err != nil || line < 1 {
		return 0, 0, errors.Errorf("invalid line in %q", s)
	}
	col, err = strconv.Atoi(c)
	if err != nil || col < 1 {
		return 0, 0, errors.Errorf("invalid column in %q", s)
	}
	return line, col, nil
}
