package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stateful/mailtree/internal/config"
	"github.com/stateful/mailtree/internal/log"
	"github.com/stateful/mailtree/internal/version"
	"github.com/stateful/mailtree/pkg/compiler"
	"github.com/stateful/mailtree/pkg/document/editor"
	"github.com/stateful/mailtree/pkg/export"
)

const maxParallelCompilations = 4

func compileCmd() *cobra.Command {
	var (
		minify    bool
		sanitize  bool
		plainText bool
		copyTo    bool
		outputDir string
	)

	cmd := cobra.Command{
		Use:   "compile [file ...]",
		Short: "Compile mail documents to HTML.",
		Long: `Compile renders each document as HTML. Files are compiled concurrently,
each in its own session and with the configuration of its directory.
Problems found in a document are reported on stderr without stopping the
compilation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := compileFlags{minify: minify, sanitize: sanitize, plainText: plainText}

			results := make([]*compiler.Result, len(args))
			sessions := editor.NewManager(
				editor.WithMaxSessions(cfg.Editor.MaxSessions),
				editor.WithManagerLogger(log.Get()),
			)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxParallelCompilations)
			for i, fileName := range args {
				g.Go(func() error {
					data, err := readInput(cmd, fileName)
					if err != nil {
						return err
					}

					docCfg, err := documentConfig(fileName)
					if err != nil {
						return err
					}

					c := newPreview(docCfg, flags)

					return sessions.OpenDo(nil, func(session *editor.Session) error {
						if err := session.LoadMarkup(string(data)); err != nil {
							return errors.WithMessagef(err, "%s", fileName)
						}
						result, err := c.CompileDocument(ctx, session.Document())
						if err != nil {
							return errors.WithMessagef(err, "failed to compile %q", fileName)
						}
						results[i] = result
						return nil
					}, sessionOptions(docCfg)...)
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			target, err := exportTarget(cmd, copyTo, outputDir)
			if err != nil {
				return err
			}

			for i, fileName := range args {
				result := results[i]
				for _, e := range result.Errors {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", fileName, e.Type, e.Message)
				}

				data := result.HTML
				if plainText {
					data = result.Text
				}
				if !strings.HasSuffix(data, "\n") {
					data += "\n"
				}

				if outputDir != "" {
					if err := exportFile(cmd.Context(), target, outputDir, fileName, plainText, []byte(data)); err != nil {
						return err
					}
					continue
				}
				if err := target.Export(cmd.Context(), fileName, []byte(data)); err != nil {
					return err
				}
			}

			log.Get().Info("compiled documents", zap.Int("count", len(args)))

			return nil
		},
	}

	cmd.Flags().BoolVar(&minify, "minify", false, "Minify the resulting HTML.")
	cmd.Flags().BoolVar(&sanitize, "sanitize", false, "Sanitize the content of table and raw-html nodes.")
	cmd.Flags().BoolVar(&plainText, "text", false, "Output the plain text alternative instead of HTML.")
	cmd.Flags().BoolVar(&copyTo, "copy", false, "Copy the result to the clipboard.")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Write results into the directory, one file per document.")

	return &cmd
}

type compileFlags struct {
	minify    bool
	sanitize  bool
	plainText bool
}

// newPreview builds the compiler for a document from its configuration,
// with the command flags turning options on.
func newPreview(c *config.Config, flags compileFlags) *compiler.Preview {
	opts := []compiler.Option{
		compiler.WithLogger(log.Get()),
		compiler.WithGenerator(version.Generator()),
		compiler.WithPlainText(flags.plainText || c.Compiler.PlainText),
	}
	if flags.minify || c.Compiler.Minify {
		opts = append(opts, compiler.WithMinify())
	}
	if flags.sanitize || c.Compiler.SanitizeHTMLContent {
		opts = append(opts, compiler.WithSanitizer(bluemonday.UGCPolicy()))
	}
	return compiler.NewPreview(opts...)
}

// exportTarget returns the target for stdout-bound results, extended with
// the clipboard when requested.
func exportTarget(cmd *cobra.Command, copyTo bool, outputDir string) (export.Target, error) {
	var targets export.Multi
	if outputDir == "" {
		targets = append(targets, export.NewWriter(cmd.OutOrStdout()))
	}
	if copyTo {
		clipboard := export.NewClipboard()
		if !clipboard.Supported() {
			return nil, errors.New("clipboard is not supported on this system")
		}
		targets = append(targets, clipboard)
	}
	return targets, nil
}

func exportFile(ctx context.Context, extra export.Target, outputDir, fileName string, plainText bool, data []byte) error {
	ext := ".html"
	if plainText {
		ext = ".txt"
	}
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	if fileName == "-" {
		base = "stdin"
	}
	name := filepath.Join(outputDir, base+ext)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.WithStack(err)
	}
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", name)
	}
	defer func() { _ = f.Close() }()

	target := export.Multi{export.NewWriter(f), extra}
	return target.Export(ctx, name, data)
}
