package cmd

import (
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stateful/mailtree/pkg/document/schema"
)

func schemaCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "schema [type ...]",
		Short: "Print the node type catalog as YAML.",
		Long: `Schema prints the definitions of the node types. Arguments are type
names or glob patterns. A single type name prints its definition alone.`,
		Example: `  mailtree schema
  mailtree schema button
  mailtree schema 'navbar*' 'social*'`,
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return schema.Default().Types(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := schema.Default()

			var value any = registry.Definitions()
			switch {
			case len(args) == 1 && glob.QuoteMeta(args[0]) == args[0]:
				def, ok := registry.Lookup(args[0])
				if !ok {
					return errors.Wrapf(schema.ErrUnknownType, "%q", args[0])
				}
				value = def
			case len(args) > 0:
				globs, err := parseGlobs(args)
				if err != nil {
					return err
				}
				defs := filterDefinitions(registry.Definitions(), globs)
				if len(defs) == 0 {
					return errors.Wrapf(schema.ErrUnknownType, "no type matches %q", args)
				}
				value = defs
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(value); err != nil {
				return errors.Wrap(err, "failed to encode schema")
			}
			return errors.WithStack(enc.Close())
		},
	}

	return &cmd
}

func parseGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, item := range patterns {
		g, err := glob.Compile(item)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", item)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func filterDefinitions(defs []schema.Definition, globs []glob.Glob) []schema.Definition {
	var result []schema.Definition
	for _, def := range defs {
		for _, g := range globs {
			if g.Match(def.Type) {
				result = append(result, def)
				break
			}
		}
	}
	return result
}
