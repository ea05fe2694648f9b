package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/expr"
)

func newEvalCmd(root *rootFlags) *cobra.Command {
	var (
		ef  envFlags
		dir string
	)

	evalCmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression against an environment",
		Long: `Evaluate an expression against properties and items and print the result.
Items are visible through @(Item) references; exists() checks paths below --dir.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, root.configFile)
			if err != nil {
				return err
			}

			e, err := ef.build(nil, settings.ImportEnv)
			if err != nil {
				return err
			}

			node, err := expr.ParseCondition(args[0], parserArgs(settings))
			if err != nil {
				return err
			}

			v, err := expr.NewEvaluator(expr.WithFS(os.DirFS(dir))).Evaluate(node, e)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	ef.register(evalCmd)
	evalCmd.Flags().StringVar(&dir, "dir", ".", "root directory for exists()")
	return evalCmd
}
