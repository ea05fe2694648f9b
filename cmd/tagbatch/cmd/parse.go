package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/expr"
)

func newParseCmd(root *rootFlags) *cobra.Command {
	var tokens bool

	parseCmd := &cobra.Command{
		Use:   "parse <expression>",
		Short: "Parse a condition and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, root.configFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if tokens {
				toks, err := expr.Tokenize(args[0])
				if err != nil {
					return err
				}
				for _, tok := range toks {
					fmt.Fprintln(out, tok)
				}
				return nil
			}

			node, err := expr.ParseCondition(args[0], parserArgs(settings))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, node)
			return nil
		},
	}

	parseCmd.Flags().BoolVar(&tokens, "tokens", false, "print the tokens instead of the parse tree")
	return parseCmd
}

func parserArgs(s Settings) expr.ParserArgs {
	args := expr.DefaultArgs()
	args.ApplyAndOrPriority = s.Priority
	return args
}
