package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch/template"
)

func newExpandCmd(root *rootFlags) *cobra.Command {
	var (
		ef        envFlags
		separator string
		strict    bool
	)

	expandCmd := &cobra.Command{
		Use:   "expand <template>",
		Short: "Render a template against an environment",
		Long: `Render a template of literal text and $(Property), @(Item) and %(Key)
references against an environment and print the result. Items without an
explicit separator are joined with --separator.`,
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

			parts, err := template.Decompose(args[0])
			if err != nil {
				return err
			}

			missing := template.MissingEmpty
			if strict {
				missing = template.MissingError
			}
			r := template.NewRenderer(
				template.WithMissingAction(missing),
				template.WithItemSeparator(separator),
			)

			s, err := r.Render(parts, e)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}

	ef.register(expandCmd)
	expandCmd.Flags().StringVar(&separator, "separator", ";", "separator for items without an explicit one")
	expandCmd.Flags().BoolVar(&strict, "strict", false, "fail on unresolved references")
	return expandCmd
}
