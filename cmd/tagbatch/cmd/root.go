package cmd

import (
	"github.com/spf13/cobra"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	configFile string
	logLevel   string
	logFormat  string
	priority   bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "tagbatch",
		Short: "Evaluate tag expressions and expand batch definitions",
		Long: `tagbatch parses and evaluates conditions over properties, items and item
metadata, and expands batch definitions into rows grouped by metadata.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "settings file path")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "log format (json, text)")
	rootCmd.PersistentFlags().BoolVar(&flags.priority, "priority", false, "let 'and' bind tighter than 'or' instead of requiring parentheses")

	rootCmd.AddCommand(newParseCmd(flags))
	rootCmd.AddCommand(newEvalCmd(flags))
	rootCmd.AddCommand(newExpandCmd(flags))
	rootCmd.AddCommand(newRunCmd(flags))
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
