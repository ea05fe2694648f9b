package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/tagbatch/pkg/tagbatch"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/config"
	"github.com/randalmurphal/tagbatch/pkg/tagbatch/template"
)

func newRunCmd(root *rootFlags) *cobra.Command {
	var (
		ef      envFlags
		dir     string
		output  string
		strict  bool
		runID   string
		metrics bool
	)

	runCmd := &cobra.Command{
		Use:   "run <batch-file>",
		Short: "Expand a batch definition into rows",
		Long: `Expand the batch definition in <batch-file> against an environment and print
one record per row. Without --env the environment is read from the batch
file itself (its properties and items sections). A batch file with
"filter: true" always filters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, root.configFile)
			if err != nil {
				return err
			}
			if output != "text" && output != "json" {
				return fmt.Errorf("--output must be text or json, got %q", output)
			}

			batchCfg, err := config.FromFile(args[0])
			if err != nil {
				return err
			}
			def, err := tagbatch.DefinitionFromConfig(batchCfg)
			if err != nil {
				return err
			}
			e, err := ef.build(&batchCfg, settings.ImportEnv)
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), settings)

			var compileOpts []tagbatch.CompileOption
			if settings.Priority {
				compileOpts = append(compileOpts, tagbatch.WithAndOrPriority())
			}
			engine := tagbatch.NewEngine(
				tagbatch.WithCompileOptions(compileOpts...),
				tagbatch.WithEngineLogger(logger),
				tagbatch.WithEngineMetrics(metrics),
			)

			runOpts := []tagbatch.RunOption{tagbatch.WithFS(os.DirFS(dir))}
			if settings.Filter || batchCfg.Bool("filter", false) {
				runOpts = append(runOpts, tagbatch.WithConditionFilter())
			}
			if strict {
				runOpts = append(runOpts, tagbatch.WithMissingReferences(template.MissingError))
			}
			if runID != "" {
				runOpts = append(runOpts, tagbatch.WithRunID(runID))
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if _, err := engine.Compile(ctx, def); err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for inst, err := range engine.Run(ctx, def, e, runOpts...) {
				if err != nil {
					if ctx.Err() != nil {
						return err
					}
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					continue
				}
				if err := writeRow(out, output, inst); err != nil {
					return err
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d row(s) failed", failed)
			}
			return nil
		},
	}

	ef.register(runCmd)
	runCmd.Flags().StringVar(&dir, "dir", ".", "root directory for exists()")
	runCmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	runCmd.Flags().Bool("filter", false, "only print rows whose conditions are all true")
	runCmd.Flags().BoolVar(&strict, "strict", false, "fail rows with unresolved references")
	runCmd.Flags().StringVar(&runID, "run-id", "", "run ID for logs (default: random)")
	runCmd.Flags().BoolVar(&metrics, "metrics", false, "record OpenTelemetry metrics")
	return runCmd
}

// rowRecord is the JSON form of one row.
type rowRecord struct {
	Index   int            `json:"index"`
	Outputs map[string]any `json:"outputs"`
}

func writeRow(w io.Writer, format string, inst *tagbatch.Instance) error {
	if format == "json" {
		rec := rowRecord{Index: inst.Index(), Outputs: make(map[string]any)}
		for _, name := range inst.Names() {
			v, _ := inst.Get(name)
			rec.Outputs[name] = jsonValue(v)
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode row %d: %w", inst.Index(), err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	if _, err := fmt.Fprintf(w, "row %d\n", inst.Index()); err != nil {
		return err
	}
	for _, name := range inst.Names() {
		v, _ := inst.Get(name)
		if _, err := fmt.Fprintf(w, "  %s = %s\n", name, v); err != nil {
			return err
		}
	}
	return nil
}

func jsonValue(v tagbatch.Value) any {
	switch v.Type() {
	case tagbatch.Condition:
		return v.AsBool()
	case tagbatch.StringList:
		return nonNil(v.AsStrings())
	case tagbatch.ItemList:
		specs := make([]string, 0, v.Len())
		for _, it := range v.AsItems() {
			specs = append(specs, it.ItemSpec())
		}
		return specs
	}
	return v.String()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
