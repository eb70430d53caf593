package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/vegasq/colflow/output"
	"github.com/vegasq/colflow/pipeline"
	"github.com/vegasq/colflow/query"
)

// formatNone runs the pipeline without printing its rows.
const formatNone = "none"

type runOptions struct {
	stages    []string
	format    string
	batchSize int
	timeout   time.Duration
}

func runCommand(global *globalOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [pipeline-file]",
		Short: "Compile and run a pipeline",
		Long: `Compile a pipeline, one stage per line, and print its rows.

The pipeline comes from a file or from repeated --stage flags. With
--format none the rows are only pulled through, which is enough to drive
write stages; a summary line is printed instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := opts.pipelineText(args)
			if err != nil {
				return err
			}

			cfg, logger, cleanup, err := global.load()
			if err != nil {
				return err
			}
			defer cleanup()

			if cmd.Flags().Changed("batch-size") {
				cfg.Pipeline.BatchSize = opts.batchSize
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Pipeline.Timeout.Duration = opts.timeout
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Pipeline.Timeout.Duration > 0 && opts.format != formatNone {
				return errors.Newf("--timeout needs --format %s", formatNone)
			}

			op, err := query.NewCompiler(logger, cfg.SinkOptions()).Compile(text)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(cfg.Pipeline.BatchSize, logger)
			out := cmd.OutOrStdout()
			if opts.format != formatNone {
				formatter, err := output.NewFormatter(opts.format, out, cfg.Pipeline.BatchSize)
				if err != nil {
					return errors.CombineErrors(err, op.Close())
				}
				return errors.CombineErrors(formatter.Format(op), op.Close())
			}

			if cfg.Pipeline.Timeout.Duration > 0 {
				result, err := runner.RunUntilTimeout(op, cfg.Pipeline.Timeout.Duration)
				err = errors.CombineErrors(err, op.Close())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "rows: %d, complete: %t\n", result.RowCount, result.IsComplete)
				return nil
			}

			rows, err := runner.RunAndClose(op)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "rows: %d, complete: true\n", rows)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&opts.stages, "stage", "s", nil, "pipeline stage; repeat for each stage")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table",
		fmt.Sprintf("output format: %s or %s", strings.Join(output.Formats(), ", "), formatNone))
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", pipeline.DefaultBatchSize, "rows per pull")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "stop pulling after this long; needs --format none")
	return cmd
}

// pipelineText returns the pipeline from the file argument or the stage flags.
func (o *runOptions) pipelineText(args []string) (string, error) {
	switch {
	case len(args) == 1 && len(o.stages) > 0:
		return "", errors.New("give a pipeline file or --stage flags, not both")
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", errors.Wrap(err, "failed to read pipeline")
		}
		return string(content), nil
	case len(o.stages) > 0:
		return strings.Join(o.stages, "\n"), nil
	default:
		return "", errors.New("missing pipeline: give a file or --stage flags")
	}
}
