package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/output"
	"github.com/vegasq/colflow/pipeline"
	"github.com/vegasq/colflow/reader"
)

var parquetFieldColumns = data.Schema{
	{Name: "Name", Type: data.String8},
	{Name: "Type", Type: data.String8},
	{Name: "Nullable", Type: data.Bool},
	{Name: "PhysicalType", Type: data.String8},
	{Name: "LogicalType", Type: data.String8},
}

func schemaCommand(global *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema <file>",
		Short: "Show the columns a source file provides",
		Long: `Show the columns a read stage would provide for a file. Parquet files
also show the physical and logical type each column is read from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, cleanup, err := global.load()
			if err != nil {
				return err
			}
			defer cleanup()

			formatter, err := output.NewFormatter(format, cmd.OutOrStdout(), cfg.Pipeline.BatchSize)
			if err != nil {
				return err
			}

			source, err := reader.Open(args[0])
			if err != nil {
				return err
			}

			if pq, ok := source.(*reader.ParquetReader); ok {
				fields, err := describeParquet(pq)
				if err != nil {
					return errors.CombineErrors(err, pq.Close())
				}
				return errors.CombineErrors(formatter.Format(fields), pq.Close())
			}

			description := pipeline.NewSchemaTransformer(source)
			return errors.CombineErrors(formatter.Format(description), description.Close())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table",
		fmt.Sprintf("output format: %s", strings.Join(output.Formats(), ", ")))
	return cmd
}

func describeParquet(pq *reader.ParquetReader) (pipeline.Operator, error) {
	fields := pq.Fields()
	var (
		names    = make([]string, len(fields))
		types    = make([]string, len(fields))
		nullable = make([]bool, len(fields))
		physical = make([]string, len(fields))
		logical  = make([]string, len(fields))
	)
	for i, f := range fields {
		names[i] = f.Name
		types[i] = f.Column.Type.String()
		nullable[i] = f.Column.Nullable
		physical[i] = f.PhysicalType
		logical[i] = f.LogicalType
	}
	return pipeline.NewMemorySource(parquetFieldColumns, names, types, nullable, physical, logical)
}
