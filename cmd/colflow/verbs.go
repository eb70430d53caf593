package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/functions"
	"github.com/vegasq/colflow/output"
	"github.com/vegasq/colflow/pipeline"
	"github.com/vegasq/colflow/query"
)

var verbColumns = data.Schema{
	{Name: "Verb", Type: data.String8},
	{Name: "Usage", Type: data.String8},
	{Name: "Summary", Type: data.String8},
}

var registryColumns = data.Schema{
	{Name: "Kind", Type: data.String8},
	{Name: "Name", Type: data.String8},
}

func verbsCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "verbs",
		Short: "List pipeline verbs, functions and transformers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formatter, err := output.NewFormatter(format, cmd.OutOrStdout(), 0)
			if err != nil {
				return err
			}

			var names, usages, summaries []string
			for _, v := range query.Verbs() {
				names = append(names, v.Name)
				usages = append(usages, v.Usage)
				summaries = append(summaries, v.Summary)
			}
			verbs, err := pipeline.NewMemorySource(verbColumns, names, usages, summaries)
			if err != nil {
				return err
			}
			if err := errors.CombineErrors(formatter.Format(verbs), verbs.Close()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())

			var kinds, entries []string
			for _, name := range functions.Default().Names() {
				kinds, entries = append(kinds, "function"), append(entries, name)
			}
			for _, name := range functions.DefaultTransformers().Names() {
				kinds, entries = append(kinds, "string8transform"), append(entries, name)
			}
			registered, err := pipeline.NewMemorySource(registryColumns, kinds, entries)
			if err != nil {
				return err
			}
			return errors.CombineErrors(formatter.Format(registered), registered.Close())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format")
	return cmd
}
