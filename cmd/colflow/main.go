// Command colflow runs column pipelines over CSV, TSV and parquet files.
//
// Usage:
//
//	colflow run pipeline.txt
//	colflow run -s "read data.parquet" -s "where Age > 30" -s "count"
//	colflow schema data.parquet
//	colflow verbs
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
