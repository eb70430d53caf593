// Package output provides the sinks of a pipeline and the formatters that
// print its result.
//
// # Sinks
//
// A sink is a pass-through operator: every row pulled through it is written
// to its file and handed on unchanged. Open picks the parquet writer for
// paths ending in .parquet and the tabular writer otherwise:
//
//	sink, err := output.Open(source, "out.parquet", output.Options{Compression: "zstd"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sink.Close()
//
// Closing a sink flushes its file; the file is incomplete until then.
//
// # Formatters
//
// Formatters drain an operator to a writer:
//
//   - table: an aligned text table (tablewriter)
//   - csv: comma-separated values with a header row
//   - jsonl: one JSON object per line, keys in schema order
//
// Example:
//
//	formatter, err := output.NewFormatter("jsonl", os.Stdout, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(source); err != nil {
//	    log.Fatal(err)
//	}
//
// # Type Handling
//
// Values are rendered with data.FormatValue: datetimes as RFC 3339 with
// nanoseconds, booleans as true/false. Nulls are empty in csv, null in
// jsonl and NULL in the table.
package output
