// Package query compiles pipeline configurations into operator chains.
//
// A configuration is plain text with one stage per line. Each line is a
// verb followed by whitespace-separated arguments; an argument may be
// double quoted to hold whitespace, with "" standing for a literal quote.
// Blank lines and lines starting with # are ignored. The first stage must
// be a read.
//
//	read people.csv
//	cast Age int
//	where Age >= 18
//	function String.ToUpper Shout Name
//	write adults.parquet
//	count
//
// Compilation opens the source and sinks and checks every column
// reference, type name and argument, but reads no rows. When a stage
// fails, everything opened so far is closed and a *CompileError names the
// line and the stage.
//
// # Verbs
//
// read, schema, select (columns), write, limit, cast (convert), where,
// count, function (func), string8transform and distinct. Verbs are
// matched case-insensitively; Verbs lists them with their usage.
//
// # Running
//
//	c := query.NewCompiler(logger, output.Options{Compression: "zstd"})
//	op, err := c.Compile(text)
//	if err != nil {
//	    return err
//	}
//	rows, err := pipeline.NewRunner(0, logger).RunAndClose(op)
package query
