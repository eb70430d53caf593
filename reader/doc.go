// Package reader provides the source operators of a pipeline.
//
// Files ending in .parquet are read with parquet-go; every other file is
// read as delimited text with a header row. Both readers stream: each pull
// reads at most the requested number of rows into buffers that are reused
// across pulls.
//
// Example:
//
//	source, err := reader.Open("people.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer source.Close()
//
//	fmt.Println(source.Schema().Names())
package reader
