package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/colflow/pipeline"
	"github.com/vegasq/colflow/reader"
)

// TestRow defines a simple test data structure
type TestRow struct {
	ID     int64   `parquet:"id"`
	Name   string  `parquet:"name"`
	Age    int64   `parquet:"age"`
	Salary float64 `parquet:"salary"`
}

const people = "Name,Age\nAlice,30\nBob,25\nCharlie,35\n"

// createTestParquetFile creates a temporary parquet file with test data
func createTestParquetFile(t *testing.T, dir, filename string, rows []TestRow) string {
	t.Helper()
	testFile := filepath.Join(dir, filename)

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	writer := parquet.NewGenericWriter[TestRow](f)
	if _, err := writer.Write(rows); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close file: %v", err)
	}

	return testFile
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// execute runs the CLI with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_PipelineFile(t *testing.T) {
	dir := t.TempDir()
	csvFile := writeFile(t, dir, "people.csv", people)
	pipelineFile := writeFile(t, dir, "adults.txt", `# people over 28
read `+csvFile+`
cast Age int
where Age > 28
select Name
`)

	got, err := execute(t, "run", "-f", "csv", pipelineFile)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if want := "Name\nAlice\nCharlie\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRun_Stages(t *testing.T) {
	dir := t.TempDir()
	testFile := createTestParquetFile(t, dir, "test.parquet", []TestRow{
		{ID: 1, Name: "Alice", Age: 30, Salary: 50000.0},
		{ID: 2, Name: "Bob", Age: 25, Salary: 45000.0},
		{ID: 3, Name: "Charlie", Age: 35, Salary: 60000.0},
	})

	tests := []struct {
		name   string
		stages []string
		want   string
	}{
		{"count", []string{"read " + testFile, "count"}, `{"Count":3}` + "\n"},
		{"where", []string{"read " + testFile, "where age >= 30", "select name"},
			`{"name":"Alice"}` + "\n" + `{"name":"Charlie"}` + "\n"},
		{"function", []string{"read " + testFile, "limit 1", "function String.ToUpper upper name", "select upper"},
			`{"upper":"ALICE"}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []string{"run", "-f", "jsonl"}
			for _, stage := range tt.stages {
				args = append(args, "-s", stage)
			}
			got, err := execute(t, args...)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_TableFormat(t *testing.T) {
	csvFile := writeFile(t, t.TempDir(), "people.csv", people)

	got, err := execute(t, "run", "-s", "read "+csvFile, "-s", "limit 2")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"Name", "Age", "Alice", "Bob"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Charlie") {
		t.Errorf("table output should stop after the limit:\n%s", got)
	}
}

func TestRun_WriteParquetWithConfig(t *testing.T) {
	dir := t.TempDir()
	csvFile := writeFile(t, dir, "people.csv", people)
	configFile := writeFile(t, dir, "colflow.toml", `
[pipeline]
batch_size = 2

[parquet]
compression = "gzip"
`)
	outFile := filepath.Join(dir, "people.parquet")

	got, err := execute(t, "--config", configFile, "run", "-f", "none",
		"-s", "read "+csvFile, "-s", "cast Age int", "-s", "write "+outFile)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if want := "rows: 3, complete: true\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	written, err := reader.OpenParquet(outFile)
	if err != nil {
		t.Fatalf("failed to open written file: %v", err)
	}
	ages, err := pipeline.ToList[int64](pipeline.NewRunner(0, nil), written, "Age")
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if len(ages) != 3 || ages[0] != 30 || ages[1] != 25 || ages[2] != 35 {
		t.Errorf("ages = %v, want [30 25 35]", ages)
	}
}

func TestRun_Timeout(t *testing.T) {
	csvFile := writeFile(t, t.TempDir(), "people.csv", people)

	got, err := execute(t, "run", "-f", "none", "--timeout", "1h", "-s", "read "+csvFile)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if want := "rows: 3, complete: true\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	if _, err := execute(t, "run", "--timeout", "1h", "-s", "read "+csvFile); err == nil {
		t.Error("expected an error for --timeout with a row format")
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	csvFile := writeFile(t, dir, "people.csv", people)
	pipelineFile := writeFile(t, dir, "count.txt", "read "+csvFile+"\ncount\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown verb", []string{"run", "-s", "read " + csvFile, "-s", "foo"}, "foo"},
		{"missing pipeline", []string{"run"}, "missing pipeline"},
		{"file and stages", []string{"run", "-s", "count", pipelineFile}, "not both"},
		{"missing source", []string{"run", "-s", "read " + filepath.Join(dir, "nope.csv")}, "nope.csv"},
		{"unknown format", []string{"run", "-f", "xml", pipelineFile}, "xml"},
		{"bad batch size", []string{"run", "--batch-size", "0", pipelineFile}, "batch_size"},
		{"missing config", []string{"--config", filepath.Join(dir, "nope.toml"), "run", pipelineFile}, "nope.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSchema_Parquet(t *testing.T) {
	testFile := createTestParquetFile(t, t.TempDir(), "test.parquet", []TestRow{
		{ID: 1, Name: "Alice", Age: 30, Salary: 50000.0},
	})

	got, err := execute(t, "schema", "-f", "csv", testFile)
	if err != nil {
		t.Fatalf("schema failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(got), "\n")
	if want := "Name,Type,Nullable,PhysicalType,LogicalType"; lines[0] != want {
		t.Errorf("header = %q, want %q", lines[0], want)
	}
	for _, prefix := range []string{
		"id,int,false,INT64,",
		"name,string8,false,BYTE_ARRAY,",
		"age,int,false,INT64,",
		"salary,string8,false,DOUBLE,",
	} {
		if !strings.Contains(got, prefix) {
			t.Errorf("schema output missing %q:\n%s", prefix, got)
		}
	}
}

func TestSchema_Tabular(t *testing.T) {
	csvFile := writeFile(t, t.TempDir(), "people.tsv", "Name\tAge\nAlice\t30\n")

	got, err := execute(t, "schema", "-f", "csv", csvFile)
	if err != nil {
		t.Fatalf("schema failed: %v", err)
	}
	if want := "Name,Type,Nullable\nName,string8,false\nAge,string8,false\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestVerbs(t *testing.T) {
	got, err := execute(t, "verbs", "-f", "csv")
	if err != nil {
		t.Fatalf("verbs failed: %v", err)
	}
	for _, want := range []string{
		"Verb,Usage,Summary",
		"string8transform,",
		"function,String.Concat",
		"function,Conflux.NetBiosOrDnsToMachineName",
		"string8transform,emptytodefault",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("verbs output missing %q:\n%s", want, got)
		}
	}
}
