package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/colflow/data"
	"github.com/vegasq/colflow/pipeline"
)

func machines(t *testing.T) *pipeline.MemorySource {
	t.Helper()
	src, err := pipeline.NewMemorySource(data.Schema{
		{Name: "NetBios", Type: data.String8, Nullable: true},
		{Name: "Dns", Type: data.String8, Nullable: true},
		{Name: "Cores", Type: data.Int},
	},
		[]string{"web01  ", "", "", "db7"},
		[]string{"ignored.corp", "app02.corp.example", "", "x.y"},
		[]int64{4, 8, 16, 32},
	)
	require.NoError(t, err)
	src.SetNulls(0, 2)
	return src
}

// apply runs the named function over the current pull of src.
func apply(t *testing.T, name string, src *pipeline.MemorySource, inputs ...string) []map[string]any {
	t.Helper()
	def, err := Default().Lookup(name)
	require.NoError(t, err)
	require.NoError(t, def.CheckArity(len(inputs)))

	stage, err := pipeline.NewFunction(src, def.New(), def.ResultType, "Out", inputs)
	require.NoError(t, err)
	sel, err := pipeline.NewColumnSelector(stage, []string{"Out"})
	require.NoError(t, err)

	rows, err := pipeline.Rows(pipeline.NewRunner(3, nil), sel)
	require.NoError(t, err)
	return rows
}

func outputs(rows []map[string]any) []any {
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = row["Out"]
	}
	return out
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	def, err := Default().Lookup("string.toupper")
	require.NoError(t, err)
	assert.Equal(t, "String.ToUpper", def.Name)

	_, err = Default().Lookup("String.Reverse")
	require.ErrorIs(t, err, ErrUnknownFunction)
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	defs := append(Builtins(), Definition{Name: "STRING.LENGTH", New: newLength})
	_, err := NewRegistry(defs...)
	require.Error(t, err)

	_, err = NewRegistry(Definition{Name: "Broken"})
	require.Error(t, err)
}

func TestRegistryNames(t *testing.T) {
	assert.Equal(t, []string{
		"Conflux.NetBiosOrDnsToMachineName",
		"String.Concat",
		"String.Length",
		"String.ToLower",
		"String.ToUpper",
	}, Default().Names())
}

func TestCheckArity(t *testing.T) {
	tests := []struct {
		name   string
		inputs int
		ok     bool
	}{
		{"String.Length", 1, true},
		{"String.Length", 2, false},
		{"String.Concat", 0, false},
		{"String.Concat", 5, true},
		{"Conflux.NetBiosOrDnsToMachineName", 1, false},
		{"Conflux.NetBiosOrDnsToMachineName", 2, true},
	}
	for _, tt := range tests {
		def, err := Default().Lookup(tt.name)
		require.NoError(t, err)
		err = def.CheckArity(tt.inputs)
		if tt.ok {
			assert.NoError(t, err, tt.name)
		} else {
			assert.ErrorIs(t, err, ErrArity, tt.name)
		}
	}
}

func TestMachineName(t *testing.T) {
	assert.Equal(t, []any{"WEB01", "APP02", "", "DB7"},
		outputs(apply(t, "Conflux.NetBiosOrDnsToMachineName", machines(t), "NetBios", "Dns")))
}

func TestMachineNameArityAtRuntime(t *testing.T) {
	fn := newMachineName()
	_, err := fn(machines(t), []int{0})
	require.ErrorIs(t, err, ErrArity)
}

func TestStringFunctions(t *testing.T) {
	assert.Equal(t, []any{"web01  ", "", nil, "db7"}, outputs(apply(t, "String.ToLower", machines(t), "NetBios")))
	assert.Equal(t, []any{"IGNORED.CORP", "APP02.CORP.EXAMPLE", "", "X.Y"}, outputs(apply(t, "String.ToUpper", machines(t), "Dns")))
	assert.Equal(t, []any{int64(7), int64(0), nil, int64(3)}, outputs(apply(t, "String.Length", machines(t), "NetBios")))
	assert.Equal(t, []any{int64(1), int64(1), int64(2), int64(2)}, outputs(apply(t, "String.Length", machines(t), "Cores")))
}

func TestConcat(t *testing.T) {
	assert.Equal(t, []any{"web01  4", "8", "16", "db732"},
		outputs(apply(t, "String.Concat", machines(t), "NetBios", "Cores")))

	assert.Equal(t, []any{"web01  web01  ", "", nil, "db7db7"},
		outputs(apply(t, "String.Concat", machines(t), "NetBios", "NetBios")))
}

func transform(t *testing.T, name string, args []string, values []string, nulls ...uint32) []any {
	t.Helper()
	def, err := DefaultTransformers().Lookup(name)
	require.NoError(t, err)
	tr, err := def.New(args)
	require.NoError(t, err)

	src, err := pipeline.NewMemorySource(data.Schema{{Name: "v", Type: data.String8, Nullable: true}}, values)
	require.NoError(t, err)
	src.SetNulls(0, nulls...)

	stage, err := pipeline.NewString8Transform(src, tr, "v", "Out")
	require.NoError(t, err)
	rows, err := pipeline.Rows(pipeline.NewRunner(2, nil), stage)
	require.NoError(t, err)
	return outputs(rows)
}

func TestTransformers(t *testing.T) {
	assert.Equal(t, []any{"ABC", " X", nil},
		transform(t, "TrimToUpper", nil, []string{"abc  ", " x", "z"}, 2))
	assert.Equal(t, []any{"", "a#NULL#", nil},
		transform(t, "cosmosnulltoempty", nil, []string{"#NULL#", "a#NULL#", ""}, 2))
	assert.Equal(t, []any{"n/a", "set", "n/a"},
		transform(t, "emptytodefault", []string{"n/a"}, []string{"", "set", "ignored"}, 2))
}

func TestTransformerArguments(t *testing.T) {
	registry := DefaultTransformers()

	def, err := registry.Lookup("emptytodefault")
	require.NoError(t, err)
	_, err = def.New(nil)
	require.ErrorIs(t, err, ErrTransformerArgs)

	def, err = registry.Lookup("trimtoupper")
	require.NoError(t, err)
	_, err = def.New([]string{"extra"})
	require.ErrorIs(t, err, ErrTransformerArgs)

	_, err = registry.Lookup("rot13")
	require.ErrorIs(t, err, ErrUnknownTransformer)

	assert.Equal(t, []string{"cosmosnulltoempty", "emptytodefault", "trimtoupper"}, registry.Names())
}
