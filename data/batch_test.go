package data

import (
	"testing"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchIndex(t *testing.T) {
	values := []int64{10, 20, 30, 40}

	all := All(values, 4)
	for i := 0; i < all.Count; i++ {
		assert.Equal(t, i, all.Index(i))
	}

	indirect := Indirect(values, []int{3, 1})
	require.Equal(t, 2, indirect.Count)
	assert.Equal(t, int64(40), Get[int64](indirect, 0))
	assert.Equal(t, int64(20), Get[int64](indirect, 1))
}

func TestRemapComposesIndirection(t *testing.T) {
	values := []string{"a", "b", "c", "d", "e"}
	var first, second []int

	// First filter keeps b, d, e; second keeps the last two of those.
	step1 := Remap(All(values, 5), []int{1, 3, 4}, &first)
	step2 := Remap(step1, []int{1, 2}, &second)

	require.Equal(t, 2, step2.Count)
	assert.Equal(t, []int{3, 4}, step2.Indices, "indices must point at the original array")
	assert.Equal(t, "d", Get[string](step2, 0))
	assert.Equal(t, "e", Get[string](step2, 1))
}

func TestBatchNullsFollowPhysicalOffsets(t *testing.T) {
	nulls := roaring.New()
	nulls.Add(2)

	b := All([]int64{1, 2, 0}, 3).WithNulls(nulls)
	assert.True(t, b.HasNulls())
	assert.True(t, b.IsNull(2))
	assert.Nil(t, b.Value(2))

	var scratch []int
	remapped := Remap(b, []int{2, 0}, &scratch)
	assert.True(t, remapped.IsNull(0))
	assert.False(t, remapped.IsNull(1))
	assert.Equal(t, int64(1), remapped.Value(1))
}

func TestAllocateGrowsGeometrically(t *testing.T) {
	var buf []int
	Allocate(&buf, 3)
	assert.Len(t, buf, 3)

	Allocate(&buf, 4)
	assert.Len(t, buf, 4)
	assert.GreaterOrEqual(t, cap(buf), 6)

	before := cap(buf)
	Allocate(&buf, 2)
	assert.Len(t, buf, 2)
	assert.Equal(t, before, cap(buf), "shrinking must reuse the same storage")
}

func TestSchemaIndexOf(t *testing.T) {
	schema := Schema{
		{Name: "Name", Type: String8},
		{Name: "Age", Type: Int},
	}

	idx, err := schema.IndexOf("age")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = schema.IndexOf("City")
	require.ErrorIs(t, err, ErrColumnNotFound)
	assert.Contains(t, err.Error(), "City")
}

func TestParseColumnType(t *testing.T) {
	tests := []struct {
		name    string
		want    ColumnType
		wantErr bool
	}{
		{name: "int", want: Int},
		{name: "BOOL", want: Bool},
		{name: "DateTime", want: DateTime},
		{name: "string8", want: String8},
		{name: "float", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColumnType(tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAndFormatValue(t *testing.T) {
	v, err := ParseValue(Int, " 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	_, err = ParseValue(Bool, "maybe")
	assert.Error(t, err)

	dt, err := ParseValue(DateTime, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), dt)

	assert.Equal(t, "2024-03-01T00:00:00Z", FormatValue(dt))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "", FormatValue(nil))
}

func TestSchemaAppend(t *testing.T) {
	schema := Schema{{Name: "Name", Type: String8}}

	extended, err := schema.Append(ColumnDetails{Name: "Upper", Type: String8, Nullable: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Upper"}, extended.Names())
	assert.Len(t, schema, 1, "the original schema must not change")

	_, err = schema.Append(ColumnDetails{Name: "NAME", Type: Int})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}
