package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"bare parts", "where Age > 21", []string{"where", "Age", ">", "21"}},
		{"extra whitespace", "  select\tName   Age  ", []string{"select", "Name", "Age"}},
		{"quoted with space", `where City = "New York"`, []string{"where", "City", "=", "New York"}},
		{"escaped quote", `where Name = "O""Brien"`, []string{"where", "Name", "=", `O"Brien`}},
		{"empty quoted", `cast Nick string8 ""`, []string{"cast", "Nick", "string8", ""}},
		{"quote only escapes", `x """"`, []string{"x", `"`}},
		{"unicode", "where Name = Zoë", []string{"where", "Name", "=", "Zoë"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitLine(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitLineUnterminatedQuote(t *testing.T) {
	for _, input := range []string{`where Name = "Ann`, `x "a""`, `"`} {
		_, err := SplitLine(input)
		require.ErrorIs(t, err, ErrUnterminatedQuote, input)
		assert.Contains(t, err.Error(), input)
	}
}

func TestSplitPartsMarksQuoted(t *testing.T) {
	parts, err := SplitParts(`select "Last, First" Age,City ""`)
	require.NoError(t, err)
	assert.Equal(t, []Part{
		{Text: "select"},
		{Text: "Last, First", Quoted: true},
		{Text: "Age,City"},
		{Text: "", Quoted: true},
	}, parts)
}
