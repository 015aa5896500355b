package json

import (
	stdjson "encoding/json"
	"testing"

	"github.com/dhamidi/mend/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []string{
		`{"bool": true, "number": 1}`,
		`[]`,
		`{}`,
		`[1, -2.5e3, "x", null, false, {"a": [true]}]`,
		`"tab\tquote\" é"`,
		`{"a": 1, "a": 2}`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			var want any
			require.NoError(t, stdjson.Unmarshal([]byte(src), &want))

			pr, err := Parse("test.json", []byte(src))
			require.NoError(t, err)
			got, err := pr.Unwrap(false)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.True(t, pr.Ok())
		})
	}
}

func TestParse_Empty(t *testing.T) {
	pr, err := Parse("test.json", []byte(""))
	require.NoError(t, err)

	_, err = pr.Unwrap(false)
	require.EqualError(t, err, "at 0: expected value")
	var perr *parse.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Nil(t, perr.Items[0].Op)
}

func TestParse_Recovery(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want any
		diag string
	}{
		{
			name: "missing comma",
			src:  "[1 2]",
			want: []any{float64(1)},
			diag: "at 1:3: expected ',' or ']' (skipped 1 token)",
		},
		{
			name: "missing value",
			src:  `{"key": }`,
			want: map[string]any{"key": Missing},
			diag: "at 1:8: expected value (inserted value)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr, err := Parse("test.json", []byte(tt.src), parse.WithRecovery())
			require.NoError(t, err)
			assert.False(t, pr.Ok())

			got, err := pr.Unwrap(true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.EqualError(t, pr.Err(), tt.diag)
			assert.Equal(t, 1, pr.Cost())
		})
	}
}

func TestParse_RecoversAfterConsuming(t *testing.T) {
	pr, err := Parse("test.json", []byte("[1 2]"))
	require.NoError(t, err)

	_, err = pr.Unwrap(false)
	require.EqualError(t, err, "at 1:3: expected ',' or ']' (skipped 1 token)")
	got, err := pr.Unwrap(true)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1)}, got)
}

func TestParse_RecoversTruncatedNesting(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want any
	}{
		{"arrays", "[[[[", []any{[]any{[]any{[]any{}}}}},
		{
			"objects",
			`{"a": {"b": {"c": [1`,
			map[string]any{"a": map[string]any{"b": map[string]any{"c": []any{float64(1)}}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr, err := Parse("test.json", []byte(tt.src), parse.WithRecovery())
			require.NoError(t, err)
			assert.Equal(t, 4, pr.Cost())
			assert.Len(t, pr.Diagnostics(), 4)

			got, err := pr.Unwrap(true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
