package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCoerceScalar(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected any
	}{
		{
			name:     "object string",
			input:    `{"data":{"list":[1,2]}}`,
			expected: map[string]any{"data": map[string]any{"list": []any{float64(1), float64(2)}}},
		},
		{
			name:     "array string",
			input:    `[1,"two"]`,
			expected: []any{float64(1), "two"},
		},
		{
			name:     "scalar string",
			input:    ` 42 `,
			expected: float64(42),
		},
		{
			name:     "invalid json left untouched",
			input:    "not json",
			expected: "not json",
		},
		{
			name:     "truncated json left untouched",
			input:    `{"data":`,
			expected: `{"data":`,
		},
		{
			name:     "whitespace only",
			input:    "   \n\t",
			expected: "",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "already decoded map",
			input:    map[string]any{"a": float64(1)},
			expected: map[string]any{"a": float64(1)},
		},
		{
			name:     "number passes through",
			input:    float64(3.5),
			expected: float64(3.5),
		},
		{
			name:     "nil passes through",
			input:    nil,
			expected: nil,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			got := CoerceScalar(test.input)
			diff := cmp.Diff(test.expected, got)
			require.Empty(t, diff)
		})
	}
}

func TestCoerceScalarIdempotent(t *testing.T) {
	once := CoerceScalar(`{"a":[1]}`)
	twice := CoerceScalar(once)
	diff := cmp.Diff(once, twice)
	require.Empty(t, diff)
}
