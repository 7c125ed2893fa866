package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  water  ", "health  ", "  shelter"},
			expected: []string{"water", "health", "shelter"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"water", "health", "water", "shelter", "health"},
			expected: []string{"water", "health", "shelter"},
		},
		{
			name:     "drops empty and whitespace-only elements",
			input:    []string{"water", "", "   ", "health"},
			expected: []string{"water", "health"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
