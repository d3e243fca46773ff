package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimLower(t *testing.T) {
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
			name:     "lowercases and trims",
			input:    []string{"  NIK ", "KK"},
			expected: []string{"nik", "kk"},
		},
		{
			name:     "case-insensitive duplicates collapse",
			input:    []string{"nik", "Nik", "NIK", "passport"},
			expected: []string{"nik", "passport"},
		},
		{
			name:     "drops blanks",
			input:    []string{"", "   ", "bpjs"},
			expected: []string{"bpjs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrimLower(tt.input))
		})
	}
}

func TestNonBlankKeepsDuplicates(t *testing.T) {
	got := NonBlank("0811", "", " 0811 ", "  ", "0822")
	assert.Equal(t, []string{"0811", "0811", "0822"}, got)
}

func TestSet(t *testing.T) {
	set := Set([]string{"nik", "kk"})
	assert.Len(t, set, 2)
	assert.Contains(t, set, "nik")
	assert.NotContains(t, set, "passport")
}
