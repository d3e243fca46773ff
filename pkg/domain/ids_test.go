package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "persona/pkg/domain-errors"
)

// TestParsePersonID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-zero ULIDs"
func TestParsePersonID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePersonID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParsePersonID("not-a-ulid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects zero ULID", func(t *testing.T) {
		_, err := ParsePersonID(strings.Repeat("0", 26))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts generated ID", func(t *testing.T) {
		generated := NewPersonID()
		parsed, err := ParsePersonID(generated.String())
		require.NoError(t, err)
		assert.Equal(t, generated, parsed)
	})

	t.Run("canonicalizes lower case", func(t *testing.T) {
		generated := NewPersonID()
		parsed, err := ParsePersonID(strings.ToLower(generated.String()))
		require.NoError(t, err)
		assert.Equal(t, generated, parsed)
	})
}

func TestParseID_HostileInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"SQL injection attempt", "'; DROP TABLE people;--"},
		{"Path traversal", "../../../etc/passwd"},
		{"Null byte injection", "01HZX3\x00KQ8M3V4W5X6Y7Z8A9B0C"},
		{"Oversized input", strings.Repeat("A", 1000)},
		{"Overflowing timestamp", "8" + strings.Repeat("0", 25)},
		{"Whitespace only", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePersonID(tt.input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestGeneratedIDsSortByCreation(t *testing.T) {
	first := NewPersonID()
	second := NewPersonID()

	assert.Len(t, first.String(), 26)
	assert.Less(t, first.String(), second.String())
}

func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	valid := NewReferenceID().String()

	_, errPerson := ParsePersonID(valid)
	_, errFamily := ParseFamilyContactID(valid)
	_, errReference := ParseReferenceID(valid)
	require.NoError(t, errPerson)
	require.NoError(t, errFamily)
	require.NoError(t, errReference)

	for _, input := range []string{"", "invalid", strings.Repeat("0", 26)} {
		_, errPerson := ParsePersonID(input)
		_, errFamily := ParseFamilyContactID(input)
		_, errReference := ParseReferenceID(input)
		require.Error(t, errPerson)
		require.Error(t, errFamily)
		require.Error(t, errReference)
	}
}
