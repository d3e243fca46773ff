package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "persona/pkg/domain-errors"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Family_Role ")
	require.NoError(t, err)
	assert.Equal(t, CategoryFamilyRole, c)

	_, err = ParseCategory("planet")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestNewEntity(t *testing.T) {
	t.Run("trims label and assigns id", func(t *testing.T) {
		e, err := NewEntity(CategoryFamilyRole, "  Sibling ", nil)
		require.NoError(t, err)
		assert.Equal(t, "Sibling", e.Label)
		assert.Len(t, e.ID.String(), 26)
	})

	t.Run("blank label is an invariant violation", func(t *testing.T) {
		_, err := NewEntity(CategoryFamilyRole, "   ", nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := NewEntity(Category("planet"), "Mars", nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestAsLabel(t *testing.T) {
	var e *Entity
	assert.Nil(t, e.AsLabel())

	e = &Entity{ID: "01J", Label: "Islam"}
	assert.Equal(t, &Label{ID: "01J", Label: "Islam"}, e.AsLabel())
}
