package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persona/internal/people/models"
	dErrors "persona/pkg/domain-errors"
)

func ptr[T any](v T) *T { return &v }

func validCreate() *models.Submission {
	return &models.Submission{
		FirstName: ptr("John"),
		LastName:  ptr("Doe"),
		Sex:       ptr("Male"),
		DOB:       ptr("1990-01-15"),
		POB:       ptr("Jakarta"),
	}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	de, ok := dErrors.As(err)
	require.True(t, ok, "expected coded error, got %v", err)
	assert.Equal(t, dErrors.CodeValidation, de.Code)
	return de.Field
}

// =============================================================================
// Name rule
// =============================================================================

func TestNameRule(t *testing.T) {
	tests := []struct {
		name      string
		full      *string
		first     *string
		last      *string
		wantName  string
		wantError bool
	}{
		{name: "full name only", full: ptr("Siti Aminah"), wantName: "Siti Aminah"},
		{name: "parts derive full name", first: ptr("John"), last: ptr("Doe"), wantName: "John Doe"},
		{name: "full name wins over parts", full: ptr("Johnny"), first: ptr("John"), last: ptr("Doe"), wantName: "Johnny"},
		{name: "parts are trimmed", first: ptr(" John "), last: ptr("Doe "), wantName: "John Doe"},
		{name: "first name only", first: ptr("John"), wantError: true},
		{name: "last name only", last: ptr("Doe"), wantError: true},
		{name: "nothing", wantError: true},
		{name: "blank full name", full: ptr("   "), first: ptr("John"), last: ptr("Doe"), wantError: true},
		{name: "blank parts", first: ptr(""), last: ptr("Doe"), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validCreate()
			sub.Name, sub.FirstName, sub.LastName = tt.full, tt.first, tt.last

			n, err := Normalize(sub, ModeCreate)
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMissingName))
				assert.Equal(t, "name", fieldOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, *n.Name)
		})
	}
}

func TestUpdateNameDerivation(t *testing.T) {
	t.Run("omitted name with parts derives", func(t *testing.T) {
		n, err := Normalize(&models.Submission{FirstName: ptr("John"), LastName: ptr("Doe")}, ModeUpdate)
		require.NoError(t, err)
		assert.Equal(t, "John Doe", *n.Name)
	})

	t.Run("single part leaves name untouched", func(t *testing.T) {
		n, err := Normalize(&models.Submission{FirstName: ptr("Johnny")}, ModeUpdate)
		require.NoError(t, err)
		assert.Nil(t, n.Name)
		assert.Equal(t, "Johnny", *n.FirstName)
	})

	t.Run("empty update is accepted", func(t *testing.T) {
		n, err := Normalize(&models.Submission{}, ModeUpdate)
		require.NoError(t, err)
		assert.Nil(t, n.Name)
		assert.Nil(t, n.Sex)
		assert.False(t, n.PhonesSet)
	})
}

// =============================================================================
// Dates
// =============================================================================

func TestParseDate(t *testing.T) {
	iso, err := ParseDate("1990-01-15")
	require.NoError(t, err)
	dmy, err := ParseDate("15-01-1990")
	require.NoError(t, err)
	assert.True(t, iso.Equal(dmy))
	assert.Equal(t, time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC), iso)

	for _, bad := range []string{"1990-13-40", "40-13-1990", "1990/01/15", "15.01.1990", "", "yesterday", "1990-02-30"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestInvalidDOB(t *testing.T) {
	sub := validCreate()
	sub.DOB = ptr("1990-13-40")

	_, err := Normalize(sub, ModeCreate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, "dob", fieldOf(t, err))
}

// =============================================================================
// Enums
// =============================================================================

func TestEnums(t *testing.T) {
	t.Run("sex is case sensitive", func(t *testing.T) {
		sub := validCreate()
		sub.Sex = ptr("male")
		_, err := Normalize(sub, ModeCreate)
		assert.ErrorIs(t, err, ErrInvalidEnum)
		assert.Equal(t, "sex", fieldOf(t, err))
	})

	t.Run("blood type accepted", func(t *testing.T) {
		sub := validCreate()
		sub.BloodType = ptr("AB-")
		n, err := Normalize(sub, ModeCreate)
		require.NoError(t, err)
		assert.Equal(t, models.BloodTypeABNeg, *n.BloodType)
	})

	t.Run("blood type rejected", func(t *testing.T) {
		sub := validCreate()
		sub.BloodType = ptr("o+")
		_, err := Normalize(sub, ModeCreate)
		assert.ErrorIs(t, err, ErrInvalidEnum)
		assert.Equal(t, "blood_type", fieldOf(t, err))
	})

	t.Run("family contact sex rejected", func(t *testing.T) {
		sub := validCreate()
		sub.FamilyRelationship = &models.FamilyInput{Name: "Jane", Sex: "F"}
		_, err := Normalize(sub, ModeCreate)
		assert.ErrorIs(t, err, ErrInvalidEnum)
		assert.Equal(t, "family_relationship.sex", fieldOf(t, err))
	})
}

// =============================================================================
// Phones
// =============================================================================

func TestPhones(t *testing.T) {
	t.Run("explicit list wins and keeps duplicates", func(t *testing.T) {
		sub := validCreate()
		sub.Phones = []string{"08111222333", "", "08111222333 ", "+62 812 3456"}
		sub.Props = map[string]any{"phone_1": "0899"}

		n, err := Normalize(sub, ModeCreate)
		require.NoError(t, err)
		assert.Equal(t, []string{"08111222333", "08111222333", "+62 812 3456"}, n.Phones)
	})

	t.Run("falls back to props", func(t *testing.T) {
		sub := validCreate()
		sub.Phones = []string{"  "}
		sub.Props = map[string]any{"phone_1": "08111222333", "phone_2": ""}

		n, err := Normalize(sub, ModeCreate)
		require.NoError(t, err)
		assert.True(t, n.PhonesSet)
		assert.Equal(t, []string{"08111222333"}, n.Phones)
	})

	t.Run("numeric prop is accepted", func(t *testing.T) {
		sub := validCreate()
		sub.Props = map[string]any{"phone_2": float64(8111222333)}

		n, err := Normalize(sub, ModeCreate)
		require.NoError(t, err)
		assert.Equal(t, []string{"8111222333"}, n.Phones)
	})

	t.Run("formatted numbers are kept as given", func(t *testing.T) {
		for _, phone := range []string{"(021) 5551234", "0811.222.333", "+62 (811) 222-333", "ext 12"} {
			sub := validCreate()
			sub.Phones = []string{phone}
			n, err := Normalize(sub, ModeCreate)
			require.NoError(t, err, phone)
			assert.Equal(t, []string{phone}, n.Phones)

			sub = validCreate()
			sub.Props = map[string]any{"phone_1": phone}
			n, err = Normalize(sub, ModeCreate)
			require.NoError(t, err, phone)
			assert.Equal(t, []string{phone}, n.Phones)
		}
	})
}

// =============================================================================
// Create contract and field constraints
// =============================================================================

func TestCreateRequiresDemographics(t *testing.T) {
	for field, mutate := range map[string]func(*models.Submission){
		"sex": func(s *models.Submission) { s.Sex = nil },
		"dob": func(s *models.Submission) { s.DOB = nil },
		"pob": func(s *models.Submission) { s.POB = ptr(" ") },
	} {
		t.Run(field, func(t *testing.T) {
			sub := validCreate()
			mutate(sub)
			_, err := Normalize(sub, ModeCreate)
			assert.ErrorIs(t, err, ErrRequired)
			assert.Equal(t, field, fieldOf(t, err))
		})
	}
}

func TestFieldConstraints(t *testing.T) {
	t.Run("negative total children", func(t *testing.T) {
		sub := validCreate()
		sub.TotalChildren = ptr(-1)
		_, err := Normalize(sub, ModeCreate)
		assert.Equal(t, "total_children", fieldOf(t, err))
	})

	t.Run("family contact phone format", func(t *testing.T) {
		sub := validCreate()
		sub.FamilyRelationship = &models.FamilyInput{Name: "Jane", Phone: "not-a-phone"}
		_, err := Normalize(sub, ModeCreate)
		assert.Equal(t, "family_relationship.phone", fieldOf(t, err))
	})

	t.Run("link requires id", func(t *testing.T) {
		sub := validCreate()
		sub.FamilyRelationship = &models.FamilyInput{Name: "Jane", Link: &models.Link{Type: "user"}}
		_, err := Normalize(sub, ModeCreate)
		assert.Equal(t, "family_relationship.link.id", fieldOf(t, err))
	})

	t.Run("bad uuid", func(t *testing.T) {
		sub := validCreate()
		sub.UUID = ptr("nope")
		_, err := Normalize(sub, ModeCreate)
		assert.Equal(t, "uuid", fieldOf(t, err))
	})

	t.Run("bad id", func(t *testing.T) {
		sub := validCreate()
		sub.ID = ptr("short")
		_, err := Normalize(sub, ModeCreate)
		assert.Equal(t, "id", fieldOf(t, err))
	})
}

func TestSubmittedIDAndCards(t *testing.T) {
	sub := validCreate()
	sub.ID = ptr("01arz3ndektsv4rrffq69g5fav")
	sub.CardIdentity = map[string]string{" NIK ": "3201234567890001", "passport": " ", "": "x"}

	n, err := Normalize(sub, ModeCreate)
	require.NoError(t, err)
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", n.ID.String())
	assert.Equal(t, map[string]string{"nik": "3201234567890001"}, n.CardIdentity)
}

func TestUpdateIgnoresSubmittedID(t *testing.T) {
	n, err := Normalize(&models.Submission{ID: ptr("garbage")}, ModeUpdate)
	require.NoError(t, err)
	assert.True(t, n.ID.IsNil())
}
