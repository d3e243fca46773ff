// Package normalize turns an inbound person submission into a validated,
// internally consistent payload. It performs no I/O.
package normalize

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"persona/internal/people/models"
	"persona/pkg/domain"
	dErrors "persona/pkg/domain-errors"
	pstrings "persona/pkg/platform/strings"
)

// Mode selects create or partial-update rules.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// Sentinels carried inside the returned validation errors.
var (
	ErrMissingName = errors.New("name or first_name and last_name are required")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD or DD-MM-YYYY")
	ErrInvalidEnum = errors.New("value is not one of the allowed literals")
	ErrRequired    = errors.New("field is required")
)

// dobLayouts are tried in order; exactly one must match.
var dobLayouts = []string{"2006-01-02", "02-01-2006"}

// phonePattern accepts local and international numbers with separators.
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{4,19}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// Normalize validates sub and returns the normalized payload.
func Normalize(sub *models.Submission, mode Mode) (*models.NormalizedPerson, error) {
	if sub == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "submission is required")
	}
	if err := validateFields(sub); err != nil {
		return nil, err
	}

	n := &models.NormalizedPerson{
		POB:           trimmed(sub.POB),
		MotherName:    trimmed(sub.MotherName),
		FatherName:    trimmed(sub.FatherName),
		TotalChildren: sub.TotalChildren,
		IsNationality: sub.IsNationality,
		Address:       sub.Address,
		Family:        sub.FamilyRelationship,
		Props:         sub.Props,
	}

	if err := normalizeID(sub, mode, n); err != nil {
		return nil, err
	}
	if err := normalizeName(sub, mode, n); err != nil {
		return nil, err
	}
	if err := normalizeEnums(sub, n); err != nil {
		return nil, err
	}
	if err := normalizeDOB(sub, n); err != nil {
		return nil, err
	}
	normalizePhones(sub, n)
	normalizeRefs(sub, n)
	n.CardIdentity = normalizeCards(sub.CardIdentity)

	if mode == ModeCreate {
		if err := requireCreateFields(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// ParseDate parses a date of birth in either accepted layout.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var (
		out     time.Time
		matches int
	)
	for _, layout := range dobLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if matches > 0 && !t.Equal(out) {
			return time.Time{}, ErrInvalidDate
		}
		out = t
		matches++
	}
	if matches == 0 {
		return time.Time{}, ErrInvalidDate
	}
	return out, nil
}

func validateFields(sub *models.Submission) error {
	err := validate.Struct(sub)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid submission")
	}
	fe := verrs[0]
	field := fieldPath(fe.Namespace())
	return invalid(field, fmt.Errorf("%s failed %q", field, fe.Tag()))
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	_, rest, found := strings.Cut(ns, ".")
	if !found {
		return ns
	}
	return rest
}

func normalizeID(sub *models.Submission, mode Mode, n *models.NormalizedPerson) error {
	if sub.UUID != nil && *sub.UUID != "" {
		u, err := uuid.Parse(*sub.UUID)
		if err != nil {
			return invalid("uuid", err)
		}
		n.UUID = &u
	}
	if mode != ModeCreate || sub.ID == nil || *sub.ID == "" {
		return nil
	}
	id, err := domain.ParsePersonID(*sub.ID)
	if err != nil {
		return invalid("id", err)
	}
	n.ID = id
	return nil
}

func normalizeName(sub *models.Submission, mode Mode, n *models.NormalizedPerson) error {
	first, last := trimmed(sub.FirstName), trimmed(sub.LastName)
	n.FirstName, n.LastName = first, last

	if name := trimmed(sub.Name); name != nil {
		if *name == "" {
			return invalid("name", ErrMissingName)
		}
		n.Name = name
		return nil
	}

	hasParts := first != nil && *first != "" && last != nil && *last != ""
	if hasParts {
		full := *first + " " + *last
		n.Name = &full
		return nil
	}
	if mode == ModeCreate {
		return invalid("name", ErrMissingName)
	}
	return nil
}

func normalizeEnums(sub *models.Submission, n *models.NormalizedPerson) error {
	if sub.Sex != nil {
		sex := models.Sex(*sub.Sex)
		if !sex.IsValid() {
			return invalid("sex", ErrInvalidEnum)
		}
		n.Sex = &sex
	}
	if sub.BloodType != nil && *sub.BloodType != "" {
		bt := models.BloodType(*sub.BloodType)
		if !bt.IsValid() {
			return invalid("blood_type", ErrInvalidEnum)
		}
		n.BloodType = &bt
	}
	if f := sub.FamilyRelationship; f != nil && f.Sex != "" && !models.Sex(f.Sex).IsValid() {
		return invalid("family_relationship.sex", ErrInvalidEnum)
	}
	return nil
}

func normalizeDOB(sub *models.Submission, n *models.NormalizedPerson) error {
	if sub.DOB == nil {
		return nil
	}
	dob, err := ParseDate(*sub.DOB)
	if err != nil {
		return invalid("dob", err)
	}
	n.DOB = &dob
	return nil
}

// normalizePhones prefers a non-empty explicit list, then props.phone_1 and
// props.phone_2. Blank values are dropped, duplicates kept. Person phones are
// free text; only the family contact phone has a format.
func normalizePhones(sub *models.Submission, n *models.NormalizedPerson) {
	explicit := pstrings.NonBlank(sub.Phones...)
	switch {
	case len(explicit) > 0:
		n.Phones, n.PhonesSet = explicit, true
	case hasPropPhones(sub.Props):
		n.Phones = pstrings.NonBlank(propString(sub.Props, "phone_1"), propString(sub.Props, "phone_2"))
		n.PhonesSet = true
	case sub.Phones != nil:
		n.Phones, n.PhonesSet = nil, true
	}
}

func hasPropPhones(props map[string]any) bool {
	if props == nil {
		return false
	}
	_, ok1 := props["phone_1"]
	_, ok2 := props["phone_2"]
	return ok1 || ok2
}

func propString(props map[string]any, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func normalizeRefs(sub *models.Submission, n *models.NormalizedPerson) {
	n.ReligionID = refID(sub.ReligionID)
	n.LastEducationID = refID(sub.LastEducationID)
	n.MaritalStatusID = refID(sub.MaritalStatusID)
	n.CountryID = refID(sub.CountryID)
}

func refID(s *string) *domain.ReferenceID {
	if s == nil {
		return nil
	}
	id := domain.ReferenceID(strings.TrimSpace(*s))
	return &id
}

// normalizeCards lower-cases type tags and drops blank values. Allow-list
// filtering happens in the writer.
func normalizeCards(cards map[string]string) map[string]string {
	if cards == nil {
		return nil
	}
	out := make(map[string]string, len(cards))
	for typ, value := range cards {
		typ = strings.ToLower(strings.TrimSpace(typ))
		value = strings.TrimSpace(value)
		if typ == "" || value == "" {
			continue
		}
		out[typ] = value
	}
	return out
}

func requireCreateFields(n *models.NormalizedPerson) error {
	switch {
	case n.Sex == nil:
		return invalid("sex", ErrRequired)
	case n.DOB == nil:
		return invalid("dob", ErrRequired)
	case n.POB == nil || *n.POB == "":
		return invalid("pob", ErrRequired)
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func invalid(field string, err error) error {
	return dErrors.Wrap(err, dErrors.CodeValidation, field+": "+err.Error()).WithField(field)
}
