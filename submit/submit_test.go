package submit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formforge/formforge/field"
	"github.com/formforge/formforge/model"
)

func snapshot() model.Form {
	return model.Form{
		ID:      3,
		Slug:    "feedback-abc123",
		Status:  model.StatusPublished,
		Version: 2,
		Fields: []model.FormField{
			{ID: 1, FieldKey: "name", FieldType: model.FieldText, Label: "Name", Required: true, Order: 0},
			{ID: 2, FieldKey: "email", FieldType: model.FieldEmail, Label: "Email", Required: true, Order: 1},
			{ID: 3, FieldKey: "age", FieldType: model.FieldNumber, Label: "Age", Order: 2},
			{ID: 4, FieldKey: "color", FieldType: model.FieldDropdown, Label: "Color", Order: 3,
				Config: model.FieldConfig{Options: []string{"red", "green"}}},
			{ID: 5, FieldKey: "subscribe", FieldType: model.FieldCheckbox, Label: "Subscribe", Order: 4},
		},
	}
}

var relaxedGuard = Guard{} // no timing check; honeypot only

func TestSubmitValid(t *testing.T) {
	now := time.Now()
	req := Request{
		Values: map[string]string{
			"name":      "Ada",
			"email":     "ada@example.org",
			"age":       "36",
			"color":     "green",
			"subscribe": "true",
			"stowaway":  "dropped silently",
		},
	}

	resp, err := Submit(snapshot(), req, "203.0.113.9", now, relaxedGuard)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.FormID)
	assert.Equal(t, 2, resp.FormVersion)
	assert.Equal(t, now, resp.SubmittedAt)
	assert.Equal(t, "203.0.113.9", resp.IP)
	assert.Equal(t, model.ResponseAccepted, resp.Status)
	assert.Len(t, resp.Schema, 5)

	assert.Equal(t, map[string]any{
		"name":      "Ada",
		"email":     "ada@example.org",
		"age":       36.0,
		"color":     "green",
		"subscribe": true,
	}, resp.Values, "only known field keys survive, coerced")
}

func TestSubmitOptionalFieldsMayBeOmitted(t *testing.T) {
	req := Request{Values: map[string]string{
		"name":  "Ada",
		"email": "ada@example.org",
	}}

	resp, err := Submit(snapshot(), req, "", time.Now(), relaxedGuard)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ada", "email": "ada@example.org"}, resp.Values)
}

func TestSubmitUncheckedCheckboxIsAValidNo(t *testing.T) {
	req := Request{Values: map[string]string{
		"name":      "Ada",
		"email":     "ada@example.org",
		"subscribe": "false",
	}}

	resp, err := Submit(snapshot(), req, "", time.Now(), relaxedGuard)
	require.NoError(t, err)
	assert.Equal(t, false, resp.Values["subscribe"])
}

func TestSubmitRequiredCheckboxMustBeTrue(t *testing.T) {
	snap := snapshot()
	snap.Fields[4].Required = true

	req := Request{Values: map[string]string{
		"name":      "Ada",
		"email":     "ada@example.org",
		"subscribe": "false",
	}}

	_, err := Submit(snap, req, "", time.Now(), relaxedGuard)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, field.Required, verrs["subscribe"].Kind)
}

func TestSubmitBatchesAllErrors(t *testing.T) {
	req := Request{Values: map[string]string{
		"email": "not-an-email",
		"age":   "old",
		"color": "purple",
		// name omitted entirely
	}}

	_, err := Submit(snapshot(), req, "", time.Now(), relaxedGuard)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	require.Len(t, verrs, 4, "every broken field is reported at once")
	assert.Equal(t, field.Required, verrs["name"].Kind)
	assert.Equal(t, field.InvalidFormat, verrs["email"].Kind)
	assert.Equal(t, field.InvalidFormat, verrs["age"].Kind)
	assert.Equal(t, field.InvalidOption, verrs["color"].Kind)

	assert.Equal(t, "validation failed for age, color, email, name", verrs.Error())
}

func TestSubmitHoneypotBeatsValidFields(t *testing.T) {
	req := Request{
		Values: map[string]string{
			"name":  "Ada",
			"email": "ada@example.org",
		},
		Honeypot: "gotcha",
	}

	_, err := Submit(snapshot(), req, "", time.Now(), relaxedGuard)
	assert.ErrorIs(t, err, ErrRejected)

	var verrs ValidationErrors
	assert.False(t, errors.As(err, &verrs), "a rejected submission must not leak field errors")
}

func TestSubmitTooFastIsRejectedBeforeValidation(t *testing.T) {
	now := time.Now()
	req := Request{
		// would also fail validation, but the guard wins
		Values:        map[string]string{"email": "not-an-email"},
		LoadTimestamp: now.Add(-100 * time.Millisecond).UnixMilli(),
	}

	_, err := Submit(snapshot(), req, "", now, Guard{MinDwell: 2 * time.Second})
	assert.ErrorIs(t, err, ErrRejected)
}

func TestValidateChecksFieldsInDisplayOrder(t *testing.T) {
	snap := snapshot()
	// shuffle the slice; Order still dictates processing
	snap.Fields[0], snap.Fields[3] = snap.Fields[3], snap.Fields[0]

	values, verrs := Validate(snap, map[string]string{
		"name":  "Ada",
		"email": "ada@example.org",
		"color": "red",
	})
	require.Nil(t, verrs)
	assert.Equal(t, map[string]any{"name": "Ada", "email": "ada@example.org", "color": "red"}, values)
}
