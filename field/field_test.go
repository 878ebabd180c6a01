package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formforge/formforge/model"
)

func TestLookupKnowsEveryFieldType(t *testing.T) {
	types := []model.FieldType{
		model.FieldText, model.FieldEmail, model.FieldNumber, model.FieldDate,
		model.FieldTextarea, model.FieldDropdown, model.FieldCheckbox, model.FieldRadio,
	}
	for _, ft := range types {
		_, ok := Lookup(ft)
		assert.True(t, ok, "no handler for %s", ft)
	}

	_, ok := Lookup("SIGNATURE")
	assert.False(t, ok)
}

func TestValidateUnknownType(t *testing.T) {
	_, err := Validate("SIGNATURE", "x", model.FieldConfig{})
	require.NotNil(t, err)
	assert.Equal(t, InvalidFormat, err.Kind)
}

func TestValidateText(t *testing.T) {
	for _, ft := range []model.FieldType{model.FieldText, model.FieldTextarea} {
		v, err := Validate(ft, "anything at all", model.FieldConfig{})
		require.Nil(t, err)
		assert.Equal(t, "anything at all", v)
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"a@b.co", true},
		{"first.last+tag@mail.example.org", true},
		{"not-an-email", false},
		{"missing@dot", false},
		{"@no-local.part", false},
		{"spaces in@local.part", false},
	}
	for _, tt := range tests {
		v, err := Validate(model.FieldEmail, tt.raw, model.FieldConfig{})
		if tt.ok {
			require.Nil(t, err, "expected %q to pass", tt.raw)
			assert.Equal(t, tt.raw, v)
		} else {
			require.NotNil(t, err, "expected %q to fail", tt.raw)
			assert.Equal(t, InvalidFormat, err.Kind)
		}
	}
}

func TestValidateNumber(t *testing.T) {
	v, err := Validate(model.FieldNumber, "42.5", model.FieldConfig{})
	require.Nil(t, err)
	assert.Equal(t, 42.5, v)

	v, err = Validate(model.FieldNumber, " -17 ", model.FieldConfig{})
	require.Nil(t, err)
	assert.Equal(t, -17.0, v)

	_, err = Validate(model.FieldNumber, "twelve", model.FieldConfig{})
	require.NotNil(t, err)
	assert.Equal(t, InvalidFormat, err.Kind)
}

func TestValidateDate(t *testing.T) {
	v, err := Validate(model.FieldDate, "2024-02-29", model.FieldConfig{})
	require.Nil(t, err)
	assert.Equal(t, "2024-02-29", v)

	for _, raw := range []string{"29/02/2024", "2023-02-29", "yesterday"} {
		_, err := Validate(model.FieldDate, raw, model.FieldConfig{})
		require.NotNil(t, err, "expected %q to fail", raw)
		assert.Equal(t, InvalidFormat, err.Kind)
	}
}

func TestValidateChoice(t *testing.T) {
	cfg := model.FieldConfig{Options: []string{"red", "green", "blue"}}

	for _, ft := range []model.FieldType{model.FieldDropdown, model.FieldRadio} {
		v, err := Validate(ft, "green", cfg)
		require.Nil(t, err)
		assert.Equal(t, "green", v)

		_, err = Validate(ft, "purple", cfg)
		require.NotNil(t, err)
		assert.Equal(t, InvalidOption, err.Kind)

		// exact match only
		_, err = Validate(ft, "Green", cfg)
		require.NotNil(t, err)
		assert.Equal(t, InvalidOption, err.Kind)
	}
}

func TestCheckboxCoercion(t *testing.T) {
	h, ok := Lookup(model.FieldCheckbox)
	require.True(t, ok)

	for _, raw := range []string{"true", "TRUE", "yes", "1", "on"} {
		assert.Equal(t, true, h.Coerce(raw), "raw %q", raw)
		assert.False(t, h.Empty(raw), "raw %q", raw)
	}
	for _, raw := range []string{"", "false", "0", "off", "whatever"} {
		assert.Equal(t, false, h.Coerce(raw), "raw %q", raw)
		// unchecked counts as empty so a required checkbox must be true
		assert.True(t, h.Empty(raw), "raw %q", raw)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "42", Format(model.FieldNumber, 42.0))
	assert.Equal(t, "42.5", Format(model.FieldNumber, 42.5))
	assert.Equal(t, "true", Format(model.FieldCheckbox, true))
	assert.Equal(t, "false", Format(model.FieldCheckbox, false))
	assert.Equal(t, "hello", Format(model.FieldText, "hello"))
	assert.Equal(t, "2024-01-01", Format(model.FieldDate, "2024-01-01"))
}
