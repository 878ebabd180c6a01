package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formforge/formforge/model"
)

func assertDenseOrder(t *testing.T, f model.Form) {
	t.Helper()
	for i, fld := range f.Fields {
		assert.Equal(t, i, fld.Order, "field %q at index %d", fld.FieldKey, i)
	}
}

// assignIDs fakes what the store does on save.
func assignIDs(f *model.Form) {
	for i := range f.Fields {
		if f.Fields[i].ID == 0 {
			f.Fields[i].ID = 1000 + i
		}
	}
}

func TestFieldKeyDerivation(t *testing.T) {
	tests := []struct {
		label string
		key   string
	}{
		{"Name", "name"},
		{"E-mail Address", "e_mail_address"},
		{"  What's   up?  ", "what_s_up"},
		{"Ålder (years)", "lder_years"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.key, FieldKey(tt.label), "label %q", tt.label)
	}
}

func TestAddFieldAutoKeyAndUniquify(t *testing.T) {
	f := New("T", "")

	first, err := AddField(&f, model.FormField{FieldType: model.FieldText, Label: "Name"})
	require.NoError(t, err)
	assert.Equal(t, "name", first.FieldKey)
	assert.Equal(t, 0, first.Order)

	second, err := AddField(&f, model.FormField{FieldType: model.FieldText, Label: "Name"})
	require.NoError(t, err)
	assert.Equal(t, "name__1", second.FieldKey)
	assert.Equal(t, 1, second.Order)

	third, err := AddField(&f, model.FormField{FieldType: model.FieldText, Label: "name!"})
	require.NoError(t, err)
	assert.Equal(t, "name__2", third.FieldKey)

	assertDenseOrder(t, f)
}

func TestAddFieldEmptyLabelRejected(t *testing.T) {
	f := New("T", "")

	_, err := AddField(&f, model.FormField{FieldType: model.FieldText})
	assert.ErrorIs(t, err, ErrEmptyFieldLabel)

	_, err = AddField(&f, model.FormField{FieldType: model.FieldText, Label: "  ?! "})
	assert.ErrorIs(t, err, ErrEmptyFieldLabel, "label with no usable characters")
	assert.Empty(t, f.Fields)

	// an explicit key stands in for the label
	fld, err := AddField(&f, model.FormField{FieldType: model.FieldText, FieldKey: "name"})
	require.NoError(t, err)
	assert.Equal(t, "name", fld.FieldKey)
}

func TestAddFieldExplicitKeyCollision(t *testing.T) {
	f := New("T", "")
	_, err := AddField(&f, model.FormField{FieldType: model.FieldText, Label: "Name", FieldKey: "name"})
	require.NoError(t, err)

	_, err = AddField(&f, model.FormField{FieldType: model.FieldEmail, Label: "Other", FieldKey: "name"})
	assert.ErrorIs(t, err, ErrDuplicateFieldKey)
	assert.Len(t, f.Fields, 1)
}

func TestAddFieldUnknownType(t *testing.T) {
	f := New("T", "")
	_, err := AddField(&f, model.FormField{FieldType: "SIGNATURE", Label: "Sign here"})
	assert.ErrorIs(t, err, ErrUnknownFieldType)
}

func TestDeleteFieldClosesGap(t *testing.T) {
	f := New("T", "")
	for _, label := range []string{"A", "B", "C", "D"} {
		_, err := AddField(&f, model.FormField{FieldType: model.FieldText, Label: label})
		require.NoError(t, err)
	}
	assignIDs(&f)

	require.NoError(t, DeleteField(&f, f.Fields[1].ID))

	require.Len(t, f.Fields, 3)
	assert.Equal(t, []string{"a", "c", "d"}, fieldKeys(f))
	assertDenseOrder(t, f)

	assert.ErrorIs(t, DeleteField(&f, 99999), ErrFieldNotFound)
}

func TestReorder(t *testing.T) {
	f := New("T", "")
	for _, label := range []string{"A", "B", "C"} {
		_, err := AddField(&f, model.FormField{FieldType: model.FieldText, Label: label})
		require.NoError(t, err)
	}
	assignIDs(&f)
	a, b, c := f.Fields[0].ID, f.Fields[1].ID, f.Fields[2].ID

	require.NoError(t, Reorder(&f, []int{c, a, b}))
	assert.Equal(t, []string{"c", "a", "b"}, fieldKeys(f))
	assertDenseOrder(t, f)

	// not a permutation: wrong length, unknown id, duplicate id
	assert.ErrorIs(t, Reorder(&f, []int{a, b}), ErrBadFieldOrder)
	assert.ErrorIs(t, Reorder(&f, []int{a, b, 99999}), ErrBadFieldOrder)
	assert.ErrorIs(t, Reorder(&f, []int{a, a, b}), ErrBadFieldOrder)
	// failed reorders leave the field set alone
	assert.Equal(t, []string{"c", "a", "b"}, fieldKeys(f))
	assertDenseOrder(t, f)
}

func TestOrderStaysDenseUnderMixedOps(t *testing.T) {
	f := New("T", "")
	for _, label := range []string{"A", "B", "C", "D", "E"} {
		_, err := AddField(&f, model.FormField{FieldType: model.FieldText, Label: label})
		require.NoError(t, err)
	}
	assignIDs(&f)

	require.NoError(t, DeleteField(&f, f.Fields[0].ID))
	require.NoError(t, DeleteField(&f, f.Fields[2].ID))
	_, err := AddField(&f, model.FormField{FieldType: model.FieldText, Label: "F"})
	require.NoError(t, err)
	assignIDs(&f)

	ids := []int{f.Fields[3].ID, f.Fields[0].ID, f.Fields[2].ID, f.Fields[1].ID}
	require.NoError(t, Reorder(&f, ids))

	assertDenseOrder(t, f)
	seen := map[int]bool{}
	for _, fld := range f.Fields {
		assert.False(t, seen[fld.Order])
		seen[fld.Order] = true
	}
}

func TestUpdateFieldPatchesOnlySetFields(t *testing.T) {
	f := New("T", "")
	_, err := AddField(&f, model.FormField{
		FieldType: model.FieldText, Label: "Name", Placeholder: "your name", Required: false,
	})
	require.NoError(t, err)
	assignIDs(&f)
	id := f.Fields[0].ID

	required := true
	label := "Full Name"
	updated, err := UpdateField(&f, id, FieldPatch{Label: &label, Required: &required})
	require.NoError(t, err)

	assert.Equal(t, "Full Name", updated.Label)
	assert.True(t, updated.Required)
	assert.Equal(t, "your name", updated.Placeholder, "unset patch fields stay put")
	assert.Equal(t, "name", updated.FieldKey, "field key never changes")

	_, err = UpdateField(&f, 99999, FieldPatch{Label: &label})
	assert.ErrorIs(t, err, ErrFieldNotFound)

	badType := model.FieldType("SIGNATURE")
	_, err = UpdateField(&f, id, FieldPatch{FieldType: &badType})
	assert.ErrorIs(t, err, ErrUnknownFieldType)
}

func TestFieldMutationsRequireDraft(t *testing.T) {
	f := draftWithFields(t, "Name")
	assignIDs(&f)
	id := f.Fields[0].ID

	published, err := Publish(f, time.Now())
	require.NoError(t, err)
	archived, err := Archive(published)
	require.NoError(t, err)

	label := "x"
	for _, frozen := range []model.Form{published, archived} {
		frozen := frozen
		_, err := AddField(&frozen, model.FormField{FieldType: model.FieldText, Label: "New"})
		assert.ErrorIs(t, err, ErrFormNotEditable)
		_, err = UpdateField(&frozen, id, FieldPatch{Label: &label})
		assert.ErrorIs(t, err, ErrFormNotEditable)
		assert.ErrorIs(t, DeleteField(&frozen, id), ErrFormNotEditable)
		assert.ErrorIs(t, Reorder(&frozen, []int{id}), ErrFormNotEditable)
	}
}

func fieldKeys(f model.Form) []string {
	keys := make([]string, len(f.Fields))
	for i, fld := range f.Fields {
		keys[i] = fld.FieldKey
	}
	return keys
}
