package form

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/formforge/formforge/field"
	"github.com/formforge/formforge/model"
)

var (
	ErrFieldNotFound     = errors.New("field not found")
	ErrEmptyFieldLabel   = errors.New("field label or key is required")
	ErrDuplicateFieldKey = errors.New("duplicate field key")
	ErrUnknownFieldType  = errors.New("unknown field type")
	ErrBadFieldOrder     = errors.New("field order is not a permutation of the form's fields")
)

var reNoIdent = regexp.MustCompile(`\W+`)

// FieldKey derives a stable machine name from a display label:
// "E-mail Address" becomes "e_mail_address".
func FieldKey(label string) string {
	key := strings.ToLower(label)
	key = reNoIdent.ReplaceAllLiteralString(key, " ")
	return strings.Join(strings.Fields(key), "_")
}

func hasFieldKey(f model.Form, key string, exceptID int) bool {
	for _, fld := range f.Fields {
		if fld.FieldKey == key && fld.ID != exceptID {
			return true
		}
	}
	return false
}

// AddField appends fld to the draft's field set. An empty FieldKey is
// derived from the label and uniquified with a numeric suffix; an
// explicit key that collides is rejected instead.
func AddField(f *model.Form, fld model.FormField) (model.FormField, error) {
	if err := EnsureEditable(*f); err != nil {
		return model.FormField{}, err
	}
	if !field.Known(fld.FieldType) {
		return model.FormField{}, errors.Wrapf(ErrUnknownFieldType, "%q", fld.FieldType)
	}

	if fld.FieldKey == "" {
		key := FieldKey(fld.Label)
		if key == "" {
			return model.FormField{}, ErrEmptyFieldLabel
		}
		for n := 1; hasFieldKey(*f, key, 0); n++ {
			key = fmt.Sprintf("%s__%d", FieldKey(fld.Label), n)
		}
		fld.FieldKey = key
	} else if hasFieldKey(*f, fld.FieldKey, 0) {
		return model.FormField{}, errors.Wrapf(ErrDuplicateFieldKey, "%q", fld.FieldKey)
	}

	fld.Order = len(f.Fields)
	f.Fields = append(f.Fields, fld)
	return fld, nil
}

// FieldPatch updates only the fields that are set. FieldKey is absent
// on purpose: it is the correlation key for submitted values and stays
// fixed for the life of the field.
type FieldPatch struct {
	FieldType    *model.FieldType   `json:"fieldType,omitempty"`
	Label        *string            `json:"label,omitempty"`
	Placeholder  *string            `json:"placeholder,omitempty"`
	HelpText     *string            `json:"helpText,omitempty"`
	Required     *bool              `json:"required,omitempty"`
	Config       *model.FieldConfig `json:"fieldConfig,omitempty"`
	DefaultValue *string            `json:"defaultValue,omitempty"`
}

func UpdateField(f *model.Form, fieldID int, patch FieldPatch) (model.FormField, error) {
	if err := EnsureEditable(*f); err != nil {
		return model.FormField{}, err
	}

	i := indexOfField(*f, fieldID)
	if i < 0 {
		return model.FormField{}, errors.Wrapf(ErrFieldNotFound, "id %d", fieldID)
	}

	fld := &f.Fields[i]
	if patch.FieldType != nil {
		if !field.Known(*patch.FieldType) {
			return model.FormField{}, errors.Wrapf(ErrUnknownFieldType, "%q", *patch.FieldType)
		}
		fld.FieldType = *patch.FieldType
	}
	if patch.Label != nil {
		fld.Label = *patch.Label
	}
	if patch.Placeholder != nil {
		fld.Placeholder = *patch.Placeholder
	}
	if patch.HelpText != nil {
		fld.HelpText = *patch.HelpText
	}
	if patch.Required != nil {
		fld.Required = *patch.Required
	}
	if patch.Config != nil {
		fld.Config = *patch.Config
	}
	if patch.DefaultValue != nil {
		fld.DefaultValue = *patch.DefaultValue
	}
	return *fld, nil
}

// DeleteField removes the field and closes the gap it leaves, keeping
// Order values dense and zero-based.
func DeleteField(f *model.Form, fieldID int) error {
	if err := EnsureEditable(*f); err != nil {
		return err
	}

	i := indexOfField(*f, fieldID)
	if i < 0 {
		return errors.Wrapf(ErrFieldNotFound, "id %d", fieldID)
	}

	f.Fields = append(f.Fields[:i], f.Fields[i+1:]...)
	renumber(f)
	return nil
}

// Reorder rearranges the field set to match fieldIDs, which must be a
// permutation of the form's current field ids.
func Reorder(f *model.Form, fieldIDs []int) error {
	if err := EnsureEditable(*f); err != nil {
		return err
	}
	if len(fieldIDs) != len(f.Fields) {
		return ErrBadFieldOrder
	}

	byID := make(map[int]model.FormField, len(f.Fields))
	for _, fld := range f.Fields {
		byID[fld.ID] = fld
	}

	reordered := make([]model.FormField, 0, len(fieldIDs))
	for _, id := range fieldIDs {
		fld, ok := byID[id]
		if !ok {
			return errors.Wrapf(ErrBadFieldOrder, "id %d", id)
		}
		delete(byID, id) // catches duplicate ids
		reordered = append(reordered, fld)
	}

	f.Fields = reordered
	renumber(f)
	return nil
}

func indexOfField(f model.Form, fieldID int) int {
	for i, fld := range f.Fields {
		if fld.ID == fieldID {
			return i
		}
	}
	return -1
}

func renumber(f *model.Form) {
	for i := range f.Fields {
		f.Fields[i].Order = i
	}
}
