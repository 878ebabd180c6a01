// Package field maps every form field type to its validation and
// coercion rules. Adding a field type means registering one handler;
// nothing in the submission path switches on the type itself.
package field

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/formforge/formforge/model"
)

type ErrorKind string

const (
	Required      ErrorKind = "Required"
	InvalidFormat ErrorKind = "InvalidFormat"
	InvalidOption ErrorKind = "InvalidOption"
)

type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e Error) Error() string {
	return e.Message
}

// Shape says which canonical value a handler coerces to.
type Shape int

const (
	ShapeText Shape = iota
	ShapeNumber
	ShapeDate
	ShapeBool
)

// Handler is the capability set of one field type.
type Handler interface {
	// Validate checks a non-empty raw value against the type's rules
	// and the field's config. A nil return means the value is valid.
	Validate(raw string, cfg model.FieldConfig) *Error
	// Coerce turns a raw wire value into its canonical shape. Only
	// called on values Validate accepted (or empty checkbox values).
	Coerce(raw string) any
	// Empty reports whether raw counts as "no answer" for this type.
	Empty(raw string) bool
	Shape() Shape
}

var registry = map[model.FieldType]Handler{
	model.FieldText:     textHandler{},
	model.FieldTextarea: textHandler{},
	model.FieldEmail:    emailHandler{},
	model.FieldNumber:   numberHandler{},
	model.FieldDate:     dateHandler{},
	model.FieldDropdown: choiceHandler{},
	model.FieldRadio:    choiceHandler{},
	model.FieldCheckbox: checkboxHandler{},
}

func Lookup(t model.FieldType) (Handler, bool) {
	h, ok := registry[t]
	return h, ok
}

func Known(t model.FieldType) bool {
	_, ok := registry[t]
	return ok
}

// Validate runs raw through the handler for t and returns the coerced
// value on success.
func Validate(t model.FieldType, raw string, cfg model.FieldConfig) (any, *Error) {
	h, ok := registry[t]
	if !ok {
		return nil, &Error{InvalidFormat, fmt.Sprintf("unknown field type %q", t)}
	}
	if err := h.Validate(raw, cfg); err != nil {
		return nil, err
	}
	return h.Coerce(raw), nil
}

// Format renders a coerced value back to its wire string, e.g. for CSV
// export.
func Format(t model.FieldType, v any) string {
	h, ok := registry[t]
	if !ok || v == nil {
		return fmt.Sprint(v)
	}
	switch h.Shape() {
	case ShapeNumber:
		if n, ok := v.(float64); ok {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	case ShapeBool:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b)
		}
	}
	return fmt.Sprint(v)
}

type textHandler struct{}

func (textHandler) Validate(string, model.FieldConfig) *Error { return nil }
func (textHandler) Coerce(raw string) any                     { return raw }
func (textHandler) Empty(raw string) bool                     { return strings.TrimSpace(raw) == "" }
func (textHandler) Shape() Shape                              { return ShapeText }

// Conservative shape check: local part, domain with at least one dot.
var reEmail = regexp.MustCompile(`^[\w.+-]+@([\w-]+\.)+[\w-]{2,}$`)

type emailHandler struct{}

func (emailHandler) Validate(raw string, _ model.FieldConfig) *Error {
	if !reEmail.MatchString(strings.TrimSpace(raw)) {
		return &Error{InvalidFormat, "invalid email format"}
	}
	return nil
}
func (emailHandler) Coerce(raw string) any { return strings.TrimSpace(raw) }
func (emailHandler) Empty(raw string) bool { return strings.TrimSpace(raw) == "" }
func (emailHandler) Shape() Shape          { return ShapeText }

type numberHandler struct{}

func (numberHandler) Validate(raw string, _ model.FieldConfig) *Error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
		return &Error{InvalidFormat, "must be a valid number"}
	}
	return nil
}
func (numberHandler) Coerce(raw string) any {
	n, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return n
}
func (numberHandler) Empty(raw string) bool { return strings.TrimSpace(raw) == "" }
func (numberHandler) Shape() Shape          { return ShapeNumber }

const isoDate = "2006-01-02"

type dateHandler struct{}

func (dateHandler) Validate(raw string, _ model.FieldConfig) *Error {
	if _, err := time.Parse(isoDate, strings.TrimSpace(raw)); err != nil {
		return &Error{InvalidFormat, "must be a valid date (YYYY-MM-DD)"}
	}
	return nil
}
func (dateHandler) Coerce(raw string) any {
	d, _ := time.Parse(isoDate, strings.TrimSpace(raw))
	return d.Format(isoDate)
}
func (dateHandler) Empty(raw string) bool { return strings.TrimSpace(raw) == "" }
func (dateHandler) Shape() Shape          { return ShapeDate }

type choiceHandler struct{}

func (choiceHandler) Validate(raw string, cfg model.FieldConfig) *Error {
	for _, opt := range cfg.Options {
		if raw == opt {
			return nil
		}
	}
	return &Error{InvalidOption, "not one of the allowed options"}
}
func (choiceHandler) Coerce(raw string) any { return raw }
func (choiceHandler) Empty(raw string) bool { return strings.TrimSpace(raw) == "" }
func (choiceHandler) Shape() Shape          { return ShapeText }

// checkboxHandler treats anything that is not a truthy token as false.
// A required checkbox must be checked: unchecked counts as empty, so
// the Required rule fires (consent-box semantics).
type checkboxHandler struct{}

func checked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1", "on":
		return true
	}
	return false
}

func (checkboxHandler) Validate(string, model.FieldConfig) *Error { return nil }
func (checkboxHandler) Coerce(raw string) any                     { return checked(raw) }
func (checkboxHandler) Empty(raw string) bool                     { return !checked(raw) }
func (checkboxHandler) Shape() Shape                              { return ShapeBool }
