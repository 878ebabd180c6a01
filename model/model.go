package model

import "time"

type FormStatus string

const (
	StatusDraft     FormStatus = "DRAFT"
	StatusPublished FormStatus = "PUBLISHED"
	StatusArchived  FormStatus = "ARCHIVED"
)

type FieldType string

const (
	FieldText     FieldType = "TEXT"
	FieldEmail    FieldType = "EMAIL"
	FieldNumber   FieldType = "NUMBER"
	FieldDate     FieldType = "DATE"
	FieldTextarea FieldType = "TEXTAREA"
	FieldDropdown FieldType = "DROPDOWN"
	FieldCheckbox FieldType = "CHECKBOX"
	FieldRadio    FieldType = "RADIO"
)

type ResponseStatus string

const (
	ResponseAccepted ResponseStatus = "accepted"
	ResponseFlagged  ResponseStatus = "flagged"
)

// Form is one version in a lineage. Versions of the same lineage share
// LineageID and Slug; at most one of them is PUBLISHED at a time.
type Form struct {
	ID            int         `json:"id,omitempty"`
	LineageID     string      `json:"lineageId,omitempty"`
	Slug          string      `json:"slug,omitempty"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Status        FormStatus  `json:"status"`
	Version       int         `json:"version"`
	PublishedAt   *time.Time  `json:"publishedAt,omitempty"`
	Fields        []FormField `json:"fields"`
	ResponseCount int         `json:"responseCount"`
}

func (f Form) FieldCount() int {
	return len(f.Fields)
}

// FieldConfig carries type-specific settings. Only the choice types
// (DROPDOWN, RADIO) use Options today.
type FieldConfig struct {
	Options []string `json:"options,omitempty"`
}

type FormField struct {
	ID           int         `json:"id,omitempty"`
	FieldKey     string      `json:"fieldKey"`
	FieldType    FieldType   `json:"fieldType"`
	Label        string      `json:"label"`
	Placeholder  string      `json:"placeholder,omitempty"`
	HelpText     string      `json:"helpText,omitempty"`
	Required     bool        `json:"required"`
	Order        int         `json:"order"`
	Config       FieldConfig `json:"fieldConfig"`
	DefaultValue string      `json:"defaultValue,omitempty"`
}

// FormResponse is one accepted submission, keyed to the exact form
// version it validated against. Schema holds the field set as it was at
// submission time; it is persisted next to the values so later edits or
// deletions of the form never orphan the data.
type FormResponse struct {
	ID          int            `json:"id"`
	FormID      int            `json:"formId"`
	FormVersion int            `json:"formVersion"`
	Values      map[string]any `json:"values"`
	SubmittedAt time.Time      `json:"submittedAt"`
	IP          string         `json:"ip,omitempty"`
	Status      ResponseStatus `json:"status"`
	Schema      []FormField    `json:"-"`
}
