// Package form holds the form aggregate's lifecycle rules and field
// set operations. Everything here is a pure transformation; persistence
// is the store's problem.
package form

import (
	"time"

	"github.com/pkg/errors"

	"github.com/formforge/formforge/model"
)

var (
	ErrEmptyForm         = errors.New("cannot publish a form with no fields")
	ErrFormNotEditable   = errors.New("form is not editable")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
)

type Event string

const (
	EventPublish     Event = "publish"
	EventCreateDraft Event = "create-draft"
	EventArchive     Event = "archive"
)

// transitions is the full lifecycle table. ARCHIVED is terminal.
var transitions = map[model.FormStatus]map[Event]model.FormStatus{
	model.StatusDraft: {
		EventPublish: model.StatusPublished,
		EventArchive: model.StatusArchived,
	},
	model.StatusPublished: {
		EventCreateDraft: model.StatusDraft,
		EventArchive:     model.StatusArchived,
	},
}

func CanTransition(from model.FormStatus, ev Event) bool {
	_, ok := transitions[from][ev]
	return ok
}

// New creates version 1 of a fresh lineage. The slug is derived from
// the title here and never changes afterwards, so publishing cannot
// break a link that was already shared.
func New(title, description string) model.Form {
	return model.Form{
		LineageID:   NewLineageID(),
		Slug:        Slug(title),
		Title:       title,
		Description: description,
		Status:      model.StatusDraft,
		Version:     1,
		Fields:      []model.FormField{},
	}
}

// Publish freezes the field set and makes the form publicly reachable.
// The caller must archive the lineage's previously published version.
func Publish(f model.Form, now time.Time) (model.Form, error) {
	if !CanTransition(f.Status, EventPublish) {
		return f, errors.Wrapf(ErrInvalidTransition, "%s from %s", EventPublish, f.Status)
	}
	if len(f.Fields) == 0 {
		return f, ErrEmptyForm
	}
	if f.Slug == "" {
		f.Slug = Slug(f.Title)
	}
	f.Status = model.StatusPublished
	f.PublishedAt = &now
	return f, nil
}

// CloneDraft forks a published form into the lineage's next version.
// The source is returned to the store untouched: its slug and field
// contract stay stable for anyone mid-submission.
func CloneDraft(f model.Form) (model.Form, error) {
	if !CanTransition(f.Status, EventCreateDraft) {
		return model.Form{}, errors.Wrapf(ErrInvalidTransition, "%s from %s", EventCreateDraft, f.Status)
	}

	draft := model.Form{
		LineageID:   f.LineageID,
		Slug:        f.Slug,
		Title:       f.Title,
		Description: f.Description,
		Status:      model.StatusDraft,
		Version:     f.Version + 1,
		Fields:      make([]model.FormField, len(f.Fields)),
	}
	for i, fld := range f.Fields {
		fld.ID = 0 // new rows for the new version
		draft.Fields[i] = fld
	}
	return draft, nil
}

// Archive retires one specific version for good.
func Archive(f model.Form) (model.Form, error) {
	if !CanTransition(f.Status, EventArchive) {
		return f, errors.Wrapf(ErrInvalidTransition, "%s from %s", EventArchive, f.Status)
	}
	f.Status = model.StatusArchived
	return f, nil
}

// EnsureEditable gates every field mutation: only drafts may change.
func EnsureEditable(f model.Form) error {
	if f.Status != model.StatusDraft {
		return errors.Wrapf(ErrFormNotEditable, "status %s", f.Status)
	}
	return nil
}
