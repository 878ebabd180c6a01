// Package store is the persistence collaborator. The core packages
// never touch SQL: they go through the narrow Store interface, and
// every call is atomic on its own (one transaction at most).
package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/formforge/formforge/model"
)

// ErrNotFound is returned for unknown form, field and response ids or
// slugs. Callers map it to a 404.
var ErrNotFound = errors.New("not found")

type Store interface {
	LoadForm(ctx context.Context, id int) (model.Form, error)
	LoadPublishedBySlug(ctx context.Context, slug string) (model.Form, error)
	// LoadPublishedInLineage finds the lineage's currently published
	// version, if any, so publish can archive it.
	LoadPublishedInLineage(ctx context.Context, lineageID string) (model.Form, error)
	ListForms(ctx context.Context) ([]model.Form, error)
	SaveForm(ctx context.Context, f model.Form) (model.Form, error)
	DeleteForm(ctx context.Context, id int) error
	LoadFieldsOrdered(ctx context.Context, formID int) ([]model.FormField, error)

	SaveResponse(ctx context.Context, r model.FormResponse) (model.FormResponse, error)
	CountResponses(ctx context.Context, formID int) (int, error)
	ListResponses(ctx context.Context, formID int) ([]model.FormResponse, error)
	LoadResponse(ctx context.Context, formID, responseID int) (model.FormResponse, error)
	DeleteResponse(ctx context.Context, formID, responseID int) error
	FlagResponse(ctx context.Context, formID, responseID int) error
}
