package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/formforge/formforge/app"
	"github.com/formforge/formforge/form"
	"github.com/formforge/formforge/httpx"
	"github.com/formforge/formforge/log"
	"github.com/formforge/formforge/model"
	"github.com/formforge/formforge/store"
)

func urlParamInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}

type createFormRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Fields      []model.FormField `json:"fields"`
}

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFormRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if req.Title == "" {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "create_form.title", "title is required")
			return
		}

		f := form.New(req.Title, req.Description)
		for _, fld := range req.Fields {
			fld.ID = 0
			if _, err := form.AddField(&f, fld); err != nil {
				renderDomainError(w, r, "create_form.fields", err)
				return
			}
		}

		f, err := app.Store.SaveForm(r.Context(), f)
		if err != nil {
			renderDomainError(w, r, "db.insert_form", err)
			return
		}

		log.Infof("form created: %s (lineage %s)", f.Slug, f.LineageID)
		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, f)
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := app.Store.ListForms(r.Context())
		if err != nil {
			renderDomainError(w, r, "db.get_forms", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		f, err := app.Store.LoadForm(r.Context(), formID)
		if err != nil {
			renderDomainError(w, r, "db.get_form", err)
			return
		}

		render.JSON(w, r, f)
	}
}

type updateFormRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var req updateFormRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		f, err := app.Store.LoadForm(r.Context(), formID)
		if err != nil {
			renderDomainError(w, r, "db.get_form", err)
			return
		}
		if err := form.EnsureEditable(f); err != nil {
			renderDomainError(w, r, "update_form.editable", err)
			return
		}

		if req.Title != nil {
			f.Title = *req.Title
		}
		if req.Description != nil {
			f.Description = *req.Description
		}

		f, err = app.Store.SaveForm(r.Context(), f)
		if err != nil {
			renderDomainError(w, r, "db.update_form", err)
			return
		}

		render.JSON(w, r, f)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		if err := app.Store.DeleteForm(r.Context(), formID); err != nil {
			renderDomainError(w, r, "db.delete_form", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// PublishForm promotes a draft. The lineage's previously published
// version (if any) is archived first, so the partial unique index on
// published slugs never trips for an honest publish.
func PublishForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		f, err := app.Store.LoadForm(r.Context(), formID)
		if err != nil {
			renderDomainError(w, r, "db.get_form", err)
			return
		}

		prev, err := app.Store.LoadPublishedInLineage(r.Context(), f.LineageID)
		switch {
		case err == nil && prev.ID != f.ID:
			prev, err = form.Archive(prev)
			if err != nil {
				renderDomainError(w, r, "publish_form.archive_previous", err)
				return
			}
			if _, err = app.Store.SaveForm(r.Context(), prev); err != nil {
				renderDomainError(w, r, "db.archive_previous", err)
				return
			}
			log.Infof("form archived: %s (v%d), superseded by v%d", prev.Slug, prev.Version, f.Version)
		case err != nil && !errors.Is(err, store.ErrNotFound):
			renderDomainError(w, r, "db.get_published", err)
			return
		}

		f, err = form.Publish(f, time.Now())
		if err != nil {
			renderDomainError(w, r, "publish_form", err)
			return
		}

		f, err = app.Store.SaveForm(r.Context(), f)
		if err != nil {
			renderDomainError(w, r, "db.publish_form", err)
			return
		}

		log.Infof("form published: %s (v%d)", f.Slug, f.Version)
		render.JSON(w, r, f)
	}
}

// CreateDraft forks a published form into the lineage's next version.
// Asking for a draft of a draft just returns the form itself.
func CreateDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		f, err := app.Store.LoadForm(r.Context(), formID)
		if err != nil {
			renderDomainError(w, r, "db.get_form", err)
			return
		}

		if f.Status == model.StatusDraft {
			render.JSON(w, r, f)
			return
		}

		draft, err := form.CloneDraft(f)
		if err != nil {
			renderDomainError(w, r, "create_draft", err)
			return
		}

		draft, err = app.Store.SaveForm(r.Context(), draft)
		if err != nil {
			renderDomainError(w, r, "db.insert_draft", err)
			return
		}

		log.Infof("draft created: %s (v%d) from form %d", draft.Slug, draft.Version, formID)
		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, draft)
	}
}

func ArchiveForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		f, err := app.Store.LoadForm(r.Context(), formID)
		if err != nil {
			renderDomainError(w, r, "db.get_form", err)
			return
		}

		f, err = form.Archive(f)
		if err != nil {
			renderDomainError(w, r, "archive_form", err)
			return
		}

		f, err = app.Store.SaveForm(r.Context(), f)
		if err != nil {
			renderDomainError(w, r, "db.archive_form", err)
			return
		}

		log.Infof("form archived: %s (v%d)", f.Slug, f.Version)
		render.JSON(w, r, f)
	}
}
