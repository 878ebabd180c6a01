package routes

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/formforge/formforge/app"
	"github.com/formforge/formforge/form"
	"github.com/formforge/formforge/httpx"
	"github.com/formforge/formforge/log"
	"github.com/formforge/formforge/model"
)

func ListFields(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		fields, err := app.Store.LoadFieldsOrdered(r.Context(), formID)
		if err != nil {
			renderDomainError(w, r, "db.get_fields", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"fields": fields,
		})
	}
}

func CreateField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var fld model.FormField
		if err := render.DecodeJSON(r.Body, &fld); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		fld.ID = 0

		f, err := app.Store.LoadForm(r.Context(), formID)
		if err != nil {
			renderDomainError(w, r, "db.get_form", err)
			return
		}

		added, err := form.AddField(&f, fld)
		if err != nil {
			renderDomainError(w, r, "create_field", err)
			return
		}

		f, err = app.Store.SaveForm(r.Context(), f)
		if err != nil {
			renderDomainError(w, r, "db.insert_field", err)
			return
		}

		// saving assigned the id
		for _, saved := range f.Fields {
			if saved.FieldKey == added.FieldKey {
				added = saved
				break
			}
		}

		log.Infof("field created: %s for form %d", added.FieldKey, formID)
		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, added)
	}
}

func UpdateField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}
		fieldID, err := urlParamInt(r, "fieldId")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.field_id")
			return
		}

		var patch form.FieldPatch
		if err := render.DecodeJSON(r.Body, &patch); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		f, err := app.Store.LoadForm(r.Context(), formID)
		if err != nil {
			renderDomainError(w, r, "db.get_form", err)
			return
		}

		updated, err := form.UpdateField(&f, fieldID, patch)
		if err != nil {
			renderDomainError(w, r, "update_field", err)
			return
		}

		if _, err = app.Store.SaveForm(r.Context(), f); err != nil {
			renderDomainError(w, r, "db.update_field", err)
			return
		}

		log.Infof("field updated: %s", updated.FieldKey)
		render.JSON(w, r, updated)
	}
}

func DeleteField(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}
		fieldID, err := urlParamInt(r, "fieldId")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.field_id")
			return
		}

		f, err := app.Store.LoadForm(r.Context(), formID)
		if err != nil {
			renderDomainError(w, r, "db.get_form", err)
			return
		}

		if err := form.DeleteField(&f, fieldID); err != nil {
			renderDomainError(w, r, "delete_field", err)
			return
		}

		if _, err = app.Store.SaveForm(r.Context(), f); err != nil {
			renderDomainError(w, r, "db.delete_field", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type reorderFieldsRequest struct {
	FieldIDs []int `json:"fieldIds"`
}

func ReorderFields(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var req reorderFieldsRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		f, err := app.Store.LoadForm(r.Context(), formID)
		if err != nil {
			renderDomainError(w, r, "db.get_form", err)
			return
		}

		if err := form.Reorder(&f, req.FieldIDs); err != nil {
			renderDomainError(w, r, "reorder_fields", err)
			return
		}

		f, err = app.Store.SaveForm(r.Context(), f)
		if err != nil {
			renderDomainError(w, r, "db.reorder_fields", err)
			return
		}

		log.Infof("fields reordered for form %d", formID)
		render.JSON(w, r, map[string]any{
			"fields": f.Fields,
		})
	}
}
