package routes

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/go-chi/render"

	"github.com/formforge/formforge/app"
	"github.com/formforge/formforge/field"
	"github.com/formforge/formforge/httpx"
	"github.com/formforge/formforge/log"
	"github.com/formforge/formforge/model"
)

func ListResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		if _, err := app.Store.LoadForm(r.Context(), formID); err != nil {
			renderDomainError(w, r, "db.get_form", err)
			return
		}

		responses, err := app.Store.ListResponses(r.Context(), formID)
		if err != nil {
			renderDomainError(w, r, "db.get_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": responses,
		})
	}
}

func GetResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}
		responseID, err := urlParamInt(r, "responseId")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.response_id")
			return
		}

		resp, err := app.Store.LoadResponse(r.Context(), formID, responseID)
		if err != nil {
			renderDomainError(w, r, "db.get_response", err)
			return
		}

		render.JSON(w, r, resp)
	}
}

func DeleteResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}
		responseID, err := urlParamInt(r, "responseId")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.response_id")
			return
		}

		if err := app.Store.DeleteResponse(r.Context(), formID, responseID); err != nil {
			renderDomainError(w, r, "db.delete_response", err)
			return
		}

		log.Infof("response deleted: %d from form %d", responseID, formID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func FlagResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formID, err := urlParamInt(r, "id")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}
		responseID, err := urlParamInt(r, "responseId")
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.response_id")
			return
		}

		if err := app.Store.FlagResponse(r.Context(), formID, responseID); err != nil {
			renderDomainError(w, r, "db.flag_response", err)
			return
		}

		log.Warnf("response flagged: %d on form %d", responseID, formID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ExportResponses streams a form's responses as CSV. Columns follow the
// schema snapshot of the newest response, so exports stay correct even
// after the form was edited or archived.
func ExportResponses(app app.App) http.HandlerFunc {
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

		responses, err := app.Store.ListResponses(r.Context(), formID)
		if err != nil {
			renderDomainError(w, r, "db.get_responses", err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+f.Slug+`.csv"`)

		out := csv.NewWriter(w)

		header := []string{"submittedAt", "submissionIp"}
		var schema []string
		types := map[string]string{}
		if len(responses) > 0 {
			for _, fld := range responses[0].Schema {
				schema = append(schema, fld.FieldKey)
				types[fld.FieldKey] = string(fld.FieldType)
			}
		}
		header = append(header, schema...)
		if err := out.Write(header); err != nil {
			log.Errorf("export_responses.header: %s", err)
			return
		}

		for _, resp := range responses {
			row := []string{
				resp.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"),
				resp.IP,
			}
			for _, key := range schema {
				v, ok := resp.Values[key]
				if !ok {
					row = append(row, "")
					continue
				}
				row = append(row, formatValue(types[key], v))
			}
			if err := out.Write(row); err != nil {
				log.Errorf("export_responses.row: %s", err)
				return
			}
		}
		out.Flush()
		if err := out.Error(); err != nil {
			log.Errorf("export_responses.flush: %s", err)
		}
	}
}

func formatValue(fieldType string, v any) string {
	if fieldType != "" {
		return field.Format(model.FieldType(fieldType), v)
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}
