package routes

import (
	"mime"
	"net/http"
	"time"

	urlform "github.com/ajg/form"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/formforge/formforge/app"
	"github.com/formforge/formforge/httpx"
	"github.com/formforge/formforge/log"
	"github.com/formforge/formforge/model"
	"github.com/formforge/formforge/submit"
)

// publicForm is the public-safe projection of a published form: no
// lineage or version internals, just what rendering and submitting
// need. ServerTime seeds the client's loadTimestamp for the dwell
// check.
type publicForm struct {
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Fields      []publicField `json:"fields"`
	ServerTime  int64         `json:"serverTime"`
}

type publicField struct {
	FieldKey     string   `json:"fieldKey"`
	FieldType    string   `json:"fieldType"`
	Label        string   `json:"label"`
	Placeholder  string   `json:"placeholder,omitempty"`
	HelpText     string   `json:"helpText,omitempty"`
	Required     bool     `json:"required"`
	Options      []string `json:"options,omitempty"`
	DefaultValue string   `json:"defaultValue,omitempty"`
}

func projectPublic(f model.Form, now time.Time) publicForm {
	p := publicForm{
		Slug:        f.Slug,
		Title:       f.Title,
		Description: f.Description,
		Fields:      make([]publicField, len(f.Fields)),
		ServerTime:  now.UnixMilli(),
	}
	for i, fld := range f.Fields {
		p.Fields[i] = publicField{
			FieldKey:     fld.FieldKey,
			FieldType:    string(fld.FieldType),
			Label:        fld.Label,
			Placeholder:  fld.Placeholder,
			HelpText:     fld.HelpText,
			Required:     fld.Required,
			Options:      fld.Config.Options,
			DefaultValue: fld.DefaultValue,
		}
	}
	return p
}

func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		f, err := app.Store.LoadPublishedBySlug(r.Context(), slug)
		if err != nil {
			renderDomainError(w, r, "public.get_form", err)
			return
		}

		render.JSON(w, r, projectPublic(f, time.Now()))
	}
}

// PublicSubmitForm accepts JSON bodies and plain urlencoded HTML form
// posts (values.<fieldKey>=... style).
func PublicSubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		var req submit.Request
		if err := decodeSubmission(r, &req); err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		f, err := app.Store.LoadPublishedBySlug(r.Context(), slug)
		if err != nil {
			renderDomainError(w, r, "public.get_form", err)
			return
		}

		resp, err := submit.Submit(f, req, clientIP(r), time.Now(), app.Guard)
		if err != nil {
			renderDomainError(w, r, "public.submit", err)
			return
		}

		resp, err = app.Store.SaveResponse(r.Context(), resp)
		if err != nil {
			renderDomainError(w, r, "db.insert_response", err)
			return
		}

		log.Infof("response submitted: %d for form %s (v%d)", resp.ID, slug, resp.FormVersion)
		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":      resp.ID,
			"message": "Thank you! Your response has been recorded.",
		})
	}
}

func decodeSubmission(r *http.Request, req *submit.Request) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" {
		return urlform.NewDecoder(r.Body).Decode(req)
	}
	return render.DecodeJSON(r.Body, req)
}
