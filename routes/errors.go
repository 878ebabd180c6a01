package routes

import (
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/formforge/formforge/form"
	"github.com/formforge/formforge/httpx"
	"github.com/formforge/formforge/log"
	"github.com/formforge/formforge/store"
	"github.com/formforge/formforge/submit"
)

// renderDomainError maps core errors onto the HTTP surface. Validation
// failures go back in full; anti-automation trips stay deliberately
// vague (the detail is only logged).
func renderDomainError(w http.ResponseWriter, r *http.Request, code string, err error) {
	var verrs submit.ValidationErrors

	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		kinds := make(map[string]string, len(verrs))
		for key, fe := range verrs {
			fields[key] = fe.Message
			kinds[key] = string(fe.Kind)
		}
		log.Debugf("%s: %s", code, err)
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, map[string]any{
			"error":  "validation_failed",
			"fields": fields,
			"kinds":  kinds,
		})

	case errors.Is(err, submit.ErrRejected):
		log.Warnf("%s: %s", code, err)
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, map[string]any{"error": "invalid_submission"})

	case errors.Is(err, store.ErrNotFound), errors.Is(err, form.ErrFieldNotFound):
		httpx.LogNotFound(w, code, err)

	case errors.Is(err, form.ErrFormNotEditable), errors.Is(err, form.ErrInvalidTransition):
		httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, code, "%s", err)

	case errors.Is(err, form.ErrEmptyForm),
		errors.Is(err, form.ErrEmptyFieldLabel),
		errors.Is(err, form.ErrDuplicateFieldKey),
		errors.Is(err, form.ErrUnknownFieldType),
		errors.Is(err, form.ErrBadFieldOrder):
		httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, code, "%s", err)

	default:
		httpx.LogInternalError(w, code, err)
	}
}

// clientIP prefers proxy headers over the socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
