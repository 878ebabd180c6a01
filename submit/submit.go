// Package submit validates raw submissions against a published form
// snapshot and materializes the response aggregate. It has no side
// effects; persistence belongs to the store.
package submit

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/formforge/formforge/field"
	"github.com/formforge/formforge/model"
)

// Request is the public submission payload. Field tags cover both JSON
// bodies and plain urlencoded HTML form posts ("values.email=...").
type Request struct {
	Values        map[string]string `json:"values" form:"values"`
	Honeypot      string            `json:"honeypot" form:"honeypot"`
	LoadTimestamp int64             `json:"loadTimestamp" form:"loadTimestamp"`
}

// ValidationErrors maps fieldKey to the first problem found for that
// field. It is always returned complete: the caller can show every
// broken field at once instead of one per round trip.
type ValidationErrors map[string]field.Error

func (ve ValidationErrors) Error() string {
	keys := make([]string, 0, len(ve))
	for k := range ve {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed for %s", strings.Join(keys, ", "))
}

// Validate checks values against the snapshot's fields in display
// order and returns either the full coerced value map or every
// per-field error. Submitted keys that match no field are dropped.
func Validate(snapshot model.Form, values map[string]string) (map[string]any, ValidationErrors) {
	fields := make([]model.FormField, len(snapshot.Fields))
	copy(fields, snapshot.Fields)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Order < fields[j].Order })

	errs := ValidationErrors{}
	coerced := make(map[string]any, len(values))

	for _, fld := range fields {
		h, ok := field.Lookup(fld.FieldType)
		if !ok {
			errs[fld.FieldKey] = field.Error{
				Kind:    field.InvalidFormat,
				Message: fmt.Sprintf("unknown field type %q", fld.FieldType),
			}
			continue
		}

		raw, submitted := values[fld.FieldKey]

		if h.Empty(raw) {
			if fld.Required {
				errs[fld.FieldKey] = field.Error{
					Kind:    field.Required,
					Message: fld.Label + " is required",
				}
			} else if submitted {
				// e.g. an unchecked checkbox is a valid "no"
				coerced[fld.FieldKey] = h.Coerce(raw)
			}
			continue
		}

		if err := h.Validate(raw, fld.Config); err != nil {
			errs[fld.FieldKey] = *err
			continue
		}
		coerced[fld.FieldKey] = h.Coerce(raw)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return coerced, nil
}

// Submit is the whole public write path: anti-automation guard first,
// then batched field validation, then the response aggregate. Returned
// errors are either ErrRejected (wrapped) or a ValidationErrors value.
func Submit(snapshot model.Form, req Request, ip string, now time.Time, guard Guard) (model.FormResponse, error) {
	if err := guard.Check(req.Honeypot, req.LoadTimestamp, now); err != nil {
		return model.FormResponse{}, err
	}

	values, errs := Validate(snapshot, req.Values)
	if errs != nil {
		return model.FormResponse{}, errs
	}

	return model.FormResponse{
		FormID:      snapshot.ID,
		FormVersion: snapshot.Version,
		Values:      values,
		SubmittedAt: now,
		IP:          ip,
		Status:      model.ResponseAccepted,
		Schema:      snapshot.Fields,
	}, nil
}
