package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/formforge/formforge/model"
)

type sqlStore struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) Store {
	return &sqlStore{db}
}

const formColumns = `id, lineage_id, slug, title, description, status, version, published_at`

func (s *sqlStore) LoadForm(ctx context.Context, id int) (model.Form, error) {
	return s.loadFormWhere(ctx, `id = ?`, id)
}

func (s *sqlStore) LoadPublishedBySlug(ctx context.Context, slug string) (model.Form, error) {
	return s.loadFormWhere(ctx, `slug = ? AND status = ?`, slug, model.StatusPublished)
}

func (s *sqlStore) LoadPublishedInLineage(ctx context.Context, lineageID string) (model.Form, error) {
	return s.loadFormWhere(ctx, `lineage_id = ? AND status = ?`, lineageID, model.StatusPublished)
}

func (s *sqlStore) loadFormWhere(ctx context.Context, where string, args ...any) (f model.Form, err error) {
	var publishedAt sql.NullTime
	err = s.db.QueryRowContext(ctx, `
		SELECT `+formColumns+`
		FROM form
		WHERE deleted = 0 AND `+where,
		args...,
	).Scan(&f.ID, &f.LineageID, &f.Slug, &f.Title, &f.Description, &f.Status, &f.Version, &publishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return f, ErrNotFound
	}
	if err != nil {
		return f, errors.Wrap(err, "load form")
	}
	if publishedAt.Valid {
		f.PublishedAt = &publishedAt.Time
	}

	f.Fields, err = s.LoadFieldsOrdered(ctx, f.ID)
	if err != nil {
		return f, err
	}
	f.ResponseCount, err = s.CountResponses(ctx, f.ID)
	return f, err
}

func (s *sqlStore) ListForms(ctx context.Context) ([]model.Form, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+formColumns+`,
			(SELECT COUNT(*) FROM form_response r WHERE r.form_id = form.id)
		FROM form
		WHERE deleted = 0
		ORDER BY lineage_id, version DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list forms")
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		var f model.Form
		var publishedAt sql.NullTime
		err = rows.Scan(&f.ID, &f.LineageID, &f.Slug, &f.Title, &f.Description,
			&f.Status, &f.Version, &publishedAt, &f.ResponseCount)
		if err != nil {
			return nil, errors.Wrap(err, "list forms: scan")
		}
		if publishedAt.Valid {
			f.PublishedAt = &publishedAt.Time
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// SaveForm writes the form row and synchronizes its field set in one
// transaction. Existing fields keep their ids so that reorder payloads
// taken from an earlier read stay valid.
func (s *sqlStore) SaveForm(ctx context.Context, f model.Form) (model.Form, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return f, errors.Wrap(err, "save form: begin tx")
	}
	defer tx.Rollback()

	if f.ID == 0 {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO form (lineage_id, slug, title, description, status, version, published_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			f.LineageID, f.Slug, f.Title, f.Description, f.Status, f.Version, f.PublishedAt,
		).Scan(&f.ID)
		if err != nil {
			return f, errors.Wrap(err, "save form: insert")
		}
	} else {
		res, err := tx.ExecContext(ctx, `
			UPDATE form
			SET title = ?, description = ?, status = ?, version = ?, published_at = ?
			WHERE id = ? AND deleted = 0`,
			f.Title, f.Description, f.Status, f.Version, f.PublishedAt, f.ID)
		if err != nil {
			return f, errors.Wrap(err, "save form: update")
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return f, ErrNotFound
		}
	}

	if err := syncFields(ctx, tx, &f); err != nil {
		return f, err
	}

	if err := tx.Commit(); err != nil {
		return f, errors.Wrap(err, "save form: commit")
	}
	return f, nil
}

func syncFields(ctx context.Context, tx *sql.Tx, f *model.Form) error {
	keep := make(map[int]bool, len(f.Fields))

	update, err := tx.PrepareContext(ctx, `
		UPDATE form_field
		SET field_key = ?, field_type = ?, label = ?, placeholder = ?, help_text = ?,
			required = ?, display_order = ?, field_config = ?, default_value = ?
		WHERE id = ? AND form_id = ?`)
	if err != nil {
		return errors.Wrap(err, "save form: fields: prepare update")
	}
	defer update.Close()

	for i := range f.Fields {
		fld := &f.Fields[i]
		cfg, err := json.Marshal(fld.Config)
		if err != nil {
			return errors.Wrap(err, "save form: fields: marshal config")
		}

		if fld.ID == 0 {
			err = tx.QueryRowContext(ctx, `
				INSERT INTO form_field
					(form_id, field_key, field_type, label, placeholder, help_text,
					 required, display_order, field_config, default_value)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				RETURNING id`,
				f.ID, fld.FieldKey, fld.FieldType, fld.Label, fld.Placeholder, fld.HelpText,
				fld.Required, fld.Order, string(cfg), fld.DefaultValue,
			).Scan(&fld.ID)
			if err != nil {
				return errors.Wrap(err, "save form: fields: insert")
			}
		} else {
			_, err = update.ExecContext(ctx,
				fld.FieldKey, fld.FieldType, fld.Label, fld.Placeholder, fld.HelpText,
				fld.Required, fld.Order, string(cfg), fld.DefaultValue,
				fld.ID, f.ID)
			if err != nil {
				return errors.Wrap(err, "save form: fields: update")
			}
		}
		keep[fld.ID] = true
	}

	rows, err := tx.QueryContext(ctx, `SELECT id FROM form_field WHERE form_id = ?`, f.ID)
	if err != nil {
		return errors.Wrap(err, "save form: fields: list")
	}
	defer rows.Close()

	var stale []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return errors.Wrap(err, "save form: fields: scan")
		}
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "save form: fields: list")
	}

	for _, id := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM form_field WHERE id = ?`, id); err != nil {
			return errors.Wrap(err, "save form: fields: delete")
		}
	}
	return nil
}

func (s *sqlStore) DeleteForm(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE form SET deleted = 1 WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		return errors.Wrap(err, "delete form")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqlStore) LoadFieldsOrdered(ctx context.Context, formID int) ([]model.FormField, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, field_key, field_type, label, placeholder, help_text,
			required, display_order, field_config, default_value
		FROM form_field
		WHERE form_id = ?
		ORDER BY display_order`,
		formID)
	if err != nil {
		return nil, errors.Wrap(err, "load fields")
	}
	defer rows.Close()

	fields := []model.FormField{}
	for rows.Next() {
		var fld model.FormField
		var cfg string
		err = rows.Scan(&fld.ID, &fld.FieldKey, &fld.FieldType, &fld.Label, &fld.Placeholder,
			&fld.HelpText, &fld.Required, &fld.Order, &cfg, &fld.DefaultValue)
		if err != nil {
			return nil, errors.Wrap(err, "load fields: scan")
		}
		if cfg != "" {
			if err := json.Unmarshal([]byte(cfg), &fld.Config); err != nil {
				return nil, errors.Wrap(err, "load fields: parse config")
			}
		}
		fields = append(fields, fld)
	}
	return fields, rows.Err()
}

func (s *sqlStore) SaveResponse(ctx context.Context, r model.FormResponse) (model.FormResponse, error) {
	values, err := json.Marshal(r.Values)
	if err != nil {
		return r, errors.Wrap(err, "save response: marshal values")
	}
	schema, err := json.Marshal(r.Schema)
	if err != nil {
		return r, errors.Wrap(err, "save response: marshal schema")
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO form_response (form_id, form_version, values_json, schema_json, submitted_at, ip, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		r.FormID, r.FormVersion, string(values), string(schema), r.SubmittedAt, r.IP, r.Status,
	).Scan(&r.ID)
	if err != nil {
		return r, errors.Wrap(err, "save response: insert")
	}
	return r, nil
}

func (s *sqlStore) CountResponses(ctx context.Context, formID int) (n int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM form_response WHERE form_id = ?`, formID).Scan(&n)
	return n, errors.Wrap(err, "count responses")
}

func (s *sqlStore) ListResponses(ctx context.Context, formID int) ([]model.FormResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, form_version, values_json, schema_json, submitted_at, ip, status
		FROM form_response
		WHERE form_id = ?
		ORDER BY submitted_at DESC, id DESC`,
		formID)
	if err != nil {
		return nil, errors.Wrap(err, "list responses")
	}
	defer rows.Close()

	responses := []model.FormResponse{}
	for rows.Next() {
		r, err := scanResponse(rows.Scan)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

func (s *sqlStore) LoadResponse(ctx context.Context, formID, responseID int) (model.FormResponse, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, form_id, form_version, values_json, schema_json, submitted_at, ip, status
		FROM form_response
		WHERE id = ? AND form_id = ?`,
		responseID, formID)

	r, err := scanResponse(row.Scan)
	if errors.Is(errors.Cause(err), sql.ErrNoRows) {
		return r, ErrNotFound
	}
	return r, err
}

func scanResponse(scan func(...any) error) (r model.FormResponse, err error) {
	var values, schema string
	var submittedAt time.Time
	err = scan(&r.ID, &r.FormID, &r.FormVersion, &values, &schema, &submittedAt, &r.IP, &r.Status)
	if err != nil {
		return r, errors.Wrap(err, "scan response")
	}
	r.SubmittedAt = submittedAt

	if err = json.Unmarshal([]byte(values), &r.Values); err != nil {
		return r, errors.Wrap(err, "scan response: parse values")
	}
	if err = json.Unmarshal([]byte(schema), &r.Schema); err != nil {
		return r, errors.Wrap(err, "scan response: parse schema")
	}
	return r, nil
}

func (s *sqlStore) DeleteResponse(ctx context.Context, formID, responseID int) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM form_response WHERE id = ? AND form_id = ?`, responseID, formID)
	if err != nil {
		return errors.Wrap(err, "delete response")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqlStore) FlagResponse(ctx context.Context, formID, responseID int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE form_response SET status = ? WHERE id = ? AND form_id = ?`,
		model.ResponseFlagged, responseID, formID)
	if err != nil {
		return errors.Wrap(err, "flag response")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
