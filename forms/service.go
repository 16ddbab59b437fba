package forms

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/jmorel/formwell/apperr"
	"github.com/jmorel/formwell/model"
)

// Service owns every read and write on forms, questions and responses.
// Response and answer rows are create-only, they are never mutated once
// a submission commits.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// queryer is satisfied by both *sql.DB and *sql.Tx so lookups can run
// inside or outside a transaction.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func newID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// Authorize loads a form and checks ownership. With a nil user only
// existence is checked, which is what the anonymous submission path
// needs.
func (s *Service) Authorize(ctx context.Context, formID string, user *model.User) (model.Form, error) {
	form, err := getForm(ctx, s.db, formID)
	if err != nil {
		return model.Form{}, err
	}

	if user != nil && form.OwnerID != user.ID {
		return model.Form{}, apperr.New(apperr.Forbidden, "Access denied")
	}

	return form, nil
}

func getForm(ctx context.Context, q queryer, formID string) (form model.Form, err error) {
	err = q.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description,
			is_active, accepts_responses, requires_auth,
			response_count, created_at, updated_at
		FROM form
		WHERE id = ?`,
		formID,
	).Scan(
		&form.ID, &form.OwnerID, &form.Title, &form.Description,
		&form.IsActive, &form.AcceptsResponses, &form.RequiresAuth,
		&form.ResponseCount, &form.CreatedAt, &form.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return form, apperr.New(apperr.NotFound, "Form not found")
	}
	if err != nil {
		return form, errors.Wrap(err, "load form")
	}
	return form, nil
}

func (s *Service) Create(ctx context.Context, form model.Form) (model.Form, error) {
	form.ID = newID()
	now := time.Now().UTC()
	form.CreatedAt = now
	form.UpdatedAt = now
	form.ResponseCount = 0

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO form (id, owner_id, title, description,
			is_active, accepts_responses, requires_auth,
			response_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		form.ID, form.OwnerID, form.Title, form.Description,
		form.IsActive, form.AcceptsResponses, form.RequiresAuth,
		form.CreatedAt, form.UpdatedAt,
	)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "insert form")
	}

	return form, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string, skip, limit int) ([]model.Form, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description,
			is_active, accepts_responses, requires_auth,
			response_count, created_at, updated_at
		FROM form
		WHERE owner_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`,
		ownerID, limit, skip,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list forms")
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		f := model.Form{}
		err = rows.Scan(
			&f.ID, &f.OwnerID, &f.Title, &f.Description,
			&f.IsActive, &f.AcceptsResponses, &f.RequiresAuth,
			&f.ResponseCount, &f.CreatedAt, &f.UpdatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan form")
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// GetWithQuestions returns the form plus its questions in display
// order, assembled as one read DTO.
func (s *Service) GetWithQuestions(ctx context.Context, formID string, user *model.User) (model.FormWithQuestions, error) {
	form, err := s.Authorize(ctx, formID, user)
	if err != nil {
		return model.FormWithQuestions{}, err
	}

	questions, err := listQuestions(ctx, s.db, formID)
	if err != nil {
		return model.FormWithQuestions{}, err
	}

	return model.FormWithQuestions{Form: form, Questions: questions}, nil
}

// FormUpdate carries a partial update, nil fields are left untouched.
type FormUpdate struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	IsActive         *bool   `json:"is_active"`
	AcceptsResponses *bool   `json:"accepts_responses"`
	RequiresAuth     *bool   `json:"requires_auth"`
}

func (s *Service) Update(ctx context.Context, formID string, user *model.User, upd FormUpdate) (model.Form, error) {
	form, err := s.Authorize(ctx, formID, user)
	if err != nil {
		return model.Form{}, err
	}

	if upd.Title != nil {
		form.Title = *upd.Title
	}
	if upd.Description != nil {
		form.Description = *upd.Description
	}
	if upd.IsActive != nil {
		form.IsActive = *upd.IsActive
	}
	if upd.AcceptsResponses != nil {
		form.AcceptsResponses = *upd.AcceptsResponses
	}
	if upd.RequiresAuth != nil {
		form.RequiresAuth = *upd.RequiresAuth
	}
	form.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE form
		SET title = ?,
			description = ?,
			is_active = ?,
			accepts_responses = ?,
			requires_auth = ?,
			updated_at = ?
		WHERE id = ?`,
		form.Title, form.Description,
		form.IsActive, form.AcceptsResponses, form.RequiresAuth,
		form.UpdatedAt, form.ID,
	)
	if err != nil {
		return model.Form{}, errors.Wrap(err, "update form")
	}

	return form, nil
}

// Delete removes a form; questions, responses and answers go with it
// through the schema's cascading foreign keys.
func (s *Service) Delete(ctx context.Context, formID string, user *model.User) error {
	if _, err := s.Authorize(ctx, formID, user); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM form WHERE id = ?`, formID)
	return errors.Wrap(err, "delete form")
}
