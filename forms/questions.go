package forms

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/jmorel/formwell/apperr"
	"github.com/jmorel/formwell/model"
)

type QuestionInput struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        model.QuestionType `json:"question_type"`
	IsRequired  bool               `json:"is_required"`
	Order       int                `json:"order"`
	Options     []string           `json:"options"`
	MinLength   *int               `json:"min_length"`
	MaxLength   *int               `json:"max_length"`
	MinValue    *float64           `json:"min_value"`
	MaxValue    *float64           `json:"max_value"`
}

func checkQuestionShape(qType model.QuestionType, order int, options []string) error {
	if !qType.Known() {
		return apperr.New(apperr.BadRequest, fmt.Sprintf("Unknown question type: %s", qType))
	}
	if order < 0 {
		return apperr.New(apperr.BadRequest, "Question order must be non-negative")
	}
	if qType.NeedsOptions() && len(options) == 0 {
		return apperr.New(apperr.BadRequest, fmt.Sprintf("%s requires options", qType))
	}
	if !qType.NeedsOptions() && len(options) > 0 {
		return apperr.New(apperr.BadRequest, fmt.Sprintf("%s does not take options", qType))
	}
	return nil
}

func (s *Service) CreateQuestion(ctx context.Context, formID string, user *model.User, in QuestionInput) (model.Question, error) {
	if _, err := s.Authorize(ctx, formID, user); err != nil {
		return model.Question{}, err
	}

	if in.Title == "" {
		return model.Question{}, apperr.New(apperr.BadRequest, "Question title is required")
	}
	if err := checkQuestionShape(in.Type, in.Order, in.Options); err != nil {
		return model.Question{}, err
	}

	now := time.Now().UTC()
	q := model.Question{
		ID:          newID(),
		FormID:      formID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		IsRequired:  in.IsRequired,
		Order:       in.Order,
		Options:     in.Options,
		MinLength:   in.MinLength,
		MaxLength:   in.MaxLength,
		MinValue:    in.MinValue,
		MaxValue:    in.MaxValue,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	optionsJson, err := encodeOptions(q.Options)
	if err != nil {
		return model.Question{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO question (id, form_id, title, description,
			question_type, is_required, ord, options,
			min_length, max_length, min_value, max_value,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.FormID, q.Title, q.Description,
		q.Type, q.IsRequired, q.Order, optionsJson,
		q.MinLength, q.MaxLength, q.MinValue, q.MaxValue,
		q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return model.Question{}, errors.Wrap(err, "insert question")
	}

	return q, nil
}

func (s *Service) ListQuestions(ctx context.Context, formID string, user *model.User) ([]model.Question, error) {
	if _, err := s.Authorize(ctx, formID, user); err != nil {
		return nil, err
	}
	return listQuestions(ctx, s.db, formID)
}

func listQuestions(ctx context.Context, q queryer, formID string) ([]model.Question, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, form_id, title, description,
			question_type, is_required, ord, options,
			min_length, max_length, min_value, max_value,
			created_at, updated_at
		FROM question
		WHERE form_id = ?
		ORDER BY ord, created_at`,
		formID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list questions")
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

func getQuestion(ctx context.Context, q queryer, formID, questionID string) (model.Question, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, form_id, title, description,
			question_type, is_required, ord, options,
			min_length, max_length, min_value, max_value,
			created_at, updated_at
		FROM question
		WHERE id = ? AND form_id = ?`,
		questionID, formID,
	)
	if err != nil {
		return model.Question{}, errors.Wrap(err, "load question")
	}
	defer rows.Close()

	if !rows.Next() {
		return model.Question{}, apperr.New(apperr.NotFound, "Question not found")
	}
	return scanQuestion(rows)
}

func scanQuestion(rows *sql.Rows) (q model.Question, err error) {
	var optionsJson string
	err = rows.Scan(
		&q.ID, &q.FormID, &q.Title, &q.Description,
		&q.Type, &q.IsRequired, &q.Order, &optionsJson,
		&q.MinLength, &q.MaxLength, &q.MinValue, &q.MaxValue,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return q, errors.Wrap(err, "scan question")
	}

	if optionsJson != "" {
		err = json.Unmarshal([]byte(optionsJson), &q.Options)
		if err != nil {
			return q, errors.Wrap(err, "parse question options")
		}
	}
	return q, nil
}

func encodeOptions(options []string) (string, error) {
	if options == nil {
		return "", nil
	}
	data, err := json.Marshal(options)
	if err != nil {
		return "", errors.Wrap(err, "encode question options")
	}
	return string(data), nil
}

// QuestionUpdate carries a partial update, nil fields are left untouched.
type QuestionUpdate struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Type        *model.QuestionType `json:"question_type"`
	IsRequired  *bool               `json:"is_required"`
	Order       *int                `json:"order"`
	Options     []string            `json:"options"`
	MinLength   *int                `json:"min_length"`
	MaxLength   *int                `json:"max_length"`
	MinValue    *float64            `json:"min_value"`
	MaxValue    *float64            `json:"max_value"`
}

func (s *Service) UpdateQuestion(ctx context.Context, formID, questionID string, user *model.User, upd QuestionUpdate) (model.Question, error) {
	if _, err := s.Authorize(ctx, formID, user); err != nil {
		return model.Question{}, err
	}

	q, err := getQuestion(ctx, s.db, formID, questionID)
	if err != nil {
		return model.Question{}, err
	}

	if upd.Title != nil {
		q.Title = *upd.Title
	}
	if upd.Description != nil {
		q.Description = *upd.Description
	}
	if upd.Type != nil {
		q.Type = *upd.Type
	}
	if upd.IsRequired != nil {
		q.IsRequired = *upd.IsRequired
	}
	if upd.Order != nil {
		q.Order = *upd.Order
	}
	if upd.Options != nil {
		q.Options = upd.Options
	}
	if upd.MinLength != nil {
		q.MinLength = upd.MinLength
	}
	if upd.MaxLength != nil {
		q.MaxLength = upd.MaxLength
	}
	if upd.MinValue != nil {
		q.MinValue = upd.MinValue
	}
	if upd.MaxValue != nil {
		q.MaxValue = upd.MaxValue
	}

	if q.Title == "" {
		return model.Question{}, apperr.New(apperr.BadRequest, "Question title is required")
	}
	if err := checkQuestionShape(q.Type, q.Order, q.Options); err != nil {
		return model.Question{}, err
	}

	q.UpdatedAt = time.Now().UTC()

	optionsJson, err := encodeOptions(q.Options)
	if err != nil {
		return model.Question{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE question
		SET title = ?,
			description = ?,
			question_type = ?,
			is_required = ?,
			ord = ?,
			options = ?,
			min_length = ?,
			max_length = ?,
			min_value = ?,
			max_value = ?,
			updated_at = ?
		WHERE id = ? AND form_id = ?`,
		q.Title, q.Description, q.Type, q.IsRequired, q.Order, optionsJson,
		q.MinLength, q.MaxLength, q.MinValue, q.MaxValue,
		q.UpdatedAt, q.ID, q.FormID,
	)
	if err != nil {
		return model.Question{}, errors.Wrap(err, "update question")
	}

	return q, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, formID, questionID string, user *model.User) error {
	if _, err := s.Authorize(ctx, formID, user); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM question
		WHERE id = ? AND form_id = ?`,
		questionID, formID,
	)
	if err != nil {
		return errors.Wrap(err, "delete question")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete question.verify")
	}
	if n < 1 {
		return apperr.New(apperr.NotFound, "Question not found")
	}
	return nil
}

// QuestionOrder is one entry of a reorder request.
type QuestionOrder struct {
	QuestionID string `json:"question_id"`
	Order      int    `json:"order"`
}

// ReorderQuestions applies new display orders in a single transaction,
// ids not belonging to the form are ignored.
func (s *Service) ReorderQuestions(ctx context.Context, formID string, user *model.User, orders []QuestionOrder) ([]model.Question, error) {
	if _, err := s.Authorize(ctx, formID, user); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE question
		SET ord = ?, updated_at = ?
		WHERE id = ? AND form_id = ?`)
	if err != nil {
		return nil, errors.Wrap(err, "reorder questions.prepare")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, o := range orders {
		if o.Order < 0 {
			return nil, apperr.New(apperr.BadRequest, "Question order must be non-negative")
		}
		_, err = stmt.ExecContext(ctx, o.Order, now, o.QuestionID, formID)
		if err != nil {
			return nil, errors.Wrap(err, "reorder questions.update")
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "reorder questions.commit")
	}

	return listQuestions(ctx, s.db, formID)
}
