package forms

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/jmorel/formwell/apperr"
	"github.com/jmorel/formwell/model"
	"github.com/jmorel/formwell/validation"
)

// Meta is best-effort request metadata recorded with a submission.
type Meta struct {
	IPAddress string
	UserAgent string
}

// Submit runs the whole submission pipeline: policy checks, answer
// validation, then the response row, its answer rows and the form
// counter bump as one transaction. Either everything commits or nothing
// is visible to a subsequent read.
func (s *Service) Submit(ctx context.Context, formID string, sub model.Submission, respondent *model.User, meta Meta) (model.ResponseDetail, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ResponseDetail{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	form, err := getForm(ctx, tx, formID)
	if err != nil {
		return model.ResponseDetail{}, err
	}

	if !form.AcceptsResponses {
		return model.ResponseDetail{}, apperr.New(apperr.Forbidden, "Form is not accepting responses")
	}
	if form.RequiresAuth && respondent == nil {
		return model.ResponseDetail{}, apperr.New(apperr.Forbidden, "Authentication required")
	}

	questions, err := listQuestions(ctx, tx, formID)
	if err != nil {
		return model.ResponseDetail{}, err
	}

	if ok, reasons := validation.Validate(questions, sub.Answers); !ok {
		return model.ResponseDetail{}, invalidAnswers(reasons)
	}

	response := model.FormResponse{
		ID:          newID(),
		FormID:      formID,
		SubmittedAt: time.Now().UTC(),
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		IsComplete:  true,
		IsValid:     true,
	}
	if respondent != nil {
		id := respondent.ID
		response.RespondentID = &id
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO form_response (id, form_id, respondent_id,
			submitted_at, ip_address, user_agent, is_complete, is_valid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		response.ID, response.FormID, response.RespondentID,
		response.SubmittedAt, response.IPAddress, response.UserAgent,
		response.IsComplete, response.IsValid,
	)
	if err != nil {
		return model.ResponseDetail{}, errors.Wrap(err, "insert response")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO answer (id, response_id, question_id, value, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return model.ResponseDetail{}, errors.Wrap(err, "insert answers.prepare")
	}
	defer stmt.Close()

	answers := make([]model.Answer, 0, len(sub.Answers))
	for _, in := range sub.Answers {
		a := model.Answer{
			ID:         newID(),
			ResponseID: response.ID,
			QuestionID: in.QuestionID,
			Value:      in.Value,
			CreatedAt:  response.SubmittedAt,
		}

		valueJson, err := a.Value.Encode()
		if err != nil {
			return model.ResponseDetail{}, errors.Wrap(err, "insert answers.encode_value")
		}
		_, err = stmt.ExecContext(ctx, a.ID, a.ResponseID, a.QuestionID, valueJson, a.CreatedAt)
		if err != nil {
			return model.ResponseDetail{}, errors.Wrap(err, "insert answers.insert")
		}

		answers = append(answers, a)
	}

	// single atomic bump, no read-modify-write of the counter
	_, err = tx.ExecContext(ctx, `
		UPDATE form
		SET response_count = response_count + 1,
			updated_at = ?
		WHERE id = ?`,
		response.SubmittedAt, formID,
	)
	if err != nil {
		return model.ResponseDetail{}, errors.Wrap(err, "bump response count")
	}

	if err = tx.Commit(); err != nil {
		return model.ResponseDetail{}, errors.Wrap(err, "commit submission")
	}

	return model.ResponseDetail{FormResponse: response, Answers: answers}, nil
}

func invalidAnswers(reasons []string) error {
	var merr *multierror.Error
	for _, reason := range reasons {
		merr = multierror.Append(merr, errors.New(reason))
	}
	merr.ErrorFormat = func(errs []error) string {
		parts := make([]string, len(errs))
		for i, err := range errs {
			parts[i] = err.Error()
		}
		return strings.Join(parts, ", ")
	}
	return apperr.New(apperr.BadRequest, "Invalid answers: "+merr.Error())
}

// ListResponses returns a form's submissions, newest first, each with
// its answers. Owner-only.
func (s *Service) ListResponses(ctx context.Context, formID string, user *model.User, skip, limit int) ([]model.ResponseDetail, error) {
	if _, err := s.Authorize(ctx, formID, user); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, respondent_id,
			submitted_at, ip_address, user_agent, is_complete, is_valid
		FROM form_response
		WHERE form_id = ?
		ORDER BY submitted_at DESC
		LIMIT ? OFFSET ?`,
		formID, limit, skip,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list responses")
	}
	defer rows.Close()

	responses := []model.ResponseDetail{}
	for rows.Next() {
		r := model.FormResponse{}
		err = rows.Scan(
			&r.ID, &r.FormID, &r.RespondentID,
			&r.SubmittedAt, &r.IPAddress, &r.UserAgent, &r.IsComplete, &r.IsValid,
		)
		if err != nil {
			return nil, errors.Wrap(err, "scan response")
		}
		responses = append(responses, model.ResponseDetail{FormResponse: r})
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list responses")
	}

	for i := range responses {
		responses[i].Answers, err = listAnswers(ctx, s.db, responses[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return responses, nil
}

// ResponseDetail loads one submission with its answers, gated on the
// owning form's ownership.
func (s *Service) ResponseDetail(ctx context.Context, responseID string, user *model.User) (model.ResponseDetail, error) {
	r := model.FormResponse{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, form_id, respondent_id,
			submitted_at, ip_address, user_agent, is_complete, is_valid
		FROM form_response
		WHERE id = ?`,
		responseID,
	).Scan(
		&r.ID, &r.FormID, &r.RespondentID,
		&r.SubmittedAt, &r.IPAddress, &r.UserAgent, &r.IsComplete, &r.IsValid,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ResponseDetail{}, apperr.New(apperr.NotFound, "Response not found")
	}
	if err != nil {
		return model.ResponseDetail{}, errors.Wrap(err, "load response")
	}

	if _, err = s.Authorize(ctx, r.FormID, user); err != nil {
		return model.ResponseDetail{}, err
	}

	answers, err := listAnswers(ctx, s.db, r.ID)
	if err != nil {
		return model.ResponseDetail{}, err
	}

	return model.ResponseDetail{FormResponse: r, Answers: answers}, nil
}

func listAnswers(ctx context.Context, q queryer, responseID string) ([]model.Answer, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, response_id, question_id, value, created_at
		FROM answer
		WHERE response_id = ?
		ORDER BY created_at, id`,
		responseID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list answers")
	}
	defer rows.Close()

	answers := []model.Answer{}
	for rows.Next() {
		a := model.Answer{}
		var valueJson string
		err = rows.Scan(&a.ID, &a.ResponseID, &a.QuestionID, &valueJson, &a.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "scan answer")
		}

		a.Value, err = model.DecodeValue(valueJson)
		if err != nil {
			return nil, errors.Wrap(err, "parse answer value")
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
