package forms_test

import (
	"context"
	"testing"

	"github.com/jmorel/formwell/apperr"
	"github.com/jmorel/formwell/forms"
	"github.com/jmorel/formwell/model"
	"github.com/jmorel/formwell/testutil"
)

func TestAuthorize(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "alice")
	stranger := testutil.CreateUser(t, db, "mallory")
	form := testutil.CreateForm(t, db, owner)
	svc := forms.NewService(db)
	ctx := context.Background()

	if _, err := svc.Authorize(ctx, form.ID, &owner); err != nil {
		t.Errorf("owner should be authorized: %v", err)
	}

	_, err := svc.Authorize(ctx, form.ID, &stranger)
	if apperr.KindOf(err) != apperr.Forbidden {
		t.Errorf("stranger should get Forbidden, got %v", err)
	}
	if err != nil && err.Error() != "Access denied" {
		t.Errorf("unexpected message: %v", err)
	}

	// nil user only checks existence
	if _, err := svc.Authorize(ctx, form.ID, nil); err != nil {
		t.Errorf("anonymous existence check failed: %v", err)
	}

	_, err = svc.Authorize(ctx, "no-such-form", &owner)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("missing form should get NotFound, got %v", err)
	}
}

func TestUpdateForm(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "alice")
	form := testutil.CreateForm(t, db, owner)
	svc := forms.NewService(db)
	ctx := context.Background()

	title := "Renamed"
	closed := false
	updated, err := svc.Update(ctx, form.ID, &owner, forms.FormUpdate{
		Title:            &title,
		AcceptsResponses: &closed,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Renamed" || updated.AcceptsResponses {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Description != form.Description || updated.RequiresAuth != form.RequiresAuth {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.UpdatedAt.Before(form.UpdatedAt) {
		t.Errorf("updated_at went backwards")
	}
}

func TestDeleteFormCascades(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "alice")
	form := testutil.CreateForm(t, db, owner)
	question := testutil.CreateQuestion(t, db, form, owner, forms.QuestionInput{
		Title: "Name",
		Type:  model.ShortText,
	})
	svc := forms.NewService(db)
	ctx := context.Background()

	_, err := svc.Submit(ctx, form.ID, model.Submission{
		Answers: []model.AnswerInput{
			{QuestionID: question.ID, Value: model.StringValue("John")},
		},
	}, nil, forms.Meta{})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := svc.Delete(ctx, form.ID, &owner); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for _, table := range []string{"question", "form_response", "answer"} {
		var n int
		err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n)
		if err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s rows not cascaded, %d left", table, n)
		}
	}
}

func TestCreateQuestionOptionRules(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "alice")
	form := testutil.CreateForm(t, db, owner)
	svc := forms.NewService(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   forms.QuestionInput
		wantBad bool
	}{
		{
			name:  "choice with options",
			input: forms.QuestionInput{Title: "Color", Type: model.Dropdown, Options: []string{"Red"}},
		},
		{
			name:    "choice without options",
			input:   forms.QuestionInput{Title: "Color", Type: model.MultipleChoice},
			wantBad: true,
		},
		{
			name:    "text with options",
			input:   forms.QuestionInput{Title: "Name", Type: model.ShortText, Options: []string{"x"}},
			wantBad: true,
		},
		{
			name:    "unknown type",
			input:   forms.QuestionInput{Title: "X", Type: model.QuestionType("rating")},
			wantBad: true,
		},
		{
			name:    "negative order",
			input:   forms.QuestionInput{Title: "Name", Type: model.ShortText, Order: -1},
			wantBad: true,
		},
		{
			name:    "missing title",
			input:   forms.QuestionInput{Type: model.ShortText},
			wantBad: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateQuestion(ctx, form.ID, &owner, tt.input)
			if tt.wantBad && apperr.KindOf(err) != apperr.BadRequest {
				t.Errorf("expected BadRequest, got %v", err)
			}
			if !tt.wantBad && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestReorderQuestions(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "alice")
	form := testutil.CreateForm(t, db, owner)
	first := testutil.CreateQuestion(t, db, form, owner, forms.QuestionInput{
		Title: "First", Type: model.ShortText, Order: 0,
	})
	second := testutil.CreateQuestion(t, db, form, owner, forms.QuestionInput{
		Title: "Second", Type: model.ShortText, Order: 1,
	})
	svc := forms.NewService(db)

	questions, err := svc.ReorderQuestions(context.Background(), form.ID, &owner, []forms.QuestionOrder{
		{QuestionID: first.ID, Order: 5},
		{QuestionID: second.ID, Order: 2},
	})
	if err != nil {
		t.Fatalf("ReorderQuestions failed: %v", err)
	}

	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].ID != second.ID || questions[1].ID != first.ID {
		t.Errorf("questions not reordered: %v, %v", questions[0].Title, questions[1].Title)
	}
}
