package forms_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"

	"github.com/jmorel/formwell/apperr"
	"github.com/jmorel/formwell/forms"
	"github.com/jmorel/formwell/model"
	"github.com/jmorel/formwell/testutil"
)

func TestStatsRecentWindow(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "alice")
	form := testutil.CreateForm(t, db, owner)
	svc := forms.NewService(db)
	ctx := context.Background()

	// one fresh submission
	if _, err := svc.Submit(ctx, form.ID, model.Submission{}, nil, forms.Meta{}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// one submission older than the 7 day window, written directly
	old := time.Now().UTC().Add(-8 * 24 * time.Hour)
	_, err := db.Exec(`
		INSERT INTO form_response (id, form_id, submitted_at, is_complete, is_valid)
		VALUES (?, ?, ?, 1, 1)`,
		uuid.Must(uuid.NewV4()).String(), form.ID, old,
	)
	if err != nil {
		t.Fatalf("insert old response: %v", err)
	}

	stats, err := svc.Stats(ctx, form.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.TotalResponses != 2 {
		t.Errorf("TotalResponses = %d, want 2", stats.TotalResponses)
	}
	if stats.RecentResponses != 1 {
		t.Errorf("RecentResponses = %d, want 1", stats.RecentResponses)
	}
	if stats.CompletionRate != 1.0 {
		t.Errorf("CompletionRate = %v, want the 1.0 placeholder", stats.CompletionRate)
	}
	if stats.AverageCompletionTime != nil {
		t.Errorf("AverageCompletionTime should be absent, got %v", *stats.AverageCompletionTime)
	}
}

func TestStatsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "alice")
	form := testutil.CreateForm(t, db, owner)
	svc := forms.NewService(db)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, form.ID, model.Submission{}, nil, forms.Meta{}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	first, err := svc.Stats(ctx, form.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	second, err := svc.Stats(ctx, form.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if first != second {
		t.Errorf("stats changed without writes: %+v then %+v", first, second)
	}
}

func TestStatsUnknownForm(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := forms.NewService(db)

	_, err := svc.Stats(context.Background(), "no-such-form")
	if apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
}
