package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmorel/formwell/config"
	"github.com/jmorel/formwell/database"
	"github.com/jmorel/formwell/forms"
	"github.com/jmorel/formwell/model"
	"github.com/jmorel/formwell/users"
)

var dbSeq int64

// OpenDB returns an isolated in-memory database with the full schema
// applied. A pinned connection keeps the shared-cache memory DB alive
// for the whole test.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()

	url := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := database.Open(config.Config{DBUrl: url})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	conn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("failed to pin test database connection: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		db.Close()
	})
	return db
}

func CreateUser(t *testing.T, db *sql.DB, username string) model.User {
	t.Helper()

	user, err := users.NewService(db).Register(context.Background(), users.RegisterInput{
		Email:    username + "@example.com",
		Username: username,
		Password: "s3cret-" + username,
	})
	if err != nil {
		t.Fatalf("failed to create test user %q: %v", username, err)
	}
	return user
}

func CreateForm(t *testing.T, db *sql.DB, owner model.User, mutate ...func(*model.Form)) model.Form {
	t.Helper()

	form := model.Form{
		OwnerID:          owner.ID,
		Title:            "Test Form",
		IsActive:         true,
		AcceptsResponses: true,
	}
	for _, m := range mutate {
		m(&form)
	}

	form, err := forms.NewService(db).Create(context.Background(), form)
	if err != nil {
		t.Fatalf("failed to create test form: %v", err)
	}
	return form
}

func CreateQuestion(t *testing.T, db *sql.DB, form model.Form, owner model.User, in forms.QuestionInput) model.Question {
	t.Helper()

	question, err := forms.NewService(db).CreateQuestion(context.Background(), form.ID, &owner, in)
	if err != nil {
		t.Fatalf("failed to create test question: %v", err)
	}
	return question
}
