package users_test

import (
	"context"
	"testing"

	"github.com/jmorel/formwell/apperr"
	"github.com/jmorel/formwell/testutil"
	"github.com/jmorel/formwell/users"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := users.NewService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, users.RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "hunter22",
		FullName: "Alice A.",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.PasswordHash == "hunter22" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if !user.IsActive {
		t.Error("new users should be active")
	}

	// by username
	if _, err := svc.Authenticate(ctx, "alice", "hunter22"); err != nil {
		t.Errorf("authenticate by username failed: %v", err)
	}
	// by email
	if _, err := svc.Authenticate(ctx, "alice@example.com", "hunter22"); err != nil {
		t.Errorf("authenticate by email failed: %v", err)
	}

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	if apperr.KindOf(err) != apperr.Unauthorized {
		t.Errorf("wrong password should be Unauthorized, got %v", err)
	}
	_, err = svc.Authenticate(ctx, "nobody", "hunter22")
	if apperr.KindOf(err) != apperr.Unauthorized {
		t.Errorf("unknown login should be Unauthorized, got %v", err)
	}
}

func TestRegisterConflicts(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := users.NewService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, users.RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err = svc.Register(ctx, users.RegisterInput{
		Email:    "alice@example.com",
		Username: "alice2",
		Password: "hunter22",
	})
	if apperr.KindOf(err) != apperr.Conflict {
		t.Errorf("duplicate email should be Conflict, got %v", err)
	}

	_, err = svc.Register(ctx, users.RegisterInput{
		Email:    "other@example.com",
		Username: "alice",
		Password: "hunter22",
	})
	if apperr.KindOf(err) != apperr.Conflict {
		t.Errorf("duplicate username should be Conflict, got %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := users.NewService(db)

	_, err := svc.Register(context.Background(), users.RegisterInput{Username: "alice"})
	if apperr.KindOf(err) != apperr.BadRequest {
		t.Errorf("expected BadRequest, got %v", err)
	}
}
