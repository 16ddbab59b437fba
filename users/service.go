package users

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmorel/formwell/apperr"
	"github.com/jmorel/formwell/model"
)

// Service handles registration and credential checks. Token issuance
// and parsing live at the HTTP boundary, never here.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	if in.Email == "" || in.Username == "" || in.Password == "" {
		return model.User{}, apperr.New(apperr.BadRequest, "email, username and password are required")
	}

	// checked up front for a clean Conflict message, the unique
	// indexes still back this up
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user WHERE email = ?)`, in.Email,
	).Scan(&exists)
	if err != nil {
		return model.User{}, errors.Wrap(err, "check email")
	}
	if exists {
		return model.User{}, apperr.New(apperr.Conflict, "Email already registered")
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user WHERE username = ?)`, in.Username,
	).Scan(&exists)
	if err != nil {
		return model.User{}, errors.Wrap(err, "check username")
	}
	if exists {
		return model.User{}, apperr.New(apperr.Conflict, "Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.Must(uuid.NewV4()).String(),
		Email:        in.Email,
		Username:     in.Username,
		FullName:     in.FullName,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user (id, email, username, password_hash, full_name,
			is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Username, user.PasswordHash, user.FullName,
		user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, errors.Wrap(err, "insert user")
	}

	return user, nil
}

// Authenticate verifies a password against the user found by username
// or email.
func (s *Service) Authenticate(ctx context.Context, login, password string) (model.User, error) {
	user, err := s.findUser(ctx, `WHERE username = ? OR email = ?`, login, login)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperr.New(apperr.Unauthorized, "Incorrect username or password")
	}
	if err != nil {
		return model.User{}, errors.Wrap(err, "load user")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return model.User{}, apperr.New(apperr.Unauthorized, "Incorrect username or password")
	}

	return user, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (model.User, error) {
	user, err := s.findUser(ctx, `WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return model.User{}, errors.Wrap(err, "load user")
	}
	return user, nil
}

func (s *Service) findUser(ctx context.Context, where string, args ...any) (user model.User, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, full_name,
			is_active, created_at, updated_at
		FROM user `+where,
		args...,
	).Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.FullName,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	return
}
