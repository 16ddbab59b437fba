package middlewares

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/jmorel/formwell/apperr"
	"github.com/jmorel/formwell/httpx"
	"github.com/jmorel/formwell/model"
	"github.com/jmorel/formwell/users"
)

type ctxKey int

const userKey ctxKey = iota

// Verifier extracts and verifies the bearer token, leaving the outcome
// in the request context for Authenticated/OptionalUser to pick up.
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return jwtauth.Verifier(ja)
}

// Authenticated rejects requests without a valid token and loads the
// user row behind its subject claim into the request context.
func Authenticated(db *sql.DB) func(http.Handler) http.Handler {
	svc := users.NewService(db)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := userFromToken(r, svc)
			if err != nil {
				httpx.Error(w, r, "auth.token", err)
				return
			}
			if !user.IsActive {
				httpx.Error(w, r, "auth.inactive", apperr.New(apperr.Forbidden, "Inactive user"))
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// OptionalUser attaches the user when a valid token is present and lets
// the request through anonymously otherwise. Submission endpoints use
// this, the form's own requires_auth policy decides downstream.
func OptionalUser(db *sql.DB) func(http.Handler) http.Handler {
	svc := users.NewService(db)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := userFromToken(r, svc)
			if err == nil && user.IsActive {
				r = r.WithContext(withUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userFromToken(r *http.Request, svc *users.Service) (model.User, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return model.User{}, apperr.New(apperr.Unauthorized, "Not authenticated")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return model.User{}, apperr.New(apperr.Unauthorized, "Not authenticated")
	}

	user, err := svc.GetByID(r.Context(), sub)
	if err != nil {
		return model.User{}, apperr.New(apperr.Unauthorized, "Not authenticated")
	}
	return user, nil
}

func withUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey, &user)
}

// UserFrom returns the authenticated user, or nil on anonymous
// requests.
func UserFrom(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}
