package routes

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"

	"github.com/jmorel/formwell/app"
	"github.com/jmorel/formwell/httpx"
	"github.com/jmorel/formwell/log"
	"github.com/jmorel/formwell/users"
)

func Register(app app.App) http.HandlerFunc {
	svc := users.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		in := users.RegisterInput{}
		err := render.DecodeJSON(r.Body, &in)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		user, err := svc.Register(r.Context(), in)
		if err != nil {
			httpx.Error(w, r, "auth.register", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, user)
	}
}

func Login(app app.App) http.HandlerFunc {
	svc := users.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		creds := struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}{}
		err := render.DecodeJSON(r.Body, &creds)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		user, err := svc.Authenticate(r.Context(), creds.Username, creds.Password)
		if err != nil {
			httpx.Error(w, r, "auth.login", err)
			return
		}

		claims := map[string]any{"sub": user.ID}
		jwtauth.SetIssuedNow(claims)
		jwtauth.SetExpiryIn(claims, app.TokenTTL)

		_, token, err := app.TokenAuth.Encode(claims)
		if err != nil {
			httpx.LogInternalError(w, "auth.login.encode_token", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"access_token": token,
			"token_type":   "bearer",
		})
	}
}
