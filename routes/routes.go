package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/jmorel/formwell/app"
	"github.com/jmorel/formwell/config"
	"github.com/jmorel/formwell/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Get("/health", Health(app))
	root.Mount("/api/v1", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Post("/auth/register", Register(app))
	api.Post("/auth/login", Login(app))

	// anonymous or authenticated, the form's own policy decides
	api.Group(func(r chi.Router) {
		r.Use(middlewares.Verifier(app.TokenAuth), middlewares.OptionalUser(app.DB))

		r.Post("/forms/{id}/submit", SubmitForm(app))
	})

	// owner-only
	api.Group(func(r chi.Router) {
		r.Use(middlewares.Verifier(app.TokenAuth), middlewares.Authenticated(app.DB))

		// CRUD forms
		r.Post("/forms", CreateForm(app))
		r.Get("/forms", ListForms(app))
		r.Get("/forms/{id}", GetFormById(app))
		r.Patch("/forms/{id}", UpdateForm(app))
		r.Delete("/forms/{id}", DeleteForm(app))
		r.Get("/forms/{id}/stats", GetFormStats(app))

		// CRUD questions
		r.Post("/forms/{id}/questions", CreateQuestion(app))
		r.Get("/forms/{id}/questions", ListQuestions(app))
		r.Post("/forms/{id}/questions/reorder", ReorderQuestions(app))
		r.Patch("/forms/{id}/questions/{questionId}", UpdateQuestion(app))
		r.Delete("/forms/{id}/questions/{questionId}", DeleteQuestion(app))

		// responses
		r.Get("/forms/{id}/responses", ListFormResponses(app))
		r.Get("/responses/{id}", GetResponseById(app))
	})

	return api
}

func Health(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"name":    config.AppName,
			"version": config.Version,
			"status":  "healthy",
		})
	}
}
