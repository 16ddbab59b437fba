package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/jmorel/formwell/app"
	"github.com/jmorel/formwell/forms"
	"github.com/jmorel/formwell/httpx"
	"github.com/jmorel/formwell/log"
	"github.com/jmorel/formwell/routes/middlewares"
)

func CreateQuestion(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		in := forms.QuestionInput{}
		err := render.DecodeJSON(r.Body, &in)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		user := middlewares.UserFrom(r.Context())
		question, err := svc.CreateQuestion(r.Context(), formID, user, in)
		if err != nil {
			httpx.Error(w, r, "create_question", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, question)
	}
}

func ListQuestions(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		user := middlewares.UserFrom(r.Context())
		questions, err := svc.ListQuestions(r.Context(), formID, user)
		if err != nil {
			httpx.Error(w, r, "list_questions", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"questions": questions,
		})
	}
}

func UpdateQuestion(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")
		questionID := chi.URLParam(r, "questionId")

		upd := forms.QuestionUpdate{}
		err := render.DecodeJSON(r.Body, &upd)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		user := middlewares.UserFrom(r.Context())
		question, err := svc.UpdateQuestion(r.Context(), formID, questionID, user, upd)
		if err != nil {
			httpx.Error(w, r, "update_question", err)
			return
		}

		render.JSON(w, r, question)
	}
}

func DeleteQuestion(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")
		questionID := chi.URLParam(r, "questionId")

		user := middlewares.UserFrom(r.Context())
		err := svc.DeleteQuestion(r.Context(), formID, questionID, user)
		if err != nil {
			httpx.Error(w, r, "delete_question", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ReorderQuestions(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		payload := struct {
			Orders []forms.QuestionOrder `json:"orders"`
		}{}
		err := render.DecodeJSON(r.Body, &payload)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		user := middlewares.UserFrom(r.Context())
		questions, err := svc.ReorderQuestions(r.Context(), formID, user, payload.Orders)
		if err != nil {
			httpx.Error(w, r, "reorder_questions", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"questions": questions,
		})
	}
}
