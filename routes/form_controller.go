package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/jmorel/formwell/app"
	"github.com/jmorel/formwell/apperr"
	"github.com/jmorel/formwell/forms"
	"github.com/jmorel/formwell/httpx"
	"github.com/jmorel/formwell/log"
	"github.com/jmorel/formwell/model"
	"github.com/jmorel/formwell/routes/middlewares"
)

// formPayload uses pointer flags so absent fields fall back to the
// documented defaults instead of false.
type formPayload struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	IsActive         *bool  `json:"is_active"`
	AcceptsResponses *bool  `json:"accepts_responses"`
	RequiresAuth     *bool  `json:"requires_auth"`
}

func CreateForm(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		payload := formPayload{}
		err := render.DecodeJSON(r.Body, &payload)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if payload.Title == "" {
			httpx.Error(w, r, "create_form", apperr.New(apperr.BadRequest, "Form title is required"))
			return
		}

		user := middlewares.UserFrom(r.Context())
		form := model.Form{
			OwnerID:          user.ID,
			Title:            payload.Title,
			Description:      payload.Description,
			IsActive:         true,
			AcceptsResponses: true,
			RequiresAuth:     false,
		}
		if payload.IsActive != nil {
			form.IsActive = *payload.IsActive
		}
		if payload.AcceptsResponses != nil {
			form.AcceptsResponses = *payload.AcceptsResponses
		}
		if payload.RequiresAuth != nil {
			form.RequiresAuth = *payload.RequiresAuth
		}

		form, err = svc.Create(r.Context(), form)
		if err != nil {
			httpx.Error(w, r, "create_form", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, form)
	}
}

func ListForms(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		skip, limit := pageParams(r)

		user := middlewares.UserFrom(r.Context())
		list, err := svc.ListByOwner(r.Context(), user.ID, skip, limit)
		if err != nil {
			httpx.Error(w, r, "list_forms", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"forms": list,
		})
	}
}

func GetFormById(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		user := middlewares.UserFrom(r.Context())
		form, err := svc.GetWithQuestions(r.Context(), formID, user)
		if err != nil {
			httpx.Error(w, r, "get_form", err)
			return
		}

		render.JSON(w, r, form)
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		upd := forms.FormUpdate{}
		err := render.DecodeJSON(r.Body, &upd)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		user := middlewares.UserFrom(r.Context())
		form, err := svc.Update(r.Context(), formID, user, upd)
		if err != nil {
			httpx.Error(w, r, "update_form", err)
			return
		}

		render.JSON(w, r, form)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		user := middlewares.UserFrom(r.Context())
		err := svc.Delete(r.Context(), formID, user)
		if err != nil {
			httpx.Error(w, r, "delete_form", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func GetFormStats(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		user := middlewares.UserFrom(r.Context())
		if _, err := svc.Authorize(r.Context(), formID, user); err != nil {
			httpx.Error(w, r, "get_form_stats", err)
			return
		}

		stats, err := svc.Stats(r.Context(), formID)
		if err != nil {
			httpx.Error(w, r, "get_form_stats", err)
			return
		}

		render.JSON(w, r, stats)
	}
}

func pageParams(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	return
}
