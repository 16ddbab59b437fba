package routes

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/jmorel/formwell/app"
	"github.com/jmorel/formwell/forms"
	"github.com/jmorel/formwell/httpx"
	"github.com/jmorel/formwell/log"
	"github.com/jmorel/formwell/model"
	"github.com/jmorel/formwell/routes/middlewares"
)

func SubmitForm(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")

		sub := model.Submission{}
		err := render.DecodeJSON(r.Body, &sub)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		meta := forms.Meta{
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		}

		respondent := middlewares.UserFrom(r.Context())
		detail, err := svc.Submit(r.Context(), formID, sub, respondent, meta)
		if err != nil {
			httpx.Error(w, r, "submit_response", err)
			return
		}

		render.JSON(w, r, detail)
	}
}

func ListFormResponses(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		formID := chi.URLParam(r, "id")
		skip, limit := pageParams(r)

		user := middlewares.UserFrom(r.Context())
		responses, err := svc.ListResponses(r.Context(), formID, user, skip, limit)
		if err != nil {
			httpx.Error(w, r, "list_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": responses,
		})
	}
}

func GetResponseById(app app.App) http.HandlerFunc {
	svc := forms.NewService(app.DB)
	return func(w http.ResponseWriter, r *http.Request) {
		responseID := chi.URLParam(r, "id")

		user := middlewares.UserFrom(r.Context())
		detail, err := svc.ResponseDetail(r.Context(), responseID, user)
		if err != nil {
			httpx.Error(w, r, "get_response", err)
			return
		}

		render.JSON(w, r, detail)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
