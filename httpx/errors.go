package httpx

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/jmorel/formwell/apperr"
	"github.com/jmorel/formwell/log"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Error maps a service failure onto an HTTP response: taxonomy errors
// become their status with a {"detail": ...} body, anything else is an
// infrastructure failure logged and answered with a bare 500.
func Error(w http.ResponseWriter, r *http.Request, code string, err error) {
	var status int
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Forbidden:
		status = http.StatusForbidden
	case apperr.BadRequest:
		status = http.StatusBadRequest
	case apperr.Conflict:
		status = http.StatusConflict
	case apperr.Unauthorized:
		status = http.StatusUnauthorized
	default:
		LogInternalError(w, code, err)
		return
	}

	log.Debugf("%s: %s", code, err)
	w.WriteHeader(status)
	render.JSON(w, r, map[string]any{
		"detail": err.Error(),
	})
}
