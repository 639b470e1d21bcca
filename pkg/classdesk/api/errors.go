package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/classdesk/classdesk/pkg/classdesk"
)

// errorResponse is the JSON body for failed requests
type errorResponse struct {
	Error string `json:"error"`
}

// renderError maps domain errors onto HTTP statuses. Unexpected failures
// come back as a generic 500 body; internals are only logged.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, classdesk.ErrModuleNotFound),
		errors.Is(err, classdesk.ErrStudentNotFound),
		errors.Is(err, classdesk.ErrTeacherNotFound),
		errors.Is(err, classdesk.ErrResourceNotFound),
		errors.Is(err, classdesk.ErrBlobNotFound),
		errors.Is(err, classdesk.ErrMemberNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{Error: err.Error()})

	case errors.Is(err, classdesk.ErrDuplicateMember),
		errors.Is(err, classdesk.ErrEmailTaken):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, errorResponse{Error: err.Error()})

	case errors.Is(err, classdesk.ErrInvalidCredentials):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, errorResponse{Error: err.Error()})

	default:
		slog.Error("request failed", "path", r.URL.Path, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Error: "internal error"})
	}
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorResponse{Error: msg})
}
