package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/pavelanni/wellness/internal/assessment"
	"github.com/pavelanni/wellness/internal/companion"
	appI18n "github.com/pavelanni/wellness/internal/i18n"
	"github.com/pavelanni/wellness/internal/model"
	"github.com/pavelanni/wellness/internal/store"
)

var errForbidden = errors.New("forbidden")

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func localized(r *http.Request, msgID string) string {
	return appI18n.T(r.Context(), msgID)
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

// writeError responds with a localized message, or the status text when
// msgID is empty.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, msgID string) {
	msg := http.StatusText(status)
	if msgID != "" {
		msg = localized(r, msgID)
	}
	writeJSONError(w, r, status, msg)
}

// fail maps a domain error to its HTTP status.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *assessment.ValidationError
		derr *assessment.DivisionError
		eerr *companion.EmptyInputError
		serr *model.SettingsError
	)
	switch {
	case errors.As(err, &verr):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errorResponse{Error: localized(r, "InvalidResponse"), Detail: verr.Error()})
	case errors.As(err, &serr):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errorResponse{Error: localized(r, "InvalidSettings"), Detail: serr.Error()})
	case errors.As(err, &eerr):
		h.writeError(w, r, http.StatusBadRequest, "EmptyMessage")
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, r, http.StatusNotFound, "NotFound")
	case errors.Is(err, errForbidden):
		h.writeError(w, r, http.StatusForbidden, "Forbidden")
	case errors.As(err, &derr):
		slog.Error("questionnaire has no maximum score", "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "")
	default:
		slog.Error("request failed", "path", r.URL.Path, "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "")
	}
}

// idParam parses a numeric URL parameter. Malformed IDs are reported as
// not found.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, store.ErrNotFound
	}
	return id, nil
}
