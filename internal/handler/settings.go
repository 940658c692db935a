package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	appI18n "github.com/pavelanni/wellness/internal/i18n"
	"github.com/pavelanni/wellness/internal/model"
)

// preferredLanguage swaps in a localizer for the user's saved language.
// It runs after requireAuth.
func (h *Handler) preferredLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := model.UserFromContext(r.Context())
		st, err := h.repo.GetUserSettings(user.ID)
		if err != nil {
			slog.Warn("failed to load user settings", "user_id", user.ID, "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if st.UpdatedAt == nil || st.Preferences.Language == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(appI18n.Prefer(r, st.Preferences.Language)))
	})
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	st, err := h.repo.GetUserSettings(user.ID)
	if err != nil {
		h.fail(w, r, fmt.Errorf("get settings: %w", err))
		return
	}
	render.JSON(w, r, st)
}

func (h *Handler) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	st := model.DefaultUserSettings(user.ID)
	if err := render.DecodeJSON(r.Body, &st); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "")
		return
	}
	st.UserID = user.ID
	if err := st.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	now := h.now().UTC()
	st.UpdatedAt = &now
	if err := h.repo.SaveUserSettings(st); err != nil {
		h.fail(w, r, fmt.Errorf("save settings: %w", err))
		return
	}
	slog.Info("settings saved", "user_id", user.ID, "language", st.Preferences.Language)
	render.JSON(w, r, st)
}
