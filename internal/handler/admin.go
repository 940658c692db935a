package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/wellness/internal/assessment"
	appI18n "github.com/pavelanni/wellness/internal/i18n"
	"github.com/pavelanni/wellness/internal/model"
	"github.com/pavelanni/wellness/internal/overview"
	"github.com/pavelanni/wellness/internal/report"
	"github.com/pavelanni/wellness/internal/store"
)

// portalData loads everything the admin aggregates work on.
func (h *Handler) portalData() ([]model.User, []model.AssessmentRecord, []model.CompanionSession, error) {
	users, err := h.repo.ListUsers()
	if err != nil {
		return nil, nil, nil, err
	}
	list, err := h.repo.ListAssessments()
	if err != nil {
		return nil, nil, nil, err
	}
	sessions, err := h.repo.ListCompanionSessions()
	if err != nil {
		return nil, nil, nil, err
	}
	return users, list, sessions, nil
}

func (h *Handler) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	users, list, sessions, err := h.portalData()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, overview.AdminSummary(users, list, sessions))
}

func (h *Handler) handleAdminAssessments(w http.ResponseWriter, r *http.Request) {
	users, list, _, err := h.portalData()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	render.JSON(w, r, overview.FilterAssessments(list, users, q.Get("type"), q.Get("q")))
}

func (h *Handler) handleAdminSessions(w http.ResponseWriter, r *http.Request) {
	users, _, sessions, err := h.portalData()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, overview.FilterSessions(sessions, users, r.URL.Query().Get("q")))
}

type usersResponse struct {
	Users    []model.User        `json:"users"`
	Activity []overview.Activity `json:"activity"`
}

func (h *Handler) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, list, sessions, err := h.portalData()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, usersResponse{
		Users:    users,
		Activity: overview.StudentActivity(users, list, sessions),
	})
}

type userDetailResponse struct {
	User        model.User                `json:"user"`
	Overview    *overview.StudentOverview `json:"overview,omitempty"`
	Assessments []recordResponse          `json:"assessments"`
	Sessions    []model.CompanionSession  `json:"sessions"`
}

func (h *Handler) handleAdminUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.repo.GetUserByID(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	list, err := h.repo.ListAssessmentsByUser(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sessions, err := h.repo.ListCompanionSessionsByUser(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := userDetailResponse{
		User:        *u,
		Assessments: make([]recordResponse, 0, len(list)),
		Sessions:    sessions,
	}
	if resp.Sessions == nil {
		resp.Sessions = []model.CompanionSession{}
	}
	for _, rec := range list {
		resp.Assessments = append(resp.Assessments, newRecordResponse(r, rec))
	}
	if u.Role == model.UserRoleStudent {
		sum := overview.StudentSummary(*u, list, sessions)
		resp.Overview = &sum
	}
	render.JSON(w, r, resp)
}

type createUserRequest struct {
	Email    string         `json:"email"`
	Name     string         `json:"name"`
	Password string         `json:"password"`
	Role     model.UserRole `json:"role"`
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeJSONError(w, r, http.StatusBadRequest, "email and password required")
		return
	}
	if req.Role == "" {
		req.Role = model.UserRoleStudent
	}
	if req.Role != model.UserRoleStudent && req.Role != model.UserRoleAdmin {
		writeJSONError(w, r, http.StatusBadRequest, "unknown role")
		return
	}
	if req.Name == "" {
		req.Name = req.Email
	}

	if _, err := h.repo.GetUserByEmail(req.Email); err == nil {
		writeJSONError(w, r, http.StatusConflict, "email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	u := model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
		CreatedAt:    h.now().UTC(),
	}
	id, err := h.repo.CreateUser(u)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.repo.GetUserByID(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	slog.Info("user created", "user_id", id, "role", req.Role)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

func (h *Handler) handleToggleUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if id == model.UserFromContext(r.Context()).ID {
		h.writeError(w, r, http.StatusConflict, "CannotToggleSelf")
		return
	}
	if err := h.repo.ToggleUserActive(id); err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.repo.GetUserByID(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	slog.Info("user active toggled", "user_id", id, "active", u.Active)
	render.JSON(w, r, u)
}

func (h *Handler) handleBandChart(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListAssessments()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	labels := make(map[assessment.Band]string, len(assessment.Bands))
	for _, b := range assessment.Bands {
		labels[b] = appI18n.Band(r.Context(), b)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderBandChart(w, localized(r, "ChartBands"), overview.BandDistribution(list), labels); err != nil {
		slog.Error("render error", "error", err)
	}
}
