package handler

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/pavelanni/wellness/internal/assessment"
	"github.com/pavelanni/wellness/internal/companion"
	"github.com/pavelanni/wellness/internal/model"
	"github.com/pavelanni/wellness/internal/resources"
)

// Repository is the persistence the handlers need. *store.Store implements it.
type Repository interface {
	CreateUser(u model.User) (int64, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int64) (*model.User, error)
	ListUsers() ([]model.User, error)
	ToggleUserActive(id int64) error

	CreateAuthSession(userID int64) (string, error)
	GetAuthSession(token string) (*model.AuthSession, error)
	DeleteAuthSession(token string) error

	CreateAssessment(a model.AssessmentRecord) (int64, error)
	GetAssessment(id int64) (*model.AssessmentRecord, error)
	ListAssessments() ([]model.AssessmentRecord, error)
	ListAssessmentsByUser(userID int64) ([]model.AssessmentRecord, error)

	StartCompanionSession(userID int64, at time.Time) (model.CompanionSession, error)
	GetCompanionSession(id string) (*model.CompanionSession, error)
	EndCompanionSession(id string, at time.Time) (*model.CompanionSession, error)
	ListCompanionSessions() ([]model.CompanionSession, error)
	ListCompanionSessionsByUser(userID int64) ([]model.CompanionSession, error)
	AddChatMessage(msg model.ChatMessage) (int64, error)
	AddChatExchange(msg, reply model.ChatMessage) (model.ChatMessage, model.ChatMessage, error)
	GetChatMessages(sessionID string) ([]model.ChatMessage, error)

	ListAppointments() ([]model.Appointment, error)
	ListAppointmentsByUser(userID int64) ([]model.Appointment, error)

	GetUserSettings(userID int64) (model.UserSettings, error)
	SaveUserSettings(st model.UserSettings) error
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	repo      Repository
	catalog   *assessment.Catalog
	tara      *companion.Companion
	resources []resources.Resource
	config    model.ServerConfig

	loginLimiters *limiterSet[string]
	chatLimiters  *limiterSet[int64]

	now   func() time.Time
	rnd   func() float64
	sleep func(r *http.Request, d time.Duration) error
}

// New creates a new Handler.
func New(repo Repository, catalog *assessment.Catalog, tara *companion.Companion, cfg model.ServerConfig) (*Handler, error) {
	res, err := resources.Load()
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	return &Handler{
		repo:          repo,
		catalog:       catalog,
		tara:          tara,
		resources:     res,
		config:        cfg,
		loginLimiters: newLimiterSet[string](limitOf(cfg.LoginRate), burstOf(cfg.LoginBurst)),
		chatLimiters:  newLimiterSet[int64](limitOf(cfg.ChatRate), burstOf(cfg.ChatBurst)),
		now:           time.Now,
		rnd:           rand.Float64,
		sleep:         sleepCtx,
	}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Use(h.csrfMiddleware)

	r.Get("/healthz", h.handleHealth)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Use(h.preferredLanguage)

		r.Get("/me", h.handleMe)
		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handleSaveSettings)
		r.Get("/questionnaires", h.handleListQuestionnaires)
		r.Get("/questionnaires/{kind}", h.handleGetQuestionnaire)
		r.Post("/questionnaires/{kind}/score", h.handleScore)
		r.Get("/resources", h.handleResources)
		r.Get("/assessments/{id}/report", h.handleReportHTML)
		r.Get("/assessments/{id}/report.pdf", h.handleReportPDF)

		r.Group(func(r chi.Router) {
			r.Use(requireRole(model.UserRoleStudent))
			r.Get("/overview", h.handleOverview)
			r.Post("/questionnaires/{kind}/submit", h.handleSubmit)
			r.Get("/assessments", h.handleListAssessments)
			r.Get("/schedule", h.handleSchedule)
			r.Post("/tara/sessions", h.handleStartSession)
			r.Get("/tara/sessions/{id}", h.handleGetSession)
			r.Post("/tara/sessions/{id}/messages", h.handleMessage)
			r.Post("/tara/sessions/{id}/end", h.handleEndSession)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireRole(model.UserRoleAdmin))
			r.Get("/overview", h.handleAdminOverview)
			r.Get("/assessments", h.handleAdminAssessments)
			r.Get("/sessions", h.handleAdminSessions)
			r.Get("/users", h.handleAdminUsers)
			r.Post("/users", h.handleCreateUser)
			r.Get("/users/{id}", h.handleAdminUser)
			r.Post("/users/{id}/toggle", h.handleToggleUserActive)
			r.Get("/charts/bands", h.handleBandChart)
		})
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":         "ok",
		"questionnaires": len(h.catalog.List()),
	})
}

func sleepCtx(r *http.Request, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-r.Context().Done():
		return r.Context().Err()
	}
}
