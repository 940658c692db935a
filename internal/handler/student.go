package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	appI18n "github.com/pavelanni/wellness/internal/i18n"
	"github.com/pavelanni/wellness/internal/model"
	"github.com/pavelanni/wellness/internal/overview"
	"github.com/pavelanni/wellness/internal/resources"
	"github.com/pavelanni/wellness/internal/schedule"
)

type overviewResponse struct {
	overview.StudentOverview
	Greeting        string           `json:"greeting"`
	WellnessText    string           `json:"wellness_text"`
	SessionsText    string           `json:"sessions_text"`
	InsightMessages []string         `json:"insight_messages"`
	Recent          []recordResponse `json:"recent_assessments"`
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	list, err := h.repo.ListAssessmentsByUser(user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sessions, err := h.repo.ListCompanionSessionsByUser(user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sum := overview.StudentSummary(*user, list, sessions)
	ctx := r.Context()
	resp := overviewResponse{
		StudentOverview: sum,
		Greeting:        appI18n.Td(ctx, "Welcome", map[string]any{"Name": user.Name}),
		WellnessText:    appI18n.Wellness(ctx, sum.WellnessLabel),
		SessionsText:    appI18n.Tp(ctx, "SessionsCompleted", sum.Sessions),
		InsightMessages: make([]string, 0, len(sum.Insights)),
		Recent:          make([]recordResponse, 0, len(sum.Recent)),
	}
	for _, id := range sum.Insights {
		resp.InsightMessages = append(resp.InsightMessages, appI18n.T(ctx, id))
	}
	for _, rec := range sum.Recent {
		resp.Recent = append(resp.Recent, newRecordResponse(r, rec))
	}
	render.JSON(w, r, resp)
}

type scheduleResponse struct {
	Date     string              `json:"date"`
	Upcoming []model.Appointment `json:"upcoming"`
	Past     []model.Appointment `json:"past"`
	Slots    []schedule.Slot     `json:"slots"`
}

// handleSchedule lists the student's appointments and the counselor slots of
// the day given by ?date=YYYY-MM-DD, today by default.
func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	now := h.now().UTC()

	day := now
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse(time.DateOnly, d)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, "")
			return
		}
		day = parsed
	}

	apts, err := h.repo.ListAppointmentsByUser(user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	// Counselors are shared, so every student's bookings block a slot.
	booked, err := h.repo.ListAppointments()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	upcoming, past := schedule.Split(apts, now)
	render.JSON(w, r, scheduleResponse{
		Date:     day.Format(time.DateOnly),
		Upcoming: upcoming,
		Past:     past,
		Slots:    schedule.AvailableSlots(day, booked),
	})
}

func (h *Handler) handleResources(w http.ResponseWriter, r *http.Request) {
	list := h.resources
	if c := r.URL.Query().Get("category"); c != "" {
		list = resources.ByCategory(list, resources.Category(c))
	}
	render.JSON(w, r, list)
}
