package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/pavelanni/wellness/internal/assessment"
	appI18n "github.com/pavelanni/wellness/internal/i18n"
	"github.com/pavelanni/wellness/internal/model"
	"github.com/pavelanni/wellness/internal/report"
	"github.com/pavelanni/wellness/internal/store"
)

type responsesRequest struct {
	Responses []assessment.Response `json:"responses"`
}

type questionnaireSummary struct {
	Kind        assessment.Kind `json:"kind"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	MaxScore    int             `json:"max_score"`
	Questions   int             `json:"questions"`
}

type scoreResponse struct {
	assessment.ScoredResult
	Percentage     int    `json:"percentage"`
	BandLabel      string `json:"band_label"`
	Recommendation string `json:"recommendation"`
	Complete       bool   `json:"complete"`
}

type recordResponse struct {
	model.AssessmentRecord
	Percentage     int    `json:"percentage"`
	BandLabel      string `json:"band_label"`
	Recommendation string `json:"recommendation"`
}

func newRecordResponse(r *http.Request, rec model.AssessmentRecord) recordResponse {
	return recordResponse{
		AssessmentRecord: rec,
		Percentage:       rec.Percentage(),
		BandLabel:        appI18n.Band(r.Context(), rec.Band),
		Recommendation:   localized(r, assessment.Recommendation(rec.Band)),
	}
}

func (h *Handler) definition(r *http.Request) (*assessment.Definition, error) {
	def, ok := h.catalog.Get(assessment.Kind(chi.URLParam(r, "kind")))
	if !ok {
		return nil, store.ErrNotFound
	}
	return def, nil
}

func (h *Handler) handleListQuestionnaires(w http.ResponseWriter, r *http.Request) {
	defs := h.catalog.List()
	out := make([]questionnaireSummary, 0, len(defs))
	for _, d := range defs {
		out = append(out, questionnaireSummary{
			Kind:        d.Kind,
			Title:       d.Title,
			Description: d.Description,
			MaxScore:    d.MaxScore,
			Questions:   len(d.Questions),
		})
	}
	render.JSON(w, r, out)
}

func (h *Handler) handleGetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	def, err := h.definition(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, def)
}

// handleScore evaluates responses without storing anything. Partial answer
// sets are allowed.
func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	def, err := h.definition(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req responsesRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "")
		return
	}
	res, err := assessment.Evaluate(def, req.Responses)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, scoreResponse{
		ScoredResult:   res,
		Percentage:     res.Percentage(),
		BandLabel:      appI18n.Band(r.Context(), res.Band),
		Recommendation: localized(r, assessment.Recommendation(res.Band)),
		Complete:       assessment.Complete(def, req.Responses),
	})
}

// handleSubmit scores a full answer set and stores the result for the
// current student.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	def, err := h.definition(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req responsesRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "")
		return
	}

	res, err := assessment.Evaluate(def, req.Responses)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !assessment.Complete(def, req.Responses) {
		h.fail(w, r, &assessment.ValidationError{Reason: "every question must be answered"})
		return
	}
	answers, err := assessment.AnswerRecords(def, req.Responses)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rec := model.AssessmentRecord{
		UserID:      user.ID,
		Kind:        def.Kind,
		Title:       def.Title,
		Score:       res.TotalScore,
		MaxScore:    res.MaxScore,
		Band:        res.Band,
		CompletedAt: h.now().UTC(),
		Responses:   answers,
	}
	id, err := h.repo.CreateAssessment(rec)
	if err != nil {
		h.fail(w, r, fmt.Errorf("store assessment: %w", err))
		return
	}
	rec.ID = id
	slog.Info("assessment submitted", "user_id", user.ID, "kind", def.Kind, "score", res.TotalScore, "band", res.Band)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, newRecordResponse(r, rec))
}

func (h *Handler) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())
	list, err := h.repo.ListAssessmentsByUser(user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]recordResponse, 0, len(list))
	for _, rec := range list {
		out = append(out, newRecordResponse(r, rec))
	}
	render.JSON(w, r, out)
}

// loadReport fetches an assessment the current user may see: their own, or
// any when they are an admin.
func (h *Handler) loadReport(r *http.Request) (report.Report, error) {
	user := model.UserFromContext(r.Context())
	id, err := idParam(r, "id")
	if err != nil {
		return report.Report{}, err
	}
	rec, err := h.repo.GetAssessment(id)
	if err != nil {
		return report.Report{}, err
	}
	if user.Role != model.UserRoleAdmin && rec.UserID != user.ID {
		return report.Report{}, errForbidden
	}
	owner := user
	if rec.UserID != user.ID {
		owner, err = h.repo.GetUserByID(rec.UserID)
		if err != nil {
			return report.Report{}, fmt.Errorf("get assessment owner: %w", err)
		}
	}
	return report.Report{
		StudentName:    owner.Name,
		StudentEmail:   owner.Email,
		Record:         *rec,
		BandLabel:      appI18n.Band(r.Context(), rec.Band),
		Recommendation: localized(r, assessment.Recommendation(rec.Band)),
		GeneratedAt:    h.now().UTC(),
	}, nil
}

func reportLabels(r *http.Request) report.Labels {
	return report.Labels{
		Heading:        localized(r, "ReportHeading"),
		Student:        localized(r, "ReportStudent"),
		Completed:      localized(r, "ReportCompleted"),
		Score:          localized(r, "ReportScore"),
		Band:           localized(r, "ReportBand"),
		Recommendation: localized(r, "ReportRecommendation"),
		Question:       localized(r, "ReportQuestion"),
		Answer:         localized(r, "ReportAnswer"),
		Points:         localized(r, "ReportPoints"),
	}
}

func (h *Handler) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	rep, err := h.loadReport(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.HTML(rep, reportLabels(r)).Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

func (h *Handler) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	rep, err := h.loadReport(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, rep, reportLabels(r)); err != nil {
		h.fail(w, r, fmt.Errorf("render pdf: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=assessment-%d.pdf", rep.Record.ID))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("write pdf", "error", err)
	}
}
