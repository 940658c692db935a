// Package overview aggregates assessment and companion activity for the
// student dashboard and the admin console. All functions are pure.
package overview

import (
	"sort"
	"strings"

	"github.com/pavelanni/wellness/internal/assessment"
	"github.com/pavelanni/wellness/internal/model"
)

// Summary holds the admin dashboard headline numbers.
type Summary struct {
	Students                int                     `json:"students"`
	TotalAssessments        int                     `json:"total_assessments"`
	TotalSessions           int                     `json:"total_sessions"`
	StudentsWithAssessments int                     `json:"students_with_assessments"`
	StudentsWithSessions    int                     `json:"students_with_sessions"`
	AverageWellness         int                     `json:"average_wellness"`
	Bands                   map[assessment.Band]int `json:"bands"`
}

// AdminSummary computes portal-wide totals. Students without a wellness
// score count as zero in the average.
func AdminSummary(users []model.User, assessments []model.AssessmentRecord, sessions []model.CompanionSession) Summary {
	s := Summary{
		TotalAssessments: len(assessments),
		TotalSessions:    len(sessions),
		Bands:            BandDistribution(assessments),
	}

	sum := 0
	for _, u := range users {
		if u.Role != model.UserRoleStudent {
			continue
		}
		s.Students++
		if u.WellnessScore != nil {
			sum += *u.WellnessScore
		}
	}
	if s.Students > 0 {
		s.AverageWellness = (2*sum + s.Students) / (2 * s.Students)
	}

	withAssessments := make(map[int64]bool)
	for _, a := range assessments {
		withAssessments[a.UserID] = true
	}
	withSessions := make(map[int64]bool)
	for _, cs := range sessions {
		withSessions[cs.UserID] = true
	}
	s.StudentsWithAssessments = len(withAssessments)
	s.StudentsWithSessions = len(withSessions)
	return s
}

// BandDistribution counts assessments per band. Every band is present.
func BandDistribution(assessments []model.AssessmentRecord) map[assessment.Band]int {
	out := make(map[assessment.Band]int, len(assessment.Bands))
	for _, b := range assessment.Bands {
		out[b] = 0
	}
	for _, a := range assessments {
		out[a.Band]++
	}
	return out
}

// AssessmentRow pairs an assessment with its student for admin listings.
type AssessmentRow struct {
	model.AssessmentRecord
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	Percentage   int    `json:"percentage"`
}

// FilterAssessments keeps assessments of the given kind ("all" or empty for
// any) whose student name, student email or title contains search,
// case-insensitively. Results keep the input order.
func FilterAssessments(assessments []model.AssessmentRecord, users []model.User, kind string, search string) []AssessmentRow {
	students := studentIndex(users)
	term := strings.ToLower(strings.TrimSpace(search))

	rows := []AssessmentRow{}
	for _, a := range assessments {
		if kind != "" && kind != "all" && string(a.Kind) != kind {
			continue
		}
		u, known := students[a.UserID]
		if term != "" {
			hit := strings.Contains(strings.ToLower(a.Title), term)
			if known {
				hit = hit || strings.Contains(strings.ToLower(u.Name), term) ||
					strings.Contains(strings.ToLower(u.Email), term)
			}
			if !hit {
				continue
			}
		}
		row := AssessmentRow{AssessmentRecord: a, Percentage: a.Percentage()}
		if known {
			row.StudentName = u.Name
			row.StudentEmail = u.Email
		}
		rows = append(rows, row)
	}
	return rows
}

// SessionRow pairs a companion session with its student.
type SessionRow struct {
	model.CompanionSession
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
}

// FilterSessions keeps companion sessions whose student name or email
// contains search. An empty search keeps everything.
func FilterSessions(sessions []model.CompanionSession, users []model.User, search string) []SessionRow {
	students := studentIndex(users)
	term := strings.ToLower(strings.TrimSpace(search))

	rows := []SessionRow{}
	for _, cs := range sessions {
		u, known := students[cs.UserID]
		if term != "" {
			if !known {
				continue
			}
			if !strings.Contains(strings.ToLower(u.Name), term) &&
				!strings.Contains(strings.ToLower(u.Email), term) {
				continue
			}
		}
		row := SessionRow{CompanionSession: cs}
		if known {
			row.StudentName = u.Name
			row.StudentEmail = u.Email
		}
		rows = append(rows, row)
	}
	return rows
}

// Activity is a per-student count of completed work.
type Activity struct {
	User        model.User `json:"user"`
	Assessments int        `json:"assessments"`
	Sessions    int        `json:"sessions"`
}

// StudentActivity returns one row per student in user order.
func StudentActivity(users []model.User, assessments []model.AssessmentRecord, sessions []model.CompanionSession) []Activity {
	ac := make(map[int64]int)
	for _, a := range assessments {
		ac[a.UserID]++
	}
	sc := make(map[int64]int)
	for _, cs := range sessions {
		sc[cs.UserID]++
	}
	out := []Activity{}
	for _, u := range users {
		if u.Role != model.UserRoleStudent {
			continue
		}
		out = append(out, Activity{User: u, Assessments: ac[u.ID], Sessions: sc[u.ID]})
	}
	return out
}

// Wellness labels.
const (
	LabelExcellent      = "Excellent"
	LabelGood           = "Good"
	LabelNeedsAttention = "Needs attention"
)

// WellnessLabel maps a 0-100 wellness score to its dashboard label.
func WellnessLabel(score int) string {
	switch {
	case score >= 80:
		return LabelExcellent
	case score >= 60:
		return LabelGood
	default:
		return LabelNeedsAttention
	}
}

// Insight message IDs, resolved through i18n by the caller.
const (
	InsightGreatJob      = "InsightGreatJob"
	InsightGetStarted    = "InsightGetStarted"
	InsightTryTara       = "InsightTryTara"
	InsightFocusWellness = "InsightFocusWellness"
)

// StudentOverview is the personal dashboard of one student.
type StudentOverview struct {
	WellnessScore int                      `json:"wellness_score"`
	WellnessLabel string                   `json:"wellness_label"`
	Assessments   int                      `json:"assessments_completed"`
	Sessions      int                      `json:"tara_sessions"`
	Recent        []model.AssessmentRecord `json:"recent_assessments"`
	Insights      []string                 `json:"insights"`
}

const recentLimit = 3

// StudentSummary builds the dashboard for u from that user's own records.
// Records belonging to other users are ignored.
func StudentSummary(u model.User, assessments []model.AssessmentRecord, sessions []model.CompanionSession) StudentOverview {
	var own []model.AssessmentRecord
	for _, a := range assessments {
		if a.UserID == u.ID {
			own = append(own, a)
		}
	}
	sessionCount := 0
	for _, cs := range sessions {
		if cs.UserID == u.ID {
			sessionCount++
		}
	}

	score := 0
	if u.WellnessScore != nil {
		score = *u.WellnessScore
	}

	sort.SliceStable(own, func(i, j int) bool {
		return own[i].CompletedAt.After(own[j].CompletedAt)
	})
	recent := own
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	if recent == nil {
		recent = []model.AssessmentRecord{}
	}

	insights := []string{}
	if score >= 80 {
		insights = append(insights, InsightGreatJob)
	}
	if len(own) == 0 {
		insights = append(insights, InsightGetStarted)
	}
	if sessionCount == 0 {
		insights = append(insights, InsightTryTara)
	}
	if score < 60 && len(own) > 0 {
		insights = append(insights, InsightFocusWellness)
	}

	return StudentOverview{
		WellnessScore: score,
		WellnessLabel: WellnessLabel(score),
		Assessments:   len(own),
		Sessions:      sessionCount,
		Recent:        recent,
		Insights:      insights,
	}
}

func studentIndex(users []model.User) map[int64]model.User {
	idx := make(map[int64]model.User, len(users))
	for _, u := range users {
		if u.Role == model.UserRoleStudent {
			idx[u.ID] = u
		}
	}
	return idx
}
