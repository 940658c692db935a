package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pavelanni/wellness/internal/assessment"
	"github.com/pavelanni/wellness/internal/model"
)

func seedTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func score(v int) *int { return &v }

var seedUsers = []model.User{
	{Email: "john.doe@student.edu", Name: "John Doe", Role: model.UserRoleStudent, CreatedAt: seedTime("2024-01-15T10:00:00Z"), WellnessScore: score(78)},
	{Email: "jane.smith@student.edu", Name: "Jane Smith", Role: model.UserRoleStudent, CreatedAt: seedTime("2024-01-10T09:00:00Z"), WellnessScore: score(85)},
	{Email: "mike.johnson@student.edu", Name: "Mike Johnson", Role: model.UserRoleStudent, CreatedAt: seedTime("2024-01-12T16:00:00Z"), WellnessScore: score(62)},
	{Email: "admin@wellness.edu", Name: "Admin User", Role: model.UserRoleAdmin, CreatedAt: seedTime("2024-01-01T00:00:00Z")},
}

// seedAssessments reference seedUsers by index.
var seedAssessments = []struct {
	user  int
	kind  assessment.Kind
	title string
	score int
	max   int
	at    string
}{
	{0, assessment.KindAnxiety, "SCA Children Anxiety Scale", 18, 30, "2024-01-20T14:30:00Z"},
	{0, assessment.KindPeerPressure, "Peer Pressure Questionnaire", 12, 24, "2024-01-19T10:15:00Z"},
	{1, assessment.KindDepressionAnxiety, "Depression & Anxiety Assessment", 8, 24, "2024-01-22T11:15:00Z"},
	{1, assessment.KindAnxiety, "SCA Children Anxiety Scale", 15, 30, "2024-01-21T16:20:00Z"},
	{2, assessment.KindPeerPressure, "Peer Pressure Questionnaire", 16, 24, "2024-01-18T09:45:00Z"},
}

var seedSessions = []struct {
	user     int
	started  string
	duration int
}{
	{0, "2024-01-20T15:00:00Z", 25},
	{0, "2024-01-22T10:30:00Z", 30},
	{1, "2024-01-19T14:15:00Z", 20},
	{1, "2024-01-21T11:45:00Z", 35},
	{1, "2024-01-23T09:20:00Z", 28},
	{1, "2024-01-24T16:10:00Z", 22},
	{2, "2024-01-18T13:30:00Z", 18},
}

// seedAppointments are placed relative to the seeding day so the schedule
// always shows both upcoming and past entries.
var seedAppointments = []struct {
	title     string
	kind      model.AppointmentType
	dayOffset int
	hour      int
	duration  int
	location  string
	counselor string
	status    model.AppointmentStatus
}{
	{"Individual Counseling Session", model.AppointmentCounseling, 3, 14, 50, "Counseling Center, Room 105", "Dr. Sarah Johnson", model.StatusScheduled},
	{"Anxiety Support Group", model.AppointmentGroup, 1, 18, 60, "Student Center, Room 201", "Group Facilitator", model.StatusScheduled},
	{"Wellness Check-in", model.AppointmentWellness, -2, 10, 30, "Wellness Center", "Wellness Coordinator", model.StatusCompleted},
}

// Seed loads the demo portal data into an empty database. Every demo account
// gets passwordHash. It reports whether anything was written.
func (s *Store) Seed(ctx context.Context, passwordHash string, now time.Time) (bool, error) {
	n, err := s.UserCount()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	ids := make([]int64, len(seedUsers))
	for i, u := range seedUsers {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		u.PasswordHash = passwordHash
		u.Active = true
		id, err := s.CreateUser(u)
		if err != nil {
			return false, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		ids[i] = id
	}

	for _, a := range seedAssessments {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		band, err := assessment.Classify(a.score, a.max)
		if err != nil {
			return false, err
		}
		if _, err := s.CreateAssessment(model.AssessmentRecord{
			UserID:      ids[a.user],
			Kind:        a.kind,
			Title:       a.title,
			Score:       a.score,
			MaxScore:    a.max,
			Band:        band,
			CompletedAt: seedTime(a.at),
		}); err != nil {
			return false, fmt.Errorf("seed assessment: %w", err)
		}
	}

	for i, cs := range seedSessions {
		started := seedTime(cs.started)
		ended := started.Add(time.Duration(cs.duration) * time.Minute)
		if err := s.insertCompanionSession(model.CompanionSession{
			ID:        fmt.Sprintf("seed-%d", i+1),
			UserID:    ids[cs.user],
			StartedAt: started,
			EndedAt:   &ended,
			Completed: true,
			Duration:  cs.duration,
		}); err != nil {
			return false, fmt.Errorf("seed companion session: %w", err)
		}
	}

	y, m, d := now.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for _, a := range seedAppointments {
		if _, err := s.CreateAppointment(model.Appointment{
			UserID:          ids[0],
			Title:           a.title,
			Type:            a.kind,
			Counselor:       a.counselor,
			Location:        a.location,
			StartsAt:        day.AddDate(0, 0, a.dayOffset).Add(time.Duration(a.hour) * time.Hour),
			DurationMinutes: a.duration,
			Status:          a.status,
		}); err != nil {
			return false, fmt.Errorf("seed appointment: %w", err)
		}
	}

	if err := s.SetMetadata(MetaSeededAt, now.UTC().Format(time.RFC3339)); err != nil {
		return false, err
	}
	slog.Info("seeded demo data", "users", len(seedUsers), "assessments", len(seedAssessments), "sessions", len(seedSessions))
	return true, nil
}
