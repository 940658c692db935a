package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pavelanni/wellness/internal/assessment"
	"github.com/pavelanni/wellness/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestUser(t *testing.T, s *Store, email string, role model.UserRole) int64 {
	t.Helper()
	id, err := s.CreateUser(model.User{
		Email:        email,
		Name:         "Test " + email,
		PasswordHash: "hash",
		Role:         role,
		Active:       true,
	})
	if err != nil {
		t.Fatalf("insertTestUser: %v", err)
	}
	return id
}

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)

	count, err := s.UserCount()
	if err != nil {
		t.Fatalf("UserCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 users, got %d", count)
	}

	id := insertTestUser(t, s, "Amy@Student.edu", model.UserRoleStudent)

	u, err := s.GetUserByEmail("amy@student.EDU ")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if u.ID != id || u.Email != "amy@student.edu" {
		t.Errorf("unexpected user %+v", u)
	}
	if !u.Active || u.Role != model.UserRoleStudent {
		t.Errorf("expected active student, got %+v", u)
	}
	if u.WellnessScore != nil {
		t.Errorf("expected nil wellness score, got %d", *u.WellnessScore)
	}

	if err := s.SetWellnessScore(id, 70); err != nil {
		t.Fatalf("SetWellnessScore: %v", err)
	}
	u, _ = s.GetUserByID(id)
	if u.WellnessScore == nil || *u.WellnessScore != 70 {
		t.Errorf("expected wellness 70, got %v", u.WellnessScore)
	}

	if _, err := s.GetUserByID(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetUserByEmail("nobody@x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Duplicate email.
	if _, err := s.CreateUser(model.User{Email: "amy@student.edu", Name: "x", PasswordHash: "h", Role: model.UserRoleStudent}); err == nil {
		t.Error("expected unique constraint error")
	}
}

func TestToggleUserActiveEndsSessions(t *testing.T) {
	s := newTestStore(t)
	id := insertTestUser(t, s, "bob@student.edu", model.UserRoleStudent)

	token, err := s.CreateAuthSession(id)
	if err != nil {
		t.Fatalf("CreateAuthSession: %v", err)
	}

	if err := s.ToggleUserActive(id); err != nil {
		t.Fatalf("ToggleUserActive: %v", err)
	}
	u, _ := s.GetUserByID(id)
	if u.Active {
		t.Error("expected user inactive")
	}
	if _, err := s.GetAuthSession(token); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected session removed, got %v", err)
	}

	if err := s.ToggleUserActive(id); err != nil {
		t.Fatalf("ToggleUserActive: %v", err)
	}
	u, _ = s.GetUserByID(id)
	if !u.Active {
		t.Error("expected user active again")
	}

	if err := s.ToggleUserActive(4242); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAuthSession(t *testing.T) {
	s := newTestStore(t)
	id := insertTestUser(t, s, "cat@student.edu", model.UserRoleStudent)

	token, err := s.CreateAuthSession(id)
	if err != nil {
		t.Fatalf("CreateAuthSession: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("expected 64-char token, got %d", len(token))
	}
	sess, err := s.GetAuthSession(token)
	if err != nil {
		t.Fatalf("GetAuthSession: %v", err)
	}
	if sess.UserID != id {
		t.Errorf("UserID = %d, want %d", sess.UserID, id)
	}

	if err := s.DeleteAuthSession(token); err != nil {
		t.Fatalf("DeleteAuthSession: %v", err)
	}
	if _, err := s.GetAuthSession(token); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestAssessmentRoundTrip(t *testing.T) {
	s := newTestStore(t)
	uid := insertTestUser(t, s, "dan@student.edu", model.UserRoleStudent)

	rec := model.AssessmentRecord{
		UserID:      uid,
		Kind:        assessment.KindAnxiety,
		Title:       "SCA Children Anxiety Scale",
		Score:       4,
		MaxScore:    30,
		Band:        assessment.BandLow,
		CompletedAt: time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		Responses: []assessment.Answer{
			{QuestionID: "anx1", Question: "I worry about things", Answer: "Always", Score: 3},
			{QuestionID: "anx2", Question: "I feel scared", Answer: "Sometimes", Score: 1},
		},
	}
	id, err := s.CreateAssessment(rec)
	if err != nil {
		t.Fatalf("CreateAssessment: %v", err)
	}

	got, err := s.GetAssessment(id)
	if err != nil {
		t.Fatalf("GetAssessment: %v", err)
	}
	if got.Score != 4 || got.Band != assessment.BandLow || got.Kind != assessment.KindAnxiety {
		t.Errorf("unexpected record %+v", got)
	}
	if !got.CompletedAt.Equal(rec.CompletedAt) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, rec.CompletedAt)
	}
	if len(got.Responses) != 2 || got.Responses[0].QuestionID != "anx1" || got.Responses[1].Answer != "Sometimes" {
		t.Errorf("unexpected responses %+v", got.Responses)
	}

	later := rec
	later.Responses = nil
	later.CompletedAt = rec.CompletedAt.Add(time.Hour)
	id2, _ := s.CreateAssessment(later)

	list, err := s.ListAssessmentsByUser(uid)
	if err != nil {
		t.Fatalf("ListAssessmentsByUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != id2 {
		t.Errorf("expected newest first, got %+v", list)
	}
	if list[0].Responses != nil {
		t.Error("list should not load answers")
	}

	if _, err := s.GetAssessment(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCompanionSession(t *testing.T) {
	s := newTestStore(t)
	uid := insertTestUser(t, s, "eve@student.edu", model.UserRoleStudent)

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	cs, err := s.StartCompanionSession(uid, start)
	if err != nil {
		t.Fatalf("StartCompanionSession: %v", err)
	}
	if len(cs.ID) != 36 {
		t.Errorf("expected uuid id, got %q", cs.ID)
	}

	for _, m := range []model.ChatMessage{
		{SessionID: cs.ID, Sender: model.SenderTara, Content: "Hello"},
		{SessionID: cs.ID, Sender: model.SenderUser, Content: "I can't sleep"},
	} {
		if _, err := s.AddChatMessage(m); err != nil {
			t.Fatalf("AddChatMessage: %v", err)
		}
	}
	msgs, err := s.GetChatMessages(cs.ID)
	if err != nil {
		t.Fatalf("GetChatMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Sender != model.SenderTara || msgs[1].Content != "I can't sleep" {
		t.Errorf("unexpected transcript %+v", msgs)
	}

	ended, err := s.EndCompanionSession(cs.ID, start.Add(12*time.Minute+10*time.Second))
	if err != nil {
		t.Fatalf("EndCompanionSession: %v", err)
	}
	if !ended.Completed || ended.Duration != 13 || ended.EndedAt == nil {
		t.Errorf("unexpected ended session %+v", ended)
	}

	again, err := s.EndCompanionSession(cs.ID, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("EndCompanionSession again: %v", err)
	}
	if again.Duration != 13 {
		t.Errorf("second end changed duration to %d", again.Duration)
	}

	if _, err := s.EndCompanionSession("missing", start); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestChatExchange(t *testing.T) {
	s := newTestStore(t)
	uid := insertTestUser(t, s, "sam@student.edu", model.UserRoleStudent)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	cs, err := s.StartCompanionSession(uid, at)
	if err != nil {
		t.Fatalf("StartCompanionSession: %v", err)
	}

	msg, reply, err := s.AddChatExchange(
		model.ChatMessage{SessionID: cs.ID, Sender: model.SenderUser, Content: "I feel stressed", CreatedAt: at},
		model.ChatMessage{SessionID: cs.ID, Sender: model.SenderTara, Content: "Let's breathe", CreatedAt: at.Add(2 * time.Second)},
	)
	if err != nil {
		t.Fatalf("AddChatExchange: %v", err)
	}
	if msg.ID == 0 || reply.ID <= msg.ID {
		t.Errorf("unexpected ids %d, %d", msg.ID, reply.ID)
	}

	msgs, err := s.GetChatMessages(cs.ID)
	if err != nil {
		t.Fatalf("GetChatMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Sender != model.SenderUser || msgs[1].Sender != model.SenderTara {
		t.Errorf("unexpected transcript %+v", msgs)
	}
}

func TestListAppointments(t *testing.T) {
	s := newTestStore(t)
	a := insertTestUser(t, s, "a@student.edu", model.UserRoleStudent)
	b := insertTestUser(t, s, "b@student.edu", model.UserRoleStudent)
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	for _, apt := range []model.Appointment{
		{UserID: b, Title: "Follow-up", StartsAt: day.Add(14 * time.Hour), DurationMinutes: 50},
		{UserID: a, Title: "Intake", StartsAt: day.Add(10 * time.Hour), DurationMinutes: 50},
	} {
		if _, err := s.CreateAppointment(apt); err != nil {
			t.Fatalf("CreateAppointment: %v", err)
		}
	}

	all, err := s.ListAppointments()
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if len(all) != 2 || all[0].UserID != a || all[0].Status != model.StatusScheduled {
		t.Errorf("unexpected appointments %+v", all)
	}
	mine, err := s.ListAppointmentsByUser(b)
	if err != nil {
		t.Fatalf("ListAppointmentsByUser: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "Follow-up" {
		t.Errorf("unexpected user appointments %+v", mine)
	}
}

func TestUserSettings(t *testing.T) {
	s := newTestStore(t)
	uid := insertTestUser(t, s, "kim@student.edu", model.UserRoleStudent)

	st, err := s.GetUserSettings(uid)
	if err != nil {
		t.Fatalf("GetUserSettings: %v", err)
	}
	if st.UpdatedAt != nil || st.Preferences.Language != "en" || !st.Notifications.Email {
		t.Errorf("expected defaults, got %+v", st)
	}

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	st.Profile.Phone = "+1 555 0100"
	st.Notifications.Email = false
	st.Privacy.DataRetention = "5years"
	st.Preferences.Language = "es"
	st.UpdatedAt = &at
	if err := s.SaveUserSettings(st); err != nil {
		t.Fatalf("SaveUserSettings: %v", err)
	}
	st.Preferences.Theme = "dark"
	if err := s.SaveUserSettings(st); err != nil {
		t.Fatalf("SaveUserSettings again: %v", err)
	}

	got, err := s.GetUserSettings(uid)
	if err != nil {
		t.Fatalf("GetUserSettings: %v", err)
	}
	if got.Profile.Phone != "+1 555 0100" || got.Notifications.Email || got.Privacy.DataRetention != "5years" {
		t.Errorf("unexpected saved settings %+v", got)
	}
	if got.Preferences.Language != "es" || got.Preferences.Theme != "dark" {
		t.Errorf("unexpected preferences %+v", got.Preferences)
	}
	if got.UpdatedAt == nil || !got.UpdatedAt.Equal(at) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, at)
	}
}

func TestMetadata(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetMetadata("missing")
	if err != nil || v != "" {
		t.Errorf("GetMetadata(missing) = %q, %v", v, err)
	}
	if err := s.SetMetadata(MetaPortal, "A"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if err := s.SetMetadata(MetaPortal, "B"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if v, _ := s.GetMetadata(MetaPortal); v != "B" {
		t.Errorf("expected B, got %q", v)
	}
}

func TestSeedAndExport(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2024, 1, 22, 12, 0, 0, 0, time.UTC)

	seeded, err := s.Seed(context.Background(), "hash", now)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if !seeded {
		t.Fatal("expected seed on empty db")
	}
	seeded, err = s.Seed(context.Background(), "hash", now)
	if err != nil || seeded {
		t.Fatalf("second Seed = %v, %v; want false, nil", seeded, err)
	}

	at, err := s.SeededAt()
	if err != nil || !at.Equal(now) {
		t.Errorf("SeededAt = %v, %v", at, err)
	}

	users, _ := s.ListUsers()
	if len(users) != 4 {
		t.Errorf("expected 4 users, got %d", len(users))
	}
	sessions, _ := s.ListCompanionSessions()
	if len(sessions) != 7 {
		t.Errorf("expected 7 sessions, got %d", len(sessions))
	}
	john, err := s.GetUserByEmail("john.doe@student.edu")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	apts, _ := s.ListAppointmentsByUser(john.ID)
	if len(apts) != 3 {
		t.Errorf("expected 3 appointments, got %d", len(apts))
	}

	if err := s.SetMetadata(MetaPortal, "Demo"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	exp, err := s.ExportAssessments(now)
	if err != nil {
		t.Fatalf("ExportAssessments: %v", err)
	}
	if exp.Portal != "Demo" || exp.Students != 3 || len(exp.Results) != 5 {
		t.Fatalf("unexpected export header: portal=%q students=%d results=%d", exp.Portal, exp.Students, len(exp.Results))
	}
	first := exp.Results[0]
	if first.Email != "mike.johnson@student.edu" || first.Percentage != 67 || first.Band != "Moderate" {
		t.Errorf("unexpected first result %+v", first)
	}
	for _, r := range exp.Results {
		if r.AttemptNumber != 1 {
			t.Errorf("%s %s: attempt %d, want 1", r.Email, r.Type, r.AttemptNumber)
		}
	}
}

func TestSeedCancelled(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Seed(ctx, "hash", time.Now()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
