package overview

import (
	"testing"
	"time"

	"github.com/pavelanni/wellness/internal/assessment"
	"github.com/pavelanni/wellness/internal/model"
)

func intPtr(v int) *int { return &v }

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixtures() ([]model.User, []model.AssessmentRecord, []model.CompanionSession) {
	users := []model.User{
		{ID: 1, Name: "John Doe", Email: "john.doe@student.edu", Role: model.UserRoleStudent, WellnessScore: intPtr(78)},
		{ID: 2, Name: "Jane Smith", Email: "jane.smith@student.edu", Role: model.UserRoleStudent, WellnessScore: intPtr(85)},
		{ID: 3, Name: "Mike Johnson", Email: "mike.johnson@student.edu", Role: model.UserRoleStudent, WellnessScore: intPtr(62)},
		{ID: 4, Name: "Admin User", Email: "admin@wellness.edu", Role: model.UserRoleAdmin},
	}
	assessments := []model.AssessmentRecord{
		{ID: 1, UserID: 1, Kind: assessment.KindAnxiety, Title: "SCA Children Anxiety Scale", Score: 18, MaxScore: 30, Band: assessment.BandModerate, CompletedAt: at("2024-01-20T14:30:00Z")},
		{ID: 2, UserID: 1, Kind: assessment.KindPeerPressure, Title: "Peer Pressure Questionnaire", Score: 12, MaxScore: 24, Band: assessment.BandMild, CompletedAt: at("2024-01-19T10:15:00Z")},
		{ID: 3, UserID: 2, Kind: assessment.KindDepressionAnxiety, Title: "Depression & Anxiety Assessment", Score: 8, MaxScore: 24, Band: assessment.BandMild, CompletedAt: at("2024-01-22T11:15:00Z")},
		{ID: 4, UserID: 2, Kind: assessment.KindAnxiety, Title: "SCA Children Anxiety Scale", Score: 15, MaxScore: 30, Band: assessment.BandMild, CompletedAt: at("2024-01-21T16:20:00Z")},
		{ID: 5, UserID: 3, Kind: assessment.KindPeerPressure, Title: "Peer Pressure Questionnaire", Score: 16, MaxScore: 24, Band: assessment.BandModerate, CompletedAt: at("2024-01-18T09:45:00Z")},
	}
	sessions := []model.CompanionSession{
		{ID: "s1", UserID: 1, Duration: 25, Completed: true},
		{ID: "s2", UserID: 1, Duration: 30, Completed: true},
		{ID: "s3", UserID: 2, Duration: 20, Completed: true},
		{ID: "s4", UserID: 2, Duration: 35, Completed: true},
		{ID: "s5", UserID: 2, Duration: 28, Completed: true},
		{ID: "s6", UserID: 2, Duration: 22, Completed: true},
		{ID: "s7", UserID: 3, Duration: 18, Completed: true},
	}
	return users, assessments, sessions
}

func TestAdminSummary(t *testing.T) {
	users, assessments, sessions := fixtures()
	s := AdminSummary(users, assessments, sessions)

	if s.Students != 3 {
		t.Errorf("Students = %d, want 3", s.Students)
	}
	if s.TotalAssessments != 5 || s.TotalSessions != 7 {
		t.Errorf("totals = %d/%d, want 5/7", s.TotalAssessments, s.TotalSessions)
	}
	if s.StudentsWithAssessments != 3 || s.StudentsWithSessions != 3 {
		t.Errorf("distinct = %d/%d, want 3/3", s.StudentsWithAssessments, s.StudentsWithSessions)
	}
	// (78+85+62)/3 = 75
	if s.AverageWellness != 75 {
		t.Errorf("AverageWellness = %d, want 75", s.AverageWellness)
	}
	if s.Bands[assessment.BandMild] != 3 || s.Bands[assessment.BandModerate] != 2 {
		t.Errorf("Bands = %v", s.Bands)
	}
	if _, ok := s.Bands[assessment.BandHigh]; !ok {
		t.Error("expected High band present with zero count")
	}
}

func TestAdminSummaryNoStudents(t *testing.T) {
	s := AdminSummary([]model.User{{ID: 9, Role: model.UserRoleAdmin}}, nil, nil)
	if s.Students != 0 || s.AverageWellness != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestAverageWellnessRounding(t *testing.T) {
	users := []model.User{
		{ID: 1, Role: model.UserRoleStudent, WellnessScore: intPtr(70)},
		{ID: 2, Role: model.UserRoleStudent, WellnessScore: intPtr(71)},
	}
	if got := AdminSummary(users, nil, nil).AverageWellness; got != 71 {
		t.Errorf("AverageWellness = %d, want 71 (70.5 rounds up)", got)
	}
}

func TestFilterAssessments(t *testing.T) {
	users, assessments, _ := fixtures()
	tests := []struct {
		name   string
		kind   string
		search string
		want   []int64
	}{
		{"all", "all", "", []int64{1, 2, 3, 4, 5}},
		{"empty kind", "", "", []int64{1, 2, 3, 4, 5}},
		{"anxiety", "anxiety", "", []int64{1, 4}},
		{"by name", "all", "JANE", []int64{3, 4}},
		{"by email", "peer-pressure", "mike.johnson", []int64{5}},
		{"by title", "all", "depression", []int64{3}},
		{"no match", "all", "zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := FilterAssessments(assessments, users, tt.kind, tt.search)
			if len(rows) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(rows), len(tt.want))
			}
			for i, id := range tt.want {
				if rows[i].ID != id {
					t.Errorf("row %d: ID = %d, want %d", i, rows[i].ID, id)
				}
			}
		})
	}

	rows := FilterAssessments(assessments, users, "all", "john doe")
	if rows[0].StudentName != "John Doe" || rows[0].Percentage != 60 {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestFilterAssessmentsUnknownStudent(t *testing.T) {
	users, assessments, _ := fixtures()
	orphan := model.AssessmentRecord{ID: 99, UserID: 404, Kind: assessment.KindAnxiety, Title: "Sleep Habits Check", Score: 5, MaxScore: 30}
	all := append(assessments[:len(assessments):len(assessments)], orphan)

	rows := FilterAssessments(all, users, "all", "sleep habits")
	if len(rows) == 0 || rows[len(rows)-1].ID != 99 || rows[len(rows)-1].StudentName != "" {
		t.Errorf("expected orphan to match on title, got %+v", rows)
	}
	for _, r := range FilterAssessments(all, users, "all", "404") {
		if r.ID == 99 {
			t.Error("orphan matched without a title hit")
		}
	}
}

func TestFilterSessions(t *testing.T) {
	users, _, sessions := fixtures()
	if got := len(FilterSessions(sessions, users, "")); got != 7 {
		t.Errorf("empty search: got %d, want 7", got)
	}
	rows := FilterSessions(sessions, users, "smith")
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	for _, r := range rows {
		if r.StudentName != "Jane Smith" {
			t.Errorf("unexpected student %q", r.StudentName)
		}
	}
}

func TestStudentActivity(t *testing.T) {
	users, assessments, sessions := fixtures()
	act := StudentActivity(users, assessments, sessions)
	if len(act) != 3 {
		t.Fatalf("expected 3 students, got %d", len(act))
	}
	want := map[int64][2]int{1: {2, 2}, 2: {2, 4}, 3: {1, 1}}
	for _, a := range act {
		w := want[a.User.ID]
		if a.Assessments != w[0] || a.Sessions != w[1] {
			t.Errorf("user %d: got %d/%d, want %d/%d", a.User.ID, a.Assessments, a.Sessions, w[0], w[1])
		}
	}
}

func TestWellnessLabel(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, LabelExcellent},
		{80, LabelExcellent},
		{79, LabelGood},
		{60, LabelGood},
		{59, LabelNeedsAttention},
		{0, LabelNeedsAttention},
	}
	for _, tt := range tests {
		if got := WellnessLabel(tt.score); got != tt.want {
			t.Errorf("WellnessLabel(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestStudentSummary(t *testing.T) {
	users, assessments, sessions := fixtures()

	extra := model.AssessmentRecord{ID: 6, UserID: 1, Kind: assessment.KindDepressionAnxiety, Score: 4, MaxScore: 24, CompletedAt: at("2024-01-25T08:00:00Z")}
	extra2 := model.AssessmentRecord{ID: 7, UserID: 1, Kind: assessment.KindAnxiety, Score: 4, MaxScore: 30, CompletedAt: at("2024-01-10T08:00:00Z")}
	all := append(append([]model.AssessmentRecord{}, assessments...), extra, extra2)

	ov := StudentSummary(users[0], all, sessions)
	if ov.WellnessScore != 78 || ov.WellnessLabel != LabelGood {
		t.Errorf("wellness = %d %q", ov.WellnessScore, ov.WellnessLabel)
	}
	if ov.Assessments != 4 || ov.Sessions != 2 {
		t.Errorf("counts = %d/%d, want 4/2", ov.Assessments, ov.Sessions)
	}
	if len(ov.Recent) != 3 {
		t.Fatalf("expected 3 recent, got %d", len(ov.Recent))
	}
	wantOrder := []int64{6, 1, 2}
	for i, id := range wantOrder {
		if ov.Recent[i].ID != id {
			t.Errorf("recent[%d] = %d, want %d", i, ov.Recent[i].ID, id)
		}
	}
	if len(ov.Insights) != 0 {
		t.Errorf("expected no insights, got %v", ov.Insights)
	}
}

func TestStudentSummaryInsights(t *testing.T) {
	tests := []struct {
		name        string
		score       *int
		assessments []model.AssessmentRecord
		sessions    []model.CompanionSession
		want        []string
	}{
		{"new student", nil, nil, nil, []string{InsightGetStarted, InsightTryTara}},
		{"excellent", intPtr(90), nil, []model.CompanionSession{{UserID: 1}}, []string{InsightGreatJob, InsightGetStarted}},
		{"struggling", intPtr(40), []model.AssessmentRecord{{UserID: 1}}, []model.CompanionSession{{UserID: 1}}, []string{InsightFocusWellness}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := model.User{ID: 1, Role: model.UserRoleStudent, WellnessScore: tt.score}
			got := StudentSummary(u, tt.assessments, tt.sessions).Insights
			if len(got) != len(tt.want) {
				t.Fatalf("Insights = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Insights = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
