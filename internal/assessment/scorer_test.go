package assessment

import (
	"errors"
	"testing"
)

// threeLevel builds a definition whose questions all offer scores 0..3.
func threeLevel(ids ...string) *Definition {
	def := &Definition{Kind: KindAnxiety, Title: "test"}
	for _, id := range ids {
		def.Questions = append(def.Questions, Question{
			ID:     id,
			Prompt: "prompt " + id,
			Options: []QuestionOption{
				{Text: "Never", Score: 0},
				{Text: "Sometimes", Score: 1},
				{Text: "Often", Score: 2},
				{Text: "Always", Score: 3},
			},
		})
	}
	def.MaxScore = def.DerivedMaxScore()
	return def
}

func TestScorePermutationInvariance(t *testing.T) {
	def := threeLevel("q1", "q2", "q3", "q4")
	base := []Response{
		{QuestionID: "q1", SelectedOptionScore: 3},
		{QuestionID: "q2", SelectedOptionScore: 0},
		{QuestionID: "q3", SelectedOptionScore: 2},
		{QuestionID: "q4", SelectedOptionScore: 1},
	}
	orders := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{1, 3, 0, 2},
		{2, 0, 3, 1},
	}
	for _, order := range orders {
		rs := make([]Response, len(order))
		for i, j := range order {
			rs[i] = base[j]
		}
		got, err := Score(def, rs)
		if err != nil {
			t.Fatalf("Score(%v): %v", order, err)
		}
		if got != 6 {
			t.Errorf("Score(%v) = %d, want 6", order, got)
		}
	}
}

func TestScoreDuplicateLastWins(t *testing.T) {
	def := threeLevel("q1", "q2")
	rs := []Response{
		{QuestionID: "q1", SelectedOptionScore: 3},
		{QuestionID: "q2", SelectedOptionScore: 1},
		{QuestionID: "q1", SelectedOptionScore: 0},
	}
	got, err := Score(def, rs)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got != 1 {
		t.Errorf("Score = %d, want 1", got)
	}
}

func TestScoreValidation(t *testing.T) {
	def := threeLevel("q1")
	tests := []struct {
		name string
		r    Response
	}{
		{"unknown question", Response{QuestionID: "nope", SelectedOptionScore: 1}},
		{"negative score", Response{QuestionID: "q1", SelectedOptionScore: -1}},
		{"no such option", Response{QuestionID: "q1", SelectedOptionScore: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Score(def, []Response{tt.r})
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.QuestionID != tt.r.QuestionID {
				t.Errorf("QuestionID = %q, want %q", ve.QuestionID, tt.r.QuestionID)
			}
		})
	}
}

func TestScoreEmpty(t *testing.T) {
	got, err := Score(threeLevel("q1"), nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got != 0 {
		t.Errorf("Score = %d, want 0", got)
	}
}

func TestClassifyOutOfHundred(t *testing.T) {
	for x := 0; x <= 100; x++ {
		var want Band
		switch {
		case x <= 25:
			want = BandLow
		case x <= 50:
			want = BandMild
		case x <= 75:
			want = BandModerate
		default:
			want = BandHigh
		}
		got, err := Classify(x, 100)
		if err != nil {
			t.Fatalf("Classify(%d, 100): %v", x, err)
		}
		if got != want {
			t.Errorf("Classify(%d, 100) = %s, want %s", x, got, want)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		total, max int
		want       Band
	}{
		{6, 24, BandLow},       // exactly 25%
		{7, 24, BandMild},      // 29%
		{12, 24, BandMild},     // exactly 50%
		{18, 24, BandModerate}, // exactly 75%
		{19, 24, BandHigh},
		{1, 3, BandMild},       // 33.3%
		{2, 3, BandModerate},   // 66.7%
		{30, 30, BandHigh},
	}
	for _, tt := range tests {
		got, err := Classify(tt.total, tt.max)
		if err != nil {
			t.Fatalf("Classify(%d, %d): %v", tt.total, tt.max, err)
		}
		if got != tt.want {
			t.Errorf("Classify(%d, %d) = %s, want %s", tt.total, tt.max, got, tt.want)
		}
	}
}

func TestClassifyDivisionError(t *testing.T) {
	for _, max := range []int{0, -5} {
		_, err := Classify(3, max)
		var de *DivisionError
		if !errors.As(err, &de) {
			t.Fatalf("Classify(3, %d): expected DivisionError, got %v", max, err)
		}
		if de.MaxScore != max {
			t.Errorf("MaxScore = %d, want %d", de.MaxScore, max)
		}
	}
}

func TestEvaluate(t *testing.T) {
	def := &Definition{
		Kind:     KindPeerPressure,
		MaxScore: 10,
		Questions: []Question{
			{ID: "q1", Options: []QuestionOption{{Text: "a", Score: 0}, {Text: "b", Score: 3}, {Text: "c", Score: 5}}},
			{ID: "q2", Options: []QuestionOption{{Text: "a", Score: 0}, {Text: "b", Score: 2}, {Text: "c", Score: 5}}},
		},
	}
	res, err := Evaluate(def, []Response{
		{QuestionID: "q1", SelectedOptionScore: 3},
		{QuestionID: "q2", SelectedOptionScore: 2},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.TotalScore != 5 {
		t.Errorf("TotalScore = %d, want 5", res.TotalScore)
	}
	if res.MaxScore != 10 {
		t.Errorf("MaxScore = %d, want 10", res.MaxScore)
	}
	if res.Percentage() != 50 {
		t.Errorf("Percentage = %d, want 50", res.Percentage())
	}
	if res.Band != BandMild {
		t.Errorf("Band = %s, want Mild", res.Band)
	}
}

func TestEvaluateZeroMax(t *testing.T) {
	def := threeLevel("q1")
	def.MaxScore = 0
	_, err := Evaluate(def, []Response{{QuestionID: "q1", SelectedOptionScore: 1}})
	var de *DivisionError
	if !errors.As(err, &de) {
		t.Fatalf("expected DivisionError, got %v", err)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		total, max, want int
	}{
		{18, 30, 60},
		{12, 24, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := Percentage(tt.total, tt.max); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.total, tt.max, got, tt.want)
		}
	}
}

func TestComplete(t *testing.T) {
	def := threeLevel("q1", "q2")
	if Complete(def, []Response{{QuestionID: "q1"}}) {
		t.Error("expected incomplete with one of two answers")
	}
	if !Complete(def, []Response{{QuestionID: "q2"}, {QuestionID: "q1"}}) {
		t.Error("expected complete with both answers")
	}
}

func TestAnswerRecords(t *testing.T) {
	def := threeLevel("q1", "q2", "q3")
	answers, err := AnswerRecords(def, []Response{
		{QuestionID: "q3", SelectedOptionScore: 1},
		{QuestionID: "q1", SelectedOptionScore: 2},
		{QuestionID: "q3", SelectedOptionScore: 3},
	})
	if err != nil {
		t.Fatalf("AnswerRecords: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
	if answers[0].QuestionID != "q1" || answers[1].QuestionID != "q3" {
		t.Errorf("answers out of questionnaire order: %+v", answers)
	}
	if answers[1].Answer != "Always" || answers[1].Score != 3 {
		t.Errorf("expected last response for q3, got %+v", answers[1])
	}
	if answers[0].Question != "prompt q1" {
		t.Errorf("Question = %q, want %q", answers[0].Question, "prompt q1")
	}
}

func TestRecommendation(t *testing.T) {
	if got := Recommendation(BandModerate); got != "RecommendationModerate" {
		t.Errorf("Recommendation(Moderate) = %q", got)
	}
}
