// Package assessment scores fixed-form self-report questionnaires and maps
// totals onto severity bands.
package assessment

// Kind identifies a questionnaire.
type Kind string

const (
	KindAnxiety           Kind = "anxiety"
	KindPeerPressure      Kind = "peer-pressure"
	KindDepressionAnxiety Kind = "depression-anxiety"
)

// Valid reports whether k is one of the known questionnaire kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindAnxiety, KindPeerPressure, KindDepressionAnxiety:
		return true
	}
	return false
}

// QuestionOption is one selectable answer with its weight.
type QuestionOption struct {
	Text  string `json:"text" yaml:"text"`
	Score int    `json:"score" yaml:"score"`
}

// Question is a single multiple-choice item.
type Question struct {
	ID      string           `json:"id" yaml:"id"`
	Prompt  string           `json:"prompt" yaml:"prompt"`
	Options []QuestionOption `json:"options" yaml:"options"`
}

// maxOption returns the highest option score of the question.
func (q Question) maxOption() int {
	best := 0
	for i, o := range q.Options {
		if i == 0 || o.Score > best {
			best = o.Score
		}
	}
	return best
}

// option returns the first option carrying the given score.
func (q Question) option(score int) (QuestionOption, bool) {
	for _, o := range q.Options {
		if o.Score == score {
			return o, true
		}
	}
	return QuestionOption{}, false
}

// Definition is a static questionnaire. Definitions are loaded once and
// never mutated afterwards.
type Definition struct {
	Kind        Kind       `json:"kind" yaml:"kind"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	MaxScore    int        `json:"max_score" yaml:"max_score"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

// Question looks up a question by ID.
func (d *Definition) Question(id string) (Question, bool) {
	for _, q := range d.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// DerivedMaxScore sums the maximum option score of every question.
func (d *Definition) DerivedMaxScore() int {
	total := 0
	for _, q := range d.Questions {
		total += q.maxOption()
	}
	return total
}

// Response is one submitted answer.
type Response struct {
	QuestionID          string `json:"question_id"`
	SelectedOptionScore int    `json:"selected_option_score"`
}

// Band is the qualitative severity label derived from the percentage of the
// maximum score.
type Band string

const (
	BandLow      Band = "Low"
	BandMild     Band = "Mild"
	BandModerate Band = "Moderate"
	BandHigh     Band = "High"
)

// Bands lists every band from least to most severe.
var Bands = []Band{BandLow, BandMild, BandModerate, BandHigh}

// Recommendation returns the i18n message ID of the follow-up advice for b.
func Recommendation(b Band) string {
	return "Recommendation" + string(b)
}

// ScoredResult is derived on demand and never stored as a source of truth.
type ScoredResult struct {
	TotalScore int  `json:"total_score"`
	MaxScore   int  `json:"max_score"`
	Band       Band `json:"band"`
}

// Percentage is the rounded share of the maximum score, for display.
func (r ScoredResult) Percentage() int {
	return Percentage(r.TotalScore, r.MaxScore)
}

// Answer is a response expanded with the question prompt and option text.
type Answer struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Score      int    `json:"score"`
}
