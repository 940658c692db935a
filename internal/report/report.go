// Package report renders a completed assessment as a printable PDF or an HTML
// fragment, and the admin band distribution as an interactive chart.
package report

import (
	"time"

	"github.com/pavelanni/wellness/internal/model"
)

// Report is an assessment with every user-facing string already localized.
type Report struct {
	StudentName    string
	StudentEmail   string
	Record         model.AssessmentRecord
	BandLabel      string
	Recommendation string
	GeneratedAt    time.Time
}

// Labels holds the localized headings used by both renderers.
type Labels struct {
	Heading        string
	Student        string
	Completed      string
	Score          string
	Band           string
	Recommendation string
	Question       string
	Answer         string
	Points         string
}

// DefaultLabels are the English headings.
var DefaultLabels = Labels{
	Heading:        "Assessment report",
	Student:        "Student",
	Completed:      "Completed",
	Score:          "Score",
	Band:           "Band",
	Recommendation: "Recommendation",
	Question:       "Question",
	Answer:         "Answer",
	Points:         "Points",
}

const dateLayout = "2006-01-02 15:04"
