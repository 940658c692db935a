package model

import "time"

// AssessmentExport is the top-level JSON structure for assessment export.
type AssessmentExport struct {
	Portal     string          `json:"portal"`
	ExportedAt time.Time       `json:"exported_at"`
	Students   int             `json:"students"`
	Results    []StudentResult `json:"results"`
}

// StudentResult holds one completed assessment for export.
type StudentResult struct {
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	AttemptNumber int            `json:"attempt_number"`
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Score         int            `json:"score"`
	MaxScore      int            `json:"max_score"`
	Percentage    int            `json:"percentage"`
	Band          string         `json:"band"`
	CompletedAt   time.Time      `json:"completed_at"`
	Answers       []AnswerResult `json:"answers"`
}

// AnswerResult holds per-question data for export.
type AnswerResult struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Score      int    `json:"score"`
}
