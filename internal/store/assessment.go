package store

import (
	"fmt"

	"github.com/pavelanni/wellness/internal/assessment"
	"github.com/pavelanni/wellness/internal/model"
)

const assessmentColumns = `id, user_id, kind, title, score, max_score, band, completed_at`

func scanAssessment(row scanner) (model.AssessmentRecord, error) {
	var a model.AssessmentRecord
	err := row.Scan(&a.ID, &a.UserID, &a.Kind, &a.Title, &a.Score, &a.MaxScore, &a.Band, &a.CompletedAt)
	return a, err
}

// CreateAssessment stores a completed assessment with its answers.
func (s *Store) CreateAssessment(a model.AssessmentRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO assessments (user_id, kind, title, score, max_score, band, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Kind, a.Title, a.Score, a.MaxScore, a.Band, a.CompletedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert assessment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, ans := range a.Responses {
		if _, err := tx.Exec(
			`INSERT INTO assessment_answers (assessment_id, question_id, question, answer, score)
			 VALUES (?, ?, ?, ?, ?)`,
			id, ans.QuestionID, ans.Question, ans.Answer, ans.Score,
		); err != nil {
			return 0, fmt.Errorf("insert answer %s: %w", ans.QuestionID, err)
		}
	}

	return id, tx.Commit()
}

// GetAssessment returns an assessment with its answers.
func (s *Store) GetAssessment(id int64) (*model.AssessmentRecord, error) {
	a, err := scanAssessment(s.db.QueryRow(`SELECT `+assessmentColumns+` FROM assessments WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}

	rows, err := s.db.Query(
		`SELECT question_id, question, answer, score FROM assessment_answers
		 WHERE assessment_id = ? ORDER BY id`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ans assessment.Answer
		if err := rows.Scan(&ans.QuestionID, &ans.Question, &ans.Answer, &ans.Score); err != nil {
			return nil, err
		}
		a.Responses = append(a.Responses, ans)
	}
	return &a, rows.Err()
}

// ListAssessments returns every assessment without answers, newest first.
func (s *Store) ListAssessments() ([]model.AssessmentRecord, error) {
	return s.queryAssessments(`SELECT ` + assessmentColumns + ` FROM assessments ORDER BY completed_at DESC, id DESC`)
}

// ListAssessmentsByUser returns one user's assessments without answers,
// newest first.
func (s *Store) ListAssessmentsByUser(userID int64) ([]model.AssessmentRecord, error) {
	return s.queryAssessments(
		`SELECT `+assessmentColumns+` FROM assessments WHERE user_id = ? ORDER BY completed_at DESC, id DESC`, userID,
	)
}

func (s *Store) queryAssessments(query string, args ...any) ([]model.AssessmentRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.AssessmentRecord
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
