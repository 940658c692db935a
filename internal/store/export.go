package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/pavelanni/wellness/internal/model"
)

// ExportAssessments builds the export document covering every stored
// assessment, oldest first. AttemptNumber counts a student's attempts at
// the same questionnaire.
func (s *Store) ExportAssessments(now time.Time) (model.AssessmentExport, error) {
	exp := model.AssessmentExport{ExportedAt: now.UTC(), Results: []model.StudentResult{}}

	portal, err := s.GetMetadata(MetaPortal)
	if err != nil {
		return exp, fmt.Errorf("get portal name: %w", err)
	}
	exp.Portal = portal

	list, err := s.ListAssessments()
	if err != nil {
		return exp, fmt.Errorf("list assessments: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CompletedAt.Equal(list[j].CompletedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CompletedAt.Before(list[j].CompletedAt)
	})

	users := make(map[int64]*model.User)
	attempts := make(map[string]int)
	for _, a := range list {
		u, ok := users[a.UserID]
		if !ok {
			u, err = s.GetUserByID(a.UserID)
			if err != nil {
				return exp, fmt.Errorf("get user %d: %w", a.UserID, err)
			}
			users[a.UserID] = u
		}

		full, err := s.GetAssessment(a.ID)
		if err != nil {
			return exp, fmt.Errorf("get assessment %d: %w", a.ID, err)
		}

		key := fmt.Sprintf("%d/%s", a.UserID, a.Kind)
		attempts[key]++

		answers := make([]model.AnswerResult, 0, len(full.Responses))
		for _, r := range full.Responses {
			answers = append(answers, model.AnswerResult{
				QuestionID: r.QuestionID,
				Question:   r.Question,
				Answer:     r.Answer,
				Score:      r.Score,
			})
		}

		exp.Results = append(exp.Results, model.StudentResult{
			Email:         u.Email,
			Name:          u.Name,
			AttemptNumber: attempts[key],
			Type:          string(a.Kind),
			Title:         a.Title,
			Score:         a.Score,
			MaxScore:      a.MaxScore,
			Percentage:    a.Percentage(),
			Band:          string(a.Band),
			CompletedAt:   a.CompletedAt,
			Answers:       answers,
		})
	}
	exp.Students = len(users)
	return exp, nil
}
