package assessment

import "sort"

// dedupe validates responses against the definition and keeps the last
// response per question.
func dedupe(def *Definition, responses []Response) (map[string]int, error) {
	latest := make(map[string]int, len(responses))
	for _, r := range responses {
		q, ok := def.Question(r.QuestionID)
		if !ok {
			return nil, &ValidationError{QuestionID: r.QuestionID, Reason: "unknown question"}
		}
		if r.SelectedOptionScore < 0 {
			return nil, &ValidationError{QuestionID: r.QuestionID, Reason: "negative score"}
		}
		if _, ok := q.option(r.SelectedOptionScore); !ok {
			return nil, &ValidationError{QuestionID: r.QuestionID, Reason: "score matches no option"}
		}
		latest[r.QuestionID] = r.SelectedOptionScore
	}
	return latest, nil
}

// Score sums the selected option scores. A later response for the same
// question replaces an earlier one, so the total does not depend on
// submission order.
func Score(def *Definition, responses []Response) (int, error) {
	latest, err := dedupe(def, responses)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, s := range latest {
		total += s
	}
	return total, nil
}

// Classify maps a total onto a band using inclusive upper bounds of 25, 50
// and 75 percent. The comparison is done in integers so boundary values
// always land in the lower band.
func Classify(total, maxScore int) (Band, error) {
	if maxScore <= 0 {
		return "", &DivisionError{MaxScore: maxScore}
	}
	scaled := 100 * total
	switch {
	case scaled <= 25*maxScore:
		return BandLow, nil
	case scaled <= 50*maxScore:
		return BandMild, nil
	case scaled <= 75*maxScore:
		return BandModerate, nil
	default:
		return BandHigh, nil
	}
}

// Evaluate scores the responses and classifies the total against the
// definition's declared maximum.
func Evaluate(def *Definition, responses []Response) (ScoredResult, error) {
	total, err := Score(def, responses)
	if err != nil {
		return ScoredResult{}, err
	}
	band, err := Classify(total, def.MaxScore)
	if err != nil {
		return ScoredResult{}, err
	}
	return ScoredResult{TotalScore: total, MaxScore: def.MaxScore, Band: band}, nil
}

// Percentage returns total/maxScore as a percentage rounded half up.
// It returns 0 when maxScore is not positive.
func Percentage(total, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return (200*total + maxScore) / (2 * maxScore)
}

// Complete reports whether every question of the definition has a response.
func Complete(def *Definition, responses []Response) bool {
	seen := make(map[string]bool, len(responses))
	for _, r := range responses {
		seen[r.QuestionID] = true
	}
	for _, q := range def.Questions {
		if !seen[q.ID] {
			return false
		}
	}
	return true
}

// AnswerRecords resolves responses into answer rows ordered as the questions
// appear in the definition.
func AnswerRecords(def *Definition, responses []Response) ([]Answer, error) {
	latest, err := dedupe(def, responses)
	if err != nil {
		return nil, err
	}
	pos := make(map[string]int, len(def.Questions))
	for i, q := range def.Questions {
		pos[q.ID] = i
	}
	answers := make([]Answer, 0, len(latest))
	for id, s := range latest {
		q, _ := def.Question(id)
		opt, _ := q.option(s)
		answers = append(answers, Answer{
			QuestionID: id,
			Question:   q.Prompt,
			Answer:     opt.Text,
			Score:      s,
		})
	}
	sort.Slice(answers, func(i, j int) bool {
		return pos[answers[i].QuestionID] < pos[answers[j].QuestionID]
	})
	return answers, nil
}
