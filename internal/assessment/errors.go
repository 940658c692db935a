package assessment

import "fmt"

// ValidationError reports a response that does not fit the questionnaire.
type ValidationError struct {
	QuestionID string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.QuestionID == "" {
		return "invalid response: " + e.Reason
	}
	return fmt.Sprintf("invalid response for question %q: %s", e.QuestionID, e.Reason)
}

// DivisionError reports a zero or missing maximum score.
type DivisionError struct {
	MaxScore int
}

func (e *DivisionError) Error() string {
	return fmt.Sprintf("cannot classify against max score %d", e.MaxScore)
}

// FixtureError reports a malformed questionnaire definition.
type FixtureError struct {
	Kind   Kind
	Reason string
}

func (e *FixtureError) Error() string {
	return fmt.Sprintf("questionnaire %s: %s", e.Kind, e.Reason)
}

// MaxScoreDriftError reports a declared maximum that differs from the sum of
// per-question maxima.
type MaxScoreDriftError struct {
	Kind     Kind
	Declared int
	Derived  int
}

func (e *MaxScoreDriftError) Error() string {
	return fmt.Sprintf("questionnaire %s: declared max score %d, questions allow %d", e.Kind, e.Declared, e.Derived)
}
