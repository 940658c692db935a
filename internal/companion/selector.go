// Package companion implements Tara, the scripted wellness companion. Replies
// come from an ordered keyword rule table with a randomized fallback.
package companion

import (
	"errors"
	"math"
	"strings"
)

// ChatRule maps a set of lower-case keywords to a canned response.
type ChatRule struct {
	Topic    string   `json:"topic"`
	Keywords []string `json:"keywords"`
	Response string   `json:"response"`
}

// matches reports whether any keyword occurs in the normalized text.
func (r ChatRule) matches(text string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// EmptyInputError is returned for blank user text.
type EmptyInputError struct{}

func (EmptyInputError) Error() string { return "empty chat input" }

// ErrNoDefaults is returned when no rule matched and there is no fallback.
var ErrNoDefaults = errors.New("no default responses configured")

// Match returns the first rule matching text, compared case-insensitively.
func Match(text string, rules []ChatRule) (ChatRule, bool) {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.matches(lower) {
			return r, true
		}
	}
	return ChatRule{}, false
}

// SelectResponse returns the response of the first matching rule. When no
// rule matches, it picks floor(rnd()*len(defaults)) from defaults, clamped to
// a valid index.
func SelectResponse(text string, rules []ChatRule, defaults []string, rnd func() float64) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &EmptyInputError{}
	}
	if r, ok := Match(text, rules); ok {
		return r.Response, nil
	}
	if len(defaults) == 0 {
		return "", ErrNoDefaults
	}
	return defaults[pick(rnd(), len(defaults))], nil
}

func pick(f float64, n int) int {
	if math.IsNaN(f) {
		return 0
	}
	i := int(math.Floor(f * float64(n)))
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
