package companion

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

//go:embed script.json
var defaultScript []byte

// Script is the conversation table. Rules are kept in priority order.
type Script struct {
	Welcome  string     `json:"welcome"`
	Rules    []ChatRule `json:"rules"`
	Defaults []string   `json:"defaults"`
}

// ParseScript decodes a JSON script and normalizes keywords to lower case.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if len(s.Defaults) == 0 {
		return nil, ErrNoDefaults
	}
	if s.Welcome == "" {
		return nil, errors.New("script has no welcome message")
	}
	for i := range s.Rules {
		if s.Rules[i].Response == "" {
			return nil, fmt.Errorf("rule %d (%s) has no response", i, s.Rules[i].Topic)
		}
		for j, kw := range s.Rules[i].Keywords {
			s.Rules[i].Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}
	return &s, nil
}

// DefaultScript returns Tara's built-in script.
func DefaultScript() *Script {
	s, err := ParseScript(defaultScript)
	if err != nil {
		panic("companion: embedded script: " + err.Error())
	}
	return s
}
