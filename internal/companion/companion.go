package companion

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Companion binds a script to a random source. It holds no per-conversation
// state and is safe for concurrent use when rnd is.
type Companion struct {
	script *Script
	rnd    func() float64
}

// New returns a Companion. A nil rnd uses math/rand/v2.
func New(script *Script, rnd func() float64) *Companion {
	if rnd == nil {
		rnd = rand.Float64
	}
	return &Companion{script: script, rnd: rnd}
}

// Reply answers a single user message.
func (c *Companion) Reply(text string) (string, error) {
	return SelectResponse(text, c.script.Rules, c.script.Defaults, c.rnd)
}

// Topic returns the topic of the rule that would answer text, or "" when the
// reply would come from the defaults.
func (c *Companion) Topic(text string) string {
	r, _ := Match(text, c.script.Rules)
	return r.Topic
}

// Welcome returns the opening message for a new session.
func (c *Companion) Welcome(name string) string {
	return strings.ReplaceAll(c.script.Welcome, "{name}", name)
}

// TypingDelay returns the simulated response latency, between 1.5 and 2.5
// seconds.
func TypingDelay(rnd func() float64) time.Duration {
	return 1500*time.Millisecond + time.Duration(rnd()*float64(time.Second))
}
