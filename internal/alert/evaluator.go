package alert

import (
	"sync"
	"time"

	"github.com/newthinker/chartsight/internal/core"
)

// Evaluator decides whether a signal should be notified. With no
// rules configured every signal passes. Each rule has an independent
// cooldown so a noisy rule cannot flood the webhook.
type Evaluator struct {
	rules    []Rule
	cooldown time.Duration

	// Track last fired time per rule for cooldown
	lastFired map[string]time.Time

	// For testing: allow time advancement
	now func() time.Time

	mu sync.Mutex
}

// NewEvaluator creates an evaluator over the given rules.
func NewEvaluator(rules []Rule) *Evaluator {
	return &Evaluator{
		rules:     rules,
		cooldown:  5 * time.Minute,
		lastFired: make(map[string]time.Time),
		now:       time.Now,
	}
}

// SetCooldown sets the per-rule cooldown between notifications.
// Zero disables the cooldown.
func (e *Evaluator) SetCooldown(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cooldown = d
}

// ShouldNotify reports whether the signal passes at least one rule
// that is not in cooldown. Matching rules in cooldown are consumed
// silently.
func (e *Evaluator) ShouldNotify(sig core.Signal) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.rules) == 0 {
		return true
	}

	now := e.now()
	fired := false

	for i := range e.rules {
		rule := &e.rules[i]
		if !rule.Matches(sig) {
			continue
		}
		last, seen := e.lastFired[rule.Name]
		if e.cooldown > 0 && seen && now.Sub(last) < e.cooldown {
			continue
		}
		e.lastFired[rule.Name] = now
		fired = true
	}

	return fired
}
