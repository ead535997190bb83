// Package alert gates outbound signal notifications. Rules decide
// which accepted signals are worth pushing to the webhook; without
// rules every signal is pushed.
package alert

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/newthinker/chartsight/internal/core"
)

// Rule defines one notification rule.
type Rule struct {
	Name  string   `mapstructure:"name"`
	Expr  string   `mapstructure:"expr"`  // e.g. "confidence >= 80"
	Types []string `mapstructure:"types"` // signal types the rule covers, empty means all
}

var exprPattern = regexp.MustCompile(`^(\w+)\s*(>|<|>=|<=|==|!=)\s*([\d.]+)$`)

// Matches reports whether the rule fires for the given signal.
// A malformed expression never fires.
func (r *Rule) Matches(sig core.Signal) bool {
	if !r.appliesTo(sig.Type) {
		return false
	}

	matches := exprPattern.FindStringSubmatch(strings.TrimSpace(r.Expr))
	if len(matches) != 4 {
		return false
	}

	field := matches[1]
	op := matches[2]
	threshold, err := strconv.ParseFloat(matches[3], 64)
	if err != nil {
		return false
	}

	value, ok := fieldValue(sig, field)
	if !ok {
		return false
	}

	switch op {
	case ">":
		return value > threshold
	case "<":
		return value < threshold
	case ">=":
		return value >= threshold
	case "<=":
		return value <= threshold
	case "==":
		return value == threshold
	case "!=":
		return value != threshold
	default:
		return false
	}
}

func (r *Rule) appliesTo(t core.SignalType) bool {
	if len(r.Types) == 0 {
		return true
	}
	for _, want := range r.Types {
		if strings.EqualFold(want, string(t)) {
			return true
		}
	}
	return false
}

// fieldValue resolves a rule expression field against the signal.
func fieldValue(sig core.Signal, field string) (float64, bool) {
	switch strings.ToLower(field) {
	case "confidence":
		return sig.Confidence, true
	default:
		return 0, false
	}
}
