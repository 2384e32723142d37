// Package scorer implements deterministic lead scoring from free-text
// budget, timeline, and urgency signals.
//
// The score is computed locally so it is reproducible and auditable; the
// LLM is only ever asked to explain the number, never to produce it.
package scorer

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/marketmind/growth-api/internal/config"
)

// Input holds the raw lead attributes. All fields are free-form text;
// no format is enforced.
type Input struct {
	Budget            string `json:"budget"`
	Timeline          string `json:"timeline"`
	Urgency           string `json:"urgency"`
	AdditionalContext string `json:"additional_context,omitempty"`
}

// Result holds the deterministic scoring outcome, including the per-signal
// sub-scores that fed the weighted total.
type Result struct {
	Score                 int `json:"lead_score"`
	ConversionProbability int `json:"conversion_probability"`
	BudgetSub             int `json:"budget_sub"`
	TimelineSub           int `json:"timeline_sub"`
	UrgencySub            int `json:"urgency_sub"`
}

// DefaultWeights returns the canonical signal weights. Weights sum to 1.
func DefaultWeights() config.ScorerConfig {
	return config.ScorerConfig{
		BudgetWeight:   0.40,
		TimelineWeight: 0.35,
		UrgencyWeight:  0.25,
	}
}

// Score computes the weighted lead score. It is total over arbitrary text:
// malformed input degrades to midpoint sub-scores rather than failing.
func Score(in Input, cfg config.ScorerConfig) Result {
	if cfg.BudgetWeight == 0 && cfg.TimelineWeight == 0 && cfg.UrgencyWeight == 0 {
		cfg = DefaultWeights()
	}

	r := Result{
		BudgetSub:   budgetSubScore(in.Budget),
		TimelineSub: timelineSubScore(in.Timeline),
		UrgencySub:  urgencySubScore(in.Urgency),
	}

	r.Score = int(float64(r.BudgetSub)*cfg.BudgetWeight +
		float64(r.TimelineSub)*cfg.TimelineWeight +
		float64(r.UrgencySub)*cfg.UrgencyWeight)
	r.ConversionProbability = conversionProbability(r.Score)

	zap.L().Debug("scorer: lead scored",
		zap.Int("budget_sub", r.BudgetSub),
		zap.Int("timeline_sub", r.TimelineSub),
		zap.Int("urgency_sub", r.UrgencySub),
		zap.Int("score", r.Score),
	)

	return r
}

// budgetSubScore extracts a numeric magnitude from a free-form budget string
// ("$50k", "1.2m", "25,000") and maps it to a sub-score. Defaults to the
// midpoint when no digits can be extracted.
func budgetSubScore(budget string) int {
	val, ok := ParseBudget(budget)
	if !ok {
		return 50
	}
	switch {
	case val < 10_000:
		return 30
	case val < 50_000:
		return 60
	default:
		return 100
	}
}

// ParseBudget extracts a numeric magnitude from a budget string. A trailing
// "k" or "m" (case-insensitive) multiplies by a thousand or a million.
// Returns false when the string contains no digits or does not parse.
func ParseBudget(budget string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(budget))

	// Multiply rather than append zeros so decimal magnitudes like
	// "1.2m" survive.
	multiplier := 1.0
	if strings.HasSuffix(s, "k") {
		s = strings.TrimSuffix(s, "k")
		multiplier = 1_000
	} else if strings.HasSuffix(s, "m") {
		s = strings.TrimSuffix(s, "m")
		multiplier = 1_000_000
	}

	var b strings.Builder
	for _, c := range s {
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}

	val, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return val * multiplier, true
}

// timelineSubScore maps a natural-language timeline to a sub-score by
// substring match, first hit wins. "quarter" is checked before the
// week/this/month group so "This Quarter" lands in the quarter bracket.
func timelineSubScore(timeline string) int {
	t := strings.ToLower(timeline)
	switch {
	case containsAny(t, "now", "immediate", "urgent"):
		return 100
	case strings.Contains(t, "quarter"):
		return 60
	case containsAny(t, "week", "this", "month"):
		return 80
	case containsAny(t, "year", "next"):
		return 30
	default:
		return 50
	}
}

// urgencySubScore maps a natural-language urgency level to a sub-score.
func urgencySubScore(urgency string) int {
	u := strings.ToLower(urgency)
	switch {
	case containsAny(u, "high", "critical"):
		return 100
	case strings.Contains(u, "medium"):
		return 65
	case strings.Contains(u, "low"):
		return 30
	default:
		return 50
	}
}

// conversionProbability maps a lead score to an estimated conversion
// probability by bracket.
func conversionProbability(score int) int {
	switch {
	case score >= 80:
		return 75
	case score >= 60:
		return 50
	case score >= 40:
		return 25
	default:
		return 10
	}
}

// containsAny checks if s contains any of the given substrings.
func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
