package scorer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LegacyResult holds the additive-cap scoring outcome used by the legacy
// endpoint. The conversion probability is a formatted percentage string,
// matching the shape the older dashboard expects.
type LegacyResult struct {
	Score                 int    `json:"lead_score"`
	ConversionProbability string `json:"conversion_probability"`
}

// LegacyScore computes the additive-cap lead score.
//
// Deprecated: this is the older scoring path kept only for the legacy
// /api/score-lead endpoint. New callers should use Score, which applies
// the canonical weighted algorithm.
func LegacyScore(in Input) LegacyResult {
	score := legacyBudgetPoints(in.Budget) +
		legacyTimelinePoints(in.Timeline) +
		legacyUrgencyPoints(in.Urgency)
	if score > 100 {
		score = 100
	}

	return LegacyResult{
		Score:                 score,
		ConversionProbability: fmt.Sprintf("%d%%", int(math.Round(float64(score)*0.9))),
	}
}

// legacyBudgetPoints parses the budget with commas removed and no unit
// suffix handling. Parse failure earns the flat default.
func legacyBudgetPoints(budget string) int {
	s := strings.ReplaceAll(budget, ",", "")
	var b strings.Builder
	for _, c := range s {
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}
	val, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 15
	}
	switch {
	case val >= 50_000:
		return 40
	case val >= 10_000:
		return 25
	default:
		return 10
	}
}

func legacyTimelinePoints(timeline string) int {
	t := strings.ToLower(timeline)
	switch {
	case containsAny(t, "immediate", "this week"):
		return 30
	case strings.Contains(t, "this month"):
		return 25
	case strings.Contains(t, "this quarter"):
		return 15
	case strings.Contains(t, "this year"):
		return 10
	default:
		return 5
	}
}

func legacyUrgencyPoints(urgency string) int {
	u := strings.ToLower(urgency)
	switch {
	case strings.Contains(u, "high"):
		return 30
	case strings.Contains(u, "medium"):
		return 15
	default:
		return 5
	}
}
