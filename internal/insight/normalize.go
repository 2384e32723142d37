package insight

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Normalized is the two-outcome result of converting raw model text into
// structure: either the text parsed as JSON, or the operation's fallback
// object with the raw text embedded for human inspection.
type Normalized struct {
	Parsed bool `json:"parsed"`
	Data   any  `json:"data"`
}

// normalize attempts a strict JSON parse of raw in its entirety. On failure
// it substitutes the fallback built from the raw text. The fallback branch
// is a first-class outcome, not an error: callers always receive a
// success-shaped structure.
func normalize(op, raw string, fallback func(raw string) any) Normalized {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return Normalized{Parsed: true, Data: v}
	}

	zap.L().Debug("insight: model reply was not valid JSON, using fallback",
		zap.String("operation", op),
		zap.Int("raw_len", len(raw)),
	)
	return Normalized{Parsed: false, Data: fallback(raw)}
}
