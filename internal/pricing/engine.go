// Package pricing implements the deterministic dynamic pricing formula.
package pricing

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"

	"github.com/marketmind/growth-api/internal/config"
)

// Quote holds the result of a pricing calculation.
type Quote struct {
	OptimalPrice       float64 `json:"optimal_price"`
	MarginPercent      float64 `json:"margin_percent"`
	PricingReason      string  `json:"pricing_reason"`
	CompetitorAnalysis string  `json:"competitor_analysis"`
}

// Engine computes optimal prices from cost, demand, and competitor signals.
type Engine struct {
	cfg config.PricingConfig
}

// NewEngine creates a pricing engine. Zero-valued config fields fall back
// to the standard margin and competitor factor.
func NewEngine(cfg config.PricingConfig) *Engine {
	if cfg.BaseMargin == 0 {
		cfg.BaseMargin = 0.4
	}
	if cfg.CompetitorFactor == 0 {
		cfg.CompetitorFactor = 0.3
	}
	return &Engine{cfg: cfg}
}

// Optimize calculates the optimal price. demandIndex is on a 0.5-1.5 scale.
func (e *Engine) Optimize(cost, demandIndex, competitorPrice float64) (*Quote, error) {
	if !finite(cost) || !finite(demandIndex) || !finite(competitorPrice) {
		return nil, eris.New("pricing: inputs must be finite numbers")
	}
	if cost <= 0 {
		return nil, eris.New("pricing: cost must be positive")
	}
	if demandIndex <= 0 {
		return nil, eris.New("pricing: demand index must be positive")
	}
	if competitorPrice < 0 {
		return nil, eris.New("pricing: competitor price must be non-negative")
	}

	optimal := cost*(1+e.cfg.BaseMargin)*demandIndex + (competitorPrice/cost)*e.cfg.CompetitorFactor
	margin := (optimal - cost) / optimal * 100

	var reason string
	switch {
	case demandIndex > 1.2:
		reason = "High demand detected - premium pricing recommended"
	case demandIndex < 0.8:
		reason = "Low demand - competitive pricing recommended"
	default:
		reason = "Stable demand - balanced pricing recommended"
	}

	return &Quote{
		OptimalPrice:  round2(optimal),
		MarginPercent: round2(margin),
		PricingReason: reason,
		CompetitorAnalysis: fmt.Sprintf("Competitor price: $%.2f - Your optimal: $%.2f",
			competitorPrice, round2(optimal)),
	}, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
