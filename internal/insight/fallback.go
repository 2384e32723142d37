package insight

import (
	"math/rand"
	"sync"
)

// lockedRand guards a rand.Rand for use from concurrent requests.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) intRange(min, max int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return min + l.r.Intn(max-min+1)
}

func (l *lockedRand) pick(choices []string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return choices[l.r.Intn(len(choices))]
}

// SentimentResult is the structured sentiment-analysis payload.
type SentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}

// BenchmarkResult is the structured competitor-benchmark payload.
type BenchmarkResult struct {
	MarketScore    int    `json:"market_score"`
	Trend          string `json:"trend"`
	MarketPosition string `json:"market_position"`
	KeyStrength    string `json:"key_strength"`
	KeyWeakness    string `json:"key_weakness"`
}

// ComplianceResult is the structured compliance-check payload.
type ComplianceResult struct {
	RiskLevel      string   `json:"risk_level"`
	FlaggedPhrases []string `json:"flagged_phrases"`
	Suggestions    []string `json:"suggestions"`
	GDPRCompliant  bool     `json:"gdpr_compliant"`
}

// PredictionResult is the structured behavior-prediction payload.
type PredictionResult struct {
	ChurnRisk          string `json:"churn_risk"`
	ChurnProbability   int    `json:"churn_probability"`
	NextBestAction     string `json:"next_best_action"`
	CampaignTiming     string `json:"campaign_timing"`
	RecommendedChannel string `json:"recommended_channel"`
}

// RecommendedProduct is one entry of a product-recommendation payload.
type RecommendedProduct struct {
	Name     string `json:"name"`
	Reason   string `json:"reason"`
	Priority string `json:"priority"`
}

// RecommendationResult is the structured product-recommendation payload.
type RecommendationResult struct {
	RecommendedProducts []RecommendedProduct `json:"recommended_products"`
}

// LeadReasoning is the structured lead-score explanation payload. The
// conversion probability is an int on the canonical path and a formatted
// percentage string on the legacy path.
type LeadReasoning struct {
	LeadScore             int      `json:"lead_score"`
	ConversionProbability any      `json:"conversion_probability"`
	Reasoning             string   `json:"reasoning"`
	KeyStrengths          []string `json:"key_strengths"`
	RiskFactors           []string `json:"risk_factors"`
	RecommendedAction     string   `json:"recommended_action"`
	SalesStrategy         string   `json:"sales_strategy"`
}

// ParseFailure is the generator-hub fallback shape: the raw reply is
// surfaced verbatim next to a parse-failure marker.
type ParseFailure struct {
	Error       string `json:"error"`
	RawResponse string `json:"raw_response"`
}

func sentimentFallback(raw string) SentimentResult {
	return SentimentResult{
		Sentiment:  "neutral",
		Confidence: 0.5,
		Summary:    raw,
	}
}

var benchmarkTrends = []string{"up", "down", "stable"}

func benchmarkFallback(raw string, rng *lockedRand) BenchmarkResult {
	return BenchmarkResult{
		MarketScore:    rng.intRange(60, 85),
		Trend:          rng.pick(benchmarkTrends),
		MarketPosition: raw,
		KeyStrength:    "Strong brand recognition",
		KeyWeakness:    "Limited innovation",
	}
}

func complianceFallback(string) ComplianceResult {
	return ComplianceResult{
		RiskLevel:      "low",
		FlaggedPhrases: []string{},
		Suggestions:    []string{"Review marketing claims against regulations"},
		GDPRCompliant:  true,
	}
}

func predictionFallback(raw string, rng *lockedRand) PredictionResult {
	return PredictionResult{
		ChurnRisk:          "medium",
		ChurnProbability:   rng.intRange(20, 70),
		NextBestAction:     raw,
		CampaignTiming:     "Immediate - within 7 days",
		RecommendedChannel: "Email or SMS",
	}
}

func recommendationFallback(raw string) RecommendationResult {
	return RecommendationResult{
		RecommendedProducts: []RecommendedProduct{
			{Name: "AI Analytics Suite", Reason: raw, Priority: "high"},
			{Name: "Predictive CRM", Reason: "Enhanced customer insights", Priority: "medium"},
		},
	}
}

func leadReasoningFallback(raw string, score int, probability any) LeadReasoning {
	return LeadReasoning{
		LeadScore:             score,
		ConversionProbability: probability,
		Reasoning:             raw,
		KeyStrengths:          []string{"High interest", "Qualified budget"},
		RiskFactors:           []string{},
		RecommendedAction:     "Contact immediately",
		SalesStrategy:         "Focus on value proposition",
	}
}

func parseFailureFallback(raw string) ParseFailure {
	return ParseFailure{
		Error:       "Failed to parse response",
		RawResponse: raw,
	}
}
