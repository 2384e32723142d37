package insight

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/marketmind/growth-api/internal/config"
	"github.com/marketmind/growth-api/internal/scorer"
	"github.com/marketmind/growth-api/pkg/groq"
)

var errMissingKey = eris.New("insight: missing Groq API key")

// Service runs the LLM-backed business intelligence operations. It holds no
// cross-request state: chat history is supplied by the caller on every call.
type Service struct {
	llm       groq.Client
	cfg       config.GroqConfig
	scorerCfg config.ScorerConfig
	rng       *lockedRand
}

// Option configures the service.
type Option func(*Service)

// WithRandSource injects the random source used for fallback fields, so
// tests can seed it.
func WithRandSource(src rand.Source) Option {
	return func(s *Service) {
		s.rng = &lockedRand{r: rand.New(src)}
	}
}

// NewService creates the insight service. The client is passed explicitly;
// there is no ambient singleton.
func NewService(llm groq.Client, cfg config.GroqConfig, scorerCfg config.ScorerConfig, opts ...Option) *Service {
	s := &Service{
		llm:       llm,
		cfg:       cfg,
		scorerCfg: scorerCfg,
		rng:       &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// complete issues a single completion call and returns the reply text.
// A missing credential short-circuits before any network attempt.
func (s *Service) complete(ctx context.Context, messages []groq.Message) (string, error) {
	if s.cfg.Key == "" {
		return "", errMissingKey
	}

	temp := s.cfg.Temperature
	resp, err := s.llm.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: &temp,
	})
	if err != nil {
		zap.L().Warn("insight: completion call failed", zap.Error(err))
		return "", err
	}
	return resp.Content(), nil
}

func (s *Service) completeUser(ctx context.Context, prompt string) (string, error) {
	return s.complete(ctx, []groq.Message{{Role: "user", Content: prompt}})
}

// completeWithSystem joins a system role and a user request into one user
// message, the wire convention the dashboard's older clients rely on.
func (s *Service) completeWithSystem(ctx context.Context, system, user string) (string, error) {
	return s.completeUser(ctx, system+"\n\n"+user)
}

// AnalyzeSentiment classifies customer feedback sentiment.
func (s *Service) AnalyzeSentiment(ctx context.Context, feedback string) Envelope {
	raw, err := s.completeUser(ctx, fmt.Sprintf(sentimentPrompt, feedback))
	if err != nil {
		return Error(err.Error())
	}
	n := normalize("sentiment", raw, func(raw string) any { return sentimentFallback(raw) })
	return Success(n.Data)
}

// CompetitorBenchmark reports market position and trend for a brand.
func (s *Service) CompetitorBenchmark(ctx context.Context, brand string) Envelope {
	raw, err := s.completeUser(ctx, fmt.Sprintf(benchmarkPrompt, brand))
	if err != nil {
		return Error(err.Error())
	}
	n := normalize("benchmark", raw, func(raw string) any { return benchmarkFallback(raw, s.rng) })
	return Success(n.Data)
}

// ComplianceCheck reviews marketing text for legal, GDPR, and claim risks.
func (s *Service) ComplianceCheck(ctx context.Context, marketingText string) Envelope {
	raw, err := s.completeUser(ctx, fmt.Sprintf(compliancePrompt, marketingText))
	if err != nil {
		return Error(err.Error())
	}
	n := normalize("compliance", raw, func(raw string) any { return complianceFallback(raw) })
	return Success(n.Data)
}

// Chat answers a customer inquiry. History is caller-supplied and not
// retained between calls.
func (s *Service) Chat(ctx context.Context, message string, history []groq.Message) Envelope {
	messages := make([]groq.Message, 0, len(history)+2)
	messages = append(messages, groq.Message{Role: "system", Content: chatSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, groq.Message{Role: "user", Content: message})

	raw, err := s.complete(ctx, messages)
	if err != nil {
		return Error(err.Error())
	}
	return Success(raw)
}

// PredictBehavior predicts churn risk and the next best touchpoint.
func (s *Service) PredictBehavior(ctx context.Context, historyData string) Envelope {
	raw, err := s.completeUser(ctx, fmt.Sprintf(predictionPrompt, historyData))
	if err != nil {
		return Error(err.Error())
	}
	n := normalize("prediction", raw, func(raw string) any { return predictionFallback(raw, s.rng) })
	return Success(n.Data)
}

// RecommendProducts recommends products for a user profile.
func (s *Service) RecommendProducts(ctx context.Context, userProfile string) Envelope {
	raw, err := s.completeUser(ctx, fmt.Sprintf(recommendationPrompt, userProfile))
	if err != nil {
		return Error(err.Error())
	}
	n := normalize("recommendation", raw, func(raw string) any { return recommendationFallback(raw) })
	return Success(n.Data)
}

// ScoreLead runs the hybrid canonical scoring path: the score is computed
// deterministically, and the model is asked only to explain it.
func (s *Service) ScoreLead(ctx context.Context, in scorer.Input) Envelope {
	det := scorer.Score(in, s.scorerCfg)

	ctxLine := ""
	if in.AdditionalContext != "" {
		ctxLine = "\n- Additional Context: " + in.AdditionalContext
	}
	prompt := fmt.Sprintf(leadReasoningPrompt,
		in.Budget, in.Timeline, in.Urgency, ctxLine,
		det.Score, det.Score, det.ConversionProbability, det.Score)

	raw, err := s.completeUser(ctx, prompt)
	if err != nil {
		return Error(err.Error())
	}
	n := normalize("lead_score", raw, func(raw string) any {
		return leadReasoningFallback(raw, det.Score, det.ConversionProbability)
	})
	return Success(n.Data)
}

// ScoreLeadLegacy runs the additive-cap scoring path behind the legacy
// endpoint.
//
// Deprecated: kept only for backward compatibility with the older
// dashboard; new callers should use ScoreLead.
func (s *Service) ScoreLeadLegacy(ctx context.Context, in scorer.Input) Envelope {
	det := scorer.LegacyScore(in)

	prompt := fmt.Sprintf(legacyLeadReasoningPrompt,
		in.Budget, in.Timeline, in.Urgency,
		det.Score, det.Score, det.ConversionProbability)

	raw, err := s.completeWithSystem(ctx, legacyLeadSystemPrompt, prompt)
	if err != nil {
		return Error(err.Error())
	}
	n := normalize("lead_score_legacy", raw, func(raw string) any {
		return leadReasoningFallback(raw, det.Score, det.ConversionProbability)
	})
	return Success(n.Data)
}

// GenerateCampaignStrategy produces a structured campaign strategy. On parse
// failure the raw model text is returned as the data, not a shaped object.
func (s *Service) GenerateCampaignStrategy(ctx context.Context, productDetails, audience string) Envelope {
	raw, err := s.completeWithSystem(ctx, campaignSystemPrompt, fmt.Sprintf(campaignPrompt, productDetails, audience))
	if err != nil {
		return Error(err.Error())
	}
	n := normalize("campaign_strategy", raw, func(raw string) any { return raw })
	return Success(n.Data)
}

// GenerateSalesPitch produces a structured B2B sales pitch. On parse failure
// the raw model text is returned as the data.
func (s *Service) GenerateSalesPitch(ctx context.Context, title, companyTier string) Envelope {
	raw, err := s.completeWithSystem(ctx, pitchSystemPrompt, fmt.Sprintf(pitchPrompt, title, companyTier))
	if err != nil {
		return Error(err.Error())
	}
	n := normalize("sales_pitch", raw, func(raw string) any { return raw })
	return Success(n.Data)
}

// GenerateMarketingStrategy is the generator-hub strategist. Parse failure
// yields the parse-failure shape with the raw reply attached.
func (s *Service) GenerateMarketingStrategy(ctx context.Context, productDetails, demographics string) Envelope {
	raw, err := s.completeUser(ctx, fmt.Sprintf(marketingStrategyPrompt, productDetails, demographics))
	if err != nil {
		return Error(err.Error())
	}
	n := normalize("marketing_strategy", raw, func(raw string) any { return parseFailureFallback(raw) })
	return Success(n.Data)
}

// GenerateProspectPitch is the generator-hub pitch architect.
func (s *Service) GenerateProspectPitch(ctx context.Context, prospectTitle, companyTier, productInfo string) Envelope {
	infoLine := ""
	if productInfo != "" {
		infoLine = "\n- Product/Service Info: " + productInfo
	}
	raw, err := s.completeUser(ctx, fmt.Sprintf(salesPitchPrompt, prospectTitle, companyTier, infoLine, prospectTitle))
	if err != nil {
		return Error(err.Error())
	}
	n := normalize("prospect_pitch", raw, func(raw string) any { return parseFailureFallback(raw) })
	return Success(n.Data)
}

// CampaignBrief is the legacy free-text campaign generator.
func (s *Service) CampaignBrief(ctx context.Context, product, audience, platform string) Envelope {
	raw, err := s.completeUser(ctx, fmt.Sprintf(legacyCampaignPrompt, product, audience, platform))
	if err != nil {
		return Error(err.Error())
	}
	return Success(raw)
}

// PitchBrief is the legacy free-text SPIN pitch generator.
func (s *Service) PitchBrief(ctx context.Context, product, customer string) Envelope {
	raw, err := s.completeUser(ctx, fmt.Sprintf(legacyPitchPrompt, product, customer))
	if err != nil {
		return Error(err.Error())
	}
	return Success(raw)
}

// LeadNarrative is the legacy free-text lead assessment, where the model
// also produces the number. Superseded by the deterministic ScoreLead.
func (s *Service) LeadNarrative(ctx context.Context, name, budget, need, urgency string) Envelope {
	raw, err := s.completeUser(ctx, fmt.Sprintf(legacyScorePrompt, name, budget, need, urgency))
	if err != nil {
		return Error(err.Error())
	}
	return Success(raw)
}
