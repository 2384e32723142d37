package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/marketmind/growth-api/internal/insight"
	"github.com/marketmind/growth-api/internal/scorer"
	"github.com/marketmind/growth-api/pkg/groq"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondResult maps an envelope to the `{"result": ...}` wrapper the
// dashboard's module endpoints expect. Remote-service failures surface as
// a bad-gateway error body, never as a raised exception.
func respondResult(w http.ResponseWriter, env insight.Envelope) {
	if env.Status == insight.StatusError {
		respondError(w, http.StatusBadGateway, env.Message)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"result": env.Data})
}

// respondEnvelope returns the envelope body verbatim; transport failures
// ride inside it as `{status: error, message}` with a 200, the envelope
// calling convention.
func respondEnvelope(w http.ResponseWriter, env insight.Envelope) {
	respondJSON(w, http.StatusOK, env)
}

// toFloat coerces a JSON number or numeric string to a float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toText renders a JSON value for prompt embedding: strings pass through,
// anything else is re-serialized.
func toText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "AI Platform is running",
	})
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Feedback string `json:"feedback"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Feedback == "" {
		respondError(w, http.StatusBadRequest, "Missing feedback field")
		return
	}
	respondResult(w, s.insight.AnalyzeSentiment(r.Context(), req.Feedback))
}

func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Brand string `json:"brand"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Brand == "" {
		respondError(w, http.StatusBadRequest, "Missing brand field")
		return
	}
	respondResult(w, s.insight.CompetitorBenchmark(r.Context(), req.Brand))
}

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cost            any `json:"cost"`
		DemandIndex     any `json:"demand_index"`
		CompetitorPrice any `json:"competitor_price"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Cost == nil || req.DemandIndex == nil || req.CompetitorPrice == nil {
		respondError(w, http.StatusBadRequest, "Missing fields. Required: cost, demand_index, competitor_price")
		return
	}

	cost, ok1 := toFloat(req.Cost)
	demand, ok2 := toFloat(req.DemandIndex)
	competitor, ok3 := toFloat(req.CompetitorPrice)
	if !ok1 || !ok2 || !ok3 {
		respondError(w, http.StatusBadRequest, "Invalid input values")
		return
	}

	quote, err := s.pricing.Optimize(cost, demand, competitor)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid input values")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"result": quote})
}

func (s *Server) handleCompliance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MarketingText string `json:"marketing_text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.MarketingText == "" {
		respondError(w, http.StatusBadRequest, "Missing marketing_text field")
		return
	}
	respondResult(w, s.insight.ComplianceCheck(r.Context(), req.MarketingText))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string         `json:"message"`
		History []groq.Message `json:"history"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"response": "No message provided",
			"status":   "error",
		})
		return
	}

	env := s.insight.Chat(r.Context(), req.Message, req.History)
	if env.Status == insight.StatusError {
		respondJSON(w, http.StatusOK, map[string]any{
			"response": "AI Chatbot Error: " + env.Message,
			"status":   "error",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"response": env.Data,
		"status":   "success",
	})
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HistoryData any `json:"history_data"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.HistoryData == nil {
		respondError(w, http.StatusBadRequest, "Missing history_data field")
		return
	}
	respondResult(w, s.insight.PredictBehavior(r.Context(), toText(req.HistoryData)))
}

func (s *Server) handlePersonalize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserProfile any `json:"user_profile"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserProfile == nil {
		respondError(w, http.StatusBadRequest, "Missing user_profile field")
		return
	}
	respondResult(w, s.insight.RecommendProducts(r.Context(), toText(req.UserProfile)))
}

func (s *Server) handleGeneratorCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductDetails       string `json:"product_details"`
		LinkedInDemographics string `json:"linkedin_demographics"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductDetails == "" || req.LinkedInDemographics == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: product_details, linkedin_demographics")
		return
	}
	respondResult(w, s.insight.GenerateMarketingStrategy(r.Context(), req.ProductDetails, req.LinkedInDemographics))
}

func (s *Server) handleGeneratorPitch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProspectTitle string `json:"prospect_title"`
		CompanyTier   string `json:"company_tier"`
		ProductInfo   string `json:"product_info"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProspectTitle == "" || req.CompanyTier == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: prospect_title, company_tier")
		return
	}
	respondResult(w, s.insight.GenerateProspectPitch(r.Context(), req.ProspectTitle, req.CompanyTier, req.ProductInfo))
}

func (s *Server) handleGeneratorLeadScore(w http.ResponseWriter, r *http.Request) {
	var req scorer.Input
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Budget == "" || req.Timeline == "" || req.Urgency == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: budget, timeline, urgency")
		return
	}
	respondResult(w, s.insight.ScoreLead(r.Context(), req))
}

func (s *Server) handleGenerateCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductDetails string `json:"productDetails"`
		Audience       string `json:"audience"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductDetails == "" || req.Audience == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: productDetails, audience")
		return
	}
	respondEnvelope(w, s.insight.GenerateCampaignStrategy(r.Context(), req.ProductDetails, req.Audience))
}

func (s *Server) handleGeneratePitch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		CompanyTier string `json:"companyTier"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" || req.CompanyTier == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: title, companyTier")
		return
	}
	respondEnvelope(w, s.insight.GenerateSalesPitch(r.Context(), req.Title, req.CompanyTier))
}

func (s *Server) handleScoreLeadLegacy(w http.ResponseWriter, r *http.Request) {
	var req scorer.Input
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Budget == "" || req.Timeline == "" || req.Urgency == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: budget, timeline, urgency")
		return
	}
	respondEnvelope(w, s.insight.ScoreLeadLegacy(r.Context(), req))
}

func (s *Server) handleLegacyCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Product  string `json:"product"`
		Audience string `json:"audience"`
		Platform string `json:"platform"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Product == "" || req.Audience == "" || req.Platform == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: product, audience, platform")
		return
	}
	respondResult(w, s.insight.CampaignBrief(r.Context(), req.Product, req.Audience, req.Platform))
}

func (s *Server) handleLegacyPitch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Product  string `json:"product"`
		Customer string `json:"customer"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Product == "" || req.Customer == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: product, customer")
		return
	}
	respondResult(w, s.insight.PitchBrief(r.Context(), req.Product, req.Customer))
}

func (s *Server) handleLegacyScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Budget  string `json:"budget"`
		Need    string `json:"need"`
		Urgency string `json:"urgency"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Budget == "" || req.Need == "" || req.Urgency == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: name, budget, need, urgency")
		return
	}
	respondResult(w, s.insight.LeadNarrative(r.Context(), req.Name, req.Budget, req.Need, req.Urgency))
}
