package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketmind/growth-api/internal/config"
	"github.com/marketmind/growth-api/internal/insight"
	"github.com/marketmind/growth-api/internal/pricing"
	"github.com/marketmind/growth-api/internal/scorer"
	"github.com/marketmind/growth-api/pkg/groq"
)

type stubLLM struct {
	reply string
	err   error
	last  groq.ChatCompletionRequest
}

func (s *stubLLM) ChatCompletion(_ context.Context, req groq.ChatCompletionRequest) (*groq.ChatCompletionResponse, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &groq.ChatCompletionResponse{
		Choices: []groq.Choice{{Message: groq.Message{Role: "assistant", Content: s.reply}}},
	}, nil
}

func newTestServer(llm groq.Client) *httptest.Server {
	svc := insight.NewService(llm,
		config.GroqConfig{Key: "test-key", Model: "llama-3.3-70b-versatile", Temperature: 0.7},
		scorer.DefaultWeights(),
		insight.WithRandSource(rand.NewSource(1)),
	)
	srv := New(
		config.ServerConfig{Port: 0, AllowedOrigins: []string{"*"}},
		svc,
		pricing.NewEngine(config.PricingConfig{}),
	)
	return httptest.NewServer(srv.Router())
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHealth(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: `{}`})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: `{}`})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSentiment_Parsed(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: `{"sentiment":"positive","confidence":0.9,"summary":"ok"}`})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/market/sentiment", map[string]string{"feedback": "love it"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result, ok := body["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "positive", result["sentiment"])
}

func TestSentiment_FallbackShape(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: "I think this is great but not JSON"})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/market/sentiment", map[string]string{"feedback": "love it"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := body["result"].(map[string]any)
	assert.Equal(t, "neutral", result["sentiment"])
	assert.InDelta(t, 0.5, result["confidence"], 0.001)
	assert.Equal(t, "I think this is great but not JSON", result["summary"])
}

func TestSentiment_MissingField(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: `{}`})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/market/sentiment", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing feedback field", body["error"])
}

func TestSentiment_RemoteFailure(t *testing.T) {
	ts := newTestServer(&stubLLM{err: errors.New("connection refused")})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/market/sentiment", map[string]string{"feedback": "x"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, body["error"], "connection refused")
}

func TestPricing_Optimize(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: `{}`})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/pricing/optimize", map[string]any{
		"cost": 100, "demand_index": 1.0, "competitor_price": 120,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := body["result"].(map[string]any)
	assert.InDelta(t, 140.36, result["optimal_price"], 0.001)
	assert.InDelta(t, 28.75, result["margin_percent"], 0.001)
	assert.Equal(t, "Stable demand - balanced pricing recommended", result["pricing_reason"])
}

func TestPricing_StringInputsCoerced(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: `{}`})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/pricing/optimize", map[string]any{
		"cost": "100", "demand_index": "1.0", "competitor_price": "120",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	result := body["result"].(map[string]any)
	assert.InDelta(t, 140.36, result["optimal_price"], 0.001)
}

func TestPricing_MissingFields(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: `{}`})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/pricing/optimize", map[string]any{"cost": 100})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "Missing fields")
}

func TestPricing_InvalidValues(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: `{}`})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/pricing/optimize", map[string]any{
		"cost": "abc", "demand_index": 1.0, "competitor_price": 120,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid input values", body["error"])
}

func TestChat_Success(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: "We offer analytics."})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/chat", map[string]any{
		"message": "what do you sell?",
		"history": []map[string]string{{"role": "user", "content": "hi"}},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "We offer analytics.", body["response"])
	assert.Equal(t, "success", body["status"])
}

func TestChat_MissingMessage(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: "x"})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/chat", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No message provided", body["response"])
	assert.Equal(t, "error", body["status"])
}

func TestChat_RemoteFailureShape(t *testing.T) {
	ts := newTestServer(&stubLLM{err: errors.New("timeout")})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/chat", map[string]any{"message": "hi"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["response"], "AI Chatbot Error")
}

func TestPrediction_ObjectHistoryData(t *testing.T) {
	llm := &stubLLM{reply: "call them"}
	ts := newTestServer(llm)
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/predict/customer", map[string]any{
		"history_data": map[string]any{"purchases": 3},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Object payloads are serialized into the prompt.
	assert.Contains(t, llm.last.Messages[0].Content, `{"purchases":3}`)

	result := body["result"].(map[string]any)
	assert.Equal(t, "medium", result["churn_risk"])
}

func TestGeneratorLeadScore_Fallback(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: "great lead"})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/generator/lead-score", map[string]string{
		"budget": "$250000", "timeline": "This Quarter", "urgency": "Critical/High",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := body["result"].(map[string]any)
	assert.InDelta(t, 86, result["lead_score"], 0.001)
	assert.InDelta(t, 75, result["conversion_probability"], 0.001)
	assert.Equal(t, "great lead", result["reasoning"])
}

func TestGeneratorLeadScore_MissingFields(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: `{}`})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/generator/lead-score", map[string]string{"budget": "5k"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields: budget, timeline, urgency", body["error"])
}

func TestScoreLeadLegacy_Envelope(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: "not json"})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/score-lead", map[string]string{
		"budget": "$60,000", "timeline": "Immediate", "urgency": "High",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])

	data := body["data"].(map[string]any)
	assert.InDelta(t, 100, data["lead_score"], 0.001)
	assert.Equal(t, "90%", data["conversion_probability"])
}

func TestScoreLeadLegacy_RemoteFailureEnvelope(t *testing.T) {
	ts := newTestServer(&stubLLM{err: errors.New("boom")})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/score-lead", map[string]string{
		"budget": "$60,000", "timeline": "Immediate", "urgency": "High",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "boom")
}

func TestGenerateCampaign_EnvelopeRawText(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: "Here is the plan"})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/generate-campaign", map[string]string{
		"productDetails": "CRM", "audience": "founders",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Here is the plan", body["data"])
}

func TestGeneratorCampaign_ParseFailureShape(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: "prose"})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/generator/marketing-campaign", map[string]string{
		"product_details": "CRM", "linkedin_demographics": "founders",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := body["result"].(map[string]any)
	assert.Equal(t, "Failed to parse response", result["error"])
	assert.Equal(t, "prose", result["raw_response"])
}

func TestLegacyCampaign_TextResult(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: "Campaign: do marketing."})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/campaign", map[string]string{
		"product": "CRM", "audience": "founders", "platform": "LinkedIn",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Campaign: do marketing.", body["result"])
}

func TestLegacyScore_MissingFields(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: "x"})
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/score", map[string]string{"name": "Ann"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "Missing required fields")
}

func TestInvalidBody(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: `{}`})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/market/sentiment", "application/json", bytes.NewReader([]byte("{broken")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(&stubLLM{reply: `{}`})
	defer ts.Close()

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/chat", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
