package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ValidJSON(t *testing.T) {
	n := normalize("test", `{"sentiment":"positive","confidence":0.9,"summary":"ok"}`, func(string) any {
		t.Fatal("fallback should not be called for valid JSON")
		return nil
	})

	assert.True(t, n.Parsed)
	data, ok := n.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "positive", data["sentiment"])
	assert.InDelta(t, 0.9, data["confidence"], 0.001)
	assert.Equal(t, "ok", data["summary"])
}

func TestNormalize_InvalidJSON(t *testing.T) {
	raw := "I think this is great but not JSON"
	n := normalize("test", raw, func(got string) any {
		assert.Equal(t, raw, got)
		return sentimentFallback(got)
	})

	assert.False(t, n.Parsed)
	fb, ok := n.Data.(SentimentResult)
	require.True(t, ok)
	assert.Equal(t, "neutral", fb.Sentiment)
	assert.InDelta(t, 0.5, fb.Confidence, 0.001)
	assert.Equal(t, raw, fb.Summary)
}

func TestNormalize_TrailingGarbageIsNotStrictJSON(t *testing.T) {
	n := normalize("test", `{"a":1} trailing`, func(raw string) any { return raw })
	assert.False(t, n.Parsed)
}

func TestNormalize_JSONArray(t *testing.T) {
	n := normalize("test", `[1,2,3]`, func(string) any { return nil })
	assert.True(t, n.Parsed)
}

func TestEnvelopeHelpers(t *testing.T) {
	s := Success(map[string]int{"x": 1})
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Empty(t, s.Message)

	e := Errorf("boom: %d", 42)
	assert.Equal(t, StatusError, e.Status)
	assert.Equal(t, "boom: 42", e.Message)
	assert.Nil(t, e.Data)
}
