package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgespace/idea-analyzer/internal/domain/ai"
	"github.com/forgespace/idea-analyzer/internal/domain/ideas"
)

type capturedRequest struct {
	Model          string `json:"model"`
	MaxTokens      int    `json:"max_tokens"`
	MaxCompletion  int    `json:"max_completion_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, status int, body string, got *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func chatBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(b)
}

func TestClient_Analyze_SendsJSONRequest(t *testing.T) {
	var got capturedRequest
	srv := completionServer(t, http.StatusOK, chatBody(`{"viabilityScore": 70}`), &got)
	c := NewClient("test-key", srv.URL+"/v1", "", 0)

	out, err := c.Analyze(context.Background(), ideas.Input{
		Title:       "Shared Tool Library",
		Description: "Neighbours lend tools.",
		Phase:       ideas.PhaseInception,
		Tags:        []string{"community"},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"viabilityScore": 70}`, out)
	assert.Equal(t, defaultModel, got.Model)
	assert.Equal(t, defaultMaxTokens, got.MaxTokens)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "Shared Tool Library")
}

func TestClient_ReasoningModelUsesCompletionTokens(t *testing.T) {
	var got capturedRequest
	srv := completionServer(t, http.StatusOK, chatBody(`{"suggestions":[]}`), &got)
	c := NewClient("test-key", srv.URL+"/v1", "o3-mini", 512)

	_, err := c.SuggestPhases(context.Background(), ideas.Input{Title: "A", Description: "B"}, ideas.PhasePlanning)

	require.NoError(t, err)
	assert.Equal(t, 512, got.MaxCompletion)
	assert.Zero(t, got.MaxTokens)
}

func TestClient_QuotaError(t *testing.T) {
	srv := completionServer(t, http.StatusTooManyRequests,
		`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`, nil)
	c := NewClient("test-key", srv.URL+"/v1", "", 0)

	_, err := c.Analyze(context.Background(), ideas.Input{Title: "A", Description: "B"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestClient_ServerError(t *testing.T) {
	srv := completionServer(t, http.StatusInternalServerError,
		`{"error":{"message":"boom","type":"server_error"}}`, nil)
	c := NewClient("test-key", srv.URL+"/v1", "", 0)

	_, err := c.Analyze(context.Background(), ideas.Input{Title: "A", Description: "B"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestClient_NoChoices(t *testing.T) {
	srv := completionServer(t, http.StatusOK,
		`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`, nil)
	c := NewClient("test-key", srv.URL+"/v1", "", 0)

	_, err := c.Analyze(context.Background(), ideas.Input{Title: "A", Description: "B"})

	assert.ErrorIs(t, err, ai.ErrEmptyResponse)
}
