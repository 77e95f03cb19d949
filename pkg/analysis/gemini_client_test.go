package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"NutriSnap-Backend/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeminiClient(serverURL string) *GeminiClient {
	return &GeminiClient{
		apiKey:     "test-key",
		model:      "gemini-2.5-flash",
		baseURL:    serverURL,
		httpClient: http.DefaultClient,
	}
}

func geminiTextResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
			},
		},
	}
}

func TestAnalyzeFoodImageMissingCredential(t *testing.T) {
	client := &GeminiClient{model: "gemini-2.5-flash", httpClient: http.DefaultClient}

	_, err := client.AnalyzeFoodImage(context.Background(), "data:image/jpeg;base64,Zm9v")
	assert.ErrorIs(t, err, domain.ErrMissingGeminiKey)
}

func TestAnalyzeFoodImageSendsDeclaredMimeType(t *testing.T) {
	var gotRequest map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		json.NewEncoder(w).Encode(geminiTextResponse(`{"foods":[]}`))
	}))
	defer srv.Close()

	client := newTestGeminiClient(srv.URL)
	_, err := client.AnalyzeFoodImage(context.Background(), "data:image/png;base64,Zm9v")
	require.NoError(t, err)

	contents := gotRequest["contents"].([]interface{})
	parts := contents[0].(map[string]interface{})["parts"].([]interface{})
	inline := parts[1].(map[string]interface{})["inline_data"].(map[string]interface{})
	assert.Equal(t, "image/png", inline["mime_type"])
	assert.Equal(t, "Zm9v", inline["data"])

	generation := gotRequest["generationConfig"].(map[string]interface{})
	assert.Equal(t, 0.4, generation["temperature"])
	assert.Equal(t, 0.95, generation["topP"])
	assert.Equal(t, float64(40), generation["topK"])
}

func TestAnalyzeFoodImageDefaultsToJPEG(t *testing.T) {
	var gotRequest map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		json.NewEncoder(w).Encode(geminiTextResponse("ok"))
	}))
	defer srv.Close()

	client := newTestGeminiClient(srv.URL)
	_, err := client.AnalyzeFoodImage(context.Background(), "Zm9v")
	require.NoError(t, err)

	contents := gotRequest["contents"].([]interface{})
	parts := contents[0].(map[string]interface{})["parts"].([]interface{})
	inline := parts[1].(map[string]interface{})["inline_data"].(map[string]interface{})
	assert.Equal(t, "image/jpeg", inline["mime_type"])
}

func TestAnalyzeFoodImageReturnsCompletionText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiTextResponse("```json\n{\"foods\":[]}\n```"))
	}))
	defer srv.Close()

	client := newTestGeminiClient(srv.URL)
	text, err := client.AnalyzeFoodImage(context.Background(), "data:image/jpeg;base64,Zm9v")
	require.NoError(t, err)
	assert.Equal(t, "```json\n{\"foods\":[]}\n```", text)
}

func TestAnalyzeFoodImageEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer srv.Close()

	client := newTestGeminiClient(srv.URL)
	_, err := client.AnalyzeFoodImage(context.Background(), "data:image/jpeg;base64,Zm9v")
	assert.ErrorIs(t, err, domain.ErrEmptyGeminiResponse)
}

func TestAnalyzeFoodImageClassifiesUpstreamErrors(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		expected error
	}{
		{"quota", `{"error":{"message":"quota exceeded for this project"}}`, domain.ErrUpstreamRateLimited},
		{"rate limit", `{"error":{"message":"rate limit reached"}}`, domain.ErrUpstreamRateLimited},
		{"safety", `{"error":{"message":"blocked due to safety settings"}}`, domain.ErrUpstreamSafetyBlocked},
		{"auth", `{"error":{"message":"API_KEY_INVALID"}}`, domain.ErrUpstreamAuthError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, tc.body, http.StatusBadRequest)
			}))
			defer srv.Close()

			client := newTestGeminiClient(srv.URL)
			_, err := client.AnalyzeFoodImage(context.Background(), "data:image/jpeg;base64,Zm9v")
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestAnalyzeFoodImageUnknownUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "something exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestGeminiClient(srv.URL)
	_, err := client.AnalyzeFoodImage(context.Background(), "data:image/jpeg;base64,Zm9v")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Contains(t, err.Error(), "something exploded")
}
