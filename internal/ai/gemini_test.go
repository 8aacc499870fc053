package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanMarkdownJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Bare JSON", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"Padded", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanMarkdownJSON(tt.input))
		})
	}
}

func TestBuildSystemPrompt_EmbedsKnownLists(t *testing.T) {
	prompt := buildSystemPrompt([]string{"Informática", "Saúde"}, []string{"Maputo"})

	assert.Contains(t, prompt, `"Informática"`)
	assert.Contains(t, prompt, `"Maputo"`)
	assert.Contains(t, prompt, "tasks_of_the_role")
	assert.Contains(t, prompt, "Expirado")
}

func TestGeminiClient_ExtractJob(t *testing.T) {
	jobJSON := `{"job_title":"Técnico de Informática","company_name":"Vodacom","location":"Maputo","category":"Informática","expiring_date":"15.09.2026"}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.InDelta(t, 0.2, req.GenerationConfig.Temperature, 0.001)

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"parts": []map[string]string{{"text": "```json\n" + jobJSON + "\n```"}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := &geminiClient{
		apiKey:     "test-key",
		model:      "gemini-2.0-flash",
		baseURL:    srv.URL,
		httpClient: srv.Client(),
	}

	job, err := client.ExtractJob(context.Background(), "<html></html>", "https://example.com/vaga/1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Técnico de Informática", job.Title)
	assert.Equal(t, "Vodacom", job.Company)
	assert.Equal(t, "https://example.com/vaga/1", job.SourceURL)
}

func TestGeminiClient_ExtractJob_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	client := &geminiClient{
		apiKey:     "test-key",
		model:      "gemini-2.0-flash",
		baseURL:    srv.URL,
		httpClient: srv.Client(),
	}

	_, err := client.ExtractJob(context.Background(), "<html></html>", "u", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
