package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"salesboard/internal/models"
)

func TestGeminiClientSummarize(t *testing.T) {
	var gotPath string
	var gotBody geminiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := geminiResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content struct {
				Parts []geminiPart `json:"parts"`
			} `json:"content"`
		}{})
		resp.Candidates[0].Content.Parts = []geminiPart{{Text: "Strong quarter "}, {Text: "for Stark."}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "gemini-2.5-flash")
	client.baseURL = server.URL

	records := []models.SaleRecord{
		{ProductName: "Arc Reactor Core", CustomerName: "Stark Industries", Region: "North America", Salesperson: "Tony Stark", Quantity: 10, TotalAmount: 450000},
	}

	text, err := client.Summarize(context.Background(), records)
	assert.NoError(t, err)
	assert.Equal(t, "Strong quarter for Stark.", text)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	if assert.Len(t, gotBody.Contents, 1) && assert.Len(t, gotBody.Contents[0].Parts, 1) {
		prompt := gotBody.Contents[0].Parts[0].Text
		assert.Contains(t, prompt, "senior sales analyst")
		assert.Contains(t, prompt, `"product": "Arc Reactor Core"`)
		assert.Contains(t, prompt, `"total": 450000`)
		// Only the summary subset goes to the model
		assert.NotContains(t, prompt, "unitPrice")
	}
}

func TestGeminiClientFixedStrings(t *testing.T) {
	// No credential configured
	disabled := NewGeminiClient("", "gemini-2.5-flash")
	text, err := disabled.Summarize(context.Background(), []models.SaleRecord{{ID: 1}})
	assert.NoError(t, err)
	assert.Equal(t, DisabledMessage, text)

	// Empty input list
	client := NewGeminiClient("key", "gemini-2.5-flash")
	text, err = client.Summarize(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, NoDataMessage, text)
}

func TestGeminiClientProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "gemini-2.5-flash")
	client.baseURL = server.URL

	_, err := client.Summarize(context.Background(), []models.SaleRecord{{ID: 1}})
	assert.Error(t, err)
}
