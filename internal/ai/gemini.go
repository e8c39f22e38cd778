// Package ai provides the sales-summary collaborator: a Gemini-backed
// Summarizer and the Analyzer that runs it asynchronously.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"salesboard/internal/models"
)

// The three user-facing strings below are part of the observable contract
// and must stay exact.
const (
	DisabledMessage = "AI analysis is disabled. Please configure your Gemini API key."
	NoDataMessage   = "No sales data to analyze."
	FailureMessage  = "An error occurred while analyzing the data with Gemini. Please check the console for details."
)

const analysisPrompt = `
You are a senior sales analyst. Based on the following sales data in JSON format, provide a concise summary of key insights and trends.
Focus on:
- Top-performing products and customers.
- Regional performance.
- Any noticeable patterns in sales or discounts.
- Provide actionable recommendations.

Format your response in markdown.

Sales Data:
%s
`

// Summarizer produces a narrative summary of a set of sale records.
type Summarizer interface {
	Summarize(ctx context.Context, records []models.SaleRecord) (string, error)
}

// GeminiClient calls the Gemini generateContent REST API.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a Gemini client. An empty apiKey disables analysis
// rather than failing. The client carries no timeout; the caller decides how
// long to wait.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://generativelanguage.googleapis.com",
		httpClient: &http.Client{},
	}
}

// recordSummary is the record subset sent to the model
type recordSummary struct {
	Product     string  `json:"product"`
	Customer    string  `json:"customer"`
	Region      string  `json:"region"`
	Salesperson string  `json:"salesperson"`
	Quantity    int64   `json:"quantity"`
	Total       float64 `json:"total"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) Summarize(ctx context.Context, records []models.SaleRecord) (string, error) {
	if c.apiKey == "" {
		return DisabledMessage, nil
	}
	if len(records) == 0 {
		return NoDataMessage, nil
	}

	summary := make([]recordSummary, 0, len(records))
	for _, r := range records {
		summary = append(summary, recordSummary{
			Product:     r.ProductName,
			Customer:    r.CustomerName,
			Region:      r.Region,
			Salesperson: r.Salesperson,
			Quantity:    r.Quantity,
			Total:       r.TotalAmount,
		})
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("gemini: marshal sales data: %w", err)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: fmt.Sprintf(analysisPrompt, data)}}},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("gemini: create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("gemini error: %d", resp.StatusCode)
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: empty candidates in response")
	}

	var text string
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text, nil
}
