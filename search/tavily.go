package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// Tavily is the primary search provider, backed by the Tavily Search API.
type Tavily struct {
	APIKey  string
	BaseURL string
	Count   int
	client  *http.Client
}

// NewTavily creates a Tavily provider with the given API key.
func NewTavily(apiKey string) *Tavily {
	return &Tavily{
		APIKey:  apiKey,
		BaseURL: tavilyEndpoint,
		Count:   5,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the provider name used in logs.
func (t *Tavily) Name() string { return "tavily" }

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

// Search executes a Tavily query and maps the response into Documents.
// Items without a usable snippet or URL are dropped.
func (t *Tavily) Search(ctx context.Context, query string) Result {
	reqBody := map[string]any{
		"query":        query,
		"api_key":      t.APIKey,
		"search_depth": "basic",
		"max_results":  t.Count,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return Fatal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Retryable(err)
		}
		return Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return Retryable(ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return Fatal(fmt.Errorf("tavily api status: %d", resp.StatusCode))
	}

	var result tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Fatal(err)
	}

	docs := make([]Document, 0, len(result.Results))
	for _, item := range result.Results {
		if item.Content == "" || item.URL == "" {
			continue
		}
		docs = append(docs, Document{
			Content: item.Content,
			Title:   item.Title,
			URL:     item.URL,
		})
	}
	return Ok(docs)
}
