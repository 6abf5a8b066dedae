package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const braveEndpoint = "https://api.search.brave.com/res/v1/web/search"

// Brave is the secondary search provider, backed by the Brave Search API.
type Brave struct {
	APIKey  string
	BaseURL string
	Count   int
	client  *http.Client
}

// NewBrave creates a Brave provider with the given API key.
func NewBrave(apiKey string) *Brave {
	return &Brave{
		APIKey:  apiKey,
		BaseURL: braveEndpoint,
		Count:   5,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the provider name used in logs.
func (b *Brave) Name() string { return "brave" }

type braveWebResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type braveResponse struct {
	Web struct {
		Results []braveWebResult `json:"results"`
	} `json:"web"`
}

// Search executes a Brave query and maps the response into Documents.
func (b *Brave) Search(ctx context.Context, query string) Result {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", fmt.Sprintf("%d", b.Count))

	reqURL := fmt.Sprintf("%s?%s", b.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Fatal(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)

	resp, err := b.client.Do(req)
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
		return Fatal(fmt.Errorf("brave api status: %d", resp.StatusCode))
	}

	var result braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Fatal(err)
	}

	docs := make([]Document, 0, len(result.Web.Results))
	for _, item := range result.Web.Results {
		if item.Description == "" || item.URL == "" {
			continue
		}
		docs = append(docs, Document{
			Content: item.Description,
			Title:   item.Title,
			URL:     item.URL,
		})
	}
	return Ok(docs)
}
