package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"card-optimizer/internal/domain"
)

const (
	DefaultBraveURL = "https://api.search.brave.com/res/v1/web/search"
	braveTimeout    = 8 * time.Second
)

//go:generate mockgen -source=brave.go -destination=mocks/mock_searcher.go -package=mocks

// Searcher runs one web search.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]domain.SearchResult, error)
}

// Brave is a Searcher backed by the Brave web search API.
type Brave struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewBrave returns domain.ErrNoAPIKey when apiKey is empty.
func NewBrave(apiKey, baseURL string) (*Brave, error) {
	if apiKey == "" {
		return nil, domain.ErrNoAPIKey
	}
	if baseURL == "" {
		baseURL = DefaultBraveURL
	}
	return &Brave{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: braveTimeout},
	}, nil
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search asks for English US results from the past month.
func (b *Brave) Search(ctx context.Context, query string, count int) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(count))
	params.Set("search_lang", "en")
	params.Set("country", "US")
	params.Set("safesearch", "moderate")
	params.Set("freshness", "pm")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("brave API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse brave response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		results = append(results, domain.SearchResult{Title: r.Title, URL: r.URL, Description: r.Description})
	}
	return results, nil
}
