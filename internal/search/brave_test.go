package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"card-optimizer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBraveRequiresKey(t *testing.T) {
	_, err := NewBrave("", "")
	assert.ErrorIs(t, err, domain.ErrNoAPIKey)
}

func TestBraveSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "brave-key", r.Header.Get("X-Subscription-Token"))
		q := r.URL.Query()
		assert.Equal(t, "best dining cards", q.Get("q"))
		assert.Equal(t, "8", q.Get("count"))
		assert.Equal(t, "pm", q.Get("freshness"))
		assert.Equal(t, "US", q.Get("country"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"web":{"results":[
			{"title":"Best Dining Cards","url":"https://www.nerdwallet.com/dining","description":"Savor 4%"},
			{"title":"Random","url":"https://example.com/post","description":"meh"}
		]}}`))
	}))
	defer server.Close()

	brave, err := NewBrave("brave-key", server.URL)
	require.NoError(t, err)

	results, err := brave.Search(context.Background(), "best dining cards", 8)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Best Dining Cards", results[0].Title)
	assert.Equal(t, "https://www.nerdwallet.com/dining", results[0].URL)
	assert.Empty(t, results[0].Credibility)
}

func TestBraveSearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	brave, err := NewBrave("brave-key", server.URL)
	require.NoError(t, err)

	_, err = brave.Search(context.Background(), "q", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCredibility(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.NerdWallet.com/best", CredibilityHigh},
		{"https://thepointsguy.com/guide/", CredibilityHigh},
		{"https://www.usnews.com/cards", CredibilityHigh},
		{"https://localbank.example/cards", CredibilityMedium},
		{"https://myfinanceblog.net/x", CredibilityMedium},
		{"https://example.com/coffee", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Credibility(tt.url))
		})
	}
}

func TestFilterCredible(t *testing.T) {
	filtered := FilterCredible([]domain.SearchResult{
		{Title: "a", URL: "https://www.bankrate.com/a"},
		{Title: "b", URL: "https://example.com/b"},
		{Title: "c", URL: "https://credit-union.org/c"},
	})

	require.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].Title)
	assert.Equal(t, CredibilityHigh, filtered[0].Credibility)
	assert.Equal(t, "c", filtered[1].Title)
	assert.Equal(t, CredibilityMedium, filtered[1].Credibility)
}
