package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"card-optimizer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{})
	require.ErrorIs(t, err, domain.ErrNoAPIKey)

	client, err := NewClient(Config{APIKey: "test-key"})
	require.NoError(t, err)
	ac, ok := client.(*anthropicClient)
	require.True(t, ok)
	assert.Equal(t, DefaultModel, ac.model)
	assert.Equal(t, DefaultBaseURL, ac.baseURL)
}

func TestAnthropicComplete(t *testing.T) {
	var got anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"{\"ok\":true}"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: server.URL + "/", Model: "test-model"})
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), "hello", 200)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 200, got.MaxTokens)
	assert.Zero(t, got.Temperature)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestAnthropicCompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "api error", status: http.StatusTooManyRequests, body: `{"error":"rate limited"}`},
		{name: "bad json", status: http.StatusOK, body: `not json`},
		{name: "empty content", status: http.StatusOK, body: `{"content":[]}`, wantErr: domain.ErrEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(Config{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = client.Complete(context.Background(), "prompt", 10)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAnthropicCompleteHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Complete(ctx, "prompt", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
