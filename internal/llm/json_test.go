package llm

import (
	"testing"

	"card-optimizer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain object", `{"a":1}`, `{"a":1}`, false},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"fence without language", "```\n[1,2]\n```", `[1,2]`, false},
		{"surrounding prose", "Here you go:\n{\"a\":{\"b\":2}}\nHope that helps!", `{"a":{"b":2}}`, false},
		{"array in prose", `Cards: [{"card_name":"X"}] done`, `[{"card_name":"X"}]`, false},
		{"no json", "sorry, no idea", "", true},
		{"truncated", `{"a": [1, 2`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrNoJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Merchant string  `json:"merchant"`
		Amount   float64 `json:"amount"`
	}
	require.NoError(t, DecodeJSON("```json\n{\"merchant\":\"Starbucks\",\"amount\":5.5}\n```", &v))
	assert.Equal(t, "Starbucks", v.Merchant)
	assert.Equal(t, 5.5, v.Amount)

	assert.Error(t, DecodeJSON(`{"merchant": 5}`, &v))
}
