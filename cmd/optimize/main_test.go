package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"card-optimizer/internal/config"
	"card-optimizer/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunJSON(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Config{DBConn: "memory://"}

	require.NoError(t, run(context.Background(), &out, cfg, "buying $5.50 coffee at Starbucks", true, true))

	var resp struct {
		Transaction struct {
			Merchant string `json:"merchant"`
		} `json:"transaction"`
		Outcome struct {
			Status string `json:"status"`
		} `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "Starbucks", resp.Transaction.Merchant)
	assert.Equal(t, "computed", resp.Outcome.Status)
}

func TestRunText(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Config{DBConn: "memory://"}

	require.NoError(t, run(context.Background(), &out, cfg, "buying $5.50 coffee at Starbucks", true, false))

	text := out.String()
	assert.Contains(t, text, "Chase Freedom Unlimited")
	assert.Contains(t, text, "Starbucks")
	assert.Contains(t, text, "Opportunity cost:")
}

func TestRenderFallback(t *testing.T) {
	text := render(service.Fallback("$30 gas at Shell", nil, "search unavailable"))

	assert.Contains(t, text, "Fallback data: search unavailable")
}

func TestRootCmdRequiresQuery(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}
