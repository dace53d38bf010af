package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/llm/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestFallback(t *testing.T) {
	tests := []struct {
		query    string
		merchant string
		amount   string
		category string
	}{
		{"buying $5.50 coffee at Starbucks", "Starbucks", "5.5", domain.CategoryDining},
		{"grocery shopping $120 at Whole Foods", "Whole Foods", "120", domain.CategoryGrocery},
		{"$45 at Shell", "Unknown", "45", domain.CategoryGas},
		{"planning a $2,000 Europe trip", "Unknown", "2000", domain.CategoryTravel},
		{"new headphones, about 80.", "Unknown", "80", domain.CategoryOther},
		{"something without a price", "Unknown", "0", domain.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			tx := Fallback(tt.query)
			assert.Equal(t, tt.merchant, tx.Merchant)
			assert.Equal(t, tt.amount, tx.Amount.String())
			assert.Equal(t, tt.category, tx.Category)
			assert.Equal(t, 0.7, tx.Confidence)
			assert.Equal(t, tt.query, tx.OriginalQuery)
		})
	}
}

func TestParseWithoutClient(t *testing.T) {
	tx, source := New(nil, 0).Parse(context.Background(), "weekly coffee $4")

	assert.Equal(t, SourceKeywords, source)
	assert.Equal(t, domain.CategoryDining, tx.Category)
}

func TestParseWithLLM(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any(), maxTokens).
		Return("```json\n{\"merchant\":\"Blue Bottle\",\"amount\":6.25,\"category\":\"Dining\",\"confidence\":0.9,\"extracted_context\":[\"coffee shop\"],\"ai_reasoning\":\"coffee purchase\"}\n```", nil)

	query := "grabbing a $6.25 latte at Blue Bottle"
	tx, source := New(client, time.Second).Parse(context.Background(), query)

	assert.Equal(t, SourceLLM, source)
	assert.Equal(t, "Blue Bottle", tx.Merchant)
	assert.Equal(t, "6.25", tx.Amount.String())
	assert.Equal(t, domain.CategoryDining, tx.Category)
	assert.Equal(t, 0.9, tx.Confidence)
	assert.Equal(t, []string{"coffee shop"}, tx.ExtractedContext)
	assert.Equal(t, query, tx.OriginalQuery)
}

func TestParseNormalizesModelOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(`{"merchant":"","amount":-3,"category":"pets"}`, nil)

	tx, source := New(client, time.Second).Parse(context.Background(), "dog food")

	assert.Equal(t, SourceLLM, source)
	assert.Equal(t, "Unknown", tx.Merchant)
	assert.True(t, tx.Amount.IsZero())
	assert.Equal(t, domain.CategoryOther, tx.Category)
	assert.Equal(t, 0.95, tx.Confidence)
}

func TestParseFallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"api error", "", errors.New("boom")},
		{"not json", "I think this is dining.", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockClient(ctrl)
			client.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.reply, tt.err)

			tx, source := New(client, time.Second).Parse(context.Background(), "buying $5.50 coffee at Starbucks")

			assert.Equal(t, SourceKeywords, source)
			assert.Equal(t, "Starbucks", tx.Merchant)
			assert.Equal(t, 0.7, tx.Confidence)
		})
	}
}

func TestParseTimesOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().
		Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ int) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	start := time.Now()
	tx, source := New(client, 20*time.Millisecond).Parse(context.Background(), "$120 at Whole Foods")

	require.Less(t, time.Since(start), time.Second)
	assert.Equal(t, SourceKeywords, source)
	assert.Equal(t, domain.CategoryGrocery, tx.Category)
}
