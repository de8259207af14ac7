package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTokenUsage_SumInvariant(t *testing.T) {
	u := NewTokenUsage(1200, 340)
	assert.Equal(t, 1540, u.TotalTokens)
	assert.True(t, u.Valid())
}

func TestTokenUsage_Add(t *testing.T) {
	a := NewTokenUsage(100, 50)
	b := NewTokenUsage(30, 20)

	sum := a.Add(b)
	assert.Equal(t, 130, sum.PromptTokens)
	assert.Equal(t, 70, sum.CompletionTokens)
	assert.Equal(t, 200, sum.TotalTokens)
	assert.True(t, sum.Valid())
}

func TestTokenUsage_Valid(t *testing.T) {
	assert.False(t, TokenUsage{PromptTokens: -1, CompletionTokens: 0, TotalTokens: -1}.Valid())
	assert.False(t, TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 14}.Valid())
	assert.True(t, TokenUsage{}.Valid())
}

func TestPricing_CostUSD(t *testing.T) {
	p := Pricing{InputCostPer1M: 0.15, OutputCostPer1M: 0.60}
	u := NewTokenUsage(1_000_000, 500_000)

	assert.InDelta(t, 0.15+0.30, p.CostUSD(u), 1e-12)
	assert.Zero(t, p.CostUSD(TokenUsage{}))
}
