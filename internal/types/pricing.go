package types

// Pricing holds a provider's per-million-token rates in USD. Rates are
// immutable constants attached to each provider instance; costs are
// never pooled across providers.
type Pricing struct {
	InputCostPer1M  float64 `json:"inputCostPer1M"`
	OutputCostPer1M float64 `json:"outputCostPer1M"`
}

// CostUSD computes the dollar cost of a token usage under this pricing.
func (p Pricing) CostUSD(u TokenUsage) float64 {
	return float64(u.PromptTokens)/1_000_000*p.InputCostPer1M +
		float64(u.CompletionTokens)/1_000_000*p.OutputCostPer1M
}
