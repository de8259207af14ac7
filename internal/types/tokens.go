package types

// TokenUsage is the per-call token accounting every provider reports.
// TotalTokens must always equal PromptTokens + CompletionTokens.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// NewTokenUsage builds a usage record with the total derived from its
// parts, keeping the sum invariant by construction.
func NewTokenUsage(prompt, completion int) TokenUsage {
	return TokenUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

// Add returns the element-wise sum of two usage records.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return NewTokenUsage(u.PromptTokens+other.PromptTokens, u.CompletionTokens+other.CompletionTokens)
}

// Valid reports whether the record upholds the non-negativity and sum
// invariants.
func (u TokenUsage) Valid() bool {
	return u.PromptTokens >= 0 && u.CompletionTokens >= 0 &&
		u.TotalTokens == u.PromptTokens+u.CompletionTokens
}
