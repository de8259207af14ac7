package ai

// EstimateTokens approximates the token count of a text as
// ceil(utf8Length / 4). It is the deterministic fallback used when a
// backend does not report exact counts (and by mock mode). The figure
// is a best-effort estimate, not billing-accurate.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
