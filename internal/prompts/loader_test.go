package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownKeys(t *testing.T) {
	ClearCache()

	for _, key := range []string{"resume-system", "resume-user", "cover-letter-system", "cover-letter-user"} {
		prompt, err := Get("generation.json", key)
		require.NoError(t, err, "key %s", key)
		assert.NotEmpty(t, prompt)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("generation.json", "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "resume-system")
	require.Error(t, err)
}

func TestSystemPrompts_CarryAccuracyContract(t *testing.T) {
	for _, key := range []string{"resume-system", "cover-letter-system"} {
		prompt := MustGet("generation.json", key)
		assert.Contains(t, prompt, "NEVER invent", "key %s", key)
		assert.Contains(t, prompt, "NON-NEGOTIABLE", "key %s", key)
	}
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { MustGet("generation.json", "nope") })
}
