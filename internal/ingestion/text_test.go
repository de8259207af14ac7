package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "collapses space runs",
			input:    "We   build    pipelines.",
			expected: "We build pipelines.",
		},
		{
			name:     "normalizes CRLF",
			input:    "line one\r\nline two\rline three",
			expected: "line one\nline two\nline three",
		},
		{
			name:     "collapses blank line runs",
			input:    "para one\n\n\n\n\npara two",
			expected: "para one\n\npara two",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "\n\n  posting text  \n\n",
			expected: "posting text",
		},
		{
			name:     "keeps bullet markers",
			input:    "Requirements:\n-  Go   experience\n- SQL",
			expected: "Requirements:\n- Go experience\n- SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}
