package ingestion

import (
	"regexp"
	"strings"
)

var (
	spaceRuns  = regexp.MustCompile(`\s+`)
	blankLines = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted posting text: line endings become LF,
// runs of spaces collapse to one, and runs of blank lines collapse to a
// single separator, preserving paragraph structure.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = blankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims a line and collapses internal whitespace, keeping
// bullet markers intact.
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	return spaceRuns.ReplaceAllString(trimmed, " ")
}
