package ai

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewhammond/folio-api/internal/content"
)

func TestRenderExperienceData_DelimitsEveryEntry(t *testing.T) {
	entries := []content.ExperienceEntry{
		{ID: "a", Company: "Acme", Role: "Engineer", StartDate: "2018-01"},
		{ID: "b", Company: "Initech", Role: "Senior Engineer", StartDate: "2020-06"},
		{ID: "c", Company: "Globex", Role: "Staff Engineer", StartDate: "2022-02"},
	}

	rendered := RenderExperienceData(entries, nil)

	for k := 1; k <= len(entries); k++ {
		assert.Equal(t, 1, strings.Count(rendered, fmt.Sprintf("END OF ENTRY #%d\n", k)))
	}
	assert.NotContains(t, rendered, "END OF ENTRY #4")
}

func TestRenderExperienceData_NoCrossEntryBleed(t *testing.T) {
	entries := []content.ExperienceEntry{
		{ID: "a", Company: "Acme", Role: "Engineer", StartDate: "2018-01"},
		{ID: "b", Company: "Initech", Role: "Senior Engineer", StartDate: "2020-06"},
	}
	blurbs := []content.BlurbEntry{
		{ID: "b1", ExperienceID: "a", Accomplishments: []string{"Shipped the Acme billing rewrite"}},
		{ID: "b2", ExperienceID: "b", Accomplishments: []string{"Scaled Initech search to 1M QPS"}},
	}

	rendered := RenderExperienceData(entries, blurbs)

	blockA := between(t, rendered, "ENTRY #1\n", "END OF ENTRY #1")
	blockB := between(t, rendered, "ENTRY #2\n", "END OF ENTRY #2")

	assert.Contains(t, blockA, "Shipped the Acme billing rewrite")
	assert.NotContains(t, blockA, "Scaled Initech search")
	assert.Contains(t, blockB, "Scaled Initech search to 1M QPS")
	assert.NotContains(t, blockB, "Acme billing rewrite")
}

func TestRenderExperienceData_MissingFieldsStateMarkers(t *testing.T) {
	entries := []content.ExperienceEntry{
		{ID: "a", Company: "Acme", Role: "Engineer", StartDate: "2018-01"},
	}

	rendered := RenderExperienceData(entries, nil)

	assert.Contains(t, rendered, "LOCATION: NO LOCATION PROVIDED")
	assert.Contains(t, rendered, "SUMMARY: NO SUMMARY PROVIDED")
	assert.Contains(t, rendered, "TECHNOLOGIES: NO TECHNOLOGIES PROVIDED")
	assert.Contains(t, rendered, "ACCOMPLISHMENTS: NO ACCOMPLISHMENTS PROVIDED")
	assert.Contains(t, rendered, "END DATE: Present")
}

func TestRenderExperienceData_Empty(t *testing.T) {
	assert.Equal(t, "NO EXPERIENCE ENTRIES PROVIDED", RenderExperienceData(nil, nil))
}

func TestBuildResumePrompts_Builtin(t *testing.T) {
	system, user := buildResumePrompts(sampleOptions())

	assert.Contains(t, system, "NEVER invent")
	assert.Contains(t, user, "TARGET ROLE: Staff Engineer")
	assert.Contains(t, user, "END OF ENTRY #1")
	assert.NotContains(t, user, "{{", "builtin template must fully interpolate")
}

func TestBuildResumePrompts_OverrideSystemSurvivesInterpolation(t *testing.T) {
	opts := sampleOptions()
	opts.PromptOverride = &PromptOverride{
		SystemPrompt:       "Custom system contract.",
		UserPromptTemplate: "Apply for {{job.role}} using:\n{{experience.data}}",
	}

	system, user := buildResumePrompts(opts)
	assert.Equal(t, "Custom system contract.", system)
	assert.Contains(t, user, "Apply for Staff Engineer")
	assert.Contains(t, user, "END OF ENTRY #1")
}

func TestBuildCoverLetterPrompts_Builtin(t *testing.T) {
	system, user := buildCoverLetterPrompts(sampleOptions())
	assert.Contains(t, system, "cover letter")
	assert.Contains(t, user, "TARGET COMPANY: Acme")
}

// between extracts the text between two unique markers.
func between(t *testing.T, s, start, end string) string {
	t.Helper()
	i := strings.Index(s, start)
	require.GreaterOrEqual(t, i, 0)
	rest := s[i+len(start):]
	j := strings.Index(rest, end)
	require.GreaterOrEqual(t, j, 0)
	return rest[:j]
}
