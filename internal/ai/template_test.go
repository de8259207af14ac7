package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drewhammond/folio-api/internal/content"
)

func sampleOptions() GenerateOptions {
	endDate := "2023-12"
	return GenerateOptions{
		PersonalInfo: content.PersonalInfo{
			Name:  "Drew Hammond",
			Email: "drew@example.com",
		},
		Job: JobTarget{
			Role:            "Staff Engineer",
			Company:         "Acme",
			DescriptionText: "Build distributed systems.",
		},
		Experience: []content.ExperienceEntry{
			{
				ID:           "exp-1",
				Company:      "Initech",
				Role:         "Senior Engineer",
				StartDate:    "2020-01",
				EndDate:      &endDate,
				Technologies: []string{"Go", "PostgreSQL"},
			},
		},
		Blurbs: []content.BlurbEntry{
			{
				ID:           "blurb-1",
				ExperienceID: "exp-1",
				Accomplishments: []string{
					"Cut p99 latency from 900ms to 120ms",
					"Led a team of four through a zero-downtime migration",
				},
			},
		},
		Emphasize: []string{"Go", "reliability"},
	}
}

func TestInterpolate_NoTokensReturnedUnmodified(t *testing.T) {
	template := "Write a resume. No placeholders here."
	result := Interpolate(template, promptFields(sampleOptions()))
	assert.Equal(t, template, result)
}

func TestInterpolate_RecognizedTokensReplacedEverywhere(t *testing.T) {
	template := "Role: {{job.role}}. Again: {{job.role}} at {{job.company}}."
	result := Interpolate(template, promptFields(sampleOptions()))
	assert.Equal(t, "Role: Staff Engineer. Again: Staff Engineer at Acme.", result)
}

func TestInterpolate_UnrecognizedTokensLeftVerbatim(t *testing.T) {
	template := "{{job.role}} / {{secret.apiKey}} / {{candidate.__proto__}}"
	result := Interpolate(template, promptFields(sampleOptions()))
	assert.Equal(t, "Staff Engineer / {{secret.apiKey}} / {{candidate.__proto__}}", result)
}

func TestPromptFields_MissingOptionalsMarkedNotProvided(t *testing.T) {
	fields := promptFields(sampleOptions())
	assert.Equal(t, "NOT PROVIDED", fields[FieldPersonalPhone])
	assert.Equal(t, "NOT PROVIDED", fields[FieldPersonalLocation])
	assert.Equal(t, "Drew Hammond", fields[FieldPersonalName])
}

func TestPromptFields_EmphasisList(t *testing.T) {
	fields := promptFields(sampleOptions())
	assert.Equal(t, "Go, reliability", fields[FieldEmphasisList])

	opts := sampleOptions()
	opts.Emphasize = nil
	assert.Equal(t, "NONE", promptFields(opts)[FieldEmphasisList])
}
