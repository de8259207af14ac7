package ai

import (
	"fmt"
	"strings"

	"github.com/drewhammond/folio-api/internal/content"
	"github.com/drewhammond/folio-api/internal/prompts"
)

// promptFile is the embedded prompt set shared by both providers.
const promptFile = "generation.json"

// buildResumePrompts returns the system and user prompts for a resume
// call. A caller override replaces the corresponding built-in; the user
// template is always interpolated against the enumerated field set.
func buildResumePrompts(opts GenerateOptions) (system, user string) {
	system = prompts.MustGet(promptFile, "resume-system")
	template := prompts.MustGet(promptFile, "resume-user")
	if opts.PromptOverride != nil {
		if opts.PromptOverride.SystemPrompt != "" {
			system = opts.PromptOverride.SystemPrompt
		}
		if opts.PromptOverride.UserPromptTemplate != "" {
			template = opts.PromptOverride.UserPromptTemplate
		}
	}
	return system, Interpolate(template, promptFields(opts))
}

// buildCoverLetterPrompts returns the system and user prompts for a
// cover letter call.
func buildCoverLetterPrompts(opts GenerateOptions) (system, user string) {
	system = prompts.MustGet(promptFile, "cover-letter-system")
	template := prompts.MustGet(promptFile, "cover-letter-user")
	if opts.PromptOverride != nil {
		if opts.PromptOverride.SystemPrompt != "" {
			system = opts.PromptOverride.SystemPrompt
		}
		if opts.PromptOverride.UserPromptTemplate != "" {
			template = opts.PromptOverride.UserPromptTemplate
		}
	}
	return system, Interpolate(template, promptFields(opts))
}

// RenderExperienceData serializes experience entries into explicitly
// delimited blocks. Each entry lives between "ENTRY #n" and
// "END OF ENTRY #n" so the model cannot attribute one entry's
// accomplishments to another. Fields with no data state
// "NO <FIELD> PROVIDED" rather than omitting the line, to suppress
// inference.
func RenderExperienceData(entries []content.ExperienceEntry, blurbs []content.BlurbEntry) string {
	if len(entries) == 0 {
		return "NO EXPERIENCE ENTRIES PROVIDED"
	}

	var sb strings.Builder
	for i, entry := range entries {
		n := i + 1
		fmt.Fprintf(&sb, "ENTRY #%d\n", n)
		fmt.Fprintf(&sb, "COMPANY: %s\n", fieldOrMarker(entry.Company, "COMPANY"))
		fmt.Fprintf(&sb, "ROLE: %s\n", fieldOrMarker(entry.Role, "ROLE"))
		fmt.Fprintf(&sb, "LOCATION: %s\n", fieldOrMarker(entry.Location, "LOCATION"))
		fmt.Fprintf(&sb, "START DATE: %s\n", fieldOrMarker(entry.StartDate, "START DATE"))
		fmt.Fprintf(&sb, "END DATE: %s\n", endDateOrPresent(entry.EndDate))
		fmt.Fprintf(&sb, "SUMMARY: %s\n", fieldOrMarker(entry.Summary, "SUMMARY"))
		fmt.Fprintf(&sb, "TECHNOLOGIES: %s\n", listOrMarker(entry.Technologies, "TECHNOLOGIES"))

		accomplishments := accomplishmentLines(blurbsFor(blurbs, entry.ID))
		if len(accomplishments) == 0 {
			sb.WriteString("ACCOMPLISHMENTS: NO ACCOMPLISHMENTS PROVIDED\n")
		} else {
			sb.WriteString("ACCOMPLISHMENTS:\n")
			for _, line := range accomplishments {
				fmt.Fprintf(&sb, "- %s\n", line)
			}
		}

		fmt.Fprintf(&sb, "END OF ENTRY #%d\n", n)
		if i < len(entries)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func fieldOrMarker(value, fieldName string) string {
	if strings.TrimSpace(value) == "" {
		return "NO " + fieldName + " PROVIDED"
	}
	return value
}

func listOrMarker(values []string, fieldName string) string {
	if len(values) == 0 {
		return "NO " + fieldName + " PROVIDED"
	}
	return strings.Join(values, ", ")
}

func endDateOrPresent(endDate *string) string {
	if endDate == nil || strings.TrimSpace(*endDate) == "" {
		return "Present"
	}
	return *endDate
}

func accomplishmentLines(blurbs []content.BlurbEntry) []string {
	var lines []string
	for _, blurb := range blurbs {
		lines = append(lines, blurb.Accomplishments...)
	}
	return lines
}
