package ai

import (
	"encoding/json"
	"fmt"

	"github.com/drewhammond/folio-api/internal/types"
)

// maxMockEntries mirrors the selection bound the system prompt imposes
// on real backends.
const maxMockEntries = 4

// mockResume builds a deterministic, schema-valid resume from the input
// without any network call. It is a first-class code path selected by
// the provider's mock flag, used for local and integration testing.
func mockResume(opts GenerateOptions, model string) *ResumeResult {
	entries := opts.Experience
	if len(entries) > maxMockEntries {
		entries = entries[:maxMockEntries]
	}

	resume := &types.ResumeContent{
		PersonalInfo: types.ResumePersonalInfo{
			Name:    opts.PersonalInfo.Name,
			Title:   opts.Job.Role,
			Summary: fmt.Sprintf("Candidate for %s at %s.", opts.Job.Role, opts.Job.Company),
			Contact: types.ResumeContact{
				Email:    opts.PersonalInfo.Email,
				Phone:    opts.PersonalInfo.Phone,
				Location: opts.PersonalInfo.Location,
				Website:  opts.PersonalInfo.Website,
			},
		},
		ProfessionalSummary: fmt.Sprintf("Professional with %d documented experience entries, applying for %s at %s.",
			len(opts.Experience), opts.Job.Role, opts.Job.Company),
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		highlights := accomplishmentLines(blurbsFor(opts.Blurbs, entry.ID))
		if len(highlights) == 0 && entry.Summary != "" {
			highlights = []string{entry.Summary}
		}
		resume.Experience = append(resume.Experience, types.ResumeExperience{
			Company:      entry.Company,
			Role:         entry.Role,
			Location:     entry.Location,
			StartDate:    entry.StartDate,
			EndDate:      entry.EndDate,
			Highlights:   highlights,
			Technologies: entry.Technologies,
		})
		for _, tech := range entry.Technologies {
			seen[tech] = true
		}
	}

	var skills []string
	for _, entry := range entries {
		for _, tech := range entry.Technologies {
			if seen[tech] {
				skills = append(skills, tech)
				seen[tech] = false
			}
		}
	}
	if len(skills) > 0 {
		resume.Skills = []types.SkillGroup{{Category: "Technologies", Items: skills}}
	}

	_, user := buildResumePrompts(opts)
	return &ResumeResult{
		Content:    resume,
		TokenUsage: mockUsage(user, resume),
		Model:      model,
	}
}

// mockCoverLetter builds a deterministic, schema-valid cover letter from
// the input without any network call.
func mockCoverLetter(opts GenerateOptions, model string) *CoverLetterResult {
	letter := &types.CoverLetterContent{
		Greeting: fmt.Sprintf("Dear %s Hiring Team,", opts.Job.Company),
		OpeningParagraph: fmt.Sprintf("I am writing to apply for the %s position at %s.",
			opts.Job.Role, opts.Job.Company),
		ClosingParagraph: "Thank you for your time and consideration.",
		Signature:        opts.PersonalInfo.Name,
	}

	for _, entry := range opts.Experience {
		letter.BodyParagraphs = append(letter.BodyParagraphs,
			fmt.Sprintf("At %s I worked as %s.", entry.Company, entry.Role))
		if len(letter.BodyParagraphs) == 3 {
			break
		}
	}
	if len(letter.BodyParagraphs) == 0 {
		letter.BodyParagraphs = []string{
			fmt.Sprintf("My background aligns with the %s role.", opts.Job.Role),
		}
	}

	_, user := buildCoverLetterPrompts(opts)
	return &CoverLetterResult{
		Content:    letter,
		TokenUsage: mockUsage(user, letter),
		Model:      model,
	}
}

// mockUsage estimates tokens for a stubbed call from the prompt and the
// serialized output, using the same chars/4 estimator as the real
// fallback path.
func mockUsage(userPrompt string, output any) types.TokenUsage {
	serialized, _ := json.Marshal(output)
	return types.NewTokenUsage(EstimateTokens(userPrompt), EstimateTokens(string(serialized)))
}
