package ai

import (
	"strings"

	"github.com/drewhammond/folio-api/internal/content"
)

// Placeholder names recognized in user-prompt template overrides. The
// set is closed: a template can only ever reach these pre-rendered
// values, never arbitrary object fields.
const (
	FieldPersonalName     = "personal.name"
	FieldPersonalEmail    = "personal.email"
	FieldPersonalPhone    = "personal.phone"
	FieldPersonalLocation = "personal.location"
	FieldPersonalWebsite  = "personal.website"
	FieldJobRole          = "job.role"
	FieldJobCompany       = "job.company"
	FieldJobDescription   = "job.description"
	FieldExperienceData   = "experience.data"
	FieldEmphasisList     = "emphasis.list"
)

// notProvided marks an absent optional value in the prompt so the model
// states nothing instead of inferring something.
const notProvided = "NOT PROVIDED"

// Interpolate substitutes {{name}} placeholders from the enumerated
// field set. Every occurrence of a recognized placeholder is replaced;
// unrecognized placeholders are left verbatim; a template with no
// placeholders comes back unmodified.
func Interpolate(template string, fields map[string]string) string {
	result := template
	for name, value := range fields {
		result = strings.ReplaceAll(result, "{{"+name+"}}", value)
	}
	return result
}

// promptFields pre-renders the enumerated placeholder values for one
// generation call.
func promptFields(opts GenerateOptions) map[string]string {
	return map[string]string{
		FieldPersonalName:     orNotProvided(opts.PersonalInfo.Name),
		FieldPersonalEmail:    orNotProvided(opts.PersonalInfo.Email),
		FieldPersonalPhone:    orNotProvided(opts.PersonalInfo.Phone),
		FieldPersonalLocation: orNotProvided(opts.PersonalInfo.Location),
		FieldPersonalWebsite:  orNotProvided(opts.PersonalInfo.Website),
		FieldJobRole:          orNotProvided(opts.Job.Role),
		FieldJobCompany:       orNotProvided(opts.Job.Company),
		FieldJobDescription:   orNotProvided(opts.Job.DescriptionText),
		FieldExperienceData:   RenderExperienceData(opts.Experience, opts.Blurbs),
		FieldEmphasisList:     emphasisList(opts.Emphasize),
	}
}

func orNotProvided(value string) string {
	if strings.TrimSpace(value) == "" {
		return notProvided
	}
	return value
}

func emphasisList(emphasize []string) string {
	if len(emphasize) == 0 {
		return "NONE"
	}
	return strings.Join(emphasize, ", ")
}

// blurbsFor mirrors content.Snapshot.BlurbsFor for the flat option slices.
func blurbsFor(blurbs []content.BlurbEntry, experienceID string) []content.BlurbEntry {
	var out []content.BlurbEntry
	for _, b := range blurbs {
		if b.ExperienceID == experienceID {
			out = append(out, b)
		}
	}
	return out
}
