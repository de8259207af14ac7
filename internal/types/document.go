// Package types provides the shared data contracts for generated
// documents, token accounting, and provider pricing. Field names use the
// camelCase wire form because these structs are exchanged with language
// model backends under a JSON Schema contract.
package types

// ResumeContent is the structured-output contract for a generated
// resume. It is the only legal resume shape a provider may return;
// schema validation happens at the model-call boundary.
type ResumeContent struct {
	PersonalInfo        ResumePersonalInfo `json:"personalInfo"`
	ProfessionalSummary string             `json:"professionalSummary"`
	Experience          []ResumeExperience `json:"experience"`
	Skills              []SkillGroup       `json:"skills,omitempty"`
	Education           []Education        `json:"education,omitempty"`
}

// ResumePersonalInfo is the identity block at the top of a resume.
type ResumePersonalInfo struct {
	Name    string        `json:"name"`
	Title   string        `json:"title"`
	Summary string        `json:"summary"`
	Contact ResumeContact `json:"contact,omitempty"`
}

// ResumeContact holds optional contact channels.
type ResumeContact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ResumeExperience is a single tailored work-history section.
// EndDate is nil for a current role.
type ResumeExperience struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	Highlights   []string `json:"highlights"`
	Technologies []string `json:"technologies,omitempty"`
}

// SkillGroup is a named category of skills.
type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Education is a single education record.
type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	Field          string `json:"field,omitempty"`
	GraduationDate string `json:"graduationDate,omitempty"`
}

// CoverLetterContent is the structured-output contract for a generated
// cover letter.
type CoverLetterContent struct {
	Greeting         string   `json:"greeting"`
	OpeningParagraph string   `json:"openingParagraph"`
	BodyParagraphs   []string `json:"bodyParagraphs"`
	ClosingParagraph string   `json:"closingParagraph"`
	Signature        string   `json:"signature"`
}
