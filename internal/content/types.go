// Package content defines the experience and blurb records supplied by
// the portfolio's persistence layer, and a snapshot loader that reads
// them for document generation.
package content

// PersonalInfo is the candidate identity block included in every
// generation request.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
}

// ExperienceEntry is a single work-history record from the portfolio.
type ExperienceEntry struct {
	ID           string   `json:"id"`
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      *string  `json:"endDate,omitempty"` // nil means present
	Summary      string   `json:"summary,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// BlurbEntry is a narrative accomplishment attached to an experience
// entry. Accomplishments are the only source of resume highlight text.
type BlurbEntry struct {
	ID              string   `json:"id"`
	ExperienceID    string   `json:"experienceId"`
	Title           string   `json:"title,omitempty"`
	Accomplishments []string `json:"accomplishments"`
}

// Snapshot is the immutable view of portfolio data captured at request
// creation time. Generation never reads live data after this point.
type Snapshot struct {
	PersonalInfo PersonalInfo      `json:"personalInfo"`
	Experience   []ExperienceEntry `json:"experience"`
	Blurbs       []BlurbEntry      `json:"blurbs"`
}

// BlurbsFor returns the blurbs attached to one experience entry,
// preserving their stored order.
func (s *Snapshot) BlurbsFor(experienceID string) []BlurbEntry {
	var out []BlurbEntry
	for _, b := range s.Blurbs {
		if b.ExperienceID == experienceID {
			out = append(out, b)
		}
	}
	return out
}
