// internal/domain/models/faculty.go
package models

import (
	"strings"
	"time"
)

// Department is a school code. The empty string is the single canonical
// "unset" representation; ParseDepartment collapses the legacy sentinels
// ("unset", "undefined", whitespace) into it.
type Department string

const (
	DeptUnset Department = ""
	DeptSASTE Department = "SASTE"
	DeptSITE  Department = "SITE"
	DeptSBHAM Department = "SBHAM"
	DeptSNAHS Department = "SNAHS"
	DeptSOM   Department = "SOM"
	DeptBEU   Department = "BEU"
)

// AllDepartments lists the valid school codes (excluding unset).
var AllDepartments = []Department{DeptSASTE, DeptSITE, DeptSBHAM, DeptSNAHS, DeptSOM, DeptBEU}

// ParseDepartment trims, upper-cases, and collapses unset sentinels.
// Unknown codes are returned upper-cased rather than rejected; the store
// layer decides whether to validate strictly.
func ParseDepartment(s string) Department {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "UNSET" || s == "UNDEFINED" {
		return DeptUnset
	}
	return Department(s)
}

// IsValid reports whether d is one of the known school codes or unset.
func (d Department) IsValid() bool {
	if d == DeptUnset {
		return true
	}
	for _, v := range AllDepartments {
		if d == v {
			return true
		}
	}
	return false
}

// EmploymentStatus is the faculty employment type. Empty string means unset.
type EmploymentStatus string

const (
	StatusUnset    EmploymentStatus = ""
	StatusFullTime EmploymentStatus = "Full time"
	StatusPartTime EmploymentStatus = "Part time"
)

// ParseEmploymentStatus trims and collapses unset sentinels.
func ParseEmploymentStatus(s string) EmploymentStatus {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unset") || strings.EqualFold(s, "undefined") {
		return StatusUnset
	}
	return EmploymentStatus(s)
}

// IsValid reports whether the status is a known employment type or unset.
func (s EmploymentStatus) IsValid() bool {
	return s == StatusUnset || s == StatusFullTime || s == StatusPartTime
}

// Research title type and status values.
const (
	ResearchTypeSelfFunded = "self-funded"
	ResearchTypeFunded     = "funded"

	ResearchStatusOngoing   = "on-going"
	ResearchStatusCompleted = "completed"
)

// Education is one degree entry. Year is free text on purpose; entries are
// display-ordered by array position.
type Education struct {
	Degree      string `bson:"degree" json:"degree"`
	Field       string `bson:"field" json:"field"`
	Institution string `bson:"institution" json:"institution"`
	Year        string `bson:"year" json:"year"`
}

// ResearchEngagement is one conference/seminar/training entry.
// Certificate is a blob-store path, optional.
type ResearchEngagement struct {
	Title       string `bson:"title" json:"title"`
	Role        string `bson:"role" json:"role"`
	Year        string `bson:"year" json:"year"`
	Certificate string `bson:"certificate,omitempty" json:"certificate,omitempty"`
}

// ResearchPublication is one published work. Link is an optional URL/DOI.
type ResearchPublication struct {
	Title   string `bson:"title" json:"title"`
	Journal string `bson:"journal" json:"journal"`
	Year    string `bson:"year" json:"year"`
	Link    string `bson:"link,omitempty" json:"link,omitempty"`
}

// ResearchTitle is one research project. FundingAgency is required when
// Type is "funded". Paper is a blob-store path, expected (but not enforced)
// when Status is "completed".
type ResearchTitle struct {
	Title         string `bson:"title" json:"title"`
	Year          string `bson:"year" json:"year"`
	Type          string `bson:"type" json:"type"`     // self-funded | funded
	Status        string `bson:"status" json:"status"` // on-going | completed
	FundingAgency string `bson:"funding_agency,omitempty" json:"fundingAgency,omitempty"`
	Paper         string `bson:"paper,omitempty" json:"paper,omitempty"`
}

// ResearchCount is the denormalized cache of collection sizes. Titles and
// Total are recomputed on every titles mutation; Publications and
// Engagements carry over from the previous value rather than being
// recomputed on their own mutations. That asymmetry is inherited behavior
// and deliberately preserved.
type ResearchCount struct {
	Total        int `bson:"total" json:"total"`
	Publications int `bson:"publications" json:"publications"`
	Engagements  int `bson:"engagements" json:"engagements"`
	Titles       int `bson:"titles" json:"titles"`
}

// FacultyProfile is one faculty member's record, keyed by email.
// The email doubles as the Mongo document _id so a single-document change
// stream can match on the document key.
type FacultyProfile struct {
	Email          string           `bson:"_id" json:"email"`
	Name           string           `bson:"name" json:"name"`
	Department     Department       `bson:"department,omitempty" json:"department,omitempty"`
	Status         EmploymentStatus `bson:"status,omitempty" json:"status,omitempty"`
	Specialization string           `bson:"specialization,omitempty" json:"specialization,omitempty"`

	PhotoURL  string `bson:"photo_url,omitempty" json:"photoURL,omitempty"`
	BannerURL string `bson:"banner_url,omitempty" json:"bannerURL,omitempty"`

	Education            []Education           `bson:"education" json:"education"`
	ResearchEngagements  []ResearchEngagement  `bson:"research_engagements" json:"researchEngagements"`
	ResearchPublications []ResearchPublication `bson:"research_publications" json:"researchPublications"`
	ResearchTitles       []ResearchTitle       `bson:"research_titles" json:"researchTitles"`

	ResearchCount ResearchCount `bson:"research_count" json:"researchCount"`

	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
	LastLogin *time.Time `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
}

// Normalize makes a decoded profile safe to hand to callers: list fields
// become empty slices instead of nil, and timestamps are pinned to UTC.
func (p *FacultyProfile) Normalize() {
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.ResearchEngagements == nil {
		p.ResearchEngagements = []ResearchEngagement{}
	}
	if p.ResearchPublications == nil {
		p.ResearchPublications = []ResearchPublication{}
	}
	if p.ResearchTitles == nil {
		p.ResearchTitles = []ResearchTitle{}
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	if p.LastLogin != nil {
		utc := p.LastLogin.UTC()
		p.LastLogin = &utc
	}
	p.Department = ParseDepartment(string(p.Department))
	p.Status = ParseEmploymentStatus(string(p.Status))
}

// CompletedTitleCount returns how many research titles are completed.
func (p *FacultyProfile) CompletedTitleCount() int {
	n := 0
	for _, t := range p.ResearchTitles {
		if t.Status == ResearchStatusCompleted {
			n++
		}
	}
	return n
}

// HasOngoingTitle reports whether any research title is still on-going.
func (p *FacultyProfile) HasOngoingTitle() bool {
	for _, t := range p.ResearchTitles {
		if t.Status == ResearchStatusOngoing {
			return true
		}
	}
	return false
}

// OngoingTitleCount returns how many research titles are on-going.
func (p *FacultyProfile) OngoingTitleCount() int {
	n := 0
	for _, t := range p.ResearchTitles {
		if t.Status == ResearchStatusOngoing {
			n++
		}
	}
	return n
}

// Section names the independently editable top-level collections of a
// profile. These are the only fields the section-update path may touch.
type Section string

const (
	SectionEducation    Section = "education"
	SectionEngagements  Section = "researchEngagements"
	SectionPublications Section = "researchPublications"
	SectionTitles       Section = "researchTitles"
)

// AllSections lists the editable sections.
var AllSections = []Section{SectionEducation, SectionEngagements, SectionPublications, SectionTitles}

// ParseSection maps an API section name to its Section, false if unknown.
func ParseSection(s string) (Section, bool) {
	switch Section(s) {
	case SectionEducation, SectionEngagements, SectionPublications, SectionTitles:
		return Section(s), true
	}
	return "", false
}

// BSONField returns the Mongo field a section is stored under.
func (s Section) BSONField() string {
	switch s {
	case SectionEducation:
		return "education"
	case SectionEngagements:
		return "research_engagements"
	case SectionPublications:
		return "research_publications"
	case SectionTitles:
		return "research_titles"
	}
	return ""
}
