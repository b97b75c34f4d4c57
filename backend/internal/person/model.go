package person

import (
	"strings"
	"time"
)

// ParentRole selects which parent slot a CHILD_OF edge fills
type ParentRole string

const (
	RoleFather ParentRole = "father"
	RoleMother ParentRole = "mother"
)

// Valid reports whether the role is one of the two recognized slots
func (r ParentRole) Valid() bool {
	return r == RoleFather || r == RoleMother
}

// RelationshipType is the edge type for the generic edge-creation path,
// distinct from the parent-child maintenance path.
type RelationshipType string

const (
	RelParentOf  RelationshipType = "PARENT_OF"
	RelMarriedTo RelationshipType = "MARRIED_TO"
	RelSiblingOf RelationshipType = "SIBLING_OF"
)

// Valid reports whether the type is in the recognized set. The type is
// interpolated into Cypher, so it must never pass unchecked.
func (t RelationshipType) Valid() bool {
	switch t {
	case RelParentOf, RelMarriedTo, RelSiblingOf:
		return true
	}
	return false
}

// Relationship is a generic directed edge descriptor between two persons
type Relationship struct {
	FromID string           `json:"fromId"`
	ToID   string           `json:"toId"`
	Type   RelationshipType `json:"type"`
}

// LifeEvent is a dated event in a person's life
type LifeEvent struct {
	ID    string `json:"id"`
	Event string `json:"event"`
	Date  string `json:"date"` // ISO date string (YYYY-MM-DD)
	Place string `json:"place,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Person is a validated genealogical record. Optional fields are omitted from
// the wire shape when absent. The denormalized reference fields (FatherID,
// MotherID, SpouseIDs, ChildrenIDs, SiblingIDs) are a read-optimization cache
// over the CHILD_OF / MARRIED_TO edges and are kept in sync by the
// relationship maintainer, never edited directly by callers.
type Person struct {
	ID string `json:"id"`

	// Basic information
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
	MaidenName string `json:"maidenName,omitempty"`
	Suffix     string `json:"suffix,omitempty"` // Jr., Sr., III, etc.

	// Personal details
	Gender       string `json:"gender,omitempty"`
	BirthDate    string `json:"birthDate,omitempty"` // ISO date string (YYYY-MM-DD)
	BirthPlace   string `json:"birthPlace,omitempty"`
	DeathDate    string `json:"deathDate,omitempty"`
	DeathPlace   string `json:"deathPlace,omitempty"`
	CauseOfDeath string `json:"causeOfDeath,omitempty"`

	// Physical description
	Height              string `json:"height,omitempty"`
	Weight              string `json:"weight,omitempty"`
	EyeColor            string `json:"eyeColor,omitempty"`
	HairColor           string `json:"hairColor,omitempty"`
	DistinguishingMarks string `json:"distinguishingMarks,omitempty"`

	// Family references (denormalized)
	FatherID    string   `json:"fatherId,omitempty"`
	MotherID    string   `json:"motherId,omitempty"`
	SpouseIDs   []string `json:"spouseIds,omitempty"`
	ChildrenIDs []string `json:"childrenIds,omitempty"`
	SiblingIDs  []string `json:"siblingIds,omitempty"`

	// Professional & education
	Occupation      string `json:"occupation,omitempty"`
	Employer        string `json:"employer,omitempty"`
	Education       string `json:"education,omitempty"`
	MilitaryService string `json:"militaryService,omitempty"`

	// Contact & location
	CurrentAddress string `json:"currentAddress,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	Email          string `json:"email,omitempty"`

	// Additional details
	Nationality          string `json:"nationality,omitempty"`
	Ethnicity            string `json:"ethnicity,omitempty"`
	Religion             string `json:"religion,omitempty"`
	PoliticalAffiliation string `json:"politicalAffiliation,omitempty"`

	// Religious & marital milestones
	BaptismDate      string `json:"baptismDate,omitempty"`
	ConfirmationDate string `json:"confirmationDate,omitempty"`
	MarriageDate     string `json:"marriageDate,omitempty"`
	MarriagePlace    string `json:"marriagePlace,omitempty"`
	DivorceDate      string `json:"divorceDate,omitempty"`

	// Life events
	LifeEvents []LifeEvent `json:"lifeEvents,omitempty"`

	// Medical information
	BloodType         string   `json:"bloodType,omitempty"`
	MedicalConditions []string `json:"medicalConditions,omitempty"`
	Allergies         []string `json:"allergies,omitempty"`

	// Notes & research
	Notes         string   `json:"notes,omitempty"`
	ResearchNotes string   `json:"researchNotes,omitempty"`
	Sources       []string `json:"sources,omitempty"`
	LastUpdated   string   `json:"lastUpdated,omitempty"`
	CreatedBy     string   `json:"createdBy,omitempty"`

	// Computed fields
	Name      string `json:"name,omitempty"`      // firstName middleName lastName suffix
	BirthYear int    `json:"birthYear,omitempty"` // from birthDate, else legacy value
	DeathYear int    `json:"deathYear,omitempty"`
}

// Input is an untrusted, partially-populated person payload as received from
// callers. Pointer fields distinguish "omitted" (nil) from "set": an update
// touches only the non-nil fields. Nothing in an Input reaches the store
// without passing through Validate or ValidatePartial first.
type Input struct {
	FirstName  *string `json:"firstName"`
	MiddleName *string `json:"middleName"`
	LastName   *string `json:"lastName"`
	MaidenName *string `json:"maidenName"`
	Suffix     *string `json:"suffix"`

	Gender       *string `json:"gender"`
	BirthDate    *string `json:"birthDate"`
	BirthPlace   *string `json:"birthPlace"`
	DeathDate    *string `json:"deathDate"`
	DeathPlace   *string `json:"deathPlace"`
	CauseOfDeath *string `json:"causeOfDeath"`

	Height              *string `json:"height"`
	Weight              *string `json:"weight"`
	EyeColor            *string `json:"eyeColor"`
	HairColor           *string `json:"hairColor"`
	DistinguishingMarks *string `json:"distinguishingMarks"`

	FatherID    *string  `json:"fatherId"`
	MotherID    *string  `json:"motherId"`
	SpouseIDs   []string `json:"spouseIds"`
	ChildrenIDs []string `json:"childrenIds"`
	SiblingIDs  []string `json:"siblingIds"`

	Occupation      *string `json:"occupation"`
	Employer        *string `json:"employer"`
	Education       *string `json:"education"`
	MilitaryService *string `json:"militaryService"`

	CurrentAddress *string `json:"currentAddress"`
	PhoneNumber    *string `json:"phoneNumber"`
	Email          *string `json:"email"`

	Nationality          *string `json:"nationality"`
	Ethnicity            *string `json:"ethnicity"`
	Religion             *string `json:"religion"`
	PoliticalAffiliation *string `json:"politicalAffiliation"`

	BaptismDate      *string `json:"baptismDate"`
	ConfirmationDate *string `json:"confirmationDate"`
	MarriageDate     *string `json:"marriageDate"`
	MarriagePlace    *string `json:"marriagePlace"`
	DivorceDate      *string `json:"divorceDate"`

	LifeEvents []LifeEvent `json:"lifeEvents"`

	BloodType         *string  `json:"bloodType"`
	MedicalConditions []string `json:"medicalConditions"`
	Allergies         []string `json:"allergies"`

	Notes         *string  `json:"notes"`
	ResearchNotes *string  `json:"researchNotes"`
	Sources       []string `json:"sources"`
	CreatedBy     *string  `json:"createdBy"`

	// Legacy numeric fields, used when the date form is absent
	BirthYear *int `json:"birthYear"`
	DeathYear *int `json:"deathYear"`
}

// FormatName concatenates the name components, space-joined, skipping empty
// parts.
func FormatName(firstName, middleName, lastName, suffix string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{firstName, middleName, lastName, suffix} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// YearFromDate extracts the calendar year from an ISO date string. Returns 0
// when the string is empty or unparseable.
func YearFromDate(dateString string) int {
	if dateString == "" {
		return 0
	}
	t, err := time.Parse("2006-01-02", dateString)
	if err != nil {
		return 0
	}
	return t.Year()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
