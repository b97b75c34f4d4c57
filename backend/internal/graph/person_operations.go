package graph

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Psyfo/genealogy-app/backend/internal/person"
	apperrors "github.com/Psyfo/genealogy-app/backend/pkg/errors"
)

// ============================================================================
// Person CRUD Operations
// ============================================================================

// CreatePerson validates the input, assigns a fresh id, computes the derived
// fields and persists the person node. The id is always generated here; a
// caller-supplied id is never honored.
func (r *Repository) CreatePerson(ctx context.Context, in *person.Input) (*person.Person, error) {
	result := person.Validate(in)
	if !result.IsValid {
		return nil, apperrors.NewValidationError(result.Errors)
	}

	p := personFromInput(in)
	p.ID = uuid.NewString()
	p.Name = person.FormatName(p.FirstName, p.MiddleName, p.LastName, p.Suffix)
	p.BirthYear = computeYear(p.BirthDate, in.BirthYear)
	p.DeathYear = computeYear(p.DeathDate, in.DeathYear)
	p.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	props, err := personToProps(p)
	if err != nil {
		return nil, apperrors.NewGraphQueryError("create person", err)
	}

	_, err = r.runWrite(ctx, `CREATE (p:Person) SET p = $props`, map[string]interface{}{
		"props": props,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryError("create person", err)
	}

	r.logger.Info("Person created",
		zap.String("person_id", p.ID),
		zap.String("name", p.Name),
	)
	return p, nil
}

// GetAllPeople returns all persons ordered by last name, then first name
func (r *Repository) GetAllPeople(ctx context.Context) ([]person.Person, error) {
	rows, err := r.runRead(ctx, `
		MATCH (p:Person)
		RETURN p {.*} AS person
		ORDER BY p.lastName, p.firstName
	`, nil)
	if err != nil {
		return nil, apperrors.NewGraphQueryError("fetch people", err)
	}

	people := make([]person.Person, 0, len(rows))
	for _, row := range rows {
		if props, ok := row["person"].(map[string]interface{}); ok {
			people = append(people, *personFromProps(props))
		}
	}
	return people, nil
}

// GetPersonByID returns the person with the given id, or (nil, nil) when no
// such record exists. A malformed id fails with InvalidIDError before any
// store access, so callers can tell a bad id from an absent record.
func (r *Repository) GetPersonByID(ctx context.Context, id string) (*person.Person, error) {
	if err := person.ValidateID(id); err != nil {
		return nil, err
	}

	rows, err := r.runRead(ctx, `
		MATCH (p:Person {id: $id})
		RETURN p {.*} AS person
	`, map[string]interface{}{"id": id})
	if err != nil {
		return nil, apperrors.NewGraphQueryError("fetch person", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	props, ok := rows[0]["person"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return personFromProps(props), nil
}

// UpdatePerson applies a partial update. Only fields present in the input are
// touched; omitted fields keep their stored values. The computed name is
// refreshed whenever a name component changes, birth/death years whenever the
// corresponding date changes, and lastUpdated is stamped on every call.
func (r *Repository) UpdatePerson(ctx context.Context, id string, in *person.Input) (*person.Person, error) {
	if err := person.ValidateID(id); err != nil {
		return nil, err
	}
	result := person.ValidatePartial(in)
	if !result.IsValid {
		return nil, apperrors.NewValidationError(result.Errors)
	}

	existing, err := r.GetPersonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewPersonNotFound(id)
	}

	props, err := buildUpdateProps(in, existing)
	if err != nil {
		return nil, err
	}

	_, err = r.runWrite(ctx, `MATCH (p:Person {id: $id}) SET p += $props`, map[string]interface{}{
		"id":    id,
		"props": props,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryError("update person", err)
	}

	updated, err := r.GetPersonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.NewGraphQueryError("update person", apperrors.NewPersonNotFound(id))
	}

	r.logger.Info("Person updated", zap.String("person_id", id))
	return updated, nil
}

// DeletePerson removes all incident edges, then the node. The two writes are
// sequential and not transactional; denormalized references on other persons
// are left dangling and tolerated by readers.
func (r *Repository) DeletePerson(ctx context.Context, id string) error {
	if err := person.ValidateID(id); err != nil {
		return err
	}

	existing, err := r.GetPersonByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NewPersonNotFound(id)
	}

	_, err = r.runWrite(ctx, `MATCH (p:Person {id: $id})-[rel]-() DELETE rel`, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return apperrors.NewGraphQueryError("delete person relationships", err)
	}

	_, err = r.runWrite(ctx, `MATCH (p:Person {id: $id}) DELETE p`, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return apperrors.NewGraphQueryError("delete person", err)
	}

	r.logger.Info("Person deleted", zap.String("person_id", id))
	return nil
}

// ============================================================================
// Entity <-> Property Mapping
// ============================================================================

// personFromInput builds a Person from validated input, trimming every string
// field. Computed fields are left for the caller.
func personFromInput(in *person.Input) *person.Person {
	p := &person.Person{
		FirstName:            strVal(in.FirstName),
		MiddleName:           strVal(in.MiddleName),
		LastName:             strVal(in.LastName),
		MaidenName:           strVal(in.MaidenName),
		Suffix:               strVal(in.Suffix),
		Gender:               strVal(in.Gender),
		BirthDate:            strVal(in.BirthDate),
		BirthPlace:           strVal(in.BirthPlace),
		DeathDate:            strVal(in.DeathDate),
		DeathPlace:           strVal(in.DeathPlace),
		CauseOfDeath:         strVal(in.CauseOfDeath),
		Height:               strVal(in.Height),
		Weight:               strVal(in.Weight),
		EyeColor:             strVal(in.EyeColor),
		HairColor:            strVal(in.HairColor),
		DistinguishingMarks:  strVal(in.DistinguishingMarks),
		FatherID:             strVal(in.FatherID),
		MotherID:             strVal(in.MotherID),
		SpouseIDs:            sliceVal(in.SpouseIDs),
		ChildrenIDs:          sliceVal(in.ChildrenIDs),
		SiblingIDs:           sliceVal(in.SiblingIDs),
		Occupation:           strVal(in.Occupation),
		Employer:             strVal(in.Employer),
		Education:            strVal(in.Education),
		MilitaryService:      strVal(in.MilitaryService),
		CurrentAddress:       strVal(in.CurrentAddress),
		PhoneNumber:          strVal(in.PhoneNumber),
		Email:                strVal(in.Email),
		Nationality:          strVal(in.Nationality),
		Ethnicity:            strVal(in.Ethnicity),
		Religion:             strVal(in.Religion),
		PoliticalAffiliation: strVal(in.PoliticalAffiliation),
		BaptismDate:          strVal(in.BaptismDate),
		ConfirmationDate:     strVal(in.ConfirmationDate),
		MarriageDate:         strVal(in.MarriageDate),
		MarriagePlace:        strVal(in.MarriagePlace),
		DivorceDate:          strVal(in.DivorceDate),
		LifeEvents:           withEventIDs(in.LifeEvents),
		BloodType:            strVal(in.BloodType),
		MedicalConditions:    in.MedicalConditions,
		Allergies:            in.Allergies,
		Notes:                strVal(in.Notes),
		ResearchNotes:        strVal(in.ResearchNotes),
		Sources:              in.Sources,
		CreatedBy:            strVal(in.CreatedBy),
	}
	return p
}

// personToProps flattens a Person into the node property map. Optional fields
// are omitted when absent; the denormalized reference fields are always
// present so list operations never hit a missing property. Life events are
// serialized to a JSON string since node properties cannot hold maps.
func personToProps(p *person.Person) (map[string]interface{}, error) {
	props := map[string]interface{}{
		"id":          p.ID,
		"firstName":   p.FirstName,
		"lastName":    p.LastName,
		"spouseIds":   p.SpouseIDs,
		"childrenIds": p.ChildrenIDs,
		"siblingIds":  p.SiblingIDs,
		"name":        p.Name,
		"lastUpdated": p.LastUpdated,
	}

	optional := map[string]string{
		"middleName":           p.MiddleName,
		"maidenName":           p.MaidenName,
		"suffix":               p.Suffix,
		"gender":               p.Gender,
		"birthDate":            p.BirthDate,
		"birthPlace":           p.BirthPlace,
		"deathDate":            p.DeathDate,
		"deathPlace":           p.DeathPlace,
		"causeOfDeath":         p.CauseOfDeath,
		"height":               p.Height,
		"weight":               p.Weight,
		"eyeColor":             p.EyeColor,
		"hairColor":            p.HairColor,
		"distinguishingMarks":  p.DistinguishingMarks,
		"fatherId":             p.FatherID,
		"motherId":             p.MotherID,
		"occupation":           p.Occupation,
		"employer":             p.Employer,
		"education":            p.Education,
		"militaryService":      p.MilitaryService,
		"currentAddress":       p.CurrentAddress,
		"phoneNumber":          p.PhoneNumber,
		"email":                p.Email,
		"nationality":          p.Nationality,
		"ethnicity":            p.Ethnicity,
		"religion":             p.Religion,
		"politicalAffiliation": p.PoliticalAffiliation,
		"baptismDate":          p.BaptismDate,
		"confirmationDate":     p.ConfirmationDate,
		"marriageDate":         p.MarriageDate,
		"marriagePlace":        p.MarriagePlace,
		"divorceDate":          p.DivorceDate,
		"bloodType":            p.BloodType,
		"notes":                p.Notes,
		"researchNotes":        p.ResearchNotes,
		"createdBy":            p.CreatedBy,
	}
	for key, val := range optional {
		if val != "" {
			props[key] = val
		}
	}

	if len(p.MedicalConditions) > 0 {
		props["medicalConditions"] = p.MedicalConditions
	}
	if len(p.Allergies) > 0 {
		props["allergies"] = p.Allergies
	}
	if len(p.Sources) > 0 {
		props["sources"] = p.Sources
	}
	if p.BirthYear != 0 {
		props["birthYear"] = p.BirthYear
	}
	if p.DeathYear != 0 {
		props["deathYear"] = p.DeathYear
	}
	if len(p.LifeEvents) > 0 {
		encoded, err := json.Marshal(p.LifeEvents)
		if err != nil {
			return nil, err
		}
		props["lifeEvents"] = string(encoded)
	}

	return props, nil
}

// personFromProps rebuilds a Person entity from node properties
func personFromProps(props map[string]interface{}) *person.Person {
	p := &person.Person{
		ID:                   getString(props, "id"),
		FirstName:            getString(props, "firstName"),
		MiddleName:           getString(props, "middleName"),
		LastName:             getString(props, "lastName"),
		MaidenName:           getString(props, "maidenName"),
		Suffix:               getString(props, "suffix"),
		Gender:               getString(props, "gender"),
		BirthDate:            getString(props, "birthDate"),
		BirthPlace:           getString(props, "birthPlace"),
		DeathDate:            getString(props, "deathDate"),
		DeathPlace:           getString(props, "deathPlace"),
		CauseOfDeath:         getString(props, "causeOfDeath"),
		Height:               getString(props, "height"),
		Weight:               getString(props, "weight"),
		EyeColor:             getString(props, "eyeColor"),
		HairColor:            getString(props, "hairColor"),
		DistinguishingMarks:  getString(props, "distinguishingMarks"),
		FatherID:             getString(props, "fatherId"),
		MotherID:             getString(props, "motherId"),
		SpouseIDs:            getStringSlice(props, "spouseIds"),
		ChildrenIDs:          getStringSlice(props, "childrenIds"),
		SiblingIDs:           getStringSlice(props, "siblingIds"),
		Occupation:           getString(props, "occupation"),
		Employer:             getString(props, "employer"),
		Education:            getString(props, "education"),
		MilitaryService:      getString(props, "militaryService"),
		CurrentAddress:       getString(props, "currentAddress"),
		PhoneNumber:          getString(props, "phoneNumber"),
		Email:                getString(props, "email"),
		Nationality:          getString(props, "nationality"),
		Ethnicity:            getString(props, "ethnicity"),
		Religion:             getString(props, "religion"),
		PoliticalAffiliation: getString(props, "politicalAffiliation"),
		BaptismDate:          getString(props, "baptismDate"),
		ConfirmationDate:     getString(props, "confirmationDate"),
		MarriageDate:         getString(props, "marriageDate"),
		MarriagePlace:        getString(props, "marriagePlace"),
		DivorceDate:          getString(props, "divorceDate"),
		BloodType:            getString(props, "bloodType"),
		MedicalConditions:    getStringSlice(props, "medicalConditions"),
		Allergies:            getStringSlice(props, "allergies"),
		Notes:                getString(props, "notes"),
		ResearchNotes:        getString(props, "researchNotes"),
		Sources:              getStringSlice(props, "sources"),
		LastUpdated:          getString(props, "lastUpdated"),
		CreatedBy:            getString(props, "createdBy"),
		Name:                 getString(props, "name"),
		BirthYear:            getInt(props, "birthYear"),
		DeathYear:            getInt(props, "deathYear"),
	}

	if raw := getString(props, "lifeEvents"); raw != "" {
		var events []person.LifeEvent
		if err := json.Unmarshal([]byte(raw), &events); err == nil {
			p.LifeEvents = events
		}
	}
	return p
}

// buildUpdateProps collects the property changes for a partial update: only
// fields present in the input, plus the recomputed name and years when their
// components change, plus the lastUpdated stamp. Fails with NoOpUpdateError
// when no recognized field is present; the stamp alone is not an update.
func buildUpdateProps(in *person.Input, existing *person.Person) (map[string]interface{}, error) {
	props := map[string]interface{}{}

	setStr := func(key string, val *string) {
		if val != nil {
			props[key] = strings.TrimSpace(*val)
		}
	}

	setStr("firstName", in.FirstName)
	setStr("middleName", in.MiddleName)
	setStr("lastName", in.LastName)
	setStr("maidenName", in.MaidenName)
	setStr("suffix", in.Suffix)
	setStr("gender", in.Gender)
	setStr("birthDate", in.BirthDate)
	setStr("birthPlace", in.BirthPlace)
	setStr("deathDate", in.DeathDate)
	setStr("deathPlace", in.DeathPlace)
	setStr("causeOfDeath", in.CauseOfDeath)
	setStr("height", in.Height)
	setStr("weight", in.Weight)
	setStr("eyeColor", in.EyeColor)
	setStr("hairColor", in.HairColor)
	setStr("distinguishingMarks", in.DistinguishingMarks)
	setStr("fatherId", in.FatherID)
	setStr("motherId", in.MotherID)
	setStr("occupation", in.Occupation)
	setStr("employer", in.Employer)
	setStr("education", in.Education)
	setStr("militaryService", in.MilitaryService)
	setStr("currentAddress", in.CurrentAddress)
	setStr("phoneNumber", in.PhoneNumber)
	setStr("email", in.Email)
	setStr("nationality", in.Nationality)
	setStr("ethnicity", in.Ethnicity)
	setStr("religion", in.Religion)
	setStr("politicalAffiliation", in.PoliticalAffiliation)
	setStr("baptismDate", in.BaptismDate)
	setStr("confirmationDate", in.ConfirmationDate)
	setStr("marriageDate", in.MarriageDate)
	setStr("marriagePlace", in.MarriagePlace)
	setStr("divorceDate", in.DivorceDate)
	setStr("bloodType", in.BloodType)
	setStr("notes", in.Notes)
	setStr("researchNotes", in.ResearchNotes)
	setStr("createdBy", in.CreatedBy)

	if in.SpouseIDs != nil {
		props["spouseIds"] = in.SpouseIDs
	}
	if in.ChildrenIDs != nil {
		props["childrenIds"] = in.ChildrenIDs
	}
	if in.SiblingIDs != nil {
		props["siblingIds"] = in.SiblingIDs
	}
	if in.MedicalConditions != nil {
		props["medicalConditions"] = in.MedicalConditions
	}
	if in.Allergies != nil {
		props["allergies"] = in.Allergies
	}
	if in.Sources != nil {
		props["sources"] = in.Sources
	}
	if in.BirthYear != nil {
		props["birthYear"] = *in.BirthYear
	}
	if in.DeathYear != nil {
		props["deathYear"] = *in.DeathYear
	}
	if in.LifeEvents != nil {
		encoded, err := json.Marshal(withEventIDs(in.LifeEvents))
		if err != nil {
			return nil, apperrors.NewGraphQueryError("update person", err)
		}
		props["lifeEvents"] = string(encoded)
	}

	if len(props) == 0 {
		return nil, apperrors.NewNoOpUpdateError(existing.ID)
	}

	// Recompute derived fields from whichever components changed
	if in.FirstName != nil || in.MiddleName != nil || in.LastName != nil || in.Suffix != nil {
		props["name"] = person.FormatName(
			pickStr(in.FirstName, existing.FirstName),
			pickStr(in.MiddleName, existing.MiddleName),
			pickStr(in.LastName, existing.LastName),
			pickStr(in.Suffix, existing.Suffix),
		)
	}
	if in.BirthDate != nil {
		if year := person.YearFromDate(strings.TrimSpace(*in.BirthDate)); year != 0 {
			props["birthYear"] = year
		}
	}
	if in.DeathDate != nil {
		if year := person.YearFromDate(strings.TrimSpace(*in.DeathDate)); year != 0 {
			props["deathYear"] = year
		}
	}

	props["lastUpdated"] = time.Now().UTC().Format(time.RFC3339)
	return props, nil
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func pickStr(updated *string, existing string) string {
	if updated != nil {
		return strings.TrimSpace(*updated)
	}
	return existing
}

func sliceVal(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// withEventIDs assigns an id to any life event that arrived without one
func withEventIDs(events []person.LifeEvent) []person.LifeEvent {
	if events == nil {
		return nil
	}
	out := make([]person.LifeEvent, len(events))
	for i, ev := range events {
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		out[i] = ev
	}
	return out
}

func computeYear(dateString string, legacy *int) int {
	if year := person.YearFromDate(dateString); year != 0 {
		return year
	}
	if legacy != nil {
		return *legacy
	}
	return 0
}
