package person

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/Psyfo/genealogy-app/backend/pkg/errors"
)

var validate = validator.New()

var genders = map[string]bool{
	"male": true, "female": true, "other": true, "unknown": true,
}

var bloodTypes = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

// ValidationResult carries the outcome of validating an untrusted input.
// Errors accumulates every violation so a single call surfaces all problems.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// Validate checks an input for person creation. First and last name are
// required; every other constraint applies only to fields that are present.
func Validate(in *Input) ValidationResult {
	return validateInput(in, true)
}

// ValidatePartial checks an input for a partial update. Required-field rules
// are relaxed: an omitted name is untouched, not missing.
func ValidatePartial(in *Input) ValidationResult {
	return validateInput(in, false)
}

func validateInput(in *Input, requireNames bool) ValidationResult {
	var errs []string

	if requireNames {
		if in.FirstName == nil || strings.TrimSpace(*in.FirstName) == "" {
			errs = append(errs, "First name is required")
		}
		if in.LastName == nil || strings.TrimSpace(*in.LastName) == "" {
			errs = append(errs, "Last name is required")
		}
	} else {
		// Present-but-blank names are still invalid on update
		if in.FirstName != nil && strings.TrimSpace(*in.FirstName) == "" {
			errs = append(errs, "First name is required")
		}
		if in.LastName != nil && strings.TrimSpace(*in.LastName) == "" {
			errs = append(errs, "Last name is required")
		}
	}

	// Limits count characters, not bytes, so multi-byte names fit
	if n := deref(in.FirstName); utf8.RuneCountInString(n) > 50 {
		errs = append(errs, "First name must be 50 characters or less")
	}
	if n := deref(in.LastName); utf8.RuneCountInString(n) > 50 {
		errs = append(errs, "Last name must be 50 characters or less")
	}
	if n := deref(in.MiddleName); utf8.RuneCountInString(n) > 50 {
		errs = append(errs, "Middle name must be 50 characters or less")
	}

	if g := deref(in.Gender); g != "" && !genders[g] {
		errs = append(errs, "Gender must be one of: male, female, other, unknown")
	}

	if msg := validateDate(deref(in.BirthDate), "Birth date"); msg != "" {
		errs = append(errs, msg)
	}
	if msg := validateDate(deref(in.DeathDate), "Death date"); msg != "" {
		errs = append(errs, msg)
	}

	// Cross-field ordering, only when both dates parse
	if bd, dd := deref(in.BirthDate), deref(in.DeathDate); bd != "" && dd != "" {
		birth, errB := time.Parse("2006-01-02", bd)
		death, errD := time.Parse("2006-01-02", dd)
		if errB == nil && errD == nil && !death.After(birth) {
			errs = append(errs, "Death date must be after birth date")
		}
	}

	if email := deref(in.Email); email != "" {
		if err := validate.Var(email, "email"); err != nil {
			errs = append(errs, "Email must be a valid email address")
		}
	}

	if phone := deref(in.PhoneNumber); phone != "" {
		digits := 0
		for _, c := range phone {
			if c >= '0' && c <= '9' {
				digits++
			}
		}
		if digits < 7 || digits > 15 {
			errs = append(errs, "Phone number must be between 7 and 15 digits")
		}
	}

	if bt := deref(in.BloodType); bt != "" && !bloodTypes[bt] {
		errs = append(errs, "Blood type must be one of: A+, A-, B+, B-, AB+, AB-, O+, O-")
	}

	for i, ev := range in.LifeEvents {
		n := i + 1
		desc := strings.TrimSpace(ev.Event)
		if desc == "" {
			errs = append(errs, fmt.Sprintf("Life event %d: Event description is required", n))
		} else if utf8.RuneCountInString(desc) > 100 {
			errs = append(errs, fmt.Sprintf("Life event %d: Event description must be 100 characters or less", n))
		}
		if ev.Date == "" {
			errs = append(errs, fmt.Sprintf("Life event %d: Date is required", n))
		} else if msg := validateDate(ev.Date, fmt.Sprintf("Life event %d date", n)); msg != "" {
			errs = append(errs, msg)
		}
		if p := strings.TrimSpace(ev.Place); utf8.RuneCountInString(p) > 100 {
			errs = append(errs, fmt.Sprintf("Life event %d: Place must be 100 characters or less", n))
		}
		if notes := strings.TrimSpace(ev.Notes); utf8.RuneCountInString(notes) > 500 {
			errs = append(errs, fmt.Sprintf("Life event %d: Notes must be 500 characters or less", n))
		}
	}

	// Legacy numeric fields
	currentYear := time.Now().Year()
	if in.BirthYear != nil && (*in.BirthYear < 1000 || *in.BirthYear > currentYear) {
		errs = append(errs, "Birth year must be a valid number between 1000 and current year")
	}
	if in.DeathYear != nil {
		if *in.DeathYear < 1000 || *in.DeathYear > currentYear {
			errs = append(errs, "Death year must be a valid number between 1000 and current year")
		}
		if in.BirthYear != nil && *in.DeathYear < *in.BirthYear {
			errs = append(errs, "Death year cannot be before birth year")
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// validateDate checks an optional ISO date string. Empty is fine; anything
// else must parse as YYYY-MM-DD with a year in [1000, current year].
func validateDate(dateString, fieldName string) string {
	if dateString == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", dateString)
	if err != nil {
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD format)", fieldName)
	}
	year := t.Year()
	currentYear := time.Now().Year()
	if year < 1000 || year > currentYear {
		return fmt.Sprintf("%s year must be between 1000 and %d", fieldName, currentYear)
	}
	return ""
}

// ValidateID enforces canonical UUID v4 shape before any store lookup. This is
// an input-shape guard, distinct from an existence check.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewInvalidIDError(id, "ID is required")
	}
	if err := validate.Var(id, "uuid4"); err != nil {
		return apperrors.NewInvalidIDError(id, "ID must be a valid UUID")
	}
	return nil
}
