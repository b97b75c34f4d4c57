package person

import (
	"strings"
	"testing"

	apperrors "github.com/Psyfo/genealogy-app/backend/pkg/errors"
)

func str(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func containsError(result ValidationResult, want string) bool {
	for _, msg := range result.Errors {
		if msg == want {
			return true
		}
	}
	return false
}

func TestValidate_RequiredNames(t *testing.T) {
	result := Validate(&Input{})
	if result.IsValid {
		t.Fatal("Expected empty input to be invalid")
	}
	if !containsError(result, "First name is required") {
		t.Errorf("Missing first name error, got %v", result.Errors)
	}
	if !containsError(result, "Last name is required") {
		t.Errorf("Missing last name error, got %v", result.Errors)
	}
}

func TestValidate_BlankNamesRejected(t *testing.T) {
	result := Validate(&Input{FirstName: str("   "), LastName: str("Lovelace")})
	if result.IsValid {
		t.Fatal("Expected whitespace-only first name to be invalid")
	}
	if !containsError(result, "First name is required") {
		t.Errorf("Missing first name error, got %v", result.Errors)
	}
}

func TestValidate_AccumulatesAllViolations(t *testing.T) {
	// Two independent violations must both be reported in one call
	result := Validate(&Input{
		FirstName: str("Ada"),
		Email:     str("not-an-email"),
	})
	if result.IsValid {
		t.Fatal("Expected input to be invalid")
	}
	if !containsError(result, "Last name is required") {
		t.Errorf("Missing last name error, got %v", result.Errors)
	}
	if !containsError(result, "Email must be a valid email address") {
		t.Errorf("Missing email error, got %v", result.Errors)
	}
}

func TestValidate_NameLengths(t *testing.T) {
	long := strings.Repeat("a", 51)
	result := Validate(&Input{
		FirstName:  str(long),
		MiddleName: str(long),
		LastName:   str(long),
	})
	for _, want := range []string{
		"First name must be 50 characters or less",
		"Middle name must be 50 characters or less",
		"Last name must be 50 characters or less",
	} {
		if !containsError(result, want) {
			t.Errorf("Missing %q, got %v", want, result.Errors)
		}
	}
}

func TestValidate_NameLengthCountsCharacters(t *testing.T) {
	// 50 two-byte characters are within the limit; the 51st is not
	result := Validate(&Input{
		FirstName: str(strings.Repeat("é", 50)),
		LastName:  str("ÓSéaghdha"),
	})
	if !result.IsValid {
		t.Errorf("50-character accented name should be valid, got %v", result.Errors)
	}

	result = Validate(&Input{
		FirstName: str(strings.Repeat("é", 51)),
		LastName:  str("Ó Séaghdha"),
	})
	if !containsError(result, "First name must be 50 characters or less") {
		t.Errorf("Missing length error for 51 characters, got %v", result.Errors)
	}
}

func TestValidate_Gender(t *testing.T) {
	for _, g := range []string{"male", "female", "other", "unknown"} {
		result := Validate(&Input{FirstName: str("Ada"), LastName: str("Lovelace"), Gender: str(g)})
		if !result.IsValid {
			t.Errorf("Gender %q should be valid, got %v", g, result.Errors)
		}
	}
	result := Validate(&Input{FirstName: str("Ada"), LastName: str("Lovelace"), Gender: str("m")})
	if !containsError(result, "Gender must be one of: male, female, other, unknown") {
		t.Errorf("Missing gender error, got %v", result.Errors)
	}
}

func TestValidate_Dates(t *testing.T) {
	tests := []struct {
		name      string
		birthDate string
		wantErr   string
	}{
		{"valid", "1815-12-10", ""},
		{"garbage", "not-a-date", "Birth date must be a valid date (YYYY-MM-DD format)"},
		{"impossible day", "2001-02-30", "Birth date must be a valid date (YYYY-MM-DD format)"},
		{"too early", "0999-01-01", ""},
		{"future", "3021-01-01", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(&Input{
				FirstName: str("Ada"),
				LastName:  str("Lovelace"),
				BirthDate: str(tt.birthDate),
			})
			switch tt.name {
			case "too early", "future":
				// Year-range message embeds the current year, check prefix
				found := false
				for _, msg := range result.Errors {
					if strings.HasPrefix(msg, "Birth date year must be between 1000 and ") {
						found = true
					}
				}
				if !found {
					t.Errorf("Missing year range error, got %v", result.Errors)
				}
			default:
				if tt.wantErr == "" {
					if !result.IsValid {
						t.Errorf("Expected valid, got %v", result.Errors)
					}
				} else if !containsError(result, tt.wantErr) {
					t.Errorf("Missing %q, got %v", tt.wantErr, result.Errors)
				}
			}
		})
	}
}

func TestValidate_DeathBeforeBirth(t *testing.T) {
	result := Validate(&Input{
		FirstName: str("Ada"),
		LastName:  str("Lovelace"),
		BirthDate: str("2000-01-01"),
		DeathDate: str("1999-01-01"),
	})
	if !containsError(result, "Death date must be after birth date") {
		t.Errorf("Missing ordering error, got %v", result.Errors)
	}

	// Equal dates are also rejected: death must be strictly after birth
	result = Validate(&Input{
		FirstName: str("Ada"),
		LastName:  str("Lovelace"),
		BirthDate: str("2000-01-01"),
		DeathDate: str("2000-01-01"),
	})
	if !containsError(result, "Death date must be after birth date") {
		t.Errorf("Missing ordering error for equal dates, got %v", result.Errors)
	}
}

func TestValidate_PhoneNumber(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+44-161-555-0123", true},
		{"1234567", true},
		{"123456", false},
		{"1234567890123456", false},
	}
	for _, tt := range tests {
		result := Validate(&Input{
			FirstName:   str("Ada"),
			LastName:    str("Lovelace"),
			PhoneNumber: str(tt.phone),
		})
		if result.IsValid != tt.valid {
			t.Errorf("Phone %q: valid = %v, want %v (%v)", tt.phone, result.IsValid, tt.valid, result.Errors)
		}
	}
}

func TestValidate_BloodType(t *testing.T) {
	result := Validate(&Input{FirstName: str("Ada"), LastName: str("Lovelace"), BloodType: str("O+")})
	if !result.IsValid {
		t.Errorf("O+ should be valid, got %v", result.Errors)
	}
	result = Validate(&Input{FirstName: str("Ada"), LastName: str("Lovelace"), BloodType: str("C+")})
	if !containsError(result, "Blood type must be one of: A+, A-, B+, B-, AB+, AB-, O+, O-") {
		t.Errorf("Missing blood type error, got %v", result.Errors)
	}
}

func TestValidate_LifeEvents(t *testing.T) {
	result := Validate(&Input{
		FirstName: str("Ada"),
		LastName:  str("Lovelace"),
		LifeEvents: []LifeEvent{
			{Event: "Born", Date: "1815-12-10"},
			{Event: "", Date: ""},
			{Event: strings.Repeat("x", 101), Date: "1830-01-01", Notes: strings.Repeat("n", 501)},
		},
	})
	for _, want := range []string{
		"Life event 2: Event description is required",
		"Life event 2: Date is required",
		"Life event 3: Event description must be 100 characters or less",
		"Life event 3: Notes must be 500 characters or less",
	} {
		if !containsError(result, want) {
			t.Errorf("Missing %q, got %v", want, result.Errors)
		}
	}
}

func TestValidate_LegacyYears(t *testing.T) {
	result := Validate(&Input{
		FirstName: str("Ada"),
		LastName:  str("Lovelace"),
		BirthYear: intPtr(1900),
		DeathYear: intPtr(1850),
	})
	if !containsError(result, "Death year cannot be before birth year") {
		t.Errorf("Missing legacy year ordering error, got %v", result.Errors)
	}

	result = Validate(&Input{
		FirstName: str("Ada"),
		LastName:  str("Lovelace"),
		BirthYear: intPtr(999),
	})
	if !containsError(result, "Birth year must be a valid number between 1000 and current year") {
		t.Errorf("Missing legacy year range error, got %v", result.Errors)
	}
}

func TestValidatePartial_OmittedNamesAllowed(t *testing.T) {
	// A partial update that never mentions the names must not demand them
	result := ValidatePartial(&Input{Occupation: str("Mathematician")})
	if !result.IsValid {
		t.Errorf("Expected partial update to be valid, got %v", result.Errors)
	}
}

func TestValidatePartial_BlankNameStillRejected(t *testing.T) {
	result := ValidatePartial(&Input{FirstName: str("  ")})
	if result.IsValid {
		t.Fatal("Expected blank first name to be invalid on update")
	}
	if !containsError(result, "First name is required") {
		t.Errorf("Missing first name error, got %v", result.Errors)
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID("9b2d7a32-8c4f-4f9e-a1b3-2f9d8c4e5a6b"); err != nil {
		t.Errorf("Expected valid UUID v4 to pass, got %v", err)
	}

	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"not a uuid", "abc123"},
		{"wrong version", "9b2d7a32-8c4f-1f9e-a1b3-2f9d8c4e5a6b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if err == nil {
				t.Fatalf("Expected error for %q", tt.id)
			}
			if _, ok := err.(*apperrors.InvalidIDError); !ok {
				t.Errorf("Expected InvalidIDError, got %T", err)
			}
		})
	}
}
