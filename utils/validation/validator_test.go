package validation

import "testing"

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		valid    bool
	}{
		{"ravi_kumar", true},
		{"Ravi2024", true},
		{"abc", true},
		{"ab", false},
		{"ravi kumar", false},
		{"ravi-kumar", false},
		{"ravi@kumar", false},
		{"", false},
	}

	for _, tt := range tests {
		if valid, _ := ValidateUsername(tt.username); valid != tt.valid {
			t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, valid, tt.valid)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"9876543210", true},
		{"+919876543210", true},
		{"98765", false},       // too short
		{"98765-43210", false}, // non-digit
		{"phone", false},
		{"", false},
	}

	for _, tt := range tests {
		if valid, _ := ValidatePhone(tt.phone); valid != tt.valid {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tt.phone, valid, tt.valid)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if valid, _ := ValidatePassword("short"); valid {
		t.Error("short password should be rejected")
	}
	if valid, _ := ValidatePassword("longenough1"); !valid {
		t.Error("8+ character password should be accepted")
	}
}

func TestCollectErrorsReportsEveryViolation(t *testing.T) {
	type form struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
		Name     string `validate:"required"`
	}

	v := NewValidator()
	fields := v.CollectErrors(&form{Email: "not-an-email", Password: "short"})

	if len(fields) != 3 {
		t.Fatalf("got %d violations, want 3: %v", len(fields), fields)
	}
	for _, field := range []string{"email", "password", "name"} {
		if _, ok := fields[field]; !ok {
			t.Errorf("missing violation for %s", field)
		}
	}
}

func TestCollectErrorsEmptyOnValid(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
	}

	v := NewValidator()
	if fields := v.CollectErrors(&form{Email: "ok@example.com"}); len(fields) != 0 {
		t.Errorf("expected no violations, got %v", fields)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello\x00world  "); got != "helloworld" {
		t.Errorf("SanitizeString = %q", got)
	}
}
