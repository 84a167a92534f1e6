package services

import (
	"testing"
)

func TestClassifyIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       IdentifierKind
	}{
		{"plain email", "student@college.edu", IdentifierEmail},
		{"email with digits", "12345@college.edu", IdentifierEmail},
		{"bare at sign", "@", IdentifierEmail},
		{"phone digits", "9876543210", IdentifierPhone},
		{"phone with plus", "+919876543210", IdentifierPhone},
		{"short digit string", "42", IdentifierPhone},
		{"username", "ravi_kumar", IdentifierUsername},
		{"username with digits", "ravi2024", IdentifierUsername},
		{"plus followed by letters", "+ravi", IdentifierUsername},
		{"lone plus", "+", IdentifierUsername},
		{"digits with dash", "98765-43210", IdentifierUsername},
		{"empty string", "", IdentifierUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIdentifier(tt.identifier); got != tt.want {
				t.Errorf("ClassifyIdentifier(%q) = %v, want %v", tt.identifier, got, tt.want)
			}
		})
	}
}

func TestClassifyIdentifierAtSignWins(t *testing.T) {
	// An @ anywhere means email, even if the rest is all digits
	if got := ClassifyIdentifier("123@456"); got != IdentifierEmail {
		t.Errorf("expected email classification, got %v", got)
	}
}

func TestClassifyIdentifierSingleLeadingPlus(t *testing.T) {
	// Only one leading + is stripped; a second one makes it a username
	if got := ClassifyIdentifier("++919876543210"); got != IdentifierUsername {
		t.Errorf("ClassifyIdentifier(++...) = %v, want username", got)
	}
}
