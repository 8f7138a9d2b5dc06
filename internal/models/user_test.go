package models

import (
	"testing"
	"time"
)

func TestUserCreateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     UserCreateRequest
		wantErr bool
	}{
		{"valid", UserCreateRequest{Username: "student", Email: "s@campus.edu", Password: "x", Role: RoleUser}, false},
		{"missing username", UserCreateRequest{Email: "s@campus.edu", Password: "x", Role: RoleUser}, true},
		{"missing email", UserCreateRequest{Username: "student", Password: "x", Role: RoleUser}, true},
		{"bad email", UserCreateRequest{Username: "student", Email: "not-an-email", Password: "x", Role: RoleUser}, true},
		{"missing password", UserCreateRequest{Username: "student", Email: "s@campus.edu", Role: RoleUser}, true},
		{"bad role", UserCreateRequest{Username: "student", Email: "s@campus.edu", Password: "x", Role: "owner"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr && !IsValidationError(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Student@Campus.EDU "); got != "student@campus.edu" {
		t.Errorf("Expected normalized email, got %q", got)
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("1234567"); !IsValidationError(err) {
		t.Errorf("Expected validation error for 7 characters, got %v", err)
	}
	if err := ValidatePassword("12345678"); err != nil {
		t.Errorf("Expected 8 characters to pass, got %v", err)
	}
}

func TestResetTokenValid(t *testing.T) {
	now := time.Now()
	future := now.Add(10 * time.Minute)
	past := now.Add(-time.Minute)

	user := &User{ResetPasswordToken: "tok", ResetPasswordExpires: &future}
	if !user.ResetTokenValid("tok", now) {
		t.Error("Expected unexpired matching token to be valid")
	}
	if user.ResetTokenValid("other", now) {
		t.Error("Expected mismatched token to be invalid")
	}

	user.ResetPasswordExpires = &past
	if user.ResetTokenValid("tok", now) {
		t.Error("Expected expired token to be invalid")
	}

	blank := &User{}
	if blank.ResetTokenValid("", now) {
		t.Error("Expected empty token to never match")
	}
}
