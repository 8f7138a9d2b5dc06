package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// UserRole represents the role of a user
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents a registered account
type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	RollNumber   string    `json:"roll_number,omitempty" db:"roll_number"`
	Avatar       string    `json:"avatar,omitempty" db:"avatar"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	ResetPasswordToken   string     `json:"-" db:"reset_password_token"`
	ResetPasswordExpires *time.Time `json:"-" db:"reset_password_expires"`
}

// UserCreateRequest represents the data needed to register a user
type UserCreateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"` // hashed before it reaches the repository
	Role     UserRole
}

// UserUpdateRequest represents profile fields a user may change.
// Nil pointers mean "keep current value".
type UserUpdateRequest struct {
	Username   *string `json:"username"`
	RollNumber *string `json:"roll_number"`
	Avatar     *string `json:"avatar"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate validates user registration data
func (req *UserCreateRequest) Validate() error {
	if strings.TrimSpace(req.Username) == "" {
		return NewValidationError("username is required")
	}
	if len(req.Username) > 100 {
		return NewValidationError("username must be less than 100 characters")
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return NewValidationError("password is required")
	}
	switch req.Role {
	case RoleUser, RoleAdmin:
	default:
		return NewValidationError("invalid user role")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return NewValidationError("email is required")
	}
	if len(email) > 255 {
		return NewValidationError("email must be less than 255 characters")
	}
	if !emailPattern.MatchString(email) {
		return NewValidationError("invalid email address")
	}
	return nil
}

// NormalizeEmail lowercases and trims an email for case-insensitive uniqueness
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ResetTokenValid reports whether the stored reset token matches and has not expired
func (u *User) ResetTokenValid(token string, now time.Time) bool {
	if u.ResetPasswordToken == "" || u.ResetPasswordToken != token {
		return false
	}
	if u.ResetPasswordExpires == nil {
		return false
	}
	return now.Before(*u.ResetPasswordExpires)
}

var errPasswordTooShort = errors.New("password must be at least 8 characters")

// ValidatePassword applies the password policy used at registration and reset
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return NewValidationError(errPasswordTooShort.Error())
	}
	return nil
}
