package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrRegistrationFailed = errors.New("registration failed")
var ErrValidation = errors.New("validation failed")

// User models a registered student account. The normalized email is the
// identity key; PasswordHash never crosses the JSON boundary.
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	StudentID    string    `json:"student_id"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEmail returns the canonical identity key: lowercased and trimmed
// of surrounding whitespace.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeStudentID canonicalizes a student ID for storage: trimmed and
// uppercased.
func NormalizeStudentID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Validate re-checks field constraints at the storage boundary. The transport
// layer validates the same rules on the request schema; this is the second,
// independent check.
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return fmt.Errorf("%w: email", ErrValidation)
	}
	if u.Email != NormalizeEmail(u.Email) {
		return fmt.Errorf("%w: email not normalized", ErrValidation)
	}
	if !validName(u.Name) {
		return fmt.Errorf("%w: name", ErrValidation)
	}
	if !validStudentID(u.StudentID) {
		return fmt.Errorf("%w: student_id", ErrValidation)
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("%w: password hash", ErrValidation)
	}
	return nil
}

// validName accepts 2-50 characters drawn from letters, spaces, hyphens and
// apostrophes.
func validName(name string) bool {
	n := len([]rune(name))
	if n < 2 || n > 50 {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && r != ' ' && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}

// validStudentID accepts 5-20 uppercase alphanumeric characters plus hyphens.
func validStudentID(id string) bool {
	if len(id) < 5 || len(id) > 20 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}
