package domain

import (
	"errors"
	"testing"
	"time"
)

func validUser() *User {
	now := time.Now().UTC()
	return &User{
		Email:        "alice@example.com",
		Name:         "Alice O'Brien",
		StudentID:    "STU-12345",
		PasswordHash: "$2a$12$opaque",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestNormalizeStudentID(t *testing.T) {
	if got := NormalizeStudentID(" stu-12345 "); got != "STU-12345" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}

func TestUserValidate(t *testing.T) {
	if err := validUser().Validate(); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*User)
	}{
		{"missing email", func(u *User) { u.Email = "" }},
		{"no at sign", func(u *User) { u.Email = "alice.example.com" }},
		{"unnormalized email", func(u *User) { u.Email = "Alice@example.com" }},
		{"name too short", func(u *User) { u.Name = "A" }},
		{"name too long", func(u *User) { u.Name = string(make([]rune, 51)) }},
		{"name bad charset", func(u *User) { u.Name = "Alice<script>" }},
		{"student id too short", func(u *User) { u.StudentID = "AB12" }},
		{"student id too long", func(u *User) { u.StudentID = "A23456789012345678901" }},
		{"student id lowercase", func(u *User) { u.StudentID = "stu-12345" }},
		{"student id bad charset", func(u *User) { u.StudentID = "STU_12345" }},
		{"missing hash", func(u *User) { u.PasswordHash = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := validUser()
			tc.mutate(u)
			if err := u.Validate(); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUserValidate_UnicodeName(t *testing.T) {
	u := validUser()
	u.Name = "José García-Núñez"
	if err := u.Validate(); err != nil {
		t.Fatalf("accented letters must be accepted: %v", err)
	}
}
