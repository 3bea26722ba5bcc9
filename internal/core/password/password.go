// Package password is the credential store: one-way hashing, verification
// and a deterministic strength score. Plaintext passwords never leave this
// package in any form, including log fields and error text.
package password

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is pinned so a single hash costs on the order of 100ms on
// commodity hardware. Raising it invalidates no stored hashes; bcrypt
// embeds the cost alongside the salt.
const hashCost = 12

const (
	minLength = 8
	maxLength = 100
)

var ErrInvalidInput = errors.New("password does not meet length requirements")

// weakPatterns are substrings that mark a password as guessable regardless
// of its character classes.
var weakPatterns = []string{"123", "abc", "password", "admin", "qwe"}

// Hash derives a salted bcrypt hash. Two calls with the same password yield
// different hashes. The password is pre-digested so the full 8-100 character
// range hashes cleanly; bcrypt itself only consumes the first 72 bytes of
// its input.
func Hash(password string) (string, error) {
	if n := utf8.RuneCountInString(password); n < minLength || n > maxLength {
		return "", ErrInvalidInput
	}
	h, err := bcrypt.GenerateFromPassword(digest(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// digest collapses the password to a fixed 44-byte input for bcrypt.
// base64 keeps NUL bytes out of the digest, which bcrypt would treat as a
// terminator.
func digest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// Verify reports whether password matches hash. Any internal error, including
// a malformed hash, yields false: a failure here must never grant access.
// bcrypt's comparison is constant-time with respect to the password bytes.
func Verify(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), digest(password)) == nil
}

// Strength is the result of scoring a candidate password.
type Strength struct {
	Valid    bool     `json:"valid"`
	Score    int      `json:"score"`
	Feedback []string `json:"feedback,omitempty"`
}

// ScoreStrength rates a password deterministically. Additive points for
// length and character classes, penalties for character runs and known weak
// substrings. Valid requires a score of at least 4 and minimum length.
func ScoreStrength(password string) Strength {
	var score int
	var feedback []string

	length := utf8.RuneCountInString(password)
	if length >= 8 {
		score++
	} else {
		feedback = append(feedback, "use at least 8 characters")
	}
	if length >= 12 {
		score++
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if hasLower {
		score++
	} else {
		feedback = append(feedback, "add a lowercase letter")
	}
	if hasUpper {
		score++
	} else {
		feedback = append(feedback, "add an uppercase letter")
	}
	if hasDigit {
		score++
	} else {
		feedback = append(feedback, "add a digit")
	}
	if hasSymbol {
		score++
	} else {
		feedback = append(feedback, "add a symbol")
	}

	if hasRepeatRun(password, 3) {
		score--
		feedback = append(feedback, "avoid repeating the same character")
	}

	lower := strings.ToLower(password)
	for _, p := range weakPatterns {
		if strings.Contains(lower, p) {
			score -= 2
			feedback = append(feedback, "avoid common patterns")
			break
		}
	}

	if score < 0 {
		score = 0
	}

	return Strength{
		Valid:    score >= 4 && length >= minLength,
		Score:    score,
		Feedback: feedback,
	}
}

// hasRepeatRun reports whether any character repeats n or more times
// consecutively.
func hasRepeatRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}
