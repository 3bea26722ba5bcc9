package domain

import "errors"

var ErrUnauthenticated = errors.New("authentication required")

// Identity is the caller resolved by the session gate: either the full
// triple or nothing. A partially populated identity never reaches a service.
type Identity struct {
	Email     string
	Name      string
	StudentID string
}

// Complete reports whether every identity field was resolved.
func (i Identity) Complete() bool {
	return i.Email != "" && i.Name != "" && i.StudentID != ""
}

// Owns is the sole access-control rule in the system: strict equality on
// normalized email. No roles, no group membership.
func (i Identity) Owns(resourceEmail string) bool {
	return i.Email != "" && NormalizeEmail(i.Email) == NormalizeEmail(resourceEmail)
}
