package domain

import (
	"errors"
	"fmt"
	"time"
)

// EnrollmentStatus represents the lifecycle state of an enrollment record.
type EnrollmentStatus string

const (
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentDropped EnrollmentStatus = "dropped"
)

var ErrAlreadyEnrolled = errors.New("already enrolled")
var ErrNotEnrolled = errors.New("enrollment not found")
var ErrClassNotFound = errors.New("class not found")
var ErrRateLimited = errors.New("rate limited")
var ErrUnavailable = errors.New("service unavailable")

// Enrollment records a student's membership in a class. Records are never
// physically deleted: unenrolling transitions Status to dropped and stamps
// UpdatedAt, keeping the history queryable.
type Enrollment struct {
	ID         string           `json:"id" bson:"_id"`
	Email      string           `json:"email" bson:"email"`
	ClassID    string           `json:"class_id" bson:"class_id"`
	ClassName  string           `json:"class_name" bson:"class_name"`
	Status     EnrollmentStatus `json:"status" bson:"status"`
	EnrolledAt time.Time        `json:"enrolled_at" bson:"enrolled_at"`
	UpdatedAt  time.Time        `json:"updated_at" bson:"updated_at"`
}

// NewEnrollmentID builds the record key: a composite of owner, class and
// creation instant. Collisions require the same student to enroll in the same
// class within the same nanosecond.
func NewEnrollmentID(email, classID string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%d", email, classID, at.UnixNano())
}

// Active reports whether the record currently counts toward the student's
// enrollments.
func (e *Enrollment) Active() bool {
	return e.Status == EnrollmentActive
}

// MatchesClass is the union match rule used when dropping: the class ID and
// the display name are interchangeable lookup keys.
func (e *Enrollment) MatchesClass(key string) bool {
	return e.ClassID == key || e.ClassName == key
}

// FindActive returns the first record in list with the given class ID, or
// nil. Enrollment membership is derived from the active list, not from a
// separate index.
func FindActive(list []Enrollment, classID string) *Enrollment {
	for i := range list {
		if list[i].ClassID == classID {
			return &list[i]
		}
	}
	return nil
}

// IsEnrolled reports whether list contains an active record for classID.
func IsEnrolled(list []Enrollment, classID string) bool {
	return FindActive(list, classID) != nil
}
