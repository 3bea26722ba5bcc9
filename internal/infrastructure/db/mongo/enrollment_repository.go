package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusreg/registration-system/internal/core/domain"
)

const enrollmentsCollection = "enrollments"

// EnrollmentRepository persists enrollment records keyed by their composite
// ID. The only conditional write the store provides is on that _id, which
// guards against a retried request inserting the exact same record twice; it
// does not guard the (email, class) pair.
type EnrollmentRepository struct {
	coll *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{coll: db.Collection(enrollmentsCollection)}
}

// Create inserts a record, mapping a duplicate _id to
// domain.ErrAlreadyEnrolled.
func (r *EnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyEnrolled
		}
		return fmt.Errorf("insert enrollment: %v: %w", err, domain.ErrUnavailable)
	}
	return nil
}

// ListActiveByEmail fetches every record owned by the email and filters to
// active in memory. The status filter deliberately stays on this side: the
// result must reflect all stored records for the email even if a future
// secondary index were stale or incomplete.
func (r *EnrollmentRepository) ListActiveByEmail(ctx context.Context, email string) ([]domain.Enrollment, error) {
	all, err := r.findByFilter(ctx, bson.M{"email": domain.NormalizeEmail(email)})
	if err != nil {
		return nil, err
	}

	active := make([]domain.Enrollment, 0, len(all))
	for _, e := range all {
		if e.Active() {
			active = append(active, e)
		}
	}
	return active, nil
}

// ListAll returns every record, active and dropped. Diagnostic surface, not
// part of the user-facing API.
func (r *EnrollmentRepository) ListAll(ctx context.Context) ([]domain.Enrollment, error) {
	return r.findByFilter(ctx, bson.M{})
}

// Drop rewrites the first active record matching classKey (ID or display
// name) as dropped with a fresh UpdatedAt. EnrolledAt and the record ID are
// untouched, and nothing is deleted.
func (r *EnrollmentRepository) Drop(ctx context.Context, email, classKey string) error {
	active, err := r.ListActiveByEmail(ctx, email)
	if err != nil {
		return err
	}

	var target *domain.Enrollment
	for i := range active {
		if active[i].MatchesClass(classKey) {
			target = &active[i]
			break
		}
	}
	if target == nil {
		return domain.ErrNotEnrolled
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     domain.EnrollmentDropped,
		"updated_at": time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": target.ID}, update)
	if err != nil {
		return fmt.Errorf("drop enrollment: %v: %w", err, domain.ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotEnrolled
	}
	return nil
}

func (r *EnrollmentRepository) findByFilter(ctx context.Context, filter bson.M) ([]domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find enrollments: %v: %w", err, domain.ErrUnavailable)
	}
	defer cur.Close(ctx)

	var out []domain.Enrollment
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode enrollments: %v: %w", err, domain.ErrUnavailable)
	}
	return out, nil
}

// EnsureIndexes creates the lookup indexes on the enrollments collection.
func (r *EnrollmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "class_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
