package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusreg/registration-system/internal/core/domain"
)

const usersCollection = "users"

// UserRepository persists user accounts keyed by normalized email. The email
// is the document _id, so InsertOne is the atomic create-if-absent the
// uniqueness invariant needs: no read-then-write, no separate unique index.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type userDoc struct {
	Email        string `bson:"_id"`
	Name         string `bson:"name"`
	StudentID    string `bson:"student_id"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

// Create inserts a new account. The repository re-validates the record before
// touching the store; the duplicate-key error from a concurrent insert for
// the same email maps to domain.ErrUserExists. Error text never includes the
// password hash.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		Email:        user.Email,
		Name:         user.Name,
		StudentID:    user.StudentID,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %v: %w", err, domain.ErrUnavailable)
	}

	created := *user
	return &created, nil
}

// FindByEmail looks up an account by its normalized email, returning
// domain.ErrUserNotFound when absent. Callers must not let the distinction
// between "absent" and "lookup failed" reach the response.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": domain.NormalizeEmail(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %v: %w", err, domain.ErrUnavailable)
	}

	return &domain.User{
		Email:        doc.Email,
		Name:         doc.Name,
		StudentID:    doc.StudentID,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
