package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collectionName = "users"

// Repository persists user accounts in MongoDB.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository returns a repository backed by the users collection.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Create inserts a new user. Returns ErrEmailTaken when the email is
// already registered.
func (r *Repository) Create(ctx context.Context, u User) (bson.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bson.ObjectID{}, ErrEmailTaken
		}
		return bson.ObjectID{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return res.InsertedID.(bson.ObjectID), nil
}

// FindByEmail looks a user up by email. Returns ErrUserNotFound when
// no account matches.
func (r *Repository) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

// SetResetCode stores a pending reset code with its expiry.
func (r *Repository) SetResetCode(ctx context.Context, email, code string, expires time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "reset_code", Value: code},
			{Key: "reset_code_expires", Value: expires},
		}}},
	)
	if err != nil {
		return fmt.Errorf("failed to set reset code: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the password hash and clears any pending
// reset code.
func (r *Repository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{
			{Key: "$set", Value: bson.D{{Key: "password", Value: passwordHash}}},
			{Key: "$unset", Value: bson.D{
				{Key: "reset_code", Value: ""},
				{Key: "reset_code_expires", Value: ""},
			}},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
