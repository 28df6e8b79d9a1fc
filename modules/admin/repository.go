package admin

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collectionName = "admins"

// Repository persists admins in MongoDB.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository returns a repository backed by the admins collection.
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
		return fmt.Errorf("failed to create admin indexes: %w", err)
	}
	return nil
}

// Create inserts a new admin. Returns ErrDuplicateEmail when the email
// is already registered.
func (r *Repository) Create(ctx context.Context, in CreateInput) (Admin, error) {
	a := Admin{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: time.Now().UTC(),
	}
	res, err := r.coll.InsertOne(ctx, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Admin{}, ErrDuplicateEmail
		}
		return Admin{}, fmt.Errorf("failed to insert admin: %w", err)
	}
	a.ID = res.InsertedID.(bson.ObjectID)
	return a, nil
}

// List returns all admins ordered by creation time. The roster is read
// fresh for every fan-out so additions and removals take effect on the
// next event without a restart.
func (r *Repository) List(ctx context.Context) ([]Admin, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer cur.Close(ctx)

	var admins []Admin
	if err := cur.All(ctx, &admins); err != nil {
		return nil, fmt.Errorf("failed to decode admins: %w", err)
	}
	return admins, nil
}

// Delete removes an admin by id. Returns ErrInvalidID for a malformed
// id and ErrNotFound when no document matched.
func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
