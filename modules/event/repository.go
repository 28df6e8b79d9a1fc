package event

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collectionName = "events"

// ListFilter narrows event listings. Zero values mean "no filter".
type ListFilter struct {
	AlertCode AlertCode
	Tags      []string
	Skip      int64
	Limit     int64
}

// Repository persists events in MongoDB.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository returns a repository backed by the events collection.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the geospatial and query indexes. Safe to call
// on every start.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "reported_at", Value: -1}}},
		{Keys: bson.D{{Key: "alert_code", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "reporter_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create event indexes: %w", err)
	}
	return nil
}

// Insert stores a new event and returns it with the assigned id.
func (r *Repository) Insert(ctx context.Context, e Event) (Event, error) {
	res, err := r.coll.InsertOne(ctx, e)
	if err != nil {
		return Event{}, fmt.Errorf("failed to insert event: %w", err)
	}
	e.ID = res.InsertedID.(bson.ObjectID)
	return e, nil
}

// FindByID returns a single event. Returns ErrInvalidID for malformed
// ids and ErrNotFound when no document matches.
func (r *Repository) FindByID(ctx context.Context, id string) (Event, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return Event{}, ErrInvalidID
	}
	var e Event
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Event{}, ErrNotFound
		}
		return Event{}, fmt.Errorf("failed to find event: %w", err)
	}
	return e, nil
}

// Find lists events matching the filter, newest first.
func (r *Repository) Find(ctx context.Context, f ListFilter) ([]Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "reported_at", Value: -1}}).
		SetSkip(f.Skip).
		SetLimit(f.Limit)

	cur, err := r.coll.Find(ctx, listQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

// FindNearby lists events within maxDistance meters of the point,
// ordered nearest first by the $near operator.
func (r *Repository) FindNearby(ctx context.Context, lon, lat float64, maxDistance, limit int64) ([]Event, error) {
	query := bson.D{{Key: "location", Value: bson.D{{Key: "$near", Value: bson.D{
		{Key: "$geometry", Value: bson.D{
			{Key: "type", Value: "Point"},
			{Key: "coordinates", Value: bson.A{lon, lat}},
		}},
		{Key: "$maxDistance", Value: maxDistance},
	}}}}}

	cur, err := r.coll.Find(ctx, query, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby events: %w", err)
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode nearby events: %w", err)
	}
	return events, nil
}

// Update applies the non-nil fields of the input and returns the
// updated document.
func (r *Repository) Update(ctx context.Context, id string, in UpdateInput) (Event, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return Event{}, ErrInvalidID
	}

	set := bson.D{}
	if in.Location != nil {
		set = append(set, bson.E{Key: "location", Value: *in.Location})
	}
	if in.AlertCode != nil {
		set = append(set, bson.E{Key: "alert_code", Value: *in.AlertCode})
	}
	if in.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *in.Description})
	}
	if in.Tags != nil {
		set = append(set, bson.E{Key: "tags", Value: *in.Tags})
	}

	if len(set) > 0 {
		res, err := r.coll.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: oid}},
			bson.D{{Key: "$set", Value: set}},
		)
		if err != nil {
			return Event{}, fmt.Errorf("failed to update event: %w", err)
		}
		if res.MatchedCount == 0 {
			return Event{}, ErrNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// SetImageID points the event at a stored image, or clears the link
// when imageID is nil.
func (r *Repository) SetImageID(ctx context.Context, id string, imageID *string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "image_id", Value: imageID}}}},
	)
	if err != nil {
		return fmt.Errorf("failed to set event image: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event. Returns ErrNotFound when no document matched.
func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func listQuery(f ListFilter) bson.D {
	query := bson.D{}
	if f.AlertCode != "" {
		query = append(query, bson.E{Key: "alert_code", Value: f.AlertCode})
	}
	if len(f.Tags) > 0 {
		query = append(query, bson.E{Key: "tags", Value: bson.D{{Key: "$in", Value: f.Tags}}})
	}
	return query
}
