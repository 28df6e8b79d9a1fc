package notifier

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Channel names a delivery mechanism.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Status records the outcome of a single delivery attempt.
type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Record is one row of the append-only notification ledger: a single
// delivery attempt to a single admin over a single channel. SentAt is
// set only when the attempt succeeded.
type Record struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   string        `bson:"event_id" json:"event_id"`
	AdminID   string        `bson:"admin_id" json:"admin_id"`
	Channel   Channel       `bson:"notification_type" json:"notification_type"`
	Status    Status        `bson:"status" json:"status"`
	SentAt    *time.Time    `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

// Ledger is the append-only store of delivery attempts.
type Ledger interface {
	Append(ctx context.Context, rec Record) error
	ListByEvent(ctx context.Context, eventID string) ([]Record, error)
	ListByAdmin(ctx context.Context, adminID string) ([]Record, error)
}

const ledgerCollection = "notifications"

// MongoLedger persists records in the notifications collection.
// Records are only ever inserted, never updated or deleted.
type MongoLedger struct {
	coll *mongo.Collection
}

// NewMongoLedger returns a ledger backed by MongoDB.
func NewMongoLedger(db *mongo.Database) *MongoLedger {
	return &MongoLedger{coll: db.Collection(ledgerCollection)}
}

// EnsureIndexes creates the ledger query indexes. Safe to call on every start.
func (l *MongoLedger) EnsureIndexes(ctx context.Context) error {
	_, err := l.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}}},
		{Keys: bson.D{{Key: "admin_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}
	return nil
}

// Append inserts a delivery record.
func (l *MongoLedger) Append(ctx context.Context, rec Record) error {
	if _, err := l.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to append notification record: %w", err)
	}
	return nil
}

// ListByEvent returns all delivery attempts recorded for an event,
// newest first.
func (l *MongoLedger) ListByEvent(ctx context.Context, eventID string) ([]Record, error) {
	return l.find(ctx, bson.D{{Key: "event_id", Value: eventID}})
}

// ListByAdmin returns all delivery attempts recorded for an admin,
// newest first.
func (l *MongoLedger) ListByAdmin(ctx context.Context, adminID string) ([]Record, error) {
	return l.find(ctx, bson.D{{Key: "admin_id", Value: adminID}})
}

func (l *MongoLedger) find(ctx context.Context, filter bson.D) ([]Record, error) {
	cur, err := l.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query notification records: %w", err)
	}
	defer cur.Close(ctx)

	var recs []Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode notification records: %w", err)
	}
	return recs, nil
}
