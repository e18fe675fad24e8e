package dataaccess

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB is the Mongo client. This is a connection pool.
var MongoDB *mongo.Client

const mongoDatabase = "porter"

// Collection names.
const (
	collectionGuildConfigs = "guild_configs"
	collectionTickets      = "tickets"
	collectionPanels       = "panels"
	collectionTicketLogs   = "ticket_logs"
	collectionCounters     = "counters"
)

// ErrNotFound is returned when no document matches the given key.
var ErrNotFound = errors.New("document not found")

// ErrNotModified is returned by conditional updates whose condition did not
// match any document. Callers use it to detect lost races and repeated
// transitions without crashing.
var ErrNotModified = errors.New("no document modified")

// EnsureIndexes idempotently creates the indexes that back the store's
// uniqueness guarantees. It is safe to call on every start.
func EnsureIndexes(ctx context.Context) error {
	if MongoDB == nil {
		return fmt.Errorf("mongo client is not connected")
	}

	db := MongoDB.Database(mongoDatabase)

	// A channel maps to at most one ticket.
	if _, err := db.Collection(collectionTickets).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "channel_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("error creating ticket channel index: %w", err)
	}

	// A message hosts at most one panel.
	if _, err := db.Collection(collectionPanels).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "message_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("error creating panel message index: %w", err)
	}

	if _, err := db.Collection(collectionTicketLogs).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ticket_id", Value: 1}, {Key: "timestamp", Value: 1}},
	}); err != nil {
		return fmt.Errorf("error creating ticket log index: %w", err)
	}

	return nil
}
