// Package mongo implements the repositories on MongoDB.
package mongo

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second

	collectionUsers    = "users"
	collectionClients  = "clients"
	collectionActivity = "activity_events"

	indexUsersEmail    = "uq_users_email"
	indexClientsEmail  = "uq_clients_email"
	indexClientsUserID = "uq_clients_user_id"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the unique and lookup indexes for every collection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(indexUsersEmail).SetUnique(true)},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collectionClients: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(indexClientsEmail).SetUnique(true)},
			// Unlinked profiles store no user_id, so uniqueness only applies to linked ones.
			{
				Keys: bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().
					SetName(indexClientsUserID).
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"user_id": bson.M{"$type": "string"}}),
			},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collectionActivity: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		},
	}

	for coll, indexes := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// duplicateIndex reports whether err is a duplicate-key error on index.
func duplicateIndex(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}

// searchFilter matches search case-insensitively against any of fields.
func searchFilter(search string, fields ...string) bson.M {
	if search == "" {
		return bson.M{}
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	or := make(bson.A, len(fields))
	for i, f := range fields {
		or[i] = bson.M{f: re}
	}
	return bson.M{"$or": or}
}

// pageOptions returns newest-first find options for a 1-based page.
func pageOptions(page, limit int) *options.FindOptions {
	if page < 1 {
		page = 1
	}
	skip := int64(page-1) * int64(limit)
	if limit > 0 && int64(page-1) > math.MaxInt32/int64(limit) {
		skip = math.MaxInt32
	}
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))
}
