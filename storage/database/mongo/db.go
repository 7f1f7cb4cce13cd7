// Package mongodb stores documents in MongoDB collections.
package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/VenusCh001/studytracker/core"
)

const connectTimeout = 10 * time.Second

// DB is a MongoDB database satisfying core.Store.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ core.Store = (*DB)(nil)

// Connect opens a client to conf.Database.URI and selects the conf.Database.Name database.
func Connect(ctx context.Context, conf *core.Config) (*DB, error) {
	opts := options.Client().
		ApplyURI(conf.Database.URI).
		SetAppName(conf.AppName).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongo")
	}
	return &DB{client: client, db: client.Database(conf.Database.Name)}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.client.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Wrap(core.ErrUnavailable, err.Error())
	}
	return nil
}

func (db *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return db.client.Disconnect(ctx)
}

// Index declares a unique index on the listed fields of a collection.
type Index struct {
	Collection string
	Fields     []string
}

// EnsureIndexes creates the unique indexes that the stores rely on for Conflict detection.
func (db *DB) EnsureIndexes(ctx context.Context, indexes ...Index) error {
	for _, idx := range indexes {
		keys, present := bson.D{}, bson.D{}
		for _, f := range idx.Fields {
			keys = append(keys, bson.E{Key: bsonField(f), Value: 1})
			present = append(present, bson.E{Key: bsonField(f), Value: bson.D{{Key: "$exists", Value: true}}})
		}
		// documents missing one of the fields (e.g. a course without code) are not indexed
		model := mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(present),
		}
		if _, err := db.db.Collection(idx.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return errors.Wrapf(translate(err, "creating index"), "collection %s", idx.Collection)
		}
	}
	return nil
}
