package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/VenusCh001/studytracker/core"
)

// Collection stores documents of type T; T maps its id to the `_id` bson key.
type Collection[T core.Document] struct {
	coll *mongo.Collection
}

var _ core.Collection[core.Document] = (*Collection[core.Document])(nil)

func NewCollection[T core.Document](db *DB, name string) *Collection[T] {
	return &Collection[T]{coll: db.db.Collection(name)}
}

func bsonField(field string) string {
	if field == core.FieldID {
		return "_id"
	}
	return field
}

var operators = map[core.Op]string{
	core.OpNe:     "$ne",
	core.OpIn:     "$in",
	core.OpHasAny: "$in",
	core.OpGt:     "$gt",
	core.OpGte:    "$gte",
	core.OpLt:     "$lt",
	core.OpLte:    "$lte",
}

// toBSON translates a filter into a query document.
func toBSON(filter core.Filter) (bson.D, error) {
	conds := filter.All()
	clauses := make(bson.A, 0, len(conds))
	for _, c := range conds {
		field := bsonField(c.Field)
		if c.Op == core.OpEq {
			clauses = append(clauses, bson.D{{Key: field, Value: c.Value}})
			continue
		}
		op, ok := operators[c.Op]
		if !ok {
			return nil, errors.Errorf("unsupported operator %q", c.Op)
		}
		if c.Op == core.OpIn || c.Op == core.OpHasAny {
			if _, ok := c.Value.([]string); !ok {
				return nil, errors.Errorf("%s: %s expects a []string", c.Field, c.Op)
			}
		}
		clauses = append(clauses, bson.D{{Key: field, Value: bson.D{{Key: op, Value: c.Value}}}})
	}
	if len(clauses) == 0 {
		return bson.D{}, nil
	}
	return bson.D{{Key: "$and", Value: clauses}}, nil
}

func toSort(orderings []core.DBOrdering) bson.D {
	sort := make(bson.D, 0, len(orderings))
	for _, ord := range orderings {
		dir := -1
		if ord.Ascending {
			dir = 1
		}
		sort = append(sort, bson.E{Key: bsonField(ord.Field), Value: dir})
	}
	return sort
}

// translate maps driver errors onto the core sentinels.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return errors.Wrap(core.ErrConflict, err.Error())
	}
	var selErr topology.ServerSelectionError
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) || errors.As(err, &selErr) {
		return errors.Wrap(core.ErrUnavailable, err.Error())
	}
	return errors.Wrap(err, msg)
}

func (c *Collection[T]) Find(ctx context.Context, filter core.Filter, orderings ...core.DBOrdering) ([]T, error) {
	query, err := toBSON(filter)
	if err != nil {
		return nil, err
	}
	opts := options.Find()
	if len(orderings) > 0 {
		opts.SetSort(toSort(orderings))
	}
	cur, err := c.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, translate(err, "finding documents")
	}
	docs := make([]T, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translate(err, "decoding documents")
	}
	return docs, nil
}

func (c *Collection[T]) FindOne(ctx context.Context, filter core.Filter) (T, error) {
	var doc T
	query, err := toBSON(filter)
	if err != nil {
		return doc, err
	}
	err = c.coll.FindOne(ctx, query).Decode(&doc)
	return doc, translate(err, "finding document")
}

func (c *Collection[T]) Insert(ctx context.Context, doc T) (T, error) {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		var zero T
		return zero, translate(err, "inserting document")
	}
	return doc, nil
}

func (c *Collection[T]) Replace(ctx context.Context, filter core.Filter, doc T) (T, error) {
	var stored T
	query, err := toBSON(filter)
	if err != nil {
		return stored, err
	}
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	err = c.coll.FindOneAndReplace(ctx, query, doc, opts).Decode(&stored)
	return stored, translate(err, "replacing document")
}

func (c *Collection[T]) Delete(ctx context.Context, filter core.Filter) (T, error) {
	var deleted T
	query, err := toBSON(filter)
	if err != nil {
		return deleted, err
	}
	err = c.coll.FindOneAndDelete(ctx, query).Decode(&deleted)
	return deleted, translate(err, "deleting document")
}

func (c *Collection[T]) Count(ctx context.Context, filter core.Filter) (int, error) {
	query, err := toBSON(filter)
	if err != nil {
		return 0, err
	}
	n, err := c.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, translate(err, "counting documents")
	}
	return int(n), nil
}
