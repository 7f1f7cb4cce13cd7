// Package postgres stores documents as JSONB rows of PostgreSQL tables.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"net"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
)

const uniqueViolation = "23505"

// DB wraps a connection pool to satisfy core.Store.
type DB struct {
	*sqlx.DB
}

var _ core.Store = (*DB)(nil)

func NewDB(db *sqlx.DB) *DB {
	return &DB{DB: db}
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(core.ErrUnavailable, err.Error())
	}
	return nil
}

// Collection stores documents of type T in a (seq, id, doc) table.
type Collection[T core.Document] struct {
	db    *sqlx.DB
	table string
}

var _ core.Collection[core.Document] = (*Collection[core.Document])(nil)

func NewCollection[T core.Document](db *DB, table string) *Collection[T] {
	return &Collection[T]{db: db.DB, table: pq.QuoteIdentifier(table)}
}

// translate maps driver errors onto the core sentinels.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.Wrap(core.ErrConflict, pqErr.Message)
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return errors.Wrap(core.ErrUnavailable, err.Error())
	}
	return errors.Wrap(err, msg)
}

func decode[T any](raw types.JSONText) (T, error) {
	var doc T
	err := json.Unmarshal(raw, &doc)
	return doc, errors.Wrap(err, "decoding document")
}

func (c *Collection[T]) Find(ctx context.Context, filter core.Filter, orderings ...core.DBOrdering) ([]T, error) {
	q, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}
	var rows []types.JSONText
	stmt := "SELECT doc FROM " + c.table + q.where() + orderBy(orderings)
	if err := c.db.SelectContext(ctx, &rows, stmt, q.args...); err != nil {
		return nil, translate(err, "selecting documents")
	}

	docs := make([]T, 0, len(rows))
	for _, raw := range rows {
		doc, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *Collection[T]) FindOne(ctx context.Context, filter core.Filter) (T, error) {
	var zero T
	q, err := buildWhere(filter)
	if err != nil {
		return zero, err
	}
	var raw types.JSONText
	stmt := "SELECT doc FROM " + c.table + q.where() + orderBy(nil) + " LIMIT 1"
	if err := c.db.GetContext(ctx, &raw, stmt, q.args...); err != nil {
		return zero, translate(err, "selecting document")
	}
	return decode[T](raw)
}

func (c *Collection[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T
	b, err := json.Marshal(doc)
	if err != nil {
		return zero, errors.Wrap(err, "encoding document")
	}
	var raw types.JSONText
	stmt := "INSERT INTO " + c.table + " (id, doc) VALUES ($1, $2) RETURNING doc"
	if err := c.db.GetContext(ctx, &raw, stmt, doc.DocID(), types.JSONText(b)); err != nil {
		return zero, translate(err, "inserting document")
	}
	return decode[T](raw)
}

// firstID selects the id of the first document matching the filter, for UPDATE and DELETE.
func (c *Collection[T]) firstID(q *query) string {
	return "(SELECT id FROM " + c.table + q.where() + orderBy(nil) + " LIMIT 1)"
}

func (c *Collection[T]) Replace(ctx context.Context, filter core.Filter, doc T) (T, error) {
	var zero T
	b, err := json.Marshal(doc)
	if err != nil {
		return zero, errors.Wrap(err, "encoding document")
	}
	q, err := buildWhere(filter)
	if err != nil {
		return zero, err
	}
	docArg := q.arg(types.JSONText(b))
	idArg := q.arg(doc.DocID())

	var raw types.JSONText
	stmt := "UPDATE " + c.table + " SET doc = " + docArg +
		" WHERE id = " + c.firstID(q) + " AND id = " + idArg + " RETURNING doc"
	if err := c.db.GetContext(ctx, &raw, stmt, q.args...); err != nil {
		return zero, translate(err, "replacing document")
	}
	return decode[T](raw)
}

func (c *Collection[T]) Delete(ctx context.Context, filter core.Filter) (T, error) {
	var zero T
	q, err := buildWhere(filter)
	if err != nil {
		return zero, err
	}
	var raw types.JSONText
	stmt := "DELETE FROM " + c.table + " WHERE id = " + c.firstID(q) + " RETURNING doc"
	if err := c.db.GetContext(ctx, &raw, stmt, q.args...); err != nil {
		return zero, translate(err, "deleting document")
	}
	return decode[T](raw)
}

func (c *Collection[T]) Count(ctx context.Context, filter core.Filter) (int, error) {
	q, err := buildWhere(filter)
	if err != nil {
		return 0, err
	}
	var n int
	if err := c.db.GetContext(ctx, &n, "SELECT count(*) FROM "+c.table+q.where(), q.args...); err != nil {
		return 0, translate(err, "counting documents")
	}
	return n, nil
}
