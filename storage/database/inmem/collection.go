package inmemdb

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/storage/database/document"
)

type (
	row struct {
		seq int // insertion order
		raw []byte
		doc document.Map
	}

	table struct {
		mutex  sync.RWMutex
		rows   map[string]row
		seq    int
		unique [][]string
	}

	// Collection stores documents of type T in a DB table.
	Collection[T core.Document] struct {
		db    *DB
		table *table
	}
)

// Unique declares a compound unique key on the listed fields.
func Unique(fields ...string) []string { return fields }

// NewCollection returns the collection `name` of db, creating it when needed.
func NewCollection[T core.Document](db *DB, name string, unique ...[]string) *Collection[T] {
	return &Collection[T]{db: db, table: db.table(name, unique)}
}

var _ core.Collection[core.Document] = (*Collection[core.Document])(nil)

func (c *Collection[T]) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.db.Ping(ctx)
}

func (c *Collection[T]) encode(doc T) (row, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return row{}, errors.Wrap(err, "encoding document")
	}
	m, err := document.Decode(raw)
	if err != nil {
		return row{}, err
	}
	return row{raw: raw, doc: m}, nil
}

func (c *Collection[T]) decode(r row) (T, error) {
	var doc T
	err := json.Unmarshal(r.raw, &doc)
	return doc, errors.Wrap(err, "decoding document")
}

// sorted returns the rows in insertion order. Must hold the table lock.
func (c *Collection[T]) sorted() []row {
	rows := make([]row, 0, len(c.table.rows))
	for _, r := range c.table.rows {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	return rows
}

// first returns the first matching row in insertion order. Must hold the table lock.
func (c *Collection[T]) first(filter core.Filter) (row, bool) {
	for _, r := range c.sorted() {
		if document.Match(r.doc, filter) {
			return r, true
		}
	}
	return row{}, false
}

// violatesUnique checks r against the unique keys of every other row. Must hold the table lock.
func (c *Collection[T]) violatesUnique(id string, r row) bool {
	for _, key := range c.table.unique {
		for otherID, other := range c.table.rows {
			if otherID == id {
				continue
			}
			same := true
			for _, field := range key {
				if r.doc[field] == nil || !reflect.DeepEqual(r.doc[field], other.doc[field]) {
					same = false
					break
				}
			}
			if same {
				return true
			}
		}
	}
	return false
}

func (c *Collection[T]) Find(ctx context.Context, filter core.Filter, orderings ...core.DBOrdering) ([]T, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	c.table.mutex.RLock()
	defer c.table.mutex.RUnlock()

	matched := make([]row, 0)
	for _, r := range c.sorted() {
		if document.Match(r.doc, filter) {
			matched = append(matched, r)
		}
	}
	if len(orderings) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return document.Less(matched[i].doc, matched[j].doc, orderings)
		})
	}

	docs := make([]T, 0, len(matched))
	for _, r := range matched {
		doc, err := c.decode(r)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *Collection[T]) FindOne(ctx context.Context, filter core.Filter) (T, error) {
	var zero T
	if err := c.check(ctx); err != nil {
		return zero, err
	}
	c.table.mutex.RLock()
	defer c.table.mutex.RUnlock()

	r, ok := c.first(filter)
	if !ok {
		return zero, core.ErrNotFound
	}
	return c.decode(r)
}

func (c *Collection[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T
	if err := c.check(ctx); err != nil {
		return zero, err
	}
	r, err := c.encode(doc)
	if err != nil {
		return zero, err
	}

	c.table.mutex.Lock()
	defer c.table.mutex.Unlock()

	id := doc.DocID()
	if _, exists := c.table.rows[id]; exists || c.violatesUnique(id, r) {
		return zero, core.ErrConflict
	}
	c.table.seq++
	r.seq = c.table.seq
	c.table.rows[id] = r
	return c.decode(r)
}

func (c *Collection[T]) Replace(ctx context.Context, filter core.Filter, doc T) (T, error) {
	var zero T
	if err := c.check(ctx); err != nil {
		return zero, err
	}
	r, err := c.encode(doc)
	if err != nil {
		return zero, err
	}

	c.table.mutex.Lock()
	defer c.table.mutex.Unlock()

	old, ok := c.first(filter)
	if !ok {
		return zero, core.ErrNotFound
	}
	oldID, _ := old.doc[core.FieldID].(string)
	if oldID != doc.DocID() {
		return zero, errors.New("replacing a document cannot change its id")
	}
	if c.violatesUnique(oldID, r) {
		return zero, core.ErrConflict
	}
	r.seq = old.seq
	c.table.rows[oldID] = r
	return c.decode(r)
}

func (c *Collection[T]) Delete(ctx context.Context, filter core.Filter) (T, error) {
	var zero T
	if err := c.check(ctx); err != nil {
		return zero, err
	}
	c.table.mutex.Lock()
	defer c.table.mutex.Unlock()

	r, ok := c.first(filter)
	if !ok {
		return zero, core.ErrNotFound
	}
	id, _ := r.doc[core.FieldID].(string)
	delete(c.table.rows, id)
	return c.decode(r)
}

func (c *Collection[T]) Count(ctx context.Context, filter core.Filter) (int, error) {
	if err := c.check(ctx); err != nil {
		return 0, err
	}
	c.table.mutex.RLock()
	defer c.table.mutex.RUnlock()

	var n int
	for _, r := range c.table.rows {
		if document.Match(r.doc, filter) {
			n++
		}
	}
	return n, nil
}
