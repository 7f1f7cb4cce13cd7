package inmemdb

import (
	"context"
	"sync"

	"github.com/VenusCh001/studytracker/core"
)

// DB is an in-process document store. Documents are kept JSON-encoded so that callers never share memory with it.
type DB struct {
	mutex       sync.RWMutex
	tables      map[string]*table
	unavailable bool
}

var _ core.Store = (*DB)(nil)

func New() *DB {
	return &DB{tables: make(map[string]*table)}
}

// SetAvailable simulates the store going down (false) or coming back (true).
func (db *DB) SetAvailable(available bool) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.unavailable = !available
}

func (db *DB) Ping(context.Context) error {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	if db.unavailable {
		return core.ErrUnavailable
	}
	return nil
}

func (db *DB) Close() error { return nil }

// Reset drops every document, keeping the tables and their unique keys.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	for _, t := range db.tables {
		t.mutex.Lock()
		t.rows = make(map[string]row)
		t.seq = 0
		t.mutex.Unlock()
	}
}

func (db *DB) table(name string, unique [][]string) *table {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	t, ok := db.tables[name]
	if !ok {
		t = &table{rows: make(map[string]row)}
		db.tables[name] = t
	}
	t.unique = append(t.unique, unique...)
	return t
}
