package core

import (
	"context"
	"strings"
)

// Well-known document fields
const (
	FieldID    = "id"
	FieldOwner = "userId"
)

// Op is a comparison operator of a filter condition.
type Op string

const (
	OpEq     Op = "eq"
	OpNe     Op = "ne"
	OpIn     Op = "in"     // Value is a []string
	OpHasAny Op = "hasany" // array field shares at least one element with Value ([]string)
	OpGt     Op = "gt"
	OpGte    Op = "gte"
	OpLt     Op = "lt"
	OpLte    Op = "lte"
)

// Cond is a single predicate on a document field, named after its JSON key.
// Values are strings, bools, numbers, time.Time or []string (OpIn, OpHasAny).
type Cond struct {
	Field string
	Op    Op
	Value interface{}
}

// Filter is a conjunction of conditions. A scoped Filter only matches documents whose owner
// reference equals Owner, an empty Owner included.
type Filter struct {
	Owner  string
	Scoped bool
	Conds  []Cond
}

// OwnedBy returns a Filter matching every document owned by `owner`.
func OwnedBy(owner string) Filter {
	return Filter{Owner: owner, Scoped: true}
}

// Unscoped returns a Filter across all owners. Only collections without an owner (users) use it.
func Unscoped() Filter {
	return Filter{}
}

// Where returns a copy of the Filter with the condition appended.
func (f Filter) Where(field string, op Op, value interface{}) Filter {
	conds := make([]Cond, len(f.Conds), len(f.Conds)+1)
	copy(conds, f.Conds)
	f.Conds = append(conds, Cond{Field: field, Op: op, Value: value})
	return f
}

// ByID is a shorthand for Where(FieldID, OpEq, id).
func (f Filter) ByID(id string) Filter {
	return f.Where(FieldID, OpEq, id)
}

// All returns the Filter's conditions, owner predicate first.
func (f Filter) All() []Cond {
	all := make([]Cond, 0, len(f.Conds)+1)
	if f.Scoped {
		all = append(all, Cond{Field: FieldOwner, Op: OpEq, Value: f.Owner})
	}
	return append(all, f.Conds...)
}

// Has reports whether the Filter holds a condition on `field`.
func (f Filter) Has(field string) bool {
	for _, c := range f.All() {
		if c.Field == field {
			return true
		}
	}
	return false
}

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// ParseOrdering parses "field1,-field2" into orderings ("-" means descending).
func ParseOrdering(s string) []DBOrdering {
	var ords []DBOrdering
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ords = append(ords, DBOrdering{Field: field, Ascending: !descending})
	}
	return ords
}

type (
	// Document is anything persisted in a Collection.
	Document interface {
		DocID() string
	}

	// Collection is a typed document collection.
	// Lookups by Filter that match nothing return ErrNotFound,
	// uniqueness violations return ErrConflict and an unreachable store returns ErrUnavailable.
	Collection[T Document] interface {
		Find(ctx context.Context, filter Filter, orderings ...DBOrdering) ([]T, error)
		FindOne(ctx context.Context, filter Filter) (T, error)
		Insert(ctx context.Context, doc T) (T, error)
		// Replace swaps the first document matching filter with doc and returns the stored document.
		Replace(ctx context.Context, filter Filter, doc T) (T, error)
		// Delete removes the first document matching filter and returns it.
		Delete(ctx context.Context, filter Filter) (T, error)
		Count(ctx context.Context, filter Filter) (int, error)
	}

	// Store is a connection to a document database.
	Store interface {
		// Ping reports ErrUnavailable when the store cannot be reached.
		Ping(ctx context.Context) error
		Close() error
	}
)

// KeepOrderings drops the orderings whose field is not in `allowed`, falling back to `def` when none survive.
func KeepOrderings(ords []DBOrdering, allowed []string, def ...DBOrdering) []DBOrdering {
	kept := make([]DBOrdering, 0, len(ords))
	for _, ord := range ords {
		for _, a := range allowed {
			if ord.Field == a {
				kept = append(kept, ord)
				break
			}
		}
	}
	if len(kept) == 0 {
		return def
	}
	return kept
}
