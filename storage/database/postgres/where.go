package postgres

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
)

// query accumulates a WHERE clause and its positional arguments.
type query struct {
	clauses []string
	args    []interface{}
}

func (q *query) arg(v interface{}) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *query) where() string {
	if len(q.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.clauses, " AND ")
}

// jsonField returns the jsonb expression of a top level document field.
func jsonField(field string) string {
	return "doc->" + pq.QuoteLiteral(field)
}

// textField returns the text expression of a top level document field.
func textField(field string) string {
	return "doc->>" + pq.QuoteLiteral(field)
}

// buildWhere translates a filter into SQL over the doc column.
func buildWhere(filter core.Filter) (*query, error) {
	q := new(query)
	for _, c := range filter.All() {
		clause, err := q.cond(c)
		if err != nil {
			return nil, err
		}
		q.clauses = append(q.clauses, clause)
	}
	return q, nil
}

func (q *query) cond(c core.Cond) (string, error) {
	switch c.Op {
	case core.OpEq:
		if c.Field == core.FieldID {
			if id, ok := c.Value.(string); ok {
				return "id = " + q.arg(id), nil
			}
		}
		raw, err := json.Marshal(c.Value)
		if err != nil {
			return "", errors.Wrapf(err, "encoding value of %s", c.Field)
		}
		return jsonField(c.Field) + " = " + q.arg(string(raw)) + "::jsonb", nil

	case core.OpNe:
		raw, err := json.Marshal(c.Value)
		if err != nil {
			return "", errors.Wrapf(err, "encoding value of %s", c.Field)
		}
		return jsonField(c.Field) + " IS DISTINCT FROM " + q.arg(string(raw)) + "::jsonb", nil

	case core.OpIn:
		vals, ok := c.Value.([]string)
		if !ok {
			return "", errors.Errorf("%s: %s expects a []string", c.Field, c.Op)
		}
		return textField(c.Field) + " = ANY(" + q.arg(pq.Array(vals)) + ")", nil

	case core.OpHasAny:
		vals, ok := c.Value.([]string)
		if !ok {
			return "", errors.Errorf("%s: %s expects a []string", c.Field, c.Op)
		}
		return jsonField(c.Field) + " ?| " + q.arg(pq.Array(vals)), nil

	case core.OpGt, core.OpGte, core.OpLt, core.OpLte:
		return q.rangeCond(c)
	}
	return "", errors.Errorf("unsupported operator %q", c.Op)
}

var rangeOps = map[core.Op]string{
	core.OpGt:  ">",
	core.OpGte: ">=",
	core.OpLt:  "<",
	core.OpLte: "<=",
}

func (q *query) rangeCond(c core.Cond) (string, error) {
	op := rangeOps[c.Op]
	switch v := c.Value.(type) {
	case time.Time:
		return "(" + textField(c.Field) + ")::timestamptz " + op + " " + q.arg(v.UTC()), nil
	case int, int32, int64, float32, float64:
		return "(" + textField(c.Field) + ")::numeric " + op + " " + q.arg(v), nil
	case string:
		return textField(c.Field) + " " + op + " " + q.arg(v), nil
	}
	return "", errors.Errorf("%s: unsupported value %T for %s", c.Field, c.Value, c.Op)
}

// timeFields hold RFC 3339 timestamps, whose fractional seconds vary in length.
var timeFields = map[string]bool{
	"date":                 true,
	"dueDate":              true,
	"startDate":            true,
	"endDate":              true,
	"targetCompletionDate": true,
	"completedAt":          true,
	"completedDate":        true,
	"createdAt":            true,
	"updatedAt":            true,
	"lastLogin":            true,
}

func sortExpr(field string) string {
	if timeFields[field] {
		return "(" + textField(field) + ")::timestamptz"
	}
	return jsonField(field)
}

// orderBy sorts missing fields first on ascending orderings, like the in-memory store.
// Insertion order breaks ties.
func orderBy(orderings []core.DBOrdering) string {
	parts := make([]string, 0, len(orderings)+1)
	for _, ord := range orderings {
		if ord.Ascending {
			parts = append(parts, sortExpr(ord.Field)+" ASC NULLS FIRST")
		} else {
			parts = append(parts, sortExpr(ord.Field)+" DESC NULLS LAST")
		}
	}
	parts = append(parts, "seq ASC")
	return " ORDER BY " + strings.Join(parts, ", ")
}
