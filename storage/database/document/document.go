// Package document evaluates core.Filter and core.DBOrdering against JSON-decoded documents.
// It backs the stores that cannot push every predicate or ordering down to the database.
package document

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/VenusCh001/studytracker/core"
)

// Map is a JSON-decoded document.
type Map map[string]interface{}

// Decode unmarshals a raw JSON document.
func Decode(raw []byte) (Map, error) {
	var m Map
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "decoding document")
	}
	return m, nil
}

// Match reports whether doc satisfies every condition of the filter.
func Match(doc Map, filter core.Filter) bool {
	for _, cond := range filter.All() {
		if !matchCond(doc, cond) {
			return false
		}
	}
	return true
}

func matchCond(doc Map, cond core.Cond) bool {
	val, ok := doc[cond.Field]
	if !ok {
		val = nil
	}
	switch cond.Op {
	case core.OpEq:
		return equal(val, cond.Value)
	case core.OpNe:
		return !equal(val, cond.Value)
	case core.OpIn:
		s, ok := val.(string)
		if !ok {
			return false
		}
		for _, want := range toStrings(cond.Value) {
			if s == want {
				return true
			}
		}
		return false
	case core.OpHasAny:
		arr, ok := val.([]interface{})
		if !ok {
			return false
		}
		wanted := toStrings(cond.Value)
		for _, elem := range arr {
			for _, want := range wanted {
				if elem == want {
					return true
				}
			}
		}
		return false
	case core.OpGt, core.OpGte, core.OpLt, core.OpLte:
		cmp, ok := compareTo(val, cond.Value)
		if !ok {
			return false
		}
		switch cond.Op {
		case core.OpGt:
			return cmp > 0
		case core.OpGte:
			return cmp >= 0
		case core.OpLt:
			return cmp < 0
		default:
			return cmp <= 0
		}
	}
	return false
}

func toStrings(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case string:
		return []string{vv}
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		return parsed, err == nil
	}
	return time.Time{}, false
}

func equal(docVal, want interface{}) bool {
	if want == nil {
		return docVal == nil
	}
	cmp, ok := compareTo(docVal, want)
	return ok && cmp == 0
}

// compareTo compares a document value with a filter value; ok is false when they are not comparable.
func compareTo(docVal, want interface{}) (int, bool) {
	if docVal == nil {
		return 0, false
	}
	switch w := want.(type) {
	case time.Time:
		t, ok := toTime(docVal)
		if !ok {
			return 0, false
		}
		return compareTimes(t, w), true
	case string:
		s, ok := docVal.(string)
		if !ok {
			return 0, false
		}
		return compareStrings(s, w), true
	case bool:
		b, ok := docVal.(bool)
		if !ok {
			return 0, false
		}
		return compareBools(b, w), true
	}
	wf, ok := toFloat(want)
	if !ok {
		return 0, false
	}
	f, ok := toFloat(docVal)
	if !ok {
		return 0, false
	}
	return compareFloats(f, wf), true
}

// Less orders two documents by the given orderings; missing values sort first (ascending).
func Less(a, b Map, orderings []core.DBOrdering) bool {
	for _, ord := range orderings {
		cmp := compareValues(a[ord.Field], b[ord.Field])
		if cmp == 0 {
			continue
		}
		if ord.Ascending {
			return cmp < 0
		}
		return cmp > 0
	}
	return false
}

func compareValues(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0
		}
		if at, ok := toTime(av); ok {
			if bt, ok := toTime(bv); ok {
				return compareTimes(at, bt)
			}
		}
		return compareStrings(av, bv)
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 0
		}
		return compareFloats(av, bv)
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0
		}
		return compareBools(av, bv)
	}
	return 0
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
