package echoapi

import (
	"html"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/query"
)

var orderingParam = "ordering"

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}
	ord.Orderings = core.ParseOrdering(val)
}

func queryParams(ctx echo.Context) query.Params {
	params := query.FromValues(ctx.QueryParams())
	delete(params, orderingParam)
	return params
}

// plainText strips every tag from s and decodes the remaining entities.
func plainText(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// richText keeps the markup safe for user generated content.
func richText(s string) string {
	return ugcPolicy.Sanitize(s)
}

func plainTextPtr(s *string) {
	if s != nil {
		*s = plainText(*s)
	}
}

func richTextPtr(s *string) {
	if s != nil {
		*s = richText(*s)
	}
}

func plainTexts(ss []string) {
	for i := range ss {
		ss[i] = plainText(ss[i])
	}
}

func intParam(ctx echo.Context, name string) (int, error) {
	val, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, core.NewFieldError(name, "must be an integer")
	}
	return val, nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// dateParam parses a required query parameter holding either a date or a timestamp (UTC unless specified).
func dateParam(ctx echo.Context, name string) (time.Time, error) {
	val := ctx.QueryParam(name)
	if val == "" {
		return time.Time{}, core.NewFieldError(name, name+" is a required field")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, core.NewFieldError(name, name+" must be a valid date")
}
