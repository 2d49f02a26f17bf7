package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ODataQuery builds the `$filter`/`$top`/`$skip`/`$orderby`/`$count`
// query string the backend's collection endpoints understand.
type ODataQuery struct {
	Filter  string
	Top     int
	Skip    int
	OrderBy string
	Count   bool
}

// Values renders the query as URL parameters. Zero-valued fields are
// omitted so a blank query produces an empty string.
func (q ODataQuery) Values() url.Values {
	values := url.Values{}
	if q.Filter != "" {
		values.Set("$filter", q.Filter)
	}
	if q.Top > 0 {
		values.Set("$top", strconv.Itoa(q.Top))
	}
	if q.Skip > 0 {
		values.Set("$skip", strconv.Itoa(q.Skip))
	}
	if q.OrderBy != "" {
		values.Set("$orderby", q.OrderBy)
	}
	if q.Count {
		values.Set("$count", "true")
	}
	return values
}

// Encode returns the query string including the leading "?", or an
// empty string when no parameter is set.
func (q ODataQuery) Encode() string {
	encoded := q.Values().Encode()
	if encoded == "" {
		return ""
	}
	return "?" + encoded
}

// Contains builds a `contains(field,'value')` filter term. Single
// quotes in the value are doubled per the OData literal rules.
func Contains(field, value string) string {
	return fmt.Sprintf("contains(%s,'%s')", field, escapeODataString(value))
}

// Eq builds a `field eq 'value'` filter term.
func Eq(field, value string) string {
	return fmt.Sprintf("%s eq '%s'", field, escapeODataString(value))
}

// Ge builds a `field ge value` numeric filter term.
func Ge(field string, value float64) string {
	return fmt.Sprintf("%s ge %s", field, strconv.FormatFloat(value, 'f', -1, 64))
}

// Le builds a `field le value` numeric filter term.
func Le(field string, value float64) string {
	return fmt.Sprintf("%s le %s", field, strconv.FormatFloat(value, 'f', -1, 64))
}

// And joins filter terms with the OData `and` operator, skipping
// empties.
func And(terms ...string) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " and ")
}

func escapeODataString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
