// Package query implements the generic filter → sort → paginate pipeline
// shared by every dashboard view. The pipeline is stateless: output is a pure
// function of the input slice, the active predicates, and a State value.
package query

import (
	"sort"
	"strings"
	"time"
)

// Predicate filters a single record. Predicates compose conjunctively.
type Predicate[T any] func(T) bool

// And folds predicates into one; an empty list matches everything.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, p := range preds {
			if p != nil && !p(item) {
				return false
			}
		}
		return true
	}
}

// Field describes one sortable column of a view. Numeric is an explicit
// allow-list decision per view: numeric fields compare as numbers with
// missing values defaulting to 0, everything else compares as a
// case-insensitive string. time.Time values always compare chronologically.
type Field[T any] struct {
	Numeric     bool
	DefaultDesc bool
	Value       func(T) any
}

// Fields is a view's sort-key registry.
type Fields[T any] map[string]Field[T]

// Result is one page of the filtered, sorted collection.
type Result[T any] struct {
	Items      []T
	Total      int
	TotalPages int
	Page       int
}

// Apply runs the three pipeline stages. The sort is stable: records with
// equal keys keep their input order, which is observable whenever many teams
// share a rank or a date.
func Apply[T any](items []T, preds []Predicate[T], fields Fields[T], s State) Result[T] {
	filtered := Filter(items, preds...)
	sorted := Sort(filtered, fields, s.SortKey, s.SortDesc)
	return paginate(sorted, s.Page, s.PageSize)
}

// Filter returns the records matching every predicate. Filtering is
// idempotent: re-filtering an already filtered result with the same
// predicates yields the same set.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	match := And(preds...)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Sort orders records by the named field. An unknown or empty key leaves the
// input order untouched. The input slice is not mutated.
func Sort[T any](items []T, fields Fields[T], key string, desc bool) []T {
	out := make([]T, len(items))
	copy(out, items)

	field, ok := fields[key]
	if !ok || field.Value == nil {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compareField(field, out[i], out[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func paginate[T any](items []T, page, pageSize int) Result[T] {
	total := len(items)
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Result[T]{
		Items:      items[start:end],
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
	}
}

func compareField[T any](field Field[T], a, b T) int {
	av := field.Value(a)
	bv := field.Value(b)

	if at, ok := av.(time.Time); ok {
		bt, _ := bv.(time.Time)
		return at.Compare(bt)
	}

	if field.Numeric {
		return compareFloats(asNumber(av), asNumber(bv))
	}

	return strings.Compare(strings.ToLower(asString(av)), strings.ToLower(asString(bv)))
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// asNumber coerces a sort value to float64, defaulting missing values to 0.
func asNumber(v any) float64 {
	switch typed := v.(type) {
	case nil:
		return 0
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case *int:
		if typed == nil {
			return 0
		}
		return float64(*typed)
	case *float64:
		if typed == nil {
			return 0
		}
		return *typed
	default:
		return 0
	}
}

func asString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case *string:
		if typed == nil {
			return ""
		}
		return *typed
	default:
		return ""
	}
}
