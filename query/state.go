package query

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DefaultPageSize matches the table size the dashboard renders per page.
const DefaultPageSize = 25

var validate = validator.New()

// State is the UI-owned query state: sort key and direction plus the current
// page. It is an immutable value; event handlers derive the next State and
// re-run the pipeline against the current snapshot.
type State struct {
	SortKey  string `validate:"omitempty,max=64"`
	SortDesc bool
	Page     int `validate:"min=1"`
	PageSize int `validate:"min=1,max=500"`
}

// NewState returns the initial state for a view.
func NewState(sortKey string, sortDesc bool) State {
	return State{
		SortKey:  sortKey,
		SortDesc: sortDesc,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

func (s State) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid query state: %w", err)
	}
	return nil
}

// ToggleSort applies the sort-key transition rule: clicking the active key
// flips direction, clicking a new key selects it and resets direction to that
// field's own default. The current page is intentionally kept.
func (f Fields[T]) ToggleSort(s State, key string) State {
	if key == s.SortKey {
		s.SortDesc = !s.SortDesc
		return s
	}

	s.SortKey = key
	field, ok := f[key]
	s.SortDesc = ok && field.DefaultDesc
	return s
}

// FilterChanged resets pagination after any predicate change.
func (s State) FilterChanged() State {
	s.Page = 1
	return s
}

// WithPageSize changes the page size and resets to the first page.
func (s State) WithPageSize(size int) State {
	if size <= 0 {
		size = DefaultPageSize
	}
	s.PageSize = size
	s.Page = 1
	return s
}

// WithPage moves to a page; values below 1 clamp to 1. Pages beyond the end
// yield an empty slice from Apply rather than an error.
func (s State) WithPage(page int) State {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}
