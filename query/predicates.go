package query

import (
	"strings"
	"time"
)

// AllConferences is the "no conference filter" sentinel the UI sends.
const AllConferences = "ALL"

// DayFormat is the normalized date representation used for date filters.
const DayFormat = "2006-01-02"

// DateEquals matches records whose date falls on the given yyyy-mm-dd day.
// An empty day disables the filter.
func DateEquals[T any](day string, date func(T) time.Time) Predicate[T] {
	day = strings.TrimSpace(day)
	if day == "" {
		return nil
	}
	return func(item T) bool {
		d := date(item)
		if d.IsZero() {
			return false
		}
		return d.UTC().Format(DayFormat) == day
	}
}

// ConferenceEquals matches on exact conference name; the ALL sentinel
// disables the filter.
func ConferenceEquals[T any](conf string, get func(T) string) Predicate[T] {
	conf = strings.TrimSpace(conf)
	if conf == "" || conf == AllConferences {
		return nil
	}
	return func(item T) bool {
		return get(item) == conf
	}
}

// TeamIDEquals matches records referencing the team id; 0 disables the
// filter.
func TeamIDEquals[T any](teamID int64, ids func(T) []int64) Predicate[T] {
	if teamID == 0 {
		return nil
	}
	return func(item T) bool {
		for _, id := range ids(item) {
			if id == teamID {
				return true
			}
		}
		return false
	}
}

// TextContains is a case-insensitive substring match over the concatenation
// of one or more display fields. An empty query disables the filter.
func TextContains[T any](q string, fields ...func(T) string) Predicate[T] {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	return func(item T) bool {
		var b strings.Builder
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(f(item))
		}
		return strings.Contains(strings.ToLower(b.String()), q)
	}
}
