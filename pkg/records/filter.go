// Package records implements the pure record-pipeline shared by every desk
// view: filtering, display numbering, pagination, calendar bucketing,
// dashboard aggregation, business-code assignment, and field diffing.
// Everything here is referentially transparent over in-memory slices; data
// access lives in pkg/repositories.
package records

import (
	"strconv"
	"time"

	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
)

// FilterAll is the sentinel criterion value meaning "no constraint".
const FilterAll = "전체"

// Criteria holds the active filter criteria for a record list. Empty
// strings and FilterAll both mean "no constraint" for that criterion.
type Criteria struct {
	Year     string
	Team     string
	Status   string
	Assignee string

	// From/To bound the record's event date, used by the calendar and
	// dashboard views.
	From *time.Time
	To   *time.Time
}

// active reports whether a string criterion constrains the result.
func active(criterion string) bool {
	return criterion != "" && criterion != FilterAll
}

// Filter returns the records matching every active criterion, preserving
// input order. A record missing a field required for comparison (zero
// registration date against an active year criterion, unset event date
// against a date range) is excluded rather than errored.
func Filter(recs []*models.Record, c Criteria) []*models.Record {
	out := make([]*models.Record, 0, len(recs))
	for _, r := range recs {
		if r == nil {
			continue
		}
		if !matches(r, c) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matches(r *models.Record, c Criteria) bool {
	if active(c.Year) {
		if r.RegisteredAt.IsZero() {
			return false
		}
		if strconv.Itoa(r.RegisteredAt.Year()) != c.Year {
			return false
		}
	}
	if active(c.Team) && r.Team != c.Team {
		return false
	}
	if active(c.Status) && r.Status.String() != c.Status {
		return false
	}
	if active(c.Assignee) && r.Assignee != c.Assignee {
		return false
	}
	if c.From != nil || c.To != nil {
		d, ok := EventDate(r)
		if !ok {
			return false
		}
		if c.From != nil && d.Before(*c.From) {
			return false
		}
		if c.To != nil && d.After(*c.To) {
			return false
		}
	}
	return true
}

// EventDate returns the date a record appears under in the calendar view:
// the start date when set, otherwise the registration date. Returns false
// when neither is usable.
func EventDate(r *models.Record) (time.Time, bool) {
	if r.StartDate != nil && !r.StartDate.IsZero() {
		return *r.StartDate, true
	}
	if !r.RegisteredAt.IsZero() {
		return r.RegisteredAt, true
	}
	return time.Time{}, false
}
