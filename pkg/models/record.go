// Package models contains domain types for opsdesk-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a tracked record. The four values are
// both the state space and the kanban columns; any state may move to any
// other. The Korean strings are the wire and storage values.
type Status string

const (
	StatusPending    Status = "대기" // waiting to start
	StatusInProgress Status = "진행" // in progress
	StatusDone       Status = "완료" // done
	StatusOnHold     Status = "홀딩" // on hold
)

// AllStatuses lists the statuses in kanban column order.
var AllStatuses = []Status{StatusPending, StatusInProgress, StatusDone, StatusOnHold}

// String returns the string representation of a Status.
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is one of the four known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusOnHold:
		return true
	default:
		return false
	}
}

// Record is one tracked business record. A single shape serves every desk
// domain (education, inspections, investments, solutions); the Domain field
// selects the collection the record belongs to.
type Record struct {
	ID     uuid.UUID `json:"id"`
	Domain Domain    `json:"domain"`

	// Code is the human-readable business key, e.g. "PLAN-INV-25-008".
	// Assigned once at creation and immutable afterwards.
	Code string `json:"code"`

	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	Status   Status `json:"status"`
	Team     string `json:"team"`
	Assignee string `json:"assignee"`

	// TypeCode is an opaque master-code subcode (education type, investment
	// type, ...). Display names come from the master-code lookup.
	TypeCode string `json:"type_code,omitempty"`

	// RegisteredAt orders the collection; the display sequence number is
	// recomputed from it on every list (newest = 1) and never stored.
	RegisteredAt time.Time  `json:"registered_at"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`

	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// NumberedRecord pairs a record with its display-only sequence number.
// No has no persisted meaning; it is a pure function of the collection's
// registration order.
type NumberedRecord struct {
	*Record
	No int `json:"no"`
}
