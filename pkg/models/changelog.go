package models

import (
	"time"

	"github.com/google/uuid"
)

// Change-log action values. The Korean strings are the stored values,
// matching what the desk pages display verbatim.
const (
	ActionCreate = "추가"
	ActionUpdate = "수정"
	ActionDelete = "삭제"
)

// ChangeLogEntry is one immutable audit record describing a create, update,
// or delete of a Record. Entries reference records by business code
// (a value back-reference, deliberately not a foreign key) and are
// append-only: nothing in this service ever updates or deletes one.
type ChangeLogEntry struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Domain    Domain    `json:"domain"`

	// RecordCode is the affected record's business code, e.g. "SEC-INS-25-013".
	RecordCode string `json:"record_id"`

	Action string `json:"action_type"`

	// ChangedField holds the Korean display name of the single field that
	// changed (e.g. 상태). Empty for create and delete entries.
	ChangedField string `json:"changed_field,omitempty"`
	BeforeValue  string `json:"before_value,omitempty"`
	AfterValue   string `json:"after_value,omitempty"`

	// Description is a human-readable sentence describing the change.
	Description string `json:"description"`

	Team     string `json:"team"`
	UserName string `json:"user_name"`
}

// NumberedChangeLogEntry pairs an entry with its display number: the newest
// entry in a domain's log is always numbered totalCount.
type NumberedChangeLogEntry struct {
	*ChangeLogEntry
	No int `json:"no"`
}
