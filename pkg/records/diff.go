package records

import (
	"fmt"
	"time"

	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
)

// Korean display names for the tracked fields, as shown on the desk pages
// and stored in change-log entries.
const (
	FieldTitle      = "제목"
	FieldContent    = "내용"
	FieldStatus     = "상태"
	FieldTeam       = "팀"
	FieldAssignee   = "담당자"
	FieldType       = "유형"
	FieldRegistered = "등록일"
	FieldStartDate  = "시작일"
	FieldEndDate    = "종료일"
)

// FieldDiff is one changed field between a record snapshot and its
// submitted replacement.
type FieldDiff struct {
	Field  string
	Before string
	After  string
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

// Diff compares every tracked field of the pre-edit snapshot against the
// submitted record and returns one FieldDiff per changed field, in display
// order. Identical records diff to nil.
func Diff(old, new *models.Record) []FieldDiff {
	var diffs []FieldDiff

	add := func(field, before, after string) {
		if before != after {
			diffs = append(diffs, FieldDiff{Field: field, Before: before, After: after})
		}
	}

	add(FieldTitle, old.Title, new.Title)
	add(FieldContent, old.Content, new.Content)
	add(FieldStatus, old.Status.String(), new.Status.String())
	add(FieldTeam, old.Team, new.Team)
	add(FieldAssignee, old.Assignee, new.Assignee)
	add(FieldType, old.TypeCode, new.TypeCode)
	add(FieldRegistered, formatDate(old.RegisteredAt), formatDate(new.RegisteredAt))
	add(FieldStartDate, formatDatePtr(old.StartDate), formatDatePtr(new.StartDate))
	add(FieldEndDate, formatDatePtr(old.EndDate), formatDatePtr(new.EndDate))

	return diffs
}

// CreateDescription builds the change-log sentence for a newly registered
// record.
func CreateDescription(code, title string) string {
	return fmt.Sprintf("%s '%s' 신규 등록", code, title)
}

// UpdateDescription builds the change-log sentence for one changed field.
func UpdateDescription(code string, d FieldDiff) string {
	return fmt.Sprintf("%s %s 변경: '%s' → '%s'", code, d.Field, d.Before, d.After)
}

// DeleteDescription builds the change-log sentence for a deleted record.
func DeleteDescription(code, title string) string {
	return fmt.Sprintf("%s '%s' 삭제", code, title)
}
