package records

import (
	"sort"

	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
)

// Number sorts records descending by registration date and assigns display
// sequence numbers 1..N, newest first. The number is a pure function of
// the collection: renumbering an already-numbered set yields identical
// numbers. Ties break on business code, descending, so the order is stable
// across reloads.
func Number(recs []*models.Record) []models.NumberedRecord {
	sorted := make([]*models.Record, len(recs))
	copy(sorted, recs)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.RegisteredAt.Equal(b.RegisteredAt) {
			return a.RegisteredAt.After(b.RegisteredAt)
		}
		return a.Code > b.Code
	})

	numbered := make([]models.NumberedRecord, len(sorted))
	for i, r := range sorted {
		numbered[i] = models.NumberedRecord{Record: r, No: i + 1}
	}
	return numbered
}
