package records

import (
	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
)

// Summary contains the aggregate counts behind a desk's dashboard tab.
type Summary struct {
	Total        int                    `json:"total"`
	StatusCounts map[models.Status]int  `json:"status_counts"`
	TeamCounts   map[string]int         `json:"team_counts"`

	// MonthlyCounts is indexed by month 1..12 (index 0 unused), counting
	// records whose event date falls in that month of the summary's year.
	MonthlyCounts [13]int `json:"monthly_counts"`
}

// Summarize computes dashboard aggregates over the filtered set. The year
// parameter selects which year the monthly breakdown covers; records in
// other years still count toward totals and status/team breakdowns.
func Summarize(recs []*models.Record, year int) Summary {
	s := Summary{
		StatusCounts: make(map[models.Status]int, len(models.AllStatuses)),
		TeamCounts:   make(map[string]int),
	}
	for _, st := range models.AllStatuses {
		s.StatusCounts[st] = 0
	}

	for _, r := range recs {
		if r == nil {
			continue
		}
		s.Total++
		if r.Status.IsValid() {
			s.StatusCounts[r.Status]++
		}
		if r.Team != "" {
			s.TeamCounts[r.Team]++
		}
		if d, ok := EventDate(r); ok && d.Year() == year {
			s.MonthlyCounts[int(d.Month())]++
		}
	}
	return s
}

// Board groups records into the four status columns, preserving the input
// order within each column. Records with an unknown status are excluded.
func Board(recs []models.NumberedRecord) map[models.Status][]models.NumberedRecord {
	columns := make(map[models.Status][]models.NumberedRecord, len(models.AllStatuses))
	for _, st := range models.AllStatuses {
		columns[st] = []models.NumberedRecord{}
	}
	for _, r := range recs {
		if !r.Status.IsValid() {
			continue
		}
		columns[r.Status] = append(columns[r.Status], r)
	}
	return columns
}
