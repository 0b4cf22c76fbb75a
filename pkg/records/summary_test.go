package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
)

func TestSummarize_CountsByStatusTeamAndMonth(t *testing.T) {
	recs := []*models.Record{
		{Status: models.StatusPending, Team: "보안팀", RegisteredAt: date(2025, 1, 5)},
		{Status: models.StatusPending, Team: "보안팀", RegisteredAt: date(2025, 1, 20)},
		{Status: models.StatusDone, Team: "인프라팀", RegisteredAt: date(2025, 7, 3)},
		{Status: models.StatusOnHold, Team: "인프라팀", RegisteredAt: date(2024, 7, 3)},
	}

	s := Summarize(recs, 2025)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.StatusCounts[models.StatusPending])
	assert.Equal(t, 0, s.StatusCounts[models.StatusInProgress])
	assert.Equal(t, 1, s.StatusCounts[models.StatusDone])
	assert.Equal(t, 1, s.StatusCounts[models.StatusOnHold])
	assert.Equal(t, 2, s.TeamCounts["보안팀"])
	assert.Equal(t, 2, s.TeamCounts["인프라팀"])
	assert.Equal(t, 2, s.MonthlyCounts[1])
	// 2024 record is outside the summary year's monthly breakdown.
	assert.Equal(t, 1, s.MonthlyCounts[7])
}

func TestSummarize_UnknownStatusCountsTowardTotalOnly(t *testing.T) {
	recs := []*models.Record{
		{Status: models.Status("검토"), Team: "보안팀", RegisteredAt: date(2025, 2, 1)},
	}

	s := Summarize(recs, 2025)
	assert.Equal(t, 1, s.Total)
	for _, st := range models.AllStatuses {
		assert.Equal(t, 0, s.StatusCounts[st])
	}
}

func TestBoard_GroupsIntoFourColumns(t *testing.T) {
	recs := Number([]*models.Record{
		{Code: "A", Status: models.StatusPending, RegisteredAt: date(2025, 1, 1)},
		{Code: "B", Status: models.StatusDone, RegisteredAt: date(2025, 2, 1)},
		{Code: "C", Status: models.StatusPending, RegisteredAt: date(2025, 3, 1)},
	})

	columns := Board(recs)

	require.Len(t, columns, 4)
	assert.Len(t, columns[models.StatusPending], 2)
	assert.Len(t, columns[models.StatusInProgress], 0)
	assert.Len(t, columns[models.StatusDone], 1)
	assert.Len(t, columns[models.StatusOnHold], 0)

	// Input (numbered) order preserved within a column.
	assert.Equal(t, "C", columns[models.StatusPending][0].Code)
	assert.Equal(t, "A", columns[models.StatusPending][1].Code)
}

func TestBoard_ExcludesUnknownStatus(t *testing.T) {
	recs := []models.NumberedRecord{
		{Record: &models.Record{Code: "A", Status: models.Status("검토")}, No: 1},
	}
	columns := Board(recs)
	for _, st := range models.AllStatuses {
		assert.Empty(t, columns[st])
	}
}
