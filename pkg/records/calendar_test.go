package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
)

func TestCalendarBuckets_GroupsByMonthAscending(t *testing.T) {
	recs := Number([]*models.Record{
		{Code: "A", RegisteredAt: date(2025, 3, 20)},
		{Code: "B", RegisteredAt: date(2025, 3, 5)},
		{Code: "C", RegisteredAt: date(2025, 1, 15)},
		{Code: "D", RegisteredAt: date(2024, 12, 31)},
	})

	buckets := CalendarBuckets(recs)

	require.Len(t, buckets, 3)
	assert.Equal(t, 2024, buckets[0].Year)
	assert.Equal(t, 12, buckets[0].Month)
	assert.Equal(t, 1, buckets[1].Month)
	assert.Equal(t, 3, buckets[2].Month)

	// Within a month bucket, ascending by full date.
	march := buckets[2].Records
	require.Len(t, march, 2)
	assert.Equal(t, "B", march[0].Code)
	assert.Equal(t, "A", march[1].Code)
}

func TestCalendarBuckets_StartDateWinsOverRegistration(t *testing.T) {
	recs := Number([]*models.Record{
		{Code: "A", RegisteredAt: date(2025, 1, 1), StartDate: datePtr(2025, 6, 10)},
	})

	buckets := CalendarBuckets(recs)
	require.Len(t, buckets, 1)
	assert.Equal(t, 6, buckets[0].Month)
}

func TestCalendarBuckets_DropsRecordsWithoutEventDate(t *testing.T) {
	recs := []models.NumberedRecord{
		{Record: &models.Record{Code: "A"}, No: 1}, // no dates at all
	}
	assert.Empty(t, CalendarBuckets(recs))
}

func TestSelectBuckets(t *testing.T) {
	buckets := []MonthBucket{
		{Year: 2024, Month: 12},
		{Year: 2025, Month: 1},
		{Year: 2025, Month: 3},
	}

	assert.Len(t, SelectBuckets(buckets, 0, 0), 3)
	assert.Len(t, SelectBuckets(buckets, 2025, 0), 2)

	march := SelectBuckets(buckets, 2025, 3)
	require.Len(t, march, 1)
	assert.Equal(t, 3, march[0].Month)

	// Month alone narrows across years.
	december := SelectBuckets(buckets, 0, 12)
	require.Len(t, december, 1)
	assert.Equal(t, 2024, december[0].Year)

	assert.Empty(t, SelectBuckets(buckets, 2023, 0))
}
