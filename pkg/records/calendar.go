package records

import (
	"sort"

	"github.com/opsdesk-io/opsdesk-engine/pkg/models"
)

// MonthBucket groups the records whose event date falls in one calendar
// month, sorted ascending by full date within the bucket.
type MonthBucket struct {
	Year    int                     `json:"year"`
	Month   int                     `json:"month"`
	Records []models.NumberedRecord `json:"records"`
}

// CalendarBuckets groups numbered records by month of their event date and
// returns the buckets in chronological order. Records with no usable event
// date are dropped; the calendar only shows what it can place.
func CalendarBuckets(recs []models.NumberedRecord) []MonthBucket {
	type key struct{ year, month int }

	grouped := make(map[key][]models.NumberedRecord)
	for _, r := range recs {
		d, ok := EventDate(r.Record)
		if !ok {
			continue
		}
		k := key{year: d.Year(), month: int(d.Month())}
		grouped[k] = append(grouped[k], r)
	}

	keys := make([]key, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	buckets := make([]MonthBucket, 0, len(keys))
	for _, k := range keys {
		bucket := grouped[k]
		sort.SliceStable(bucket, func(i, j int) bool {
			di, _ := EventDate(bucket[i].Record)
			dj, _ := EventDate(bucket[j].Record)
			return di.Before(dj)
		})
		buckets = append(buckets, MonthBucket{Year: k.year, Month: k.month, Records: bucket})
	}
	return buckets
}

// SelectBuckets narrows buckets to one year and, when month is nonzero, one
// month. Zero values mean no constraint.
func SelectBuckets(buckets []MonthBucket, year, month int) []MonthBucket {
	if year == 0 && month == 0 {
		return buckets
	}
	selected := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		if year != 0 && b.Year != year {
			continue
		}
		if month != 0 && b.Month != month {
			continue
		}
		selected = append(selected, b)
	}
	return selected
}
