// Package aggregate derives display-ready statistics from a recitation log.
// Everything here is pure: no I/O, no mutation of the input slice, and the
// same input always yields the same output series.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/afdhal/swalath-backend-service/internal/dateutil"
	"github.com/afdhal/swalath-backend-service/internal/dtos"
)

type Range string

const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

// Bucket is one chart bar: a day for the week/month ranges, a calendar month
// for the year range.
type Bucket struct {
	Label     string
	Total     int
	IsCurrent bool
}

type Summary struct {
	Range         Range
	Total         int
	DaysTracked   int
	DaysInRange   int
	AveragePerDay int
	Buckets       []Bucket
}

// Ascending returns the entries sorted by day id, oldest first. Chart axes
// consume this order.
func Ascending(entries []dtos.SwalathEntry) []dtos.SwalathEntry {
	sorted := make([]dtos.SwalathEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Id < sorted[j].Id })
	return sorted
}

// Descending returns the entries sorted by day id, most recent first. Log
// listings consume this order.
func Descending(entries []dtos.SwalathEntry) []dtos.SwalathEntry {
	sorted := make([]dtos.SwalathEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Id > sorted[j].Id })
	return sorted
}

// Summarize computes range totals and the bucketed chart series for entries,
// with the window anchored at now: the last 7 days, the last 30 days, or the
// last 12 calendar months.
func Summarize(entries []dtos.SwalathEntry, r Range, now time.Time) Summary {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var start time.Time
	switch r {
	case RangeMonth:
		start = end.AddDate(0, 0, -29)
	case RangeYear:
		start = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location()).AddDate(0, -11, 0)
	default:
		r = RangeWeek
		start = end.AddDate(0, 0, -6)
	}

	summary := Summary{
		Range:       r,
		DaysInRange: int(end.Sub(start).Hours()/24) + 1,
	}

	totalByDay := make(map[string]int, len(entries))
	for _, entry := range entries {
		day, err := dateutil.ParseDayID(entry.Id)
		if err != nil {
			continue
		}

		totalByDay[entry.Id] = entry.Total
		if !day.Before(start) && !day.After(end) {
			summary.Total += entry.Total
			summary.DaysTracked++
		}
	}

	if summary.DaysTracked > 0 {
		summary.AveragePerDay = int(math.Round(float64(summary.Total) / float64(summary.DaysTracked)))
	}

	if r == RangeYear {
		summary.Buckets = monthlyBuckets(entries, start, end)
	} else {
		summary.Buckets = dailyBuckets(totalByDay, start, end, r)
	}

	return summary
}

func dailyBuckets(totalByDay map[string]int, start, end time.Time, r Range) []Bucket {
	var buckets []Bucket
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		label := day.Format("Mon")
		if r == RangeMonth {
			label = day.Format("02")
		}

		buckets = append(buckets, Bucket{
			Label:     label,
			Total:     totalByDay[dateutil.DayID(day)],
			IsCurrent: day.Equal(end),
		})
	}

	return buckets
}

func monthlyBuckets(entries []dtos.SwalathEntry, start, end time.Time) []Bucket {
	totalByMonth := make(map[string]int)
	for _, entry := range entries {
		day, err := dateutil.ParseDayID(entry.Id)
		if err != nil {
			continue
		}

		totalByMonth[day.Format("2006-01")] += entry.Total
	}

	var buckets []Bucket
	for month := start; !month.After(end); month = month.AddDate(0, 1, 0) {
		buckets = append(buckets, Bucket{
			Label:     month.Format("Jan"),
			Total:     totalByMonth[month.Format("2006-01")],
			IsCurrent: month.Year() == end.Year() && month.Month() == end.Month(),
		})
	}

	return buckets
}
