package aggregate

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/afdhal/swalath-backend-service/internal/dtos"
)

func TestSorting(t *testing.T) {
	entries := []dtos.SwalathEntry{
		{Id: "2026-08-20", Total: 2},
		{Id: "2026-08-30", Total: 5},
		{Id: "2026-08-25", Total: 3},
	}

	ascending := Ascending(entries)
	for i := 1; i < len(ascending); i++ {
		if ascending[i-1].Id > ascending[i].Id {
			t.Fatalf("expected ascending order, got %s before %s", ascending[i-1].Id, ascending[i].Id)
		}
	}

	descending := Descending(entries)
	for i := 1; i < len(descending); i++ {
		if descending[i-1].Id < descending[i].Id {
			t.Fatalf("expected descending order, got %s before %s", descending[i-1].Id, descending[i].Id)
		}
	}

	// The input slice must not be reordered.
	if entries[0].Id != "2026-08-20" || entries[1].Id != "2026-08-30" {
		t.Fatal("expected input slice to be untouched")
	}
}

func TestSummarizeWeek(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 30, 0, 0, time.Local)
	entries := []dtos.SwalathEntry{
		{Id: "2026-08-30", Total: 10},
		{Id: "2026-08-28", Total: 6},
		{Id: "2026-08-24", Total: 4},
		{Id: "2026-08-01", Total: 99},
		{Id: "not-a-date", Total: 50},
	}

	summary := Summarize(entries, RangeWeek, now)

	if summary.Range != RangeWeek {
		t.Fatalf("expected range %s, got %s", RangeWeek, summary.Range)
	}

	if summary.Total != 20 {
		t.Fatalf("expected total 20, got %d", summary.Total)
	}

	if summary.DaysTracked != 3 {
		t.Fatalf("expected 3 days tracked, got %d", summary.DaysTracked)
	}

	if summary.DaysInRange != 7 {
		t.Fatalf("expected 7 days in range, got %d", summary.DaysInRange)
	}

	if summary.AveragePerDay != 7 {
		t.Fatalf("expected average of 7, got %d", summary.AveragePerDay)
	}

	if len(summary.Buckets) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(summary.Buckets))
	}

	// 2026-08-24 is a Monday.
	first := Bucket{Label: "Mon", Total: 4}
	if diff := cmp.Diff(first, summary.Buckets[0]); diff != "" {
		t.Error(diff)
	}

	last := Bucket{Label: "Sun", Total: 10, IsCurrent: true}
	if diff := cmp.Diff(last, summary.Buckets[6]); diff != "" {
		t.Error(diff)
	}
}

func TestSummarizeMonth(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local)
	entries := []dtos.SwalathEntry{
		{Id: "2026-08-30", Total: 3},
		{Id: "2026-08-01", Total: 5},
		{Id: "2026-07-31", Total: 50},
	}

	summary := Summarize(entries, RangeMonth, now)

	if summary.DaysInRange != 30 {
		t.Fatalf("expected 30 days in range, got %d", summary.DaysInRange)
	}

	// The window starts on 2026-08-01, so the July entry is excluded.
	if summary.Total != 8 {
		t.Fatalf("expected total 8, got %d", summary.Total)
	}

	if len(summary.Buckets) != 30 {
		t.Fatalf("expected 30 buckets, got %d", len(summary.Buckets))
	}

	if summary.Buckets[0].Label != "01" || summary.Buckets[0].Total != 5 {
		t.Fatalf("unexpected first bucket: %+v", summary.Buckets[0])
	}

	if !summary.Buckets[29].IsCurrent {
		t.Fatal("expected the last bucket to be current")
	}
}

func TestSummarizeYear(t *testing.T) {
	now := time.Date(2026, 8, 15, 9, 0, 0, 0, time.Local)
	entries := []dtos.SwalathEntry{
		{Id: "2026-08-01", Total: 3},
		{Id: "2026-08-10", Total: 4},
		{Id: "2025-09-05", Total: 2},
		{Id: "2025-08-05", Total: 99},
	}

	summary := Summarize(entries, RangeYear, now)

	if len(summary.Buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(summary.Buckets))
	}

	// The window runs from September 2025 through August 2026.
	if summary.Buckets[0].Label != "Sep" || summary.Buckets[0].Total != 2 {
		t.Fatalf("unexpected first bucket: %+v", summary.Buckets[0])
	}

	last := summary.Buckets[11]
	if last.Label != "Aug" || last.Total != 7 || !last.IsCurrent {
		t.Fatalf("unexpected last bucket: %+v", last)
	}
}

func TestSummarizeUnknownRangeFallsBackToWeek(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local)
	summary := Summarize(nil, Range("quarter"), now)

	if summary.Range != RangeWeek {
		t.Fatalf("expected fallback to %s, got %s", RangeWeek, summary.Range)
	}

	if summary.DaysTracked != 0 || summary.AveragePerDay != 0 {
		t.Fatalf("unexpected empty summary: %+v", summary)
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local)
	entries := []dtos.SwalathEntry{
		{Id: "2026-08-30", Total: 3},
		{Id: "2026-08-29", Total: 7},
	}

	first := Summarize(entries, RangeWeek, now)
	second := Summarize(entries, RangeWeek, now)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Error(diff)
	}
}
