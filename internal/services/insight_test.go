package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/afdhal/swalath-backend-service/internal/aggregate"
)

func TestDailyHadith(t *testing.T) {
	insightService := NewInsightService()

	day := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	first := insightService.DailyHadith(day)
	second := insightService.DailyHadith(day.Add(3 * time.Hour))

	// The pick is deterministic per day.
	if diff := cmp.Diff(first, second); diff != "" {
		t.Error(diff)
	}

	nextDay := insightService.DailyHadith(day.AddDate(0, 0, 1))
	if cmp.Equal(first, nextDay) {
		t.Fatal("expected a different hadith on the next day")
	}

	if first.ArabicText == "" || first.EnglishTranslation == "" || first.Source == "" {
		t.Fatalf("incomplete hadith: %+v", first)
	}
}

func TestEncouragement(t *testing.T) {
	insightService := NewInsightService()

	testTable := []struct {
		name     string
		userName string
		summary  aggregate.Summary
		contains string
	}{
		{
			name:     "no tracked days",
			userName: "Afdhal",
			summary:  aggregate.Summary{DaysInRange: 7},
			contains: "first swalath",
		},
		{
			name:     "full week",
			userName: "Afdhal",
			summary:  aggregate.Summary{DaysTracked: 7, DaysInRange: 7, Total: 70},
			contains: "full week",
		},
		{
			name:     "high average",
			userName: "Afdhal",
			summary:  aggregate.Summary{DaysTracked: 4, DaysInRange: 7, Total: 48, AveragePerDay: 12},
			contains: "averaging 12",
		},
		{
			name:     "partial week",
			userName: "Afdhal",
			summary:  aggregate.Summary{DaysTracked: 2, DaysInRange: 7, Total: 6, AveragePerDay: 3},
			contains: "2 of the last 7",
		},
		{
			name:     "anonymous fallback",
			userName: "",
			summary:  aggregate.Summary{DaysInRange: 7},
			contains: "friend",
		},
	}

	for _, v := range testTable {
		t.Run(v.name, func(t *testing.T) {
			got := insightService.Encouragement(v.userName, v.summary)
			if !strings.Contains(got, v.contains) {
				t.Fatalf("expected %q to contain %q", got, v.contains)
			}

			if v.userName != "" && !strings.Contains(got, v.userName) {
				t.Fatalf("expected %q to mention %q", got, v.userName)
			}
		})
	}
}
