package handlers

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/afdhal/swalath-backend-service/internal/dtos"
)

func TestQuranHandlers(t *testing.T) {
	t.Run("SetGoal/Success", func(t *testing.T) {
		res := doRequest(t, http.MethodPut, "/quran/goal", `{"dailyGoalPages": 5}`)
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, res.StatusCode)
		}

		var record dtos.QuranDay
		if err := json.NewDecoder(res.Body).Decode(&record); err != nil {
			t.Fatalf("unexpected response body: %v", res)
		}

		if record.DailyGoalPages != 5 {
			t.Fatalf("expected goal of 5 pages, got %d", record.DailyGoalPages)
		}
	})

	t.Run("SetGoal/Bad Request", func(t *testing.T) {
		res := doRequest(t, http.MethodPut, "/quran/goal", `{"dailyGoalPages": -1}`)
		defer res.Body.Close()

		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, res.StatusCode)
		}
	})

	t.Run("GetToday/Goal Applied", func(t *testing.T) {
		res := doRequest(t, http.MethodGet, "/quran/today", "")
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, res.StatusCode)
		}

		var record dtos.QuranDay
		if err := json.NewDecoder(res.Body).Decode(&record); err != nil {
			t.Fatalf("unexpected response body: %v", res)
		}

		// A day without a stored record still reports the cross-day goal.
		expected := dtos.QuranDay{DailyGoalPages: 5}
		if diff := cmp.Diff(expected, record); diff != "" {
			t.Error(diff)
		}
	})

	t.Run("UpdateToday/Success", func(t *testing.T) {
		res := doRequest(t, http.MethodPut, "/quran/today", `{"pagesRead": 3, "surahs": {"yasin": true}}`)
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, res.StatusCode)
		}

		var record dtos.QuranDay
		if err := json.NewDecoder(res.Body).Decode(&record); err != nil {
			t.Fatalf("unexpected response body: %v", res)
		}

		expected := dtos.QuranDay{
			DailyGoalPages: 5,
			PagesRead:      3,
			Surahs:         dtos.Surahs{Yasin: true},
		}

		if diff := cmp.Diff(expected, record); diff != "" {
			t.Error(diff)
		}
	})

	t.Run("UpdateToday/Partial", func(t *testing.T) {
		res := doRequest(t, http.MethodPut, "/quran/today", `{"pagesRead": 4}`)
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, res.StatusCode)
		}

		var record dtos.QuranDay
		if err := json.NewDecoder(res.Body).Decode(&record); err != nil {
			t.Fatalf("unexpected response body: %v", res)
		}

		// Omitted fields keep their previous values.
		expected := dtos.QuranDay{
			DailyGoalPages: 5,
			PagesRead:      4,
			Surahs:         dtos.Surahs{Yasin: true},
		}

		if diff := cmp.Diff(expected, record); diff != "" {
			t.Error(diff)
		}
	})
}
