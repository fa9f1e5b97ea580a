package handlers

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/afdhal/swalath-backend-service/internal/dtos"
)

func TestInsightHandlers(t *testing.T) {
	t.Run("GetDaily/Success", func(t *testing.T) {
		res := doRequest(t, http.MethodGet, "/insights/daily", "")
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, res.StatusCode)
		}

		var insight dtos.DailyInsightResponse
		if err := json.NewDecoder(res.Body).Decode(&insight); err != nil {
			t.Fatalf("unexpected response body: %v", res)
		}

		if insight.Hadith.ArabicText == "" || insight.Hadith.EnglishTranslation == "" || insight.Hadith.Source == "" {
			t.Fatalf("incomplete hadith: %+v", insight.Hadith)
		}

		if insight.Encouragement == "" {
			t.Fatal("expected a non-empty encouragement")
		}
	})

	t.Run("GetDaily/Anonymous", func(t *testing.T) {
		res, err := testClient.Get(testServer.URL + "/insights/daily")
		if err != nil {
			t.Fatalf("wasn't expecting error, got: %v", err)
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, res.StatusCode)
		}
	})
}
