package handlers

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/services"
	"github.com/afdhal/swalath-backend-service/internal/stores"
	"github.com/afdhal/swalath-backend-service/internal/tracker"
)

const testUserId = "9f2d3c64-0a1b-4f6e-8d7c-5b4a3e2f1d0c"

var testServer *httptest.Server
var testClient *http.Client

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)

	config := configs.Configs{
		Env: configs.Env{
			SecretKey:      "test-secret-key",
			OriginURL:      "http://localhost:8080",
			AllowedOrigins: "http://localhost:3000",
		},
		Validate: configs.NewValidate(),
	}

	local := stores.NewMemoryLocal()
	remote := stores.NewMemoryRemote()
	registry := tracker.NewRegistry(local, remote)

	customMiddleware := NewMiddlewareHandler(config, NewStaticAuthenticator(testUserId))
	router := chi.NewRouter()
	router.Use(customMiddleware.Logger)
	router.Group(func(r chi.Router) {
		r.Use(customMiddleware.ResolveIdentity)

		prayerHandler := NewPrayerHandler(config, registry)
		r.Get("/prayers/today", prayerHandler.GetToday)
		r.Put("/prayers/today", prayerHandler.UpdateToday)

		duaHandler := NewDuaHandler(config, registry)
		r.Get("/duas/today", duaHandler.GetToday)
		r.Put("/duas/today", duaHandler.UpdateToday)

		quranHandler := NewQuranHandler(config, registry)
		r.Get("/quran/today", quranHandler.GetToday)
		r.Put("/quran/today", quranHandler.UpdateToday)
		r.Put("/quran/goal", quranHandler.SetGoal)

		swalathHandler := NewSwalathHandler(config, registry)
		r.Get("/swalath/entries", swalathHandler.ListEntries)
		r.Put("/swalath/entries/{dateId}", swalathHandler.UpsertEntry)
		r.Delete("/swalath/entries/{dateId}", swalathHandler.DeleteEntry)
		r.Get("/swalath/history", swalathHandler.GetHistory)
		r.Get("/swalath/selection", swalathHandler.GetSelection)
		r.Put("/swalath/selection", swalathHandler.SetSelection)

		insightHandler := NewInsightHandler(config, services.NewInsightService(), registry, remote)
		r.Get("/insights/daily", insightHandler.GetDaily)
	})

	testServer = httptest.NewServer(router)
	defer testServer.Close()
	testClient = testServer.Client()

	exitCode := m.Run()
	os.Exit(exitCode)
}

func doRequest(t *testing.T, method, path, body string) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != "" {
		reqBody = bytes.NewBufferString(body)
	}

	req, err := http.NewRequest(method, testServer.URL+path, reqBody)
	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")

	res, err := testClient.Do(req)
	if err != nil {
		t.Fatalf("wasn't expecting error, got: %v", err)
	}

	return res
}
