package handlers

import (
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/services"
	"github.com/afdhal/swalath-backend-service/internal/stores"
	"github.com/afdhal/swalath-backend-service/internal/tracker"
)

func NewRestHandler(configs configs.Configs, remote stores.RemoteStore, registry *tracker.Registry) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.CleanPath)
	router.Use(chiMiddleware.RealIP)

	authService := services.NewAuthService(configs, remote)
	customMiddleware := NewMiddlewareHandler(configs, NewProdAuthenticator(authService))
	router.Use(customMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(httprate.LimitByIP(100, 1*time.Minute))

	options := cors.Options{
		AllowedOrigins:   strings.Split(configs.Env.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"User-Agent", "Content-Type", "Accept", "Accept-Encoding", "Accept-Language", "Cache-Control", "Connection", "Host", "Origin", "Referer", "Authorization"},
		ExposedHeaders:   []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(options))
	router.Use(chiMiddleware.Heartbeat("/ping"))

	authHandler := NewAuthHandler(configs, authService, registry)
	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)
	router.Post("/auth/google", authHandler.GoogleLogin)
	router.Post("/auth/refresh", authHandler.Refresh)
	router.Post("/auth/logout", authHandler.Logout)

	// Every tracker route works both anonymously and authenticated; the
	// identity middleware decides which backing store the session uses.
	router.Group(func(r chi.Router) {
		r.Use(customMiddleware.ResolveIdentity)

		prayerHandler := NewPrayerHandler(configs, registry)
		r.Get("/prayers/today", prayerHandler.GetToday)
		r.Put("/prayers/today", prayerHandler.UpdateToday)

		duaHandler := NewDuaHandler(configs, registry)
		r.Get("/duas/today", duaHandler.GetToday)
		r.Put("/duas/today", duaHandler.UpdateToday)

		quranHandler := NewQuranHandler(configs, registry)
		r.Get("/quran/today", quranHandler.GetToday)
		r.Put("/quran/today", quranHandler.UpdateToday)
		r.Put("/quran/goal", quranHandler.SetGoal)

		swalathHandler := NewSwalathHandler(configs, registry)
		r.Get("/swalath/entries", swalathHandler.ListEntries)
		r.Put("/swalath/entries/{dateId}", swalathHandler.UpsertEntry)
		r.Delete("/swalath/entries/{dateId}", swalathHandler.DeleteEntry)
		r.Get("/swalath/history", swalathHandler.GetHistory)
		r.Get("/swalath/selection", swalathHandler.GetSelection)
		r.Put("/swalath/selection", swalathHandler.SetSelection)

		insightHandler := NewInsightHandler(configs, services.NewInsightService(), registry, remote)
		r.Get("/insights/daily", insightHandler.GetDaily)

		streamHandler := NewStreamHandler(configs, registry)
		r.Get("/stream", streamHandler.Stream)
	})

	return router
}
