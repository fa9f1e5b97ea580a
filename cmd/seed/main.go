package main

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/dateutil"
	"github.com/afdhal/swalath-backend-service/internal/dtos"
	"github.com/afdhal/swalath-backend-service/internal/retryutil"
	"github.com/afdhal/swalath-backend-service/internal/services"
	"github.com/afdhal/swalath-backend-service/internal/stores"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}
	logger := log.With().Caller().Logger()

	env, err := configs.LoadEnv()
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	db, err := configs.NewDb(ctx, env.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	localDb, err := configs.NewLocalDb(env.LocalStorePath)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	config := configs.NewConfigs(env, db, localDb)

	remote, err := stores.NewPostgresRemote(ctx, db.Conn)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	// Seed the demo account
	authService := services.NewAuthService(config, remote)
	result, err := authService.RegisterUser(ctx, services.RegisterUserParams{
		Email:    "demo@example.com",
		Password: "demo-password",
		Name:     "Demo",
	})

	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			logger.Fatal().Err(err).Msg("demo account already seeded")
		}
		logger.Fatal().Err(err).Msg("failed to seed demo account")
	}

	now := time.Now()

	// Seed a month of recitation history
	var entries []stores.Document
	for i := 0; i < 30; i++ {
		day := now.AddDate(0, 0, -i)
		entry := dtos.SwalathEntry{
			Id:          dateutil.DayID(day),
			FajrDuhr:    (i * 3) % 7,
			DuhrAsr:     (i * 5) % 6,
			AsrMaghrib:  (i * 2) % 5,
			MaghribIsha: (i * 7) % 8,
			IshaFajr:    (i * 4) % 6,
		}
		entry.Total = entry.Sum()

		data, err := json.Marshal(entry)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to marshal swalath entry")
		}

		entries = append(entries, stores.Document{
			Path: "users/" + result.UserId + "/entries/" + entry.Id,
			Data: data,
		})
	}

	if err := remote.BatchUpsert(ctx, entries); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed swalath entries")
	}

	// Seed today's prayer record
	prayers := dtos.DefaultPrayerDay()
	prayers.Fajr = dtos.DailyPrayer{Status: dtos.PrayerStatusPrayed, Type: dtos.PrayerTypeAda, WithJamaah: true}
	prayers.Dhuhr = dtos.DailyPrayer{Status: dtos.PrayerStatusPrayed, Type: dtos.PrayerTypeAda}

	prayerData, err := json.Marshal(prayers)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to marshal prayer record")
	}

	err = retryutil.RetryWithoutData(func() error {
		return remote.Upsert(ctx, "users/"+result.UserId+"/prayers/"+dateutil.DayID(now), prayerData)
	})

	if err != nil {
		logger.Fatal().Err(err).Msg("failed to seed prayer record")
	}

	// Seed the quran goal on the profile
	goalData, err := json.Marshal(map[string]int{"quranGoal": 5})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to marshal quran goal")
	}

	err = retryutil.RetryWithoutData(func() error {
		return remote.Upsert(ctx, "users/"+result.UserId, goalData)
	})

	if err != nil {
		logger.Fatal().Err(err).Msg("failed to seed quran goal")
	}

	logger.Info().Str("user_id", result.UserId).Msg("successfully seeded demo data")
}
