package main

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/afdhal/swalath-backend-service/configs"
	"github.com/afdhal/swalath-backend-service/internal/handlers"
	"github.com/afdhal/swalath-backend-service/internal/stores"
	"github.com/afdhal/swalath-backend-service/internal/tracker"
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
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

	local, err := stores.NewSqliteLocal(localDb.Conn)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	remote, err := stores.NewPostgresRemote(ctx, db.Conn)
	if err != nil {
		logger.Fatal().Err(err).Send()
	}

	registry := tracker.NewRegistry(local, remote)
	defer registry.Close()

	rest := handlers.NewRestHandler(config, remote, registry)
	if err := http.ListenAndServe(":8080", rest); err != nil {
		logger.Fatal().Err(err).Send()
	}
}
