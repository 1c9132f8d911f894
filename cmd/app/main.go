package main

import (
	"boatbook/config"
	"boatbook/di"
	"boatbook/helper"
	"boatbook/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title						Boatbook API
// @version					1.0
// @description				Booking lifecycle and seat ledger for boat tours.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
