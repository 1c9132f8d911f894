package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"boatbook/config"
	"boatbook/di"
	"boatbook/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	relay := di.InitializeRelay()
	if err := relay.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("notification relay exited")
	}
}
