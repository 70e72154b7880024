package main

import (
	"context"
	"flag"
	"os"

	"github.com/jhoicas/invoice-api/migrations"
	"github.com/jhoicas/invoice-api/pkg/config"
	"github.com/jhoicas/invoice-api/pkg/logger"
	"github.com/jhoicas/invoice-api/pkg/migrator"
)

func main() {
	direction := flag.String("dir", "up", "up | down | status")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if err := migrator.Run(context.Background(), cfg.DB.ConnectionString(), migrations.FS, migrator.Direction(*direction)); err != nil {
		log.Error().Err(err).Str("dir", *direction).Msg("migraciones fallidas")
		os.Exit(1)
	}
	log.Info().Str("dir", *direction).Msg("migraciones aplicadas")
}
