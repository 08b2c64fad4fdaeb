package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/noah-isme/placement-portal-api/internal/config"
	"github.com/noah-isme/placement-portal-api/internal/database"
	"github.com/noah-isme/placement-portal-api/internal/logger"
)

func main() {
	steps := flag.Int("steps", 0, "number of migrations to roll back with down (0 rolls back all)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [-steps n] up|down\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to access database pool")
	}
	defer sqlDB.Close()

	switch flag.Arg(0) {
	case "up":
		err = database.RunMigrations(sqlDB, appLogger)
	case "down":
		err = database.RollbackMigrations(sqlDB, *steps, appLogger)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		appLogger.Fatal().Err(err).Str("direction", flag.Arg(0)).Msg("migration failed")
	}
}
