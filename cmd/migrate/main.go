// Command migrate applies or rolls back the schema without starting the API.
//
//	migrate up       apply pending migrations
//	migrate down     roll back the latest migration
//	migrate version  print the current schema version
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"brazucas-cork/internal/config"
	"brazucas-cork/internal/infra/db"
	"brazucas-cork/internal/observability/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, "text")

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if err := run(cmd, cfg, logger); err != nil {
		logger.Error("migration failed", slog.String("command", cmd), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cmd string, cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	database, err := db.Open(ctx, cfg.DatabaseURL, db.ConnectionConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	switch cmd {
	case "up":
		err = db.MigrateUp(database)
	case "down":
		err = db.MigrateDown(database)
	case "version":
		var v int64
		if v, err = db.Version(database); err == nil {
			fmt.Println(v)
		}
		return err
	default:
		return fmt.Errorf("unknown command %q (want up, down or version)", cmd)
	}
	if err != nil {
		return err
	}

	v, err := db.Version(database)
	if err != nil {
		return err
	}
	logger.Info("migration complete", slog.String("command", cmd), slog.Int64("version", v))
	return nil
}
