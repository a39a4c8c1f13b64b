package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/entrypoint"
	"github.com/mrlokans/bookcatalog/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := config.NewConfig()
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if len(os.Args) < 2 || os.Args[1] == "serve" {
		entrypoint.Run(cfg, Version)
		return
	}

	switch command := os.Args[1]; command {
	case "migrate":
		if err := entrypoint.Migrate(context.Background(), cfg); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Str("database", cfg.Database.Path).Msg("database is up to date")

	case "cleanup-audit":
		deleted, err := entrypoint.CleanupAudit(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("audit cleanup failed")
		}
		log.Info().Int64("deleted", deleted).Int("retention_days", cfg.Audit.RetentionDays).Msg("audit cleanup finished")

	case "version":
		fmt.Printf("bookcatalog %s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command>\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve          Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  migrate        Apply pending database migrations\n")
	fmt.Fprintf(os.Stderr, "  cleanup-audit  Delete audit events older than AUDIT_RETENTION_DAYS\n")
	fmt.Fprintf(os.Stderr, "  version        Print the build version\n")
	fmt.Fprintf(os.Stderr, "\nConfiguration is read from the environment and an optional .env file.\n")
}
