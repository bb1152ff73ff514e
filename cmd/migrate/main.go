// Command migrate manages the relationship schema.
//
// Usage:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate -steps 2 down
//	go run ./cmd/migrate version
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/pawpals/pawpals-api/internal/config"
	"github.com/pawpals/pawpals-api/internal/pkg/database"
	"github.com/pawpals/pawpals-api/internal/pkg/logger"
)

var steps = flag.Int("steps", 1, "Number of migrations to roll back with down")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [-steps n] up|down|version\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	mg, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open migrator")
	}
	defer mg.Close()

	switch flag.Arg(0) {
	case "up":
		err = mg.Up()
	case "down":
		err = mg.Down(*steps)
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = mg.Version()
		if err == nil {
			fmt.Printf("version=%d dirty=%t\n", version, dirty)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", flag.Arg(0)).Msg("Migration failed")
	}
}
