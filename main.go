package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"simpleinvoice/cmd"
	"simpleinvoice/internal/config"
	"simpleinvoice/internal/logger"
)

func main() {
	// A missing .env is normal; variables may come from the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Commands report configuration errors themselves; here the config only
	// drives the logger.
	logConfig := logger.DefaultConfig()
	if cfg, err := config.Load(); err == nil {
		logConfig = cfg.GetLoggerConfig()
	}
	if err := logger.Setup(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.WithComponent("main")
	log.Debug().Msg("Starting SimpleInvoice CLI")

	cmd.Execute()
}
