package main

import (
	"github.com/wfunc/guessjam/config"
	"github.com/wfunc/guessjam/logger"
	"github.com/wfunc/guessjam/monitor"
	"github.com/wfunc/guessjam/persistence"
	"github.com/wfunc/guessjam/server"
	"github.com/wfunc/guessjam/songsource"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize snapshot store. Without a configured Postgres host, matches
	// survive reconnects but not a process restart.
	var store persistence.Store
	if cfg.Database.Postgres.Host != "" {
		store, err = persistence.NewGormPostgreSQL(
			cfg.Database.Postgres.Host,
			cfg.Database.Postgres.Port,
			cfg.Database.Postgres.User,
			cfg.Database.Postgres.Password,
			cfg.Database.Postgres.DBName,
		)
		if err != nil {
			logger.Log.Fatalf("Failed to connect to database: %v", err)
		}
		logger.Log.Info("Database connection successful.")
	} else {
		store = persistence.NewMemoryStore()
		logger.Log.Info("No database configured, using in-memory snapshot store.")
	}
	defer store.Close()

	// Metrics
	mon := monitor.NewMonitor("guessjam")
	mon.StartServer(cfg.Server.MetricsAddress)

	// Song source
	source := songsource.NewYouTube(cfg.YouTube.APIKey)

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, store, source, mon)

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
