package main

import (
	"github.com/citelens/citelens/internal/config"
	"github.com/citelens/citelens/internal/storage"
)

// mustLoadConfig loads the config, exiting if the data directory has not
// been initialized.
func mustLoadConfig() *config.Config {
	if !config.IsInitialized() {
		exitWithError(ExitConfigError, "not initialized; run citelens init first")
	}
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenDatabase opens the citation database, exiting on failure.
func mustOpenDatabase() *storage.DB {
	db, err := storage.Open(config.DBPath())
	if err != nil {
		exitWithError(ExitDataError, "opening database: %v", err)
	}
	return db
}
