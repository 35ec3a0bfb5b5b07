package main

import (
	"github.com/sirupsen/logrus"

	"github.com/whatwillyoucook/backend/config"
	"github.com/whatwillyoucook/backend/internal/database"
)

// Applies the schema to the configured database and exits. The API server
// migrates on startup as well; this exists for running migrations ahead of a
// deploy or against a fresh database.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if _, err := database.New(cfg); err != nil {
		logrus.WithError(err).Fatal("Migration failed")
	}

	logrus.Info("Migrations applied")
}
