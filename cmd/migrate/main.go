package main

import (
	"context"
	"time"

	"github.com/aymenmusic/todo-list-2025/internal/config"
	"github.com/aymenmusic/todo-list-2025/internal/db"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()

	database, err := db.Init(&cfg.DB)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.Migrate(ctx, database); err != nil {
		database.Close()
		logrus.WithError(err).Fatal("Migration failed")
	}

	logrus.Info("Database tables created")
}
