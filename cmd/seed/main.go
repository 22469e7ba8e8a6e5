// Команда seed — одноразовая административная утилита начального заполнения
// базы. Удаляет все подписки, затем всех пользователей и создает фиксированный
// набор учётных записей с подписками. Не предназначена для запуска
// одновременно с обслуживанием трафика.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/magabrotheeeer/subscription-dashboard/internal/config"
	"github.com/magabrotheeeer/subscription-dashboard/internal/lib/password"
	"github.com/magabrotheeeer/subscription-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-dashboard/internal/migrations"
	"github.com/magabrotheeeer/subscription-dashboard/internal/models"
	"github.com/magabrotheeeer/subscription-dashboard/internal/storage"
)

type seedUser struct {
	name     string
	email    string
	password string
}

var seedUsers = []seedUser{
	{name: "John Doe", email: "john@example.com", password: "password123"},
	{name: "Jane Smith", email: "jane@example.com", password: "password456"},
	{name: "Bob Wilson", email: "bob@example.com", password: "password789"},
}

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := context.Background()

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", sl.Err(err))
		os.Exit(1)
	}

	if err := run(ctx, db, logger); err != nil {
		logger.Error("seed failed", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("database has been seeded")
}

func run(ctx context.Context, db *storage.Storage, logger *slog.Logger) error {
	removed, err := db.DeleteAllSubscriptions(ctx)
	if err != nil {
		return err
	}
	logger.Info("cleared subscriptions", slog.Int("count", removed))

	removed, err = db.DeleteAllUsers(ctx)
	if err != nil {
		return err
	}
	logger.Info("cleared users", slog.Int("count", removed))

	for _, su := range seedUsers {
		hash, err := password.GetHash(su.password)
		if err != nil {
			return err
		}
		uid, err := db.CreateUser(ctx, models.User{
			Name:         su.name,
			Email:        su.email,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}

		proStatus := "pending"
		if su.name == "John Doe" {
			proStatus = "active"
		}

		// Pro Plan создается последним и потому первым в выдаче.
		subs := []models.Subscription{
			{
				Name:            "Basic Plan",
				Status:          "active",
				Amount:          9.99,
				NextBillingDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
				UserUID:         uid,
			},
			{
				Name:            "Pro Plan",
				Status:          proStatus,
				Amount:          19.99,
				NextBillingDate: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC),
				UserUID:         uid,
			},
		}
		for _, sub := range subs {
			if _, err := db.CreateSubscription(ctx, sub); err != nil {
				return err
			}
		}
		logger.Info("seeded user", slog.String("email", su.email), slog.Int("subscriptions", len(subs)))
	}
	return nil
}
