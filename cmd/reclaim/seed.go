package main

import (
	"context"
	"fmt"

	"reclaim/internal/seed"
	"reclaim/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the item store with sample reports",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := logrus.New()
		ctx := context.Background()

		blobs, err := openStore(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to open item store: %w", err)
		}
		defer blobs.Close()

		repo, err := store.NewRepository(ctx, blobs, logger)
		if err != nil {
			return fmt.Errorf("failed to load repository: %w", err)
		}

		logrus.Info("Seeding sample items...")
		if err := seed.SeedFakeItems(ctx, repo); err != nil {
			return fmt.Errorf("failed to seed items: %w", err)
		}

		logrus.Info("Items seeded successfully")

		return nil
	},
}
