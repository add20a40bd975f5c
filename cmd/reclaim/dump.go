package main

import (
	"context"
	"fmt"

	"reclaim/internal/store"
	"reclaim/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var dumpCommand = &cli.Command{
	Name:  "dump",
	Usage: "Pretty-print the stored collections for debugging",
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

		fmt.Println("=== lost items ===")
		pp.Println(repo.ListItems(types.ItemKindLost, ""))

		fmt.Println("=== found items ===")
		pp.Println(repo.ListItems(types.ItemKindFound, ""))

		fmt.Println("=== item matches ===")
		pp.Println(repo.Matches())

		return nil
	},
}
