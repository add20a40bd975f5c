package main

import (
	"context"
	"fmt"

	"reclaim/internal/kv"
	"reclaim/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	switch c.StorageBackend {
	case "badger":
	case "postgres":
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("set DATABASE_URL when STORAGE_BACKEND=postgres")
		}
	case "s3":
		if c.S3Bucket == "" {
			return nil, fmt.Errorf("set S3_BUCKET when STORAGE_BACKEND=s3")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

// openStore builds the key-value backend named by the config.
func openStore(ctx context.Context, cfg *types.Config, logger *logrus.Logger) (kv.Store, error) {
	switch cfg.StorageBackend {
	case "badger":
		return kv.OpenBadger(kv.BadgerConfig{
			Path:   cfg.BadgerPath,
			Logger: logger,
		})
	case "postgres":
		return kv.ConnectPostgres(ctx, cfg.DatabaseURL)
	case "s3":
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		return kv.NewS3Store(s3.NewFromConfig(awsConfig), cfg.S3Bucket, cfg.S3KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
