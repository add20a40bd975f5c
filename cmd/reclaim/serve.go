package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reclaim/internal/auth"
	"reclaim/internal/kv"
	"reclaim/internal/notify"
	"reclaim/internal/server"
	"reclaim/internal/store"
	"reclaim/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsConfig)

	blobs, err := openStore(ctx, config, logger)
	if err != nil {
		return err
	}
	defer blobs.Close()

	repo, err := store.NewRepository(ctx, blobs, logger)
	if err != nil {
		return err
	}

	provider := auth.NewProvider(cognitoClient, config.CognitoClientID, logger)
	sessions := auth.NewSessions()

	// Mirror the active session into the blob store so a restart knows
	// who was last signed in.
	cancelMirror := sessions.Subscribe(func(profile *types.Profile) {
		go persistSession(blobs, logger, profile)
	})
	defer cancelMirror()

	emailer := notify.NewEmailer(config, logger)

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.CognitoIssuerURL)

	err = jwkCache.Register(context.Background(), jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register cognito jwks with cache: %w", err)
	}

	srv, err := server.New(
		config,
		logger,
		repo,
		provider,
		sessions,
		emailer,
		jwkCache,
		jwksURL,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

func persistSession(blobs kv.Store, logger *logrus.Logger, profile *types.Profile) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if profile == nil {
		if err := blobs.Delete(ctx, kv.KeyUser); err != nil {
			logger.WithError(err).Warn("failed to clear persisted session")
		}
		return
	}

	data, err := json.Marshal(profile)
	if err != nil {
		logger.WithError(err).Warn("failed to marshal session profile")
		return
	}
	if err := blobs.Set(ctx, kv.KeyUser, data); err != nil {
		logger.WithError(err).Warn("failed to persist session profile")
	}
}
