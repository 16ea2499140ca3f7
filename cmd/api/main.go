package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/your-org/facepipe/internal/api"
	"github.com/your-org/facepipe/internal/api/ws"
	"github.com/your-org/facepipe/internal/config"
	"github.com/your-org/facepipe/internal/models"
	"github.com/your-org/facepipe/internal/observability"
	"github.com/your-org/facepipe/internal/queue"
	"github.com/your-org/facepipe/internal/recognition"
	"github.com/your-org/facepipe/internal/secrets"
	"github.com/your-org/facepipe/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting facepipe api", "port", cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var resolver secrets.Resolver
	if cfg.Database.SecretARN != "" {
		awsCfg, err := recognition.LoadAWSConfig(ctx, cfg.Recognition.Region)
		if err != nil {
			slog.Error("load aws config", "error", err)
			os.Exit(1)
		}
		resolver = secrets.NewSecretsManagerResolver(secretsmanager.NewFromConfig(awsCfg), cfg.Database.SecretARN)
	} else {
		resolver = secrets.NewStaticResolver(cfg.Database)
	}

	db, err := storage.NewPostgresStore(ctx, resolver, cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	objects, err := storage.NewObjectStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}

	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStreams(ctx); err != nil {
		slog.Warn("ensure nats streams", "error", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	err = consumer.ConsumeResults(ctx, "api-results", func(ctx context.Context, msg jetstream.Msg) error {
		var ev models.ResultEvent
		if err := json.Unmarshal(msg.Data(), &ev); err != nil {
			return fmt.Errorf("unmarshal result event: %w", err)
		}
		hub.BroadcastResult(ev)
		return nil
	})
	if err != nil {
		slog.Error("start result consumer", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		APIKey:   cfg.Server.APIKey,
		DB:       db,
		Objects:  objects,
		Producer: producer,
		Hub:      hub,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("api listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down api...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("api stopped")
}
