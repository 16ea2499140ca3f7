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

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/facepipe/internal/config"
	"github.com/your-org/facepipe/internal/models"
	"github.com/your-org/facepipe/internal/notify"
	"github.com/your-org/facepipe/internal/observability"
	"github.com/your-org/facepipe/internal/pipeline"
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

	slog.Info("starting facepipe searcher",
		"collection", cfg.Recognition.CollectionID,
		"notify_url", cfg.Notify.URL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	awsCfg, err := recognition.LoadAWSConfig(ctx, cfg.Recognition.Region)
	if err != nil {
		slog.Error("load aws config", "error", err)
		os.Exit(1)
	}

	var resolver secrets.Resolver
	if cfg.Database.SecretARN != "" {
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

	rec := recognition.NewRekognitionClient(rekognition.NewFromConfig(awsCfg), cfg.Recognition.CollectionID)

	var notifier pipeline.Notifier
	if cfg.Notify.URL != "" {
		notifier = notify.NewWebhook(cfg.Notify.URL, cfg.Notify.Timeout)
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

	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	searcher := pipeline.NewSearcher(db, objects, rec, notifier)

	err = consumer.ConsumeUploads(ctx, "searcher", queue.SubjectSearchUploads, func(ctx context.Context, msg jetstream.Msg) error {
		var event models.UploadEvent
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			slog.Error("unmarshal upload event", "error", err)
			return nil // malformed payloads are not retryable
		}

		outcome, handleErr := searcher.Handle(ctx, event)
		result := pipeline.SearchResult(outcome, handleErr)
		if err := producer.PublishResult(ctx, queue.SubjectSearchResults, result); err != nil {
			slog.Warn("publish search result", "error", err)
		}
		if handleErr != nil {
			return fmt.Errorf("search pipeline: %w", handleErr)
		}
		return nil
	})
	if err != nil {
		slog.Error("start upload consumer", "error", err)
		os.Exit(1)
	}

	// Metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		slog.Info("searcher metrics listening", "addr", ":8083")
		if err := http.ListenAndServe(":8083", mux); err != nil {
			slog.Error("metrics server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down searcher...")
	cancel()
	time.Sleep(2 * time.Second)
	slog.Info("searcher stopped")
}
