package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/incident-feed-etl/internal/adapter/arcgis"
	httpadapter "github.com/couchcryptid/incident-feed-etl/internal/adapter/http"
	"github.com/couchcryptid/incident-feed-etl/internal/adapter/jsonstore"
	kafkaadapter "github.com/couchcryptid/incident-feed-etl/internal/adapter/kafka"
	"github.com/couchcryptid/incident-feed-etl/internal/adapter/ner"
	"github.com/couchcryptid/incident-feed-etl/internal/config"
	"github.com/couchcryptid/incident-feed-etl/internal/domain"
	"github.com/couchcryptid/incident-feed-etl/internal/observability"
	"github.com/couchcryptid/incident-feed-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// The extraction sidecar must be reachable before batches start; refusing
	// to start beats silently emitting location-less records for every post.
	extractor := ner.NewClient(cfg.NERAddr, cfg.NERTimeout, metrics, logger)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.NERTimeout)
	if err := extractor.Ping(pingCtx); err != nil {
		pingCancel()
		logger.Error("entity extraction service unreachable", "addr", cfg.NERAddr, "error", err)
		os.Exit(1)
	}
	pingCancel()

	geocodeClient := arcgis.NewClient(cfg.ArcGISAPIKey, cfg.GeocodeTimeout, metrics, logger)
	geocoder := arcgis.NewCachedGeocoder(geocodeClient, cfg.GeocodeCacheSize, metrics)
	logger.Info("geocoding enabled", "cache_size", cfg.GeocodeCacheSize, "timeout", cfg.GeocodeTimeout)

	var classifier domain.Classifier
	switch cfg.ClassifierStrategy {
	case config.StrategyEntity:
		classifier = domain.NewEntityClassifier()
	default:
		classifier = domain.NewTaxonomyClassifier()
	}
	logger.Info("classifier selected", "strategy", cfg.ClassifierStrategy)

	transformer := pipeline.NewTransformer(extractor, geocoder, classifier, logger)
	store := jsonstore.New(cfg.RawDataDir, cfg.ProcessedDataDir)

	// Publisher is feature-flagged via KAFKA_ENABLED. Keep the interface nil
	// when disabled so the pipeline skips publishing entirely.
	var publisher pipeline.Publisher
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		publisher = kafkaWriter
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka sink disabled")
	}

	p := pipeline.New(store, transformer, publisher, logger, metrics, cfg.ScanInterval)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start batch pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
