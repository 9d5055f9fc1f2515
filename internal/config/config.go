package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Classifier strategy names accepted by CLASSIFIER_STRATEGY.
const (
	StrategyTaxonomy = "taxonomy"
	StrategyEntity   = "entity"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	RawDataDir       string
	ProcessedDataDir string
	ScanInterval     time.Duration

	ClassifierStrategy string

	// ArcGIS geocoding configuration.
	ArcGISAPIKey     string
	GeocodeTimeout   time.Duration
	GeocodeCacheSize int

	// NER sidecar configuration.
	NERAddr    string
	NERTimeout time.Duration

	// Optional Kafka sink configuration.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	// Collector configuration.
	TwitterBearerToken string
	TwitterTimeout     time.Duration
}

// Load reads processor configuration from environment variables, applying
// defaults where unset. Missing required credentials are a startup error.
func Load() (*Config, error) {
	cfg, err := loadBase()
	if err != nil {
		return nil, err
	}

	if cfg.ArcGISAPIKey == "" {
		return nil, errors.New("ARCGIS_API_KEY is required")
	}

	return cfg, nil
}

// LoadCollector reads collector configuration. The collector needs the
// bearer credential but not the geocoding key.
func LoadCollector() (*Config, error) {
	cfg, err := loadBase()
	if err != nil {
		return nil, err
	}

	if cfg.TwitterBearerToken == "" {
		return nil, errors.New("TWITTER_BEARER_TOKEN is required")
	}

	return cfg, nil
}

func loadBase() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	scanInterval, err := parsePositiveDuration("SCAN_INTERVAL", "30s")
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parsePositiveDuration("GEOCODE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	nerTimeout, err := parsePositiveDuration("NER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	twitterTimeout, err := parsePositiveDuration("TWITTER_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RawDataDir:       getEnv("RAW_DATA_DIR", "data/raw"),
		ProcessedDataDir: getEnv("PROCESSED_DATA_DIR", "data/processed"),
		ScanInterval:     scanInterval,

		ClassifierStrategy: getEnv("CLASSIFIER_STRATEGY", StrategyTaxonomy),

		ArcGISAPIKey:     os.Getenv("ARCGIS_API_KEY"),
		GeocodeTimeout:   geocodeTimeout,
		GeocodeCacheSize: getInt("GEOCODE_CACHE_SIZE", 1000),

		NERAddr:    getEnv("NER_ADDR", "http://localhost:8000"),
		NERTimeout: nerTimeout,

		KafkaEnabled:   getEnv("KAFKA_ENABLED", "false") == "true",
		KafkaBrokers:   splitAndTrim(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: getEnv("KAFKA_SINK_TOPIC", "standardized-incidents"),

		TwitterBearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
		TwitterTimeout:     twitterTimeout,
	}

	if cfg.ClassifierStrategy != StrategyTaxonomy && cfg.ClassifierStrategy != StrategyEntity {
		return nil, fmt.Errorf("CLASSIFIER_STRATEGY must be %q or %q", StrategyTaxonomy, StrategyEntity)
	}
	if cfg.RawDataDir == "" {
		return nil, errors.New("RAW_DATA_DIR is required")
	}
	if cfg.ProcessedDataDir == "" {
		return nil, errors.New("PROCESSED_DATA_DIR is required")
	}
	if cfg.GeocodeCacheSize <= 0 {
		return nil, errors.New("GEOCODE_CACHE_SIZE must be positive")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
