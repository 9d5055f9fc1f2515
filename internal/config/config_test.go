package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-arcgis-key"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ARCGIS_API_KEY", testAPIKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data/raw", cfg.RawDataDir)
	assert.Equal(t, "data/processed", cfg.ProcessedDataDir)
	assert.Equal(t, 30*time.Second, cfg.ScanInterval)
	assert.Equal(t, StrategyTaxonomy, cfg.ClassifierStrategy)
	assert.Equal(t, testAPIKey, cfg.ArcGISAPIKey)
	assert.Equal(t, 5*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 1000, cfg.GeocodeCacheSize)
	assert.Equal(t, "http://localhost:8000", cfg.NERAddr)
	assert.Equal(t, 10*time.Second, cfg.NERTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "standardized-incidents", cfg.KafkaSinkTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("ARCGIS_API_KEY", testAPIKey)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("RAW_DATA_DIR", "/var/data/raw")
	t.Setenv("PROCESSED_DATA_DIR", "/var/data/processed")
	t.Setenv("SCAN_INTERVAL", "5s")
	t.Setenv("CLASSIFIER_STRATEGY", "entity")
	t.Setenv("GEOCODE_TIMEOUT", "2s")
	t.Setenv("GEOCODE_CACHE_SIZE", "250")
	t.Setenv("NER_ADDR", "http://ner:9000")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "incidents-out")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/var/data/raw", cfg.RawDataDir)
	assert.Equal(t, "/var/data/processed", cfg.ProcessedDataDir)
	assert.Equal(t, 5*time.Second, cfg.ScanInterval)
	assert.Equal(t, StrategyEntity, cfg.ClassifierStrategy)
	assert.Equal(t, 2*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 250, cfg.GeocodeCacheSize)
	assert.Equal(t, "http://ner:9000", cfg.NERAddr)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "incidents-out", cfg.KafkaSinkTopic)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("ARCGIS_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARCGIS_API_KEY")
}

func TestLoad_InvalidStrategy(t *testing.T) {
	t.Setenv("ARCGIS_API_KEY", testAPIKey)
	t.Setenv("CLASSIFIER_STRATEGY", "ensemble")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLASSIFIER_STRATEGY")
}

func TestLoad_InvalidScanInterval(t *testing.T) {
	t.Setenv("ARCGIS_API_KEY", testAPIKey)
	t.Setenv("SCAN_INTERVAL", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCAN_INTERVAL")
}

func TestLoad_NegativeGeocodeTimeout(t *testing.T) {
	t.Setenv("ARCGIS_API_KEY", testAPIKey)
	t.Setenv("GEOCODE_TIMEOUT", "-1s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODE_TIMEOUT")
}

func TestLoad_KafkaEnabledRequiresTopic(t *testing.T) {
	t.Setenv("ARCGIS_API_KEY", testAPIKey)
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoadCollector(t *testing.T) {
	t.Run("requires bearer token", func(t *testing.T) {
		t.Setenv("TWITTER_BEARER_TOKEN", "")

		_, err := LoadCollector()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TWITTER_BEARER_TOKEN")
	})

	t.Run("loads without geocoding key", func(t *testing.T) {
		t.Setenv("TWITTER_BEARER_TOKEN", "bearer-xyz")

		cfg, err := LoadCollector()
		require.NoError(t, err)
		assert.Equal(t, "bearer-xyz", cfg.TwitterBearerToken)
		assert.Equal(t, 15*time.Second, cfg.TwitterTimeout)
		assert.Empty(t, cfg.ArcGISAPIKey)
	})
}
