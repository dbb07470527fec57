package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DefaultSSTSourceURL, cfg.SSTSourceURL)
	assert.Empty(t, cfg.HeatDaysSourceURL)
	assert.Equal(t, 6*time.Second, cfg.FetchTimeout)
	assert.Equal(t, int64(42), cfg.GeneratorSeed)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "dashboard-snapshots", cfg.KafkaTopic)
	assert.False(t, cfg.PublishEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("SST_SOURCE_URL", "http://sst.local/data.csv")
	t.Setenv("HEATDAYS_SOURCE_URL", "http://kma.local/heat.csv")
	t.Setenv("FETCH_TIMEOUT", "2s")
	t.Setenv("GENERATOR_SEED", "7")
	t.Setenv("CACHE_SIZE", "16")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "snapshots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://sst.local/data.csv", cfg.SSTSourceURL)
	assert.Equal(t, "http://kma.local/heat.csv", cfg.HeatDaysSourceURL)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.Equal(t, int64(7), cfg.GeneratorSeed)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "snapshots", cfg.KafkaTopic)
	assert.True(t, cfg.PublishEnabled)
}

func TestLoad_SSTSourceExplicitlyDisabled(t *testing.T) {
	t.Setenv("SST_SOURCE_URL", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.SSTSourceURL)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidFetchTimeout(t *testing.T) {
	tests := []string{"bad", "0s", "-1s"}
	for _, v := range tests {
		t.Run(v, func(t *testing.T) {
			t.Setenv("FETCH_TIMEOUT", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "FETCH_TIMEOUT")
		})
	}
}

func TestLoad_InvalidCacheTTL(t *testing.T) {
	t.Setenv("CACHE_TTL", "forever")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_TTL")
}

func TestLoad_InvalidSeed(t *testing.T) {
	t.Setenv("GENERATOR_SEED", "forty-two")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATOR_SEED")
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("CACHE_SIZE", "-3")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.CacheSize)
}

func TestLoad_BlankBrokersDisablePublishing(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " , ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.PublishEnabled)
}
