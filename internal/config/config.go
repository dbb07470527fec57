package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultSSTSourceURL is the NOAA OISST page the SST source is pointed at by default.
const DefaultSSTSourceURL = "https://psl.noaa.gov/data/gridded/data.noaa.oisst.v2.html"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Remote source configuration. An empty URL disables the source.
	SSTSourceURL      string
	HeatDaysSourceURL string
	FetchTimeout      time.Duration

	GeneratorSeed int64

	// Memoization cache configuration.
	CacheSize int
	CacheTTL  time.Duration

	// Snapshot publishing configuration.
	KafkaBrokers   []string
	KafkaTopic     string
	PublishEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "6s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parsePositiveDuration("CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}

	seed, err := strconv.ParseInt(sharedcfg.EnvOrDefault("GENERATOR_SEED", "42"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid GENERATOR_SEED")
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SSTSourceURL:      envOrDefaultAllowEmpty("SST_SOURCE_URL", DefaultSSTSourceURL),
		HeatDaysSourceURL: os.Getenv("HEATDAYS_SOURCE_URL"),
		FetchTimeout:      fetchTimeout,

		GeneratorSeed: seed,

		CacheSize: parseCacheSize(),
		CacheTTL:  cacheTTL,

		KafkaBrokers:   brokers,
		KafkaTopic:     sharedcfg.EnvOrDefault("KAFKA_TOPIC", "dashboard-snapshots"),
		PublishEnabled: len(brokers) > 0,
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("HTTP_ADDR is required")
	}
	if cfg.PublishEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseCacheSize() int {
	if s := os.Getenv("CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 128
}

// envOrDefaultAllowEmpty distinguishes an unset variable (default) from one
// explicitly set to empty (source disabled).
func envOrDefaultAllowEmpty(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}
