package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/festival-guide/internal/adapter/csvfile"
	"github.com/couchcryptid/festival-guide/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath  string
	Encodings []string

	JitterSigma float64
	// JitterSeed is nil when JITTER_SEED is unset; jitter then differs per load.
	JitterSeed *uint64

	DefaultMonth   int
	RankingLimit   int
	SeasonalLimit  int
	QueryCacheSize int
	ReloadInterval time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Snapshot publishing is enabled when brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string
}

// PublishEnabled reports whether snapshots are published to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	encodings, err := csvfile.ParseEncodings(sharedcfg.EnvOrDefault("FESTIVAL_ENCODINGS", "cp949,utf-8"))
	if err != nil {
		return nil, fmt.Errorf("invalid FESTIVAL_ENCODINGS: %w", err)
	}

	sigma, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("JITTER_SIGMA", "0.04"), 64)
	if err != nil || sigma < 0 {
		return nil, errors.New("invalid JITTER_SIGMA")
	}

	seed, err := parseSeed()
	if err != nil {
		return nil, err
	}

	defaultMonth, err := parsePositiveInt("DEFAULT_MONTH", 10)
	if err != nil {
		return nil, err
	}
	if defaultMonth > 12 {
		return nil, errors.New("invalid DEFAULT_MONTH: must be between 1 and 12")
	}

	rankingLimit, err := parsePositiveInt("RANKING_LIMIT", domain.DefaultRankingLimit)
	if err != nil {
		return nil, err
	}
	seasonalLimit, err := parsePositiveInt("SEASONAL_LIMIT", domain.DefaultSeasonalLimit)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("QUERY_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	reloadInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("RELOAD_INTERVAL", "0s"))
	if err != nil || reloadInterval < 0 {
		return nil, errors.New("invalid RELOAD_INTERVAL")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		DataPath:        sharedcfg.EnvOrDefault("FESTIVAL_DATA_PATH", "2025년 지역축제.CSV"),
		Encodings:       encodings,
		JitterSigma:     sigma,
		JitterSeed:      seed,
		DefaultMonth:    defaultMonth,
		RankingLimit:    rankingLimit,
		SeasonalLimit:   seasonalLimit,
		QueryCacheSize:  cacheSize,
		ReloadInterval:  reloadInterval,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "festival-snapshots"),
	}

	if strings.TrimSpace(cfg.DataPath) == "" {
		return nil, errors.New("FESTIVAL_DATA_PATH is required")
	}
	if cfg.PublishEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parseSeed() (*uint64, error) {
	s := os.Getenv("JITTER_SEED")
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, errors.New("invalid JITTER_SEED")
	}
	return &n, nil
}
