package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/couchcryptid/warehouse-capacity-map/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Map rendering. RefreshTimeout bounds one shared snapshot rebuild.
	CountryCode    string
	BaseColor      string
	SnapshotTTL    time.Duration
	RefreshTimeout time.Duration

	// Upstream storage summary API.
	SummaryAPIURL    string
	SummaryTimeout   time.Duration
	SummaryCacheSize int
	SummaryCacheTTL  time.Duration

	// Navigation events.
	KafkaBrokers            []string
	KafkaNavigationTopic    string
	NavigationEventsEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	summaryTimeout, err := parsePositiveDuration("SUMMARY_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	summaryCacheTTL, err := parsePositiveDuration("SUMMARY_CACHE_TTL", "1m")
	if err != nil {
		return nil, err
	}
	snapshotTTL, err := parsePositiveDuration("SNAPSHOT_TTL", "30s")
	if err != nil {
		return nil, err
	}
	refreshTimeout, err := parsePositiveDuration("SNAPSHOT_REFRESH_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CountryCode:    strings.ToUpper(sharedcfg.EnvOrDefault("COUNTRY_CODE", domain.IndiaCode)),
		BaseColor:      sharedcfg.EnvOrDefault("BASE_COLOR", "#1976d2"),
		SnapshotTTL:    snapshotTTL,
		RefreshTimeout: refreshTimeout,

		SummaryAPIURL:    sharedcfg.EnvOrDefault("SUMMARY_API_URL", "http://localhost:4000/"),
		SummaryTimeout:   summaryTimeout,
		SummaryCacheSize: parseSummaryCacheSize(),
		SummaryCacheTTL:  summaryCacheTTL,

		KafkaBrokers:            sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaNavigationTopic:    sharedcfg.EnvOrDefault("KAFKA_NAVIGATION_TOPIC", "warehouse-map-navigation"),
		NavigationEventsEnabled: os.Getenv("NAVIGATION_EVENTS_ENABLED") == "true",
	}

	if _, err := domain.DirectoryFor(cfg.CountryCode); err != nil {
		return nil, fmt.Errorf("invalid COUNTRY_CODE: %w", err)
	}
	if _, err := domain.ParseColor(cfg.BaseColor); err != nil {
		return nil, fmt.Errorf("invalid BASE_COLOR: %w", err)
	}
	if u, err := url.Parse(cfg.SummaryAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("invalid SUMMARY_API_URL")
	}
	if cfg.NavigationEventsEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when NAVIGATION_EVENTS_ENABLED is true")
		}
		if cfg.KafkaNavigationTopic == "" {
			return nil, errors.New("KAFKA_NAVIGATION_TOPIC is required when NAVIGATION_EVENTS_ENABLED is true")
		}
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

func parseSummaryCacheSize() int {
	if s := os.Getenv("SUMMARY_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}
