package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/rhessys-forcing-etl/internal/domain"
)

// Config holds converter settings, populated from environment variables.
// Sinks and metric exports are optional and disabled when their variable is empty.
type Config struct {
	LogLevel      string
	LogFormat     string
	SeriesMapping domain.SeriesMapping

	KafkaBrokers      []string
	KafkaTopic        string
	KafkaWriteTimeout time.Duration

	SQLitePath string

	MetricsTextfile string
	PushgatewayURL  string
	PushgatewayJob  string
}

// KafkaEnabled reports whether daily results should be published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is read first when present; variables
// already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	logLevel := strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "info"))
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", logLevel)
	}

	logFormat := strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "text"))
	if logFormat != "text" && logFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", logFormat)
	}

	mapping, err := domain.ParseSeriesMapping(sharedcfg.EnvOrDefault("SERIES_MAPPING", string(domain.SeriesMappingCorrected)))
	if err != nil {
		return nil, fmt.Errorf("invalid SERIES_MAPPING: %w", err)
	}

	writeTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("KAFKA_WRITE_TIMEOUT", "10s"))
	if err != nil || writeTimeout <= 0 {
		return nil, errors.New("invalid KAFKA_WRITE_TIMEOUT")
	}

	pushURL := os.Getenv("PUSHGATEWAY_URL")
	if pushURL != "" {
		u, err := url.Parse(pushURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid PUSHGATEWAY_URL %q", pushURL)
		}
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		LogLevel:          logLevel,
		LogFormat:         logFormat,
		SeriesMapping:     mapping,
		KafkaBrokers:      brokers,
		KafkaTopic:        sharedcfg.EnvOrDefault("KAFKA_TOPIC", "rhessys-daily-forcing"),
		KafkaWriteTimeout: writeTimeout,
		SQLitePath:        os.Getenv("SQLITE_PATH"),
		MetricsTextfile:   os.Getenv("METRICS_TEXTFILE"),
		PushgatewayURL:    pushURL,
		PushgatewayJob:    sharedcfg.EnvOrDefault("PUSHGATEWAY_JOB", "rhessys_forcing_convert"),
	}

	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if cfg.PushgatewayURL != "" && cfg.PushgatewayJob == "" {
		return nil, errors.New("PUSHGATEWAY_JOB is required when PUSHGATEWAY_URL is set")
	}

	return cfg, nil
}
