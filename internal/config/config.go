package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/jake-tolleson/544Final/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	GamesPath    string `envconfig:"GAMES_PATH" default:"data/games_flat_xml_2012-2018.csv"`
	RatingsPath  string `envconfig:"RATINGS_PATH" default:"data/TV_Ratings_onesheet.csv"`
	CapacityPath string `envconfig:"CAPACITY_PATH" default:"data/capacity.csv"`

	TeamMatch       string        `envconfig:"TEAM_MATCH" default:"substring"`
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"0"`
	SeriesCacheSize int           `envconfig:"SERIES_CACHE_SIZE" default:"64"`

	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Kafka sink. Enabled when brokers are set unless KAFKA_ENABLED=false.
	KafkaBrokers    []string `envconfig:"KAFKA_BROKERS"`
	KafkaGamesTopic string   `envconfig:"KAFKA_GAMES_TOPIC" default:"enriched-games"`
	KafkaTeamsTopic string   `envconfig:"KAFKA_TEAMS_TOPIC" default:"team-summaries"`
	KafkaEnabledRaw string   `envconfig:"KAFKA_ENABLED"`
	KafkaEnabled    bool     `ignored:"true"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.KafkaBrokers = parseBrokers(cfg.KafkaBrokers)
	cfg.KafkaEnabled = len(cfg.KafkaBrokers) > 0
	if v := strings.TrimSpace(cfg.KafkaEnabledRaw); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid KAFKA_ENABLED %q", v)
		}
		cfg.KafkaEnabled = enabled
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.GamesPath == "" {
		return errors.New("GAMES_PATH is required")
	}
	if c.RatingsPath == "" {
		return errors.New("RATINGS_PATH is required")
	}
	if c.CapacityPath == "" {
		return errors.New("CAPACITY_PATH is required")
	}
	if _, err := domain.NewTeamMatcher(c.TeamMatch); err != nil {
		return fmt.Errorf("invalid TEAM_MATCH: %w", err)
	}
	if c.RefreshInterval < 0 {
		return errors.New("REFRESH_INTERVAL must not be negative")
	}
	if c.SeriesCacheSize <= 0 {
		return errors.New("SERIES_CACHE_SIZE must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if strings.TrimSpace(c.KafkaGamesTopic) == "" {
			return errors.New("KAFKA_GAMES_TOPIC is required")
		}
		if strings.TrimSpace(c.KafkaTeamsTopic) == "" {
			return errors.New("KAFKA_TEAMS_TOPIC is required")
		}
	}
	return nil
}

// parseBrokers trims entries and drops empty ones ("a:9092, ,b:9092").
func parseBrokers(in []string) []string {
	var out []string
	for _, b := range in {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
