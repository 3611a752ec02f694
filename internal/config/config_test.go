package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/games_flat_xml_2012-2018.csv", cfg.GamesPath)
	assert.Equal(t, "data/TV_Ratings_onesheet.csv", cfg.RatingsPath)
	assert.Equal(t, "data/capacity.csv", cfg.CapacityPath)
	assert.Equal(t, "substring", cfg.TeamMatch)
	assert.Zero(t, cfg.RefreshInterval)
	assert.Equal(t, 64, cfg.SeriesCacheSize)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, "enriched-games", cfg.KafkaGamesTopic)
	assert.Equal(t, "team-summaries", cfg.KafkaTeamsTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("GAMES_PATH", "/srv/games.xlsx")
	t.Setenv("RATINGS_PATH", "/srv/ratings.csv")
	t.Setenv("CAPACITY_PATH", "/srv/capacity.csv")
	t.Setenv("TEAM_MATCH", "exact")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("SERIES_CACHE_SIZE", "8")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_GAMES_TOPIC", "games")
	t.Setenv("KAFKA_TEAMS_TOPIC", "teams")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/games.xlsx", cfg.GamesPath)
	assert.Equal(t, "/srv/ratings.csv", cfg.RatingsPath)
	assert.Equal(t, "/srv/capacity.csv", cfg.CapacityPath)
	assert.Equal(t, "exact", cfg.TeamMatch)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 8, cfg.SeriesCacheSize)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, "games", cfg.KafkaGamesTopic)
	assert.Equal(t, "teams", cfg.KafkaTeamsTopic)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantVar string
	}{
		{"shutdown timeout not a duration", map[string]string{"SHUTDOWN_TIMEOUT": "not-a-duration"}, "SHUTDOWN_TIMEOUT"},
		{"negative shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "-1s"}, "SHUTDOWN_TIMEOUT"},
		{"negative refresh", map[string]string{"REFRESH_INTERVAL": "-5m"}, "REFRESH_INTERVAL"},
		{"refresh not a duration", map[string]string{"REFRESH_INTERVAL": "hourly"}, "REFRESH_INTERVAL"},
		{"zero cache", map[string]string{"SERIES_CACHE_SIZE": "0"}, "SERIES_CACHE_SIZE"},
		{"cache not a number", map[string]string{"SERIES_CACHE_SIZE": "lots"}, "SERIES_CACHE_SIZE"},
		{"unknown match mode", map[string]string{"TEAM_MATCH": "fuzzy"}, "TEAM_MATCH"},
		{"empty games path", map[string]string{"GAMES_PATH": ""}, "GAMES_PATH"},
		{"kafka enabled without brokers", map[string]string{"KAFKA_ENABLED": "true"}, "KAFKA_BROKERS"},
		{"kafka enabled not a bool", map[string]string{"KAFKA_ENABLED": "maybe"}, "KAFKA_ENABLED"},
		{"empty games topic", map[string]string{"KAFKA_BROKERS": testBroker, "KAFKA_GAMES_TOPIC": " "}, "KAFKA_GAMES_TOPIC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantVar)
		})
	}
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", testBroker)
	t.Setenv("KAFKA_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{testBroker}, cfg.KafkaBrokers)
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, parseBrokers([]string{" a:1", "", " ", "b:2 "}))
	assert.Nil(t, parseBrokers(nil))
}
