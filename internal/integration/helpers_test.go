//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("gameday-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// writeTables writes a small three-table data set and returns the paths.
// Two of the three games survive both joins.
func writeTables(t *testing.T) (games, ratings, capacity string) {
	t.Helper()
	dir := t.TempDir()

	games = writeFile(t, dir, "games.csv",
		",TeamIDsDate,date,homename,visname,Matchup_Full_TeamNames,stadium,duration,attend,score_home,score_vis,rush_td_home,pass_td_home,rush_td_vis,pass_td_vis,weather,rank_home,rank_vis",
		`0,8-333-2014-11-29,2014-11-29,Alabama,Auburn,"Auburn Tigers vs. Alabama Crimson Tide",Bryant-Denny Stadium,3:30,"101,821",55,44,3,4,2,4,Sunny,1,15`,
		`1,8-365-2015-11-07,2015-11-07,LSU,Alabama,"Alabama Crimson Tide vs. LSU Tigers",Tiger Stadium,3:07,300000,24,31,2,1,3,1,Partly Cloudy and Humid,character(0),5`,
		`2,235-257-2015-10-31,2015-10-31,Georgia,Florida,"Florida Gators vs. Georgia Bulldogs",EverBank Field,3:10,84000,27,3,2,1,0,0,Rain,11,character(0)`,
	)
	ratings = writeFile(t, dir, "ratings.csv",
		"TeamIDsDate,Network,VIEWERS,RATING",
		`8-333-2014-11-29,CBS,"13,540,000",7.8`,
		"8-365-2015-11-07,CBS,11200000,6.4",
	)
	capacity = writeFile(t, dir, "capacity.csv",
		"homename,stadium,Capacity",
		"Alabama,Bryant-Denny Stadium,101821",
		"LSU,Tiger Stadium,100000",
		"Georgia,Sanford Stadium,92746",
	)
	return games, ratings, capacity
}

func writeFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}
