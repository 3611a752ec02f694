package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/jake-tolleson/544Final/internal/config"
	"github.com/jake-tolleson/544Final/internal/domain"
	"github.com/jake-tolleson/544Final/internal/observability"
	"github.com/jake-tolleson/544Final/internal/pipeline"
)

// Record types carried in the record_type header.
const (
	RecordTypeGame        = "game"
	RecordTypeTeamSummary = "team_summary"
)

// messageWriter is the subset of *kafkago.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes prepared datasets to Kafka: one message per enriched game
// and one per team summary. It implements pipeline.Sink.
type Writer struct {
	writer     messageWriter
	gamesTopic string
	teamsTopic string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured games and teams topics.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return newWriter(w, cfg.KafkaGamesTopic, cfg.KafkaTeamsTopic, logger, metrics)
}

func newWriter(w messageWriter, gamesTopic, teamsTopic string, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	return &Writer{
		writer:     w,
		gamesTopic: gamesTopic,
		teamsTopic: teamsTopic,
		logger:     logger,
		metrics:    metrics,
	}
}

// Publish writes every game and team summary of ds in a single
// WriteMessages call.
func (w *Writer) Publish(ctx context.Context, ds *pipeline.Dataset) error {
	msgs := make([]kafkago.Message, 0, len(ds.Games)+len(ds.Teams))
	for i := range ds.Games {
		msg, err := serializeGame(w.gamesTopic, ds.Games[i], ds.ID, ds.PreparedAt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	for _, s := range ds.Teams {
		msg, err := serializeTeam(w.teamsTopic, s, ds.ID, ds.PreparedAt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish dataset: %w", err)
	}

	w.metrics.MessagesProduced.WithLabelValues(w.gamesTopic).Add(float64(len(ds.Games)))
	w.metrics.MessagesProduced.WithLabelValues(w.teamsTopic).Add(float64(len(ds.Teams)))
	w.logger.Info("dataset published to kafka",
		"dataset_id", ds.ID,
		"games", len(ds.Games),
		"teams", len(ds.Teams),
		"games_topic", w.gamesTopic,
		"teams_topic", w.teamsTopic,
	)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeGame marshals an EnrichedGame keyed by its TeamIDsDate.
func serializeGame(topic string, g domain.EnrichedGame, datasetID string, preparedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize game %s: %w", g.TeamIDsDate, err)
	}
	return newMessage(topic, g.TeamIDsDate, RecordTypeGame, data, datasetID, preparedAt), nil
}

// serializeTeam marshals a TeamSummary keyed by team name.
func serializeTeam(topic string, s domain.TeamSummary, datasetID string, preparedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize team summary %s: %w", s.Team, err)
	}
	return newMessage(topic, s.Team, RecordTypeTeamSummary, data, datasetID, preparedAt), nil
}

func newMessage(topic, key, recordType string, value []byte, datasetID string, preparedAt time.Time) kafkago.Message {
	return kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "record_type", Value: []byte(recordType)},
			{Key: "dataset_id", Value: []byte(datasetID)},
			{Key: "prepared_at", Value: []byte(preparedAt.Format(time.RFC3339))},
		},
	}
}
