package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/rhessys-forcing-etl/internal/config"
	"github.com/couchcryptid/rhessys-forcing-etl/internal/domain"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes daily results to a Kafka topic, one message per day.
// It implements pipeline.ResultLoader.
type Writer struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured results topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, topic: cfg.KafkaTopic, timeout: cfg.KafkaWriteTimeout, logger: logger}
}

// Name identifies the sink in logs.
func (w *Writer) Name() string {
	return "kafka"
}

// LoadResults publishes every daily result in a single WriteMessages call.
// Keys are "<project>:<date>" so a day always lands on the same partition.
func (w *Writer) LoadResults(ctx context.Context, run domain.RunInfo, days []domain.DailyResult) error {
	if len(days) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(days))
	for i := range days {
		msg, err := serializeToMessage(run, days[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish daily results to %s: %w", w.topic, err)
	}
	w.logger.Info("published daily results", "topic", w.topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a DailyResult into a Kafka message.
func serializeToMessage(run domain.RunInfo, day domain.DailyResult) (kafkago.Message, error) {
	data, err := json.Marshal(day)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize daily result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(run.Project + ":" + day.DateKey()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "project", Value: []byte(run.Project)},
			{Key: "run_id", Value: []byte(run.ID)},
			{Key: "samples", Value: []byte(strconv.Itoa(day.Samples))},
		},
	}, nil
}
