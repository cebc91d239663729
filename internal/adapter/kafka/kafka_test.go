package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/rhessys-forcing-etl/internal/config"
	"github.com/couchcryptid/rhessys-forcing-etl/internal/domain"
)

type mockMessageWriter struct {
	msgs     []kafkago.Message
	err      error
	deadline bool
	closed   bool
}

func (m *mockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	_, m.deadline = ctx.Deadline()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockMessageWriter) Close() error {
	m.closed = true
	return nil
}

var testRun = domain.RunInfo{ID: "run-1", Project: "mahantango"}

func testDay() domain.DailyResult {
	return domain.DailyResult{
		Date:    time.Date(2010, time.January, 2, 0, 0, 0, 0, time.UTC),
		Samples: 24,
		Rain:    0.004,
		TMin:    -3,
		TMax:    4,
		TAvg:    0.25,
		Ldown:   6800,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSerializeToMessage(t *testing.T) {
	msg, err := serializeToMessage(testRun, testDay())
	require.NoError(t, err)

	assert.Equal(t, []byte("mahantango:2010-01-02"), msg.Key)
	assert.Contains(t, string(msg.Value), `"tmin":-3`)
	assert.Contains(t, string(msg.Value), `"Ldown":6800`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "project", msg.Headers[0].Key)
	assert.Equal(t, []byte("mahantango"), msg.Headers[0].Value)
	assert.Equal(t, "run_id", msg.Headers[1].Key)
	assert.Equal(t, []byte("run-1"), msg.Headers[1].Value)
	assert.Equal(t, "samples", msg.Headers[2].Key)
	assert.Equal(t, []byte("24"), msg.Headers[2].Value)

	var roundtrip domain.DailyResult
	require.NoError(t, json.Unmarshal(msg.Value, &roundtrip))
	assert.Equal(t, testDay(), roundtrip)
}

func TestSerializeToMessage_NaN(t *testing.T) {
	day := testDay()
	day.Rain = math.NaN()
	_, err := serializeToMessage(testRun, day)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serialize daily result")
}

func TestWriter_LoadResults(t *testing.T) {
	mw := &mockMessageWriter{}
	w := &Writer{writer: mw, topic: "daily", timeout: time.Second, logger: discardLogger()}

	second := testDay()
	second.Date = second.Date.AddDate(0, 0, 1)

	require.NoError(t, w.LoadResults(context.Background(), testRun, []domain.DailyResult{testDay(), second}))
	require.Len(t, mw.msgs, 2)
	assert.Equal(t, []byte("mahantango:2010-01-03"), mw.msgs[1].Key)
	assert.True(t, mw.deadline)
}

func TestWriter_LoadResults_Empty(t *testing.T) {
	mw := &mockMessageWriter{}
	w := &Writer{writer: mw, topic: "daily", logger: discardLogger()}

	require.NoError(t, w.LoadResults(context.Background(), testRun, nil))
	assert.Empty(t, mw.msgs)
}

func TestWriter_LoadResults_Error(t *testing.T) {
	mw := &mockMessageWriter{err: errors.New("broker down")}
	w := &Writer{writer: mw, topic: "daily", logger: discardLogger()}

	err := w.LoadResults(context.Background(), testRun, []domain.DailyResult{testDay()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish daily results to daily")
	assert.False(t, mw.deadline)
}

func TestNewWriter(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:      []string{"localhost:9092"},
		KafkaTopic:        "rhessys-daily-forcing",
		KafkaWriteTimeout: 5 * time.Second,
	}
	w := NewWriter(cfg, discardLogger())
	assert.Equal(t, "kafka", w.Name())
	assert.Equal(t, "rhessys-daily-forcing", w.topic)
	assert.Equal(t, 5*time.Second, w.timeout)
	require.NoError(t, w.Close())
}
