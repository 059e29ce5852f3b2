package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON keyed by user id.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaWriter builds a writer for a comma separated broker list.
func NewKafkaWriter(brokers, topic string) *kafka.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	addrs := make([]string, 0)
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

// NewKafkaPublisher wraps a kafka writer.
func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return newKafkaPublisher(w)
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w, now: time.Now}
}

// PublishPredictionPlaced marshals e and writes it.
func (p *KafkaPublisher) PublishPredictionPlaced(ctx context.Context, e PredictionPlaced) error {
	if e.TsUnixMs == 0 {
		e.TsUnixMs = p.now().UnixMilli()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal prediction event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(e.UserID),
		Value: payload,
		Time:  p.now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish prediction event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
