package sink

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"streamlab/internal/domain"
)

// Kafka publishes messages to a topic, fire-and-forget from the pipeline's
// point of view. The broker is probed once at construction: if it cannot be
// reached, the sink is permanently disabled and every Emit is a no-op. The
// producer process keeps running on its file-backed sinks either way.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
	enabled  bool
}

func NewKafka(brokers []string, topic string, log *zap.SugaredLogger) *Kafka {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		log.Warnw("kafka unavailable, broker sink disabled", "brokers", brokers, "error", err)
		return &Kafka{topic: topic}
	}

	return &Kafka{producer: producer, topic: topic, enabled: true}
}

// Enabled reports whether the startup probe reached the broker.
func (s *Kafka) Enabled() bool { return s.enabled }

func (s *Kafka) Emit(_ context.Context, msg domain.Message) error {
	if !s.enabled {
		return nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(msg.Author),
		Value: sarama.ByteEncoder(data),
	})

	return err
}

func (s *Kafka) Name() string { return "kafka:" + s.topic }

func (s *Kafka) Close() error {
	if !s.enabled {
		return nil
	}
	return s.producer.Close()
}
