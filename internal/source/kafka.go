package source

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"streamlab/internal/domain"
)

// Kafka polls a topic under a named consumer group. The group starts at the
// latest offset: anything published before the first poll is never seen by
// this group, an accepted at-most-once tradeoff. Like the sink, the broker
// is probed once at construction and an unreachable broker leaves the
// source permanently disabled.
type Kafka struct {
	group   sarama.ConsumerGroup
	topic   string
	wait    time.Duration
	enabled bool
	log     *zap.SugaredLogger
}

func NewKafka(brokers []string, groupID, topic string, wait time.Duration, log *zap.SugaredLogger) *Kafka {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		log.Warnw("kafka unavailable, broker source disabled", "brokers", brokers, "error", err)
		return &Kafka{topic: topic, wait: wait, log: log}
	}

	return &Kafka{group: group, topic: topic, wait: wait, enabled: true, log: log}
}

// Enabled reports whether the startup probe reached the broker.
func (s *Kafka) Enabled() bool { return s.enabled }

// Poll runs one bounded consume pass and returns whatever arrived before the
// deadline. Connection or decode failures surrender the rest of the pass but
// keep what was already collected; partial results are valid.
func (s *Kafka) Poll(ctx context.Context) ([]domain.Message, error) {
	if !s.enabled {
		return nil, nil
	}

	pollCtx, cancel := context.WithTimeout(ctx, s.wait)
	defer cancel()

	collector := &collector{log: s.log, source: s.Name()}
	err := s.group.Consume(pollCtx, []string{s.topic}, collector)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		s.log.Warnw("kafka poll failed", "source", s.Name(), "error", err)
	}

	return collector.take(), nil
}

func (s *Kafka) Name() string { return "kafka:" + s.topic }

func (s *Kafka) Close() error {
	if !s.enabled {
		return nil
	}
	return s.group.Close()
}

// collector gathers messages for the duration of one consume pass. Claims
// for different partitions run on separate goroutines, hence the mutex.
type collector struct {
	mu       sync.Mutex
	messages []domain.Message
	log      *zap.SugaredLogger
	source   string
}

func (c *collector) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (c *collector) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (c *collector) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for record := range claim.Messages() {
		var msg domain.Message
		if err := json.Unmarshal(record.Value, &msg); err != nil {
			c.log.Warnw("skipping undecodable record", "source", c.source, "offset", record.Offset, "error", err)
			session.MarkMessage(record, "")
			continue
		}

		c.mu.Lock()
		c.messages = append(c.messages, msg)
		c.mu.Unlock()

		session.MarkMessage(record, "")
	}
	return nil
}

func (c *collector) take() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages
}
