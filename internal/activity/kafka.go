package activity

import (
	"context"
	"sync"
	"time"

	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

type producer interface {
	Publish(ctx context.Context, key string, value any) error
	Close() error
}

// KafkaPublisher writes events to Kafka off the request path. A failed write
// is logged and forgotten; it never fails the action that produced it.
type KafkaPublisher struct {
	producer producer
	logger   zerolog.Logger
	wg       sync.WaitGroup
}

func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	return newKafkaPublisher(kafka.NewProducer(brokers, topic), logger)
}

func newKafkaPublisher(p producer, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: p, logger: logger}
}

// Publish sends e in the background. The request context is only used for
// its values; cancellation of the page request does not drop the event.
func (k *KafkaPublisher) Publish(ctx context.Context, e Event) {
	k.wg.Add(1)
	go func() {
		defer k.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := k.producer.Publish(ctx, e.Key(), e); err != nil {
			k.logger.Warn().Err(err).Str("event", string(e.Type)).Msg("failed to publish activity event")
		}
	}()
}

// Close waits for in-flight publishes and closes the writer.
func (k *KafkaPublisher) Close() error {
	k.wg.Wait()
	return k.producer.Close()
}
