package analytics

import (
	"context"
	"log/slog"
	"sync/atomic"

	"lexret/pkg/kafka"
	"lexret/pkg/metrics"
	"lexret/pkg/resilience"
)

// Collector buffers retrieval events and publishes them to Kafka in the
// background. Publishing goes through a circuit breaker so a dead broker
// degrades to dropped events instead of blocking retrieval requests.
type Collector struct {
	producer *kafka.Producer
	breaker  *resilience.CircuitBreaker
	metrics  *metrics.Metrics
	eventCh  chan RetrievalEvent
	logger   *slog.Logger
	done     chan struct{}
	closed   atomic.Bool
}

// NewCollector creates a Collector with the given buffer size. A nil
// metrics is allowed for tests.
func NewCollector(producer *kafka.Producer, m *metrics.Metrics, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	return &Collector{
		producer: producer,
		breaker:  resilience.NewCircuitBreaker("retrieval-events", resilience.DefaultConfig()),
		metrics:  m,
		eventCh:  make(chan RetrievalEvent, bufferSize),
		logger:   slog.Default().With("component", "analytics-collector"),
		done:     make(chan struct{}),
	}
}

// Start launches the publish loop. It drains buffered events on ctx
// cancellation before returning.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				c.publish(ctx, event)
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// Track enqueues an event without blocking. Events are dropped when the
// buffer is full.
func (c *Collector) Track(event RetrievalEvent) {
	if c.closed.Load() {
		c.dropped("collector closed")
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.dropped("buffer full")
	}
}

// Close stops accepting events and waits for the publish loop to finish.
// Safe to call more than once.
func (c *Collector) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	close(c.eventCh)
	<-c.done
}

func (c *Collector) publish(ctx context.Context, event RetrievalEvent) {
	err := c.breaker.Execute(func() error {
		return c.producer.Publish(ctx, kafka.Event{
			Key:   string(event.Type),
			Value: event,
		})
	})
	if err != nil {
		c.dropped(err.Error())
	}
}

func (c *Collector) drainRemaining() {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			c.publish(context.Background(), event)
		default:
			return
		}
	}
}

func (c *Collector) dropped(reason string) {
	if c.metrics != nil {
		c.metrics.EventsDroppedTotal.Inc()
	}
	c.logger.Warn("analytics event dropped", "reason", reason)
}
