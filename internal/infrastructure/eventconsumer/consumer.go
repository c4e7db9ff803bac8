package eventconsumer

import (
	"context"
	"log/slog"
	"time"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/infrastructure/logging"
	"github.com/iho/minibank/internal/infrastructure/metrics"
	"github.com/iho/minibank/internal/usecase"
)

// Handler processes one delivered event. Returning an error leaves the
// event pending for redelivery, so handlers must tolerate replays.
type Handler func(ctx context.Context, event domain.Event) error

// Consumer drives one consumer-group member: it polls a stream on an
// interval, dispatches each event, and acks the ones that were handled.
type Consumer struct {
	bus      usecase.EventBus
	stream   string
	group    string
	name     string
	handler  Handler
	interval time.Duration
	batch    int64
	block    time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Config for Consumer.
type Config struct {
	Bus      usecase.EventBus
	Stream   string
	Group    string
	Name     string
	Handler  Handler
	Interval time.Duration // Polling interval
	Batch    int64         // Events fetched per poll
	Block    time.Duration // Poll block time when the stream is drained
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// NewConsumer creates a new Consumer.
func NewConsumer(cfg Config) *Consumer {
	if cfg.Interval == 0 {
		cfg.Interval = 500 * time.Millisecond
	}
	if cfg.Batch == 0 {
		cfg.Batch = 10
	}
	if cfg.Block == 0 {
		cfg.Block = 100 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Consumer{
		bus:      cfg.Bus,
		stream:   cfg.Stream,
		group:    cfg.Group,
		name:     cfg.Name,
		handler:  cfg.Handler,
		interval: cfg.Interval,
		batch:    cfg.Batch,
		block:    cfg.Block,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// Start runs the consume loop until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.bus.EnsureConsumerGroup(ctx, c.stream, c.group); err != nil {
		return err
	}

	c.logger.Info("event consumer started",
		slog.String("stream", c.stream),
		slog.String("group", c.group),
		slog.String("consumer", c.name))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Drain immediately on start.
	c.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("event consumer shutting down", slog.String("stream", c.stream))
			return ctx.Err()
		case <-ticker.C:
			c.processBatch(ctx)
		}
	}
}

func (c *Consumer) processBatch(ctx context.Context) {
	events, err := c.bus.Poll(ctx, c.stream, c.group, c.name, c.batch, c.block)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if c.metrics != nil {
			c.metrics.PollErrors.WithLabelValues(c.stream).Inc()
		}
		c.logger.Error("poll failed",
			slog.String("stream", c.stream),
			slog.String("error", err.Error()))

		return
	}

	for _, event := range events {
		if c.metrics != nil {
			c.metrics.EventsConsumed.WithLabelValues(c.stream).Inc()
		}

		handlerCtx := ctx
		if txnID := event.Values["transactionId"]; txnID != "" {
			handlerCtx = context.WithValue(ctx, logging.TransactionIDKey, txnID)
		}

		if err := c.handler(handlerCtx, event); err != nil {
			// No ack: the entry stays pending and is redelivered.
			c.logger.Error("event handling failed",
				slog.String("stream", c.stream),
				slog.String("event_id", event.ID),
				slog.String("error", err.Error()))

			continue
		}

		if err := c.bus.Ack(ctx, c.stream, c.group, event.ID); err != nil {
			// The handler is idempotent, so a redelivery after a lost
			// ack is harmless.
			c.logger.Error("ack failed",
				slog.String("stream", c.stream),
				slog.String("event_id", event.ID),
				slog.String("error", err.Error()))

			continue
		}

		if c.metrics != nil {
			c.metrics.EventsAcked.WithLabelValues(c.stream).Inc()
		}
	}
}
