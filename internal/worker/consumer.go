package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"farmer/internal/domain"
	"farmer/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxAttempts = 5
	DefaultBackoff     = 30 * time.Second
)

// Consumer retries order notifications that failed inline.
type Consumer struct {
	Reader      *kafka.Reader
	Orders      service.OrderRepository
	Notifier    service.Notifier
	Publisher   service.OrderPublisher
	MaxAttempts int
	// Backoff is the wait before the first retry; it doubles with each attempt.
	Backoff time.Duration
	Log     logrus.FieldLogger
}

func NewConsumer(reader *kafka.Reader, orders service.OrderRepository, notifier service.Notifier, publisher service.OrderPublisher, log logrus.FieldLogger) *Consumer {
	return &Consumer{
		Reader:      reader,
		Orders:      orders,
		Notifier:    notifier,
		Publisher:   publisher,
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     DefaultBackoff,
		Log:         log,
	}
}

// Start consumes until ctx is cancelled. Offsets are committed after a
// message is handled, so a retry interrupted by shutdown is read again.
func (c *Consumer) Start(ctx context.Context) error {
	c.Log.Info("starting notification consumer")
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.Log.WithError(err).Error("error reading message")
			time.Sleep(time.Second)
			continue
		}

		var msg domain.OrderMessage
		if err := json.Unmarshal(message.Value, &msg); err != nil {
			c.Log.WithError(err).Warn("error unmarshaling message")
			c.commit(ctx, message)
			continue
		}
		c.Process(ctx, msg)
		if ctx.Err() != nil {
			return nil
		}
		c.commit(ctx, message)
	}
}

// Process handles a single event; only failed notifications need work.
func (c *Consumer) Process(ctx context.Context, msg domain.OrderMessage) {
	if msg.Type != domain.EventNotificationFailed {
		return
	}
	entry := c.Log.WithFields(logrus.Fields{"order_id": msg.OrderID, "attempt": msg.Attempt})

	if err := c.waitForRetry(ctx, msg); err != nil {
		entry.WithError(err).Warn("stopped before notification retry")
		return
	}

	order, err := c.Orders.GetOrder(ctx, msg.OrderID)
	if err != nil {
		entry.WithError(err).Error("order lookup failed, dropping notification")
		return
	}

	if err := c.Notifier.Notify(ctx, order); err != nil {
		if msg.Attempt >= c.MaxAttempts {
			entry.WithError(err).Error("notification abandoned")
			return
		}
		entry.WithError(err).Warn("notification retry failed")
		msg.Attempt++
		msg.Timestamp = time.Now()
		if err := c.Publisher.PublishOrder(ctx, msg); err != nil {
			entry.WithError(err).Error("notification could not be requeued")
		}
		return
	}

	entry.Info("order notification delivered")
}

func (c *Consumer) commit(ctx context.Context, message kafka.Message) {
	if err := c.Reader.CommitMessages(ctx, message); err != nil {
		c.Log.WithError(err).Warn("error committing offset")
	}
}

// RetryAt is the earliest time msg may be retried: Backoff after it was
// queued, doubled for every earlier attempt.
func (c *Consumer) RetryAt(msg domain.OrderMessage) time.Time {
	if msg.Attempt < 1 || c.Backoff <= 0 {
		return msg.Timestamp
	}
	return msg.Timestamp.Add(c.Backoff << (msg.Attempt - 1))
}

func (c *Consumer) waitForRetry(ctx context.Context, msg domain.OrderMessage) error {
	delay := time.Until(c.RetryAt(msg))
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
