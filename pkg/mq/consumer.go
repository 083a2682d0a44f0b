package mq

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultPrefetch = 1
	drainGrace      = 50 * time.Millisecond
)

type Handle func(ctx context.Context, body []byte) error

// Consumer delivers queue messages to a handler. A nil handler error acks the
// delivery; an error wrapped with Temporary nacks it back onto the queue, any
// other error drops it.
type Consumer interface {
	Consume(ctx context.Context, prefetch int, queue string, handler Handle) error
}

type channelConsumer struct {
	ch *amqp.Channel
}

func newChannelConsumer(ch *amqp.Channel) Consumer {
	return &channelConsumer{ch: ch}
}

func (c *channelConsumer) Consume(ctx context.Context, prefetch int, queue string, handler Handle) error {
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}

	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return err
	}

	tag := queue + ".worker"

	deliveries, err := c.ch.Consume(queue, tag, false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = c.ch.Cancel(tag, false)
			time.Sleep(drainGrace)
			return ctx.Err()

		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			if err := handler(ctx, d.Body); err != nil {
				_ = d.Nack(false, shouldRequeue(err))
				continue
			}

			_ = d.Ack(false)
		}
	}
}

func shouldRequeue(err error) bool {
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}
