package mq

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	Publish(ctx context.Context, exchange string, routingKey string, body []byte) error
}

type channelPublisher struct {
	ch *amqp.Channel
}

func newChannelPublisher(ch *amqp.Channel) Publisher {
	return &channelPublisher{ch: ch}
}

func (p *channelPublisher) Publish(ctx context.Context, exchange string, routingKey string, body []byte) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}

	return p.ch.PublishWithContext(ctx, exchange, routingKey, false, false, msg)
}
