package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const connectionName = "visualizer"

type Config struct {
	URL string `mapstructure:"url"`
}

// RabbitMQ owns the broker connection; publishers and consumers each get
// their own channel off it.
type RabbitMQ struct {
	conn   *amqp.Connection
	logger *zap.Logger
}

func NewConnection(cfg Config, logger *zap.Logger) (*RabbitMQ, error) {
	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Properties: amqp.Table{"connection_name": connectionName},
	})
	if err != nil {
		// The URL carries credentials, so it stays out of the log.
		logger.Error("RabbitMQ dial failed", zap.Error(err))
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	logger.Info("Connected to RabbitMQ")

	return &RabbitMQ{conn: conn, logger: logger}, nil
}

func (r *RabbitMQ) openChannel() (*amqp.Channel, error) {
	if r.conn == nil || r.conn.IsClosed() {
		return nil, fmt.Errorf("rabbitmq connection is closed")
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return ch, nil
}

// DeclareTopology creates the work queues as durable quorum queues so queued
// reconcile commands survive a broker restart.
func (r *RabbitMQ) DeclareTopology(queues []string) error {
	ch, err := r.openChannel()
	if err != nil {
		return err
	}
	defer ch.Close()

	args := amqp.Table{"x-queue-type": "quorum"}

	for _, queue := range queues {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, args); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		r.logger.Info("Queue declared", zap.String("queue", queue))
	}

	return nil
}

func (r *RabbitMQ) CreatePublisher() (Publisher, error) {
	ch, err := r.openChannel()
	if err != nil {
		return nil, err
	}

	return newChannelPublisher(ch), nil
}

func (r *RabbitMQ) CreateConsumer() (Consumer, error) {
	ch, err := r.openChannel()
	if err != nil {
		return nil, err
	}

	return newChannelConsumer(ch), nil
}

func (r *RabbitMQ) Close() error {
	if r.conn != nil && !r.conn.IsClosed() {
		return r.conn.Close()
	}

	return nil
}
