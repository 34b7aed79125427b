package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	maxConnectRetries = 5
	publishTimeout    = 5 * time.Second
)

// RabbitMQ holds one connection and channel used for publishing.
type RabbitMQ struct {
	url    string
	conn   *amqp.Connection
	ch     *amqp.Channel
	log    *zap.Logger
	mu     sync.RWMutex
	closed bool
}

// NewRabbitMQ connects with backoff and declares exchange as a durable topic.
func NewRabbitMQ(ctx context.Context, url, exchange string, log *zap.Logger) (*RabbitMQ, error) {
	mq := &RabbitMQ{
		url: url,
		log: log.With(zap.String("component", "rabbitmq")),
	}

	retryDelay := 1 * time.Second

	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		err := mq.connect(exchange)
		if err == nil {
			mq.log.Info("RabbitMQ connected",
				zap.Int("attempt", attempt),
				zap.String("exchange", exchange))
			return mq, nil
		}

		mq.log.Warn("RabbitMQ connection attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxConnectRetries),
			zap.Duration("retry_in", retryDelay),
			zap.Error(err))

		if attempt == maxConnectRetries {
			return nil, fmt.Errorf("connect rabbitmq after %d attempts: %w", maxConnectRetries, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
			retryDelay = min(time.Duration(float64(retryDelay)*1.5), 30*time.Second)
		}
	}

	return nil, fmt.Errorf("connect rabbitmq: retry loop exhausted")
}

func (mq *RabbitMQ) connect(exchange string) error {
	conn, err := amqp.Dial(mq.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	mq.mu.Lock()
	mq.conn = conn
	mq.ch = ch
	mq.mu.Unlock()

	return nil
}

// Publish sends a persistent JSON message to exchange.
func (mq *RabbitMQ) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	mq.mu.RLock()
	ch := mq.ch
	mq.mu.RUnlock()

	if ch == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return ch.PublishWithContext(
		publishCtx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

func (mq *RabbitMQ) Close() {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return
	}
	mq.closed = true

	if mq.ch != nil {
		_ = mq.ch.Close()
	}
	if mq.conn != nil {
		_ = mq.conn.Close()
	}

	mq.log.Info("RabbitMQ connection closed")
}
