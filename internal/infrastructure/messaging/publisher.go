// Package messaging publishes notification messages to a RabbitMQ topic
// exchange so external delivery workers (email gateway, webhook relays)
// can consume them.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/notification"
	"github.com/orderhub/backend/internal/infrastructure/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

// NotificationMessage is the wire contract for fanned-out notifications
type NotificationMessage struct {
	NotificationID uuid.UUID  `json:"notification_id"`
	RecipientID    uuid.UUID  `json:"recipient_id"`
	Channel        string     `json:"channel"`
	Category       string     `json:"category"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body"`
	RefType        string     `json:"ref_type,omitempty"`
	RefID          *uuid.UUID `json:"ref_id,omitempty"`
	Timestamp      time.Time  `json:"timestamp"`
}

// NotificationPublisher fans notifications out to external consumers
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, n *notification.Notification) error
	Close() error
}

// AMQPPublisher implements NotificationPublisher over RabbitMQ
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewAMQPPublisher connects to the broker and declares the topic exchange
func NewAMQPPublisher(cfg config.MessagingConfig, logger *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	return &AMQPPublisher{
		conn:     conn,
		ch:       ch,
		exchange: cfg.Exchange,
		logger:   logger,
	}, nil
}

// PublishNotification publishes a notification to the topic exchange. The
// routing key is "notification.<channel>.<category>", e.g.
// "notification.email.order".
func (p *AMQPPublisher) PublishNotification(ctx context.Context, n *notification.Notification) error {
	msg := NotificationMessage{
		NotificationID: n.ID,
		RecipientID:    n.RecipientID,
		Channel:        string(n.Channel),
		Category:       string(n.Category),
		Subject:        n.Subject,
		Body:           n.Body,
		RefType:        n.RefType,
		RefID:          n.RefID,
		Timestamp:      time.Now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification message: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		routingKey(n),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    n.ID.String(),
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	p.logger.Debug("published notification",
		zap.String("notification_id", n.ID.String()),
		zap.String("routing_key", routingKey(n)),
	)
	return nil
}

func routingKey(n *notification.Notification) string {
	channel := "inapp"
	if n.Channel == notification.ChannelEmail {
		channel = "email"
	}
	return fmt.Sprintf("notification.%s.%s", channel, categorySegment(n.Category))
}

func categorySegment(c notification.Category) string {
	if c == "" {
		return "general"
	}
	return strings.ToLower(string(c))
}

// Close closes the channel and the connection
func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

var _ NotificationPublisher = (*AMQPPublisher)(nil)

// NopPublisher is used when messaging is disabled. Notifications stay in
// the database and are served in-app only.
type NopPublisher struct{}

// NewNopPublisher creates a no-op notification publisher
func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

// PublishNotification does nothing
func (p *NopPublisher) PublishNotification(context.Context, *notification.Notification) error {
	return nil
}

// Close does nothing
func (p *NopPublisher) Close() error {
	return nil
}

var _ NotificationPublisher = (*NopPublisher)(nil)
