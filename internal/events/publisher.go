// Package events публикует доменные события аккаунта в RabbitMQ.
// Публикация best-effort: недоступность брокера не ломает запрос.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"SellerPanelPlatform/pkg/logger"
)

// Типы публикуемых событий
const (
	EventUserRegistered   = "user.registered"
	EventSettingsUpdated  = "settings.updated"
	EventTelegramUnlinked = "telegram.unlinked"
)

// AccountEvent представляет событие аккаунта
type AccountEvent struct {
	EventType string                 `json:"event_type"`
	Timestamp time.Time              `json:"timestamp"`
	Service   string                 `json:"service"`
	UserID    int64                  `json:"user_id"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Publisher определяет публикацию событий аккаунта
type Publisher interface {
	Publish(ctx context.Context, eventType string, userID int64, metadata map[string]interface{}) error
	Close() error
}

// Config представляет конфигурацию publisher
type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// AccountPublisher публикует события аккаунта в RabbitMQ
type AccountPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  *Config
	logger  logger.Logger
}

// NewAccountPublisher создает publisher и объявляет exchange
func NewAccountPublisher(config *Config, log logger.Logger) (*AccountPublisher, error) {
	conn, err := amqp.Dial(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		config.Exchange, // имя exchange
		"topic",         // тип exchange
		true,            // durable
		false,           // auto-delete
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AccountPublisher{
		conn:    conn,
		channel: channel,
		config:  config,
		logger:  log,
	}, nil
}

// Publish публикует событие аккаунта
func (p *AccountPublisher) Publish(ctx context.Context, eventType string, userID int64, metadata map[string]interface{}) error {
	event := &AccountEvent{
		EventType: eventType,
		Timestamp: time.Now(),
		Service:   "account-service",
		UserID:    userID,
		Metadata:  metadata,
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal account event: %w", err)
	}

	routingKey := fmt.Sprintf("%s.%s", p.config.RoutingKey, eventType)

	err = p.channel.PublishWithContext(ctx,
		p.config.Exchange, // exchange
		routingKey,        // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        eventData,
			Headers: amqp.Table{
				"event_type": eventType,
				"user_id":    userID,
				"service":    "account-service",
			},
			Timestamp: time.Now(),
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish account event",
			logger.String("event_type", eventType),
			logger.Int64("user_id", userID),
			logger.Error(err))
		return fmt.Errorf("failed to publish account event: %w", err)
	}

	p.logger.Debug("Account event published",
		logger.String("event_type", eventType),
		logger.String("routing_key", routingKey),
		logger.Int64("user_id", userID))

	return nil
}

// Close закрывает канал и подключение
func (p *AccountPublisher) Close() error {
	if p.channel != nil && !p.channel.IsClosed() {
		if err := p.channel.Close(); err != nil {
			return fmt.Errorf("failed to close channel: %w", err)
		}
	}
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	return nil
}

// NopPublisher заглушка для конфигураций без RabbitMQ
type NopPublisher struct{}

// NewNopPublisher создает заглушку publisher
func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

// Publish ничего не делает
func (p *NopPublisher) Publish(ctx context.Context, eventType string, userID int64, metadata map[string]interface{}) error {
	return nil
}

// Close ничего не делает
func (p *NopPublisher) Close() error {
	return nil
}
