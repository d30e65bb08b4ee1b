package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"agency_estimate/config"
	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/domain/invoice"
	"agency_estimate/internal/usecase/interfaces"

	"github.com/rabbitmq/amqp091-go"
)

const (
	EstimateSavedRoutingKey = "estimate.saved"
	publishTimeout          = 5 * time.Second
)

// EstimateSavedMessage is the body of an estimate.saved event. Totals are
// computed at publish time for the convenience of consumers.
type EstimateSavedMessage struct {
	EstimateID string                  `json:"estimate_id"`
	UserID     string                  `json:"user_id"`
	Status     entities.EstimateStatus `json:"status"`
	Selections entities.Selections     `json:"selections"`
	Total      entities.InvoiceTotal   `json:"total"`
	ItemCount  int                     `json:"item_count"`
	Customer   entities.Customer       `json:"customer"`
	SavedAt    time.Time               `json:"saved_at"`
}

func NewEstimateSavedMessage(e entities.Estimate) EstimateSavedMessage {
	return EstimateSavedMessage{
		EstimateID: e.ID,
		UserID:     e.UserID,
		Status:     e.Status,
		Selections: e.Selections,
		Total:      invoice.AggregateGroups(e.Groups),
		ItemCount:  len(invoice.Flatten(e.Groups)),
		Customer:   e.Customer,
		SavedAt:    e.CreatedAt,
	}
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type EstimatePublisher struct {
	conn       *amqp091.Connection
	channel    amqpChannel
	exchange   string
	routingKey string
}

var _ interfaces.IEstimateEventPublisher = (*EstimatePublisher)(nil)

// NewEstimatePublisher dials the broker and declares a durable direct
// exchange with a queue bound on the estimate.saved routing key.
func NewEstimatePublisher(cfg config.AMQPConfig) (*EstimatePublisher, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &EstimatePublisher{
		conn:       conn,
		channel:    channel,
		exchange:   cfg.Exchange,
		routingKey: EstimateSavedRoutingKey,
	}

	if err := setup(channel, cfg.Exchange, cfg.Queue, p.routingKey); err != nil {
		p.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return p, nil
}

func setup(ch *amqp091.Channel, exchange, queue, routingKey string) error {
	err := ch.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(queue, routingKey, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (p *EstimatePublisher) PublishEstimateSaved(ctx context.Context, e entities.Estimate) error {
	body, err := json.Marshal(NewEstimateSavedMessage(e))
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    e.ID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.InfoContext(ctx, "published estimate saved message",
		"estimate_id", e.ID,
		"exchange", p.exchange,
		"routing_key", p.routingKey)
	return nil
}

func (p *EstimatePublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
