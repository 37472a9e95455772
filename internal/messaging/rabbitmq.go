package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rogerio-castellano/inventory-dashboard/internal/inventory"
	"github.com/rogerio-castellano/inventory-dashboard/internal/logx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

const (
	contentTypeJSON = "application/json"
	publishTimeout  = 5 * time.Second
)

type Publisher interface {
	Publish(ctx context.Context, event models.ProductEvent) error
}

type RabbitPublisher struct {
	channel *amqp.Channel
	queue   string
}

func NewRabbitPublisher(conn *amqp.Connection, queue string) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue %q: %w", queue, err)
	}

	return &RabbitPublisher{
		channel: ch,
		queue:   queue,
	}, nil
}

func (p *RabbitPublisher) Publish(ctx context.Context, event models.ProductEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.channel.PublishWithContext(
		ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  contentTypeJSON,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.Timestamp,
			Body:         payload,
		},
	); err != nil {
		return fmt.Errorf("publish to %q: %w", p.queue, err)
	}

	return nil
}

func (p *RabbitPublisher) Close() error {
	return p.channel.Close()
}

// Notifier publishes successful product changes applied by the store.
type Notifier struct {
	publisher Publisher
	now       func() time.Time
}

func NewNotifier(p Publisher) *Notifier {
	return &Notifier{publisher: p, now: time.Now}
}

// Observe is an inventory.Observer. Publish failures are logged only.
func (n *Notifier) Observe(ev inventory.Event) {
	event, ok := EventFor(ev, n.now())
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := n.publisher.Publish(ctx, event); err != nil {
		logx.Warn().Err(err).Str("event_type", event.EventType).Int("product_id", event.ProductID).Msg("publish product event failed")
	}
}

// EventFor maps a store event to the message published for it. Failed,
// stale and view-only transitions publish nothing.
func EventFor(ev inventory.Event, at time.Time) (models.ProductEvent, bool) {
	if ev.Err != nil || ev.Stale {
		return models.ProductEvent{}, false
	}

	out := models.ProductEvent{
		ProductID: ev.ProductID,
		Total:     len(ev.Snapshot.Products),
		Timestamp: at.UTC(),
	}
	switch ev.Kind {
	case inventory.EventCreate:
		out.EventType = models.EventCreated
	case inventory.EventUpdate:
		out.EventType = models.EventUpdated
	case inventory.EventDelete:
		out.EventType = models.EventDeleted
	case inventory.EventLoad:
		out.EventType = models.EventReloaded
		out.ProductID = 0
		return out, true
	default:
		return models.ProductEvent{}, false
	}

	if ev.Kind != inventory.EventDelete {
		out.Name = ev.Product.Name
		out.Stock = ev.Product.Stock
	}
	return out, true
}
