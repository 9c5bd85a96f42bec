package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/domain"
	"github.com/32iterations/hccg-hsinchu-pass-guardian-sub000/module/core/internal/repository/publisher"
)

var _ publisher.AlertPublisher = (*AlertPublisher)(nil)

const (
	exchangeName = "guardian.events"
	queueName    = "care_alerts"
)

type AlertPublisher struct {
	ch *amqp.Channel
}

func NewAlertPublisher(conn *amqp.Connection) (*AlertPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &AlertPublisher{ch: ch}, nil
}

// envelope wraps every care alert with a stable id and a kind tag so the
// consumer can dispatch without sniffing payload fields.
type envelope struct {
	EventID string          `json:"event_id"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

func (p *AlertPublisher) publish(ctx context.Context, kind string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	env, err := json.Marshal(envelope{
		EventID: uuid.NewString(),
		Kind:    kind,
		Payload: body,
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	return p.ch.PublishWithContext(ctx, exchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        env,
	})
}

func (p *AlertPublisher) PublishGeofenceEvent(ctx context.Context, ev *domain.GeofenceEvent) error {
	return p.publish(ctx, string(ev.Type), ev)
}

func (p *AlertPublisher) PublishStatusChange(ctx context.Context, ch *domain.StatusChange) error {
	return p.publish(ctx, "status_change", ch)
}

func (p *AlertPublisher) PublishBeaconEvent(ctx context.Context, ev *domain.BeaconEvent) error {
	return p.publish(ctx, string(ev.Type), ev)
}
