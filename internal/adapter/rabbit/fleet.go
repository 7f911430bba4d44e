package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/models"
	"github.com/arlan-b/fleet-snapshot-system/pkg/logger"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
	"github.com/arlan-b/fleet-snapshot-system/pkg/metrics"
	"github.com/arlan-b/fleet-snapshot-system/pkg/rabbit"
)

const (
	ExchangeFleetFanout = "fleet_fanout"
)

// FleetBroker publishes snapshot events for downstream dispatch collaborators.
type FleetBroker struct {
	client *rabbit.RabbitMQ
	l      logger.Logger
}

func NewFleetBroker(client *rabbit.RabbitMQ, l logger.Logger) *FleetBroker {
	return &FleetBroker{
		client: client,
		l:      l,
	}
}

// Setup declares the fanout exchange. Idempotent.
func (r *FleetBroker) Setup(ctx context.Context) error {
	if err := r.client.Channel.ExchangeDeclare(
		ExchangeFleetFanout,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to declare exchange %s: %w", ExchangeFleetFanout, err))
	}
	return nil
}

func (r *FleetBroker) publish(ctx context.Context, exchange, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:   "application/json",
		Body:          body,
		Timestamp:     time.Now(),
		CorrelationId: wrap.GetRequestID(ctx),
	}

	if err := retry(5, time.Second*2,
		func() error {
			return r.client.Channel.PublishWithContext(
				ctx,
				exchange,
				routingKey,
				false,
				false,
				pub,
			)
		}); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// PublishSnapshotEvent announces a changed snapshot to every consumer bound
// to the fanout exchange.
func (r *FleetBroker) PublishSnapshotEvent(ctx context.Context, msg models.SnapshotEvent) error {
	ctx = wrap.WithAction(ctx, "publish_snapshot_event")

	err := r.publish(ctx, ExchangeFleetFanout, "", msg)
	metrics.RecordRabbitMQPublish("fleet-service", ExchangeFleetFanout, err)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	return nil
}

func retry(n int, sleep time.Duration, fn func() error) error {
	var err error
	for range n {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(sleep)
	}
	return err
}
