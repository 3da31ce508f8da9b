package audit

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AuditQueue is the durable queue audit events are published to.
const AuditQueue = "audit.events"

// AMQPSink publishes audit events as JSON to a RabbitMQ queue so external
// consumers (compliance, reporting) can tail the engine's state changes.
type AMQPSink struct {
	ch *amqp.Channel
}

// NewAMQPSink declares the durable audit queue on the given channel.
func NewAMQPSink(ch *amqp.Channel) (*AMQPSink, error) {
	_, err := ch.QueueDeclare(
		AuditQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &AMQPSink{ch: ch}, nil
}

func (s *AMQPSink) Record(_ context.Context, ev Event) {
	go s.publish(ev)
}

func (s *AMQPSink) publish(ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		log.Error("audit: failed to marshal event",
			zap.String("eventID", ev.ID.String()),
			zap.Error(err),
		)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = s.ch.PublishWithContext(ctx,
		"",         // default exchange
		AuditQueue, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		log.Error("audit: failed to publish event",
			zap.String("eventID", ev.ID.String()),
			zap.String("eventType", ev.EventType),
			zap.Error(err),
		)
	}
}
