package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"sheetchat/internal/model"
)

// ArchivePublisher enqueues completed turn entries on the durable archive
// queue for the worker to persist.
type ArchivePublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewArchivePublisher(conn *amqp.Connection, queueName string) *ArchivePublisher {
	return &ArchivePublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ArchivePublisher) Publish(ctx context.Context, msg model.ArchivedMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal archive entry failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish archive entry failed: %w", err)
	}
	return nil
}
