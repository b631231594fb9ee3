package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"sheetchat/internal/model"
	"sheetchat/internal/repository"
)

// ArchiveWorker drains the turn-archive queue and persists entries via gorm.
// Archiving is decoupled from the chat path so a slow database never stalls
// a streaming turn.
type ArchiveWorker struct {
	conn      *amqp.Connection
	repo      *repository.ArchiveRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewArchiveWorker(conn *amqp.Connection, repo *repository.ArchiveRepository, queueName string) *ArchiveWorker {
	return &ArchiveWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *ArchiveWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var msg model.ArchivedMessage
				if err := json.Unmarshal(d.Body, &msg); err != nil {
					log.Printf("worker decode archive entry failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.repo.Create(&msg); err != nil {
					log.Printf("worker persist archive entry failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *ArchiveWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
