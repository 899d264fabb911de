// Package events пересылает зафиксированные транзакции во внешний поток Redis.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/transactions-service/internal/broadcast"
	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	defaultWriteTimeout   = 3 * time.Second
	defaultResubscribeGap = time.Second
)

// Relay подписывается на хаб и записывает каждую транзакцию в поток Redis через XADD.
// Ошибки записи логируются, повторных попыток нет.
type Relay struct {
	writer StreamWriter
	source Source
	stream string
	now    func() time.Time
	l      *logrus.Entry
}

func NewRelay(writer StreamWriter, source Source, stream string, l *logrus.Logger) *Relay {
	if stream == "" {
		stream = DefaultStream
	}
	return &Relay{
		writer: writer,
		source: source,
		stream: stream,
		now:    time.Now,
		l: l.WithFields(logrus.Fields{
			"component": "events",
			"module":    "relay",
		}),
	}
}

// Run читает подписку до отмены контекста или закрытия хаба.
// Если подписку отключили за медленную запись, Run подписывается заново.
func (r *Relay) Run(ctx context.Context) {
	r.l.WithField("stream", r.stream).Info("Starting")

	for {
		sub, err := r.source.Subscribe()
		if err != nil {
			if errors.Is(err, broadcast.ErrClosed) {
				r.l.Info("Broadcaster closed, exiting...")
				return
			}
			r.l.WithError(err).Error("subscribe")
			return
		}

		if stop := r.consume(ctx, sub); stop {
			return
		}

		r.l.Warn("subscription dropped, resubscribing")
		select {
		case <-ctx.Done():
			return
		case <-time.After(defaultResubscribeGap):
		}
	}
}

// consume возвращает true, если работу нужно завершить.
func (r *Relay) consume(ctx context.Context, sub *broadcast.Subscription[domain.Transaction]) bool {
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			r.l.Info("Got stop signal, exiting...")
			return true
		case tx, ok := <-sub.C():
			if !ok {
				return false
			}
			if err := r.write(ctx, tx); err != nil {
				r.l.WithError(err).WithField("transactionID", tx.ID).Error("relay transaction")
			}
		}
	}
}

func (r *Relay) write(ctx context.Context, tx domain.Transaction) error {
	event := Event{
		Type:      TransactionCreated,
		Timestamp: r.now().UTC(),
		Data:      newTransactionCreatedEvent(tx),
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	args := &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"event": string(eventJSON),
		},
	}
	if _, err = r.writer.XAdd(writeCtx, args).Result(); err != nil {
		return fmt.Errorf("xadd to `%s`: %w", r.stream, err)
	}
	return nil
}
