package events

import (
	"context"

	"github.com/fsdevblog/transactions-service/internal/broadcast"
	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// StreamWriter подмножество *redis.Client, нужное для записи в поток.
type StreamWriter interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type Source interface {
	Subscribe() (*broadcast.Subscription[domain.Transaction], error)
}
