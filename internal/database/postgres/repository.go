package postgres

import (
	"context"

	"github.com/ds124wfegd/abfall-notifier/internal/entity"
)

type SubscriptionRepositoryInterface interface {
	Register(ctx context.Context, sub *entity.Subscription) (bool, error)
	ListAll(ctx context.Context) ([]entity.Subscription, error)
	Remove(ctx context.Context, endpoint string) error
}

type DispatchLogRepositoryInterface interface {
	MarkDispatched(ctx context.Context, day string) (bool, error)
}
