package service

import (
	"context"
	"errors"

	"github.com/ds124wfegd/abfall-notifier/internal/entity"
)

// ErrSubscriptionGone is reported by a PushSender when the push service
// says the subscription is permanently invalid. It is the only condition
// that ever deletes a stored subscription.
var ErrSubscriptionGone = errors.New("subscription gone")

type SubscriptionUseCase interface {
	Register(ctx context.Context, sub *entity.Subscription) (bool, error)
}

type DispatchUseCase interface {
	RunScheduledCycle(ctx context.Context) entity.CycleReport
	SendTestNotification(ctx context.Context, wasteType string) entity.CycleReport
}

// PushSender delivers one encrypted payload to one subscription.
type PushSender interface {
	Send(ctx context.Context, sub entity.Subscription, payload []byte) error
}

// EventSource yields the current pickup events, re-read on every call.
type EventSource interface {
	Load() ([]entity.Event, error)
}

// SubscriptionStore is the registry view the dispatcher and the
// subscribe endpoint need.
type SubscriptionStore interface {
	Register(ctx context.Context, sub *entity.Subscription) (bool, error)
	ListAll(ctx context.Context) ([]entity.Subscription, error)
	Remove(ctx context.Context, endpoint string) error
}
