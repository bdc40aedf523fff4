package service

import (
	"context"

	"github.com/ds124wfegd/abfall-notifier/internal/entity"

	"github.com/sirupsen/logrus"
)

type subscriptionUseCase struct {
	store SubscriptionStore
}

func NewSubscriptionUseCase(store SubscriptionStore) SubscriptionUseCase {
	return &subscriptionUseCase{store: store}
}

// Register stores the subscription and reports whether it was new.
// Registering an endpoint twice is an idempotent success, not an error.
func (uc *subscriptionUseCase) Register(ctx context.Context, sub *entity.Subscription) (bool, error) {
	created, err := uc.store.Register(ctx, sub)
	if err != nil {
		return false, err
	}

	if created {
		logrus.WithField("endpoint", truncateEndpoint(sub.Endpoint)).Info("New subscription registered")
	}
	return created, nil
}

// truncateEndpoint shortens push endpoints for logging; the full URL
// carries routing secrets and is very long.
func truncateEndpoint(endpoint string) string {
	if len(endpoint) > 50 {
		return endpoint[:50] + "..."
	}
	return endpoint
}
