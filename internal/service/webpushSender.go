package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ds124wfegd/abfall-notifier/config"
	"github.com/ds124wfegd/abfall-notifier/internal/entity"

	"github.com/SherClockHolmes/webpush-go"
)

type webpushSender struct {
	options webpush.Options
}

func NewWebPushSender(cfg *config.WebPushConfig) PushSender {
	return &webpushSender{
		options: webpush.Options{
			Subscriber:      cfg.Subscriber,
			VAPIDPublicKey:  cfg.PublicKey,
			VAPIDPrivateKey: cfg.PrivateKey,
			TTL:             cfg.TTL,
		},
	}
}

// Send delivers the payload through the Web Push service behind the
// subscription endpoint. A 404 or 410 response means the browser
// installation is gone for good and is mapped to ErrSubscriptionGone.
func (s *webpushSender) Send(ctx context.Context, sub entity.Subscription, payload []byte) error {
	target := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}

	options := s.options
	resp, err := webpush.SendNotificationWithContext(ctx, payload, target, &options)
	if err != nil {
		return fmt.Errorf("failed to send push message: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("push service returned %d: %w", resp.StatusCode, ErrSubscriptionGone)
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned unexpected status %d", resp.StatusCode)
	}
	return nil
}
