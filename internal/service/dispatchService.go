package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ds124wfegd/abfall-notifier/internal/entity"

	"github.com/sirupsen/logrus"
)

type dispatchService struct {
	store  SubscriptionStore
	events EventSource
	sender PushSender
	loc    *time.Location
}

func NewDispatchService(store SubscriptionStore, events EventSource, sender PushSender, loc *time.Location) DispatchUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &dispatchService{
		store:  store,
		events: events,
		sender: sender,
		loc:    loc,
	}
}

// RunScheduledCycle reminds every subscriber of every pickup scheduled
// for tomorrow. The report is returned only after each send attempt has
// resolved.
func (s *dispatchService) RunScheduledCycle(ctx context.Context) entity.CycleReport {
	events := s.loadEvents()

	tomorrow := time.Now().In(s.loc).AddDate(0, 0, 1).Format(entity.DateLayout)
	var matching []entity.Event
	for _, event := range events {
		day, err := event.Day()
		if err != nil {
			logrus.Warnf("Skipping event with unparseable date %q: %v", event.Date, err)
			continue
		}
		if day == tomorrow {
			matching = append(matching, event)
		}
	}

	if len(matching) == 0 {
		logrus.Info("No events tomorrow")
		return entity.CycleReport{}
	}

	payloads := make([]entity.NotificationPayload, 0, len(matching))
	for _, event := range matching {
		payloads = append(payloads, GenerateNotification(event.Type, event.Date))
	}

	report := s.dispatch(ctx, payloads)
	report.Events = len(matching)

	logrus.WithFields(logrus.Fields{
		"events":    report.Events,
		"attempted": report.Attempted,
		"delivered": report.Delivered,
		"removed":   report.Removed,
		"failed":    report.Failed,
	}).Info("Notification cycle completed")

	return report
}

// SendTestNotification delivers one synthetic notification of the given
// waste type to every subscriber, bypassing the date filter. An empty
// type picks one of the known categories at random.
func (s *dispatchService) SendTestNotification(ctx context.Context, wasteType string) entity.CycleReport {
	if wasteType == "" {
		wasteType = WasteTypes[rand.Intn(len(WasteTypes))]
	}

	label := time.Now().In(s.loc).Format(entity.DateLayout)
	payload := GenerateNotification(wasteType, label)

	report := s.dispatch(ctx, []entity.NotificationPayload{payload})
	report.Events = 1
	return report
}

// loadEvents degrades a missing or corrupt dataset to an empty cycle.
// A broken file must never abort the dispatch.
func (s *dispatchService) loadEvents() []entity.Event {
	events, err := s.events.Load()
	if err != nil {
		logrus.Errorf("Error loading events: %v", err)
		return nil
	}
	if len(events) == 0 {
		logrus.Info("No events found")
	}
	return events
}

// dispatch sends every payload to every current subscription. Sends run
// concurrently and independently; one failure never cancels the others.
func (s *dispatchService) dispatch(ctx context.Context, payloads []entity.NotificationPayload) entity.CycleReport {
	subs, err := s.store.ListAll(ctx)
	if err != nil {
		logrus.Errorf("Error loading subscriptions: %v", err)
		return entity.CycleReport{}
	}

	var delivered, removed, failed atomic.Int64
	var wg sync.WaitGroup

	for _, sub := range subs {
		for _, payload := range payloads {
			wg.Add(1)
			go func(sub entity.Subscription, payload entity.NotificationPayload) {
				defer wg.Done()
				switch s.deliver(ctx, sub, payload) {
				case deliveryOK:
					delivered.Add(1)
				case deliveryGone:
					removed.Add(1)
				case deliveryFailed:
					failed.Add(1)
				}
			}(sub, payload)
		}
	}
	wg.Wait()

	return entity.CycleReport{
		Attempted: len(subs) * len(payloads),
		Delivered: int(delivered.Load()),
		Removed:   int(removed.Load()),
		Failed:    int(failed.Load()),
	}
}

type deliveryOutcome int

const (
	deliveryOK deliveryOutcome = iota
	deliveryGone
	deliveryFailed
)

func (s *dispatchService) deliver(ctx context.Context, sub entity.Subscription, payload entity.NotificationPayload) deliveryOutcome {
	data, err := json.Marshal(payload)
	if err != nil {
		logrus.Errorf("Error encoding notification payload: %v", err)
		return deliveryFailed
	}

	err = s.sender.Send(ctx, sub, data)
	if err == nil {
		return deliveryOK
	}

	if errors.Is(err, ErrSubscriptionGone) {
		logrus.Infof("Subscription expired or no longer valid: %s", truncateEndpoint(sub.Endpoint))
		if err := s.store.Remove(ctx, sub.Endpoint); err != nil {
			logrus.Errorf("Error removing expired subscription: %v", err)
		}
		return deliveryGone
	}

	logrus.Errorf("Error sending notification to %s: %v", truncateEndpoint(sub.Endpoint), err)
	return deliveryFailed
}
