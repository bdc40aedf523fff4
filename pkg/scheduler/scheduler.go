// Package scheduler fires the daily notification cycle at a fixed local
// wall-clock time.
package scheduler

import (
	"context"
	"time"

	"github.com/ds124wfegd/abfall-notifier/internal/entity"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Dispatcher interface {
	RunScheduledCycle(ctx context.Context) entity.CycleReport
}

// DispatchLog records which calendar days have already been dispatched,
// so a restart around the trigger time cannot duplicate a cycle.
type DispatchLog interface {
	MarkDispatched(ctx context.Context, day string) (bool, error)
}

type Scheduler struct {
	dispatcher Dispatcher
	log        DispatchLog
	spec       string
	loc        *time.Location
	c          *cron.Cron
}

func NewScheduler(dispatcher Dispatcher, log DispatchLog, spec string, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		dispatcher: dispatcher,
		log:        log,
		spec:       spec,
		loc:        loc,
	}
}

func (s *Scheduler) Start() error {
	s.c = cron.New(cron.WithLocation(s.loc))
	if _, err := s.c.AddFunc(s.spec, func() {
		s.runOnce(context.Background())
	}); err != nil {
		return err
	}
	s.c.Start()
	logrus.Infof("Scheduler started with spec %q in %s", s.spec, s.loc)
	return nil
}

func (s *Scheduler) Stop() {
	if s.c != nil {
		s.c.Stop()
	}
}

// runOnce claims today in the dispatch log before running the cycle. A
// day that was already claimed is skipped. A missed trigger (process
// down at 20:00) is not backfilled.
func (s *Scheduler) runOnce(ctx context.Context) {
	day := time.Now().In(s.loc).Format(entity.DateLayout)

	claimed, err := s.log.MarkDispatched(ctx, day)
	if err != nil {
		// Guard degraded, still run: a possible duplicate beats a
		// silently skipped reminder.
		logrus.Errorf("Error marking dispatch day %s: %v", day, err)
	} else if !claimed {
		logrus.Infof("Cycle for %s already dispatched, skipping", day)
		return
	}

	logrus.Info("Running scheduled task")
	s.dispatcher.RunScheduledCycle(ctx)
}
