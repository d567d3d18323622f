// Package scheduler runs unattended roll calls on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zulandar/tenco/internal/config"
	"github.com/zulandar/tenco/internal/rollcall"
)

// fireTimeout bounds one scheduled roll call end to end.
const fireTimeout = 30 * time.Second

// rollCaller is the single rollcall.Service method the scheduler drives.
type rollCaller interface {
	RunScheduled(ctx context.Context, channelID string) error
}

// Scheduler posts a roll call for the full human roster of each configured
// channel at its cron fire times.
type Scheduler struct {
	cron *cron.Cron
	svc  rollCaller
}

// New builds a Scheduler from config entries. Invalid cron expressions are
// rejected up front.
func New(svc rollCaller, entries []config.Schedule) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), svc: svc}
	for _, e := range entries {
		channelID := e.Channel
		if _, err := s.cron.AddFunc(e.Cron, func() { s.fire(channelID) }); err != nil {
			return nil, fmt.Errorf("scheduler: schedule %q for %s: %w", e.Cron, e.Channel, err)
		}
	}
	return s, nil
}

// Run starts the cron loop and blocks until ctx is cancelled, then waits
// for any in-flight roll call to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

// fire performs one scheduled roll call. Failures are logged, never fatal:
// the next fire time gets a fresh attempt.
func (s *Scheduler) fire(channelID string) {
	ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
	defer cancel()

	err := s.svc.RunScheduled(ctx, channelID)
	switch {
	case errors.Is(err, rollcall.ErrNotInChannel):
		log.Printf("scheduler: skip %s: bot is not in the channel", channelID)
	case err != nil:
		log.Printf("scheduler: roll call in %s: %v", channelID, err)
	default:
		log.Printf("scheduler: roll call posted in %s", channelID)
	}
}
