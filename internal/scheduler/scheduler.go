// Package scheduler delivers the single pending scheduled message when
// its time arrives, surviving restarts through the store.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/zshift/tabletop-bot/internal/store"
)

// Sender delivers a message to a channel.
type Sender interface {
	Send(channelID, message string) error
}

// Scheduler arms a one-shot timer for the pending scheduled message. A
// new schedule replaces the previous one.
type Scheduler struct {
	store  *store.Store
	sender Sender

	mu    sync.Mutex
	timer *time.Timer
}

func New(st *store.Store, sender Sender) *Scheduler {
	return &Scheduler{store: st, sender: sender}
}

// Sync re-arms the timer from a persisted schedule, if any. Called once
// at startup.
func (s *Scheduler) Sync(ctx context.Context) error {
	msg, err := s.store.NextScheduled(ctx)
	if err != nil {
		return err
	}
	if msg == nil {
		log.Println("scheduler: no pending message")
		return nil
	}

	log.Printf("scheduler: pending message for channel %s at %s", msg.ChannelID, msg.SendAt)
	s.arm(*msg)
	return nil
}

// Schedule persists msg and arms the timer, replacing any pending
// message.
func (s *Scheduler) Schedule(ctx context.Context, msg store.ScheduledMessage) error {
	if err := s.store.Schedule(ctx, msg); err != nil {
		return err
	}

	s.arm(msg)
	return nil
}

// Stop cancels the armed timer without clearing the persisted schedule,
// so the message is re-armed on the next Sync.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) arm(msg store.ScheduledMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(time.Until(msg.SendAt), func() {
		s.deliver(msg)
	})
}

func (s *Scheduler) deliver(msg store.ScheduledMessage) {
	if err := s.sender.Send(msg.ChannelID, msg.Message); err != nil {
		log.Printf("scheduler: send scheduled message: %v", err)
		return
	}

	log.Printf("scheduler: scheduled message sent to channel %s", msg.ChannelID)

	if err := s.store.ClearSchedule(context.Background()); err != nil {
		log.Printf("scheduler: clear schedule: %v", err)
	}
}
