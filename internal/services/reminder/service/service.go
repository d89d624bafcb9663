// Package service implements the reminder loop. It polls stored schedules and
// fires a notification when a schedule's reminder time comes due
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lichhen/internal/platform/logger"
	"lichhen/internal/platform/vntime"
	remdom "lichhen/internal/services/reminder/domain"
	scheddom "lichhen/internal/services/schedules/domain"
)

// Config for the reminder service
type Config struct {
	// Every is the poll interval, 0 means one minute
	Every time.Duration
	// Window is how far a reminder time may drift from now and still fire,
	// 0 means one minute
	Window time.Duration
}

// Service polls schedules and notifies when reminders come due
type Service struct {
	Store    scheddom.ReaderPort
	Notifier remdom.NotifierPort
	Cfg      Config

	now func() time.Time

	mu       sync.Mutex
	notified map[int64]struct{}
}

// Option mutates the service during New
type Option func(*Service)

// WithClock overrides the reference clock, tests pin it
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// New constructs a reminder service
func New(store scheddom.ReaderPort, notifier remdom.NotifierPort, cfg Config, opts ...Option) *Service {
	if cfg.Every <= 0 {
		cfg.Every = time.Minute
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	s := &Service{
		Store:    store,
		Notifier: notifier,
		Cfg:      cfg,
		now:      vntime.Now,
		notified: make(map[int64]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run polls until ctx is done
func (s *Service) Run(ctx context.Context) error {
	log := logger.Named("reminder")
	log.Info().Dur("every", s.Cfg.Every).Msg("reminder loop started")

	t := time.NewTicker(s.Cfg.Every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reminder loop stopped")
			return ctx.Err()
		case <-t.C:
			if err := s.CheckOnce(ctx, s.now()); err != nil {
				log.Warn().Err(err).Msg("reminder sweep failed")
			}
		}
	}
}

// CheckOnce runs one sweep against now. Exposed so tests can drive the loop
// without a ticker
func (s *Service) CheckOnce(ctx context.Context, now time.Time) error {
	schedules, err := s.Store.LoadAll(ctx)
	if err != nil {
		return err
	}

	for _, sc := range schedules {
		if sc.StartTime == nil {
			continue
		}
		remindAt := sc.StartTime.Add(-time.Duration(sc.ReminderMinutes) * time.Minute)
		drift := now.Sub(remindAt)
		if drift < -s.Cfg.Window || drift > s.Cfg.Window {
			continue
		}
		if s.alreadyNotified(sc.ID) {
			continue
		}

		title := "Sắp đến lịch hẹn"
		msg := fmt.Sprintf("%s lúc %s", sc.Event, sc.StartTime.Format("15:04 02/01/2006"))
		if sc.Location != "" {
			msg += " tại " + sc.Location
		}
		if err := s.Notifier.Notify(ctx, title, msg); err != nil {
			logger.Named("reminder").Error().Err(err).Int64("id", sc.ID).Msg("notify failed")
			continue
		}
		s.markNotified(sc.ID)
	}
	return nil
}

func (s *Service) alreadyNotified(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.notified[id]
	return ok
}

func (s *Service) markNotified(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified[id] = struct{}{}
}
