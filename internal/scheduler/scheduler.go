package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"hensgen-helper/internal/storage"
)

const ReminderText = "⏰ Time to log your INR. Send the value on the Health screen, e.g. 2.5"

// Settings is persisted under the reminders key.
type Settings struct {
	Enabled bool `json:"enabled"`
}

// Scheduler runs the weekly INR reminder.
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	settings *storage.Value[Settings]
	remind   func(ctx context.Context, text string) error
	log      zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New parses tz eagerly so a bad zone fails at startup rather than on the first tick.
func New(store storage.Store, spec, tz string, remind func(ctx context.Context, text string) error, log zerolog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("reminder timezone %q: %w", tz, err)
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("reminder spec %q: %w", spec, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		spec:     spec,
		settings: storage.NewValue(store, storage.KeyReminders, func() Settings { return Settings{} }),
		remind:   remind,
		log:      log.With().Str("component", "scheduler").Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func (s *Scheduler) Enabled(ctx context.Context) bool {
	return s.settings.Load(ctx).Enabled
}

func (s *Scheduler) SetEnabled(ctx context.Context, on bool) error {
	return s.settings.Save(ctx, Settings{Enabled: on})
}

// Fire sends the reminder if it is enabled. Reports whether it was sent.
func (s *Scheduler) Fire(ctx context.Context) (bool, error) {
	if !s.Enabled(ctx) {
		return false, nil
	}
	if s.remind == nil {
		return false, errors.New("reminder sink not set")
	}
	if err := s.remind(ctx, ReminderText); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		sent, err := s.Fire(s.ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("INR reminder failed")
			return
		}
		s.log.Info().Bool("sent", sent).Msg("INR reminder tick")
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("scheduler started")
	return nil
}

// Next returns the next tick, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
