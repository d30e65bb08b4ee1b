package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Expirer moves stale pending estimates to expired and reports how many moved.
type Expirer interface {
	ExpirePending(ctx context.Context, olderThan time.Duration) (int, error)
}

type ExpiryScheduler struct {
	cron      *cron.Cron
	expirer   Expirer
	olderThan time.Duration
	timeout   time.Duration
}

// NewExpiryScheduler registers the expiry job on spec, a standard cron
// expression with optional seconds field or a descriptor such as "@every 1h".
func NewExpiryScheduler(expirer Expirer, spec string, olderThan time.Duration) (*ExpiryScheduler, error) {
	s := &ExpiryScheduler{
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
		expirer:   expirer,
		olderThan: olderThan,
		timeout:   5 * time.Minute,
	}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid expiry schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *ExpiryScheduler) Start() {
	slog.Info("expiry scheduler started", "entries", len(s.cron.Entries()), "older_than", s.olderThan.String())
	s.cron.Start()
}

// Stop waits for a running job to finish.
func (s *ExpiryScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *ExpiryScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.expirer.ExpirePending(ctx, s.olderThan)
	if err != nil {
		slog.ErrorContext(ctx, "estimate expiry failed", "expired", n, "err", err)
		return
	}
	slog.InfoContext(ctx, "estimate expiry finished", "expired", n, "elapsed", time.Since(start).String())
}
