package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner deletes audit records older than the retention window, on a cron
// schedule.
type Pruner struct {
	store         *Store
	retentionDays int
	schedule      string
	cron          *cron.Cron
	logger        *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewPruner creates a pruner. retentionDays of zero disables pruning.
func NewPruner(store *Store, retentionDays int, schedule string, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:         store,
		retentionDays: retentionDays,
		schedule:      schedule,
		cron:          cron.New(),
		logger:        logger.With("component", "audit.retention"),
	}
}

// Prune deletes records older than the retention window once and reports
// how many were removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.retentionDays)
	deleted, err := p.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		p.logger.Info("pruned audit records",
			"deleted_count", deleted,
			"retention_days", p.retentionDays,
		)
	}
	return deleted, nil
}

// Start schedules pruning per the cron expression. An empty schedule or a
// zero retention window leaves the pruner idle. The scheduler stops when
// the context is cancelled.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.schedule == "" || p.retentionDays <= 0 {
		p.logger.Info("audit pruning not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(p.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.schedule, err)
	}

	_, err := p.cron.AddFunc(p.schedule, func() {
		if _, err := p.Prune(ctx); err != nil {
			p.logger.Error("scheduled audit pruning failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule audit pruning: %w", err)
	}

	p.cron.Start()
	p.running = true

	p.logger.Info("audit retention scheduler started",
		"schedule", p.schedule,
		"retention_days", p.retentionDays,
	)

	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		<-p.cron.Stop().Done()
		p.running = false
		p.logger.Info("audit retention scheduler stopped")
	}
}
