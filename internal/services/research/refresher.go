package research

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// RefreshSummary describes one refresh pass.
type RefreshSummary struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Refreshed int           `json:"refreshed"`
	Failed    int           `json:"failed"`
	Errors    []string      `json:"errors,omitempty"`
}

// Refresher re-researches a watchlist on a cron schedule, bypassing cached inputs.
type Refresher struct {
	service   *Service
	watchlist []string
	logger    arbor.ILogger
	cron      *cron.Cron
	timeout   time.Duration

	mu      sync.Mutex
	runMu   sync.Mutex
	running bool
	last    *RefreshSummary
}

// NewRefresher creates a refresher for watchlist.
func NewRefresher(service *Service, watchlist []string, logger arbor.ILogger) *Refresher {
	return &Refresher{
		service:   service,
		watchlist: watchlist,
		logger:    logger,
		cron:      cron.New(),
		timeout:   10 * time.Minute,
	}
}

// Start schedules the refresh job. An empty watchlist is not scheduled.
func (r *Refresher) Start(schedule string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("refresher already running")
	}
	if len(r.watchlist) == 0 {
		r.logger.Info().Msg("Watchlist empty, refresher not scheduled")
		return nil
	}

	if _, err := r.cron.AddFunc(schedule, r.runScheduled); err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}
	r.cron.Start()
	r.running = true

	r.logger.Info().
		Str("schedule", schedule).
		Int("tickers", len(r.watchlist)).
		Msg("Watchlist refresher started")
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	<-r.cron.Stop().Done()
	r.running = false
	r.logger.Info().Msg("Watchlist refresher stopped")
}

// IsRunning reports whether the schedule is active.
func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// LastRun returns the most recent summary, or nil before the first pass.
func (r *Refresher) LastRun() *RefreshSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Refresher) runScheduled() {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().Str("panic", fmt.Sprintf("%v", rec)).Msg("PANIC RECOVERED in watchlist refresh")
		}
	}()

	if !r.runMu.TryLock() {
		r.logger.Warn().Msg("Previous watchlist refresh still running, skipping")
		return
	}
	defer r.runMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	r.refresh(ctx)
}

// RunOnce refreshes every watchlist ticker now.
func (r *Refresher) RunOnce(ctx context.Context) RefreshSummary {
	r.runMu.Lock()
	defer r.runMu.Unlock()
	return r.refresh(ctx)
}

func (r *Refresher) refresh(ctx context.Context) RefreshSummary {
	summary := RefreshSummary{StartedAt: time.Now()}

	for _, ticker := range r.watchlist {
		if ctx.Err() != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", ticker, ctx.Err()))
			summary.Failed++
			continue
		}
		if _, err := r.service.Refresh(ctx, ticker); err != nil {
			r.logger.Warn().Err(err).Str("ticker", ticker).Msg("Watchlist refresh failed")
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", ticker, err))
			summary.Failed++
			continue
		}
		summary.Refreshed++
	}
	summary.Duration = time.Since(summary.StartedAt)

	r.mu.Lock()
	r.last = &summary
	r.mu.Unlock()

	r.logger.Info().
		Int("refreshed", summary.Refreshed).
		Int("failed", summary.Failed).
		Str("duration", summary.Duration.String()).
		Msg("Watchlist refresh complete")
	return summary
}
