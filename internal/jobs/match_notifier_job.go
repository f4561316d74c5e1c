package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Notifier sends match emails for briefs nobody has been told about yet
type Notifier interface {
	NotifyNewBriefs(ctx context.Context) (int, error)
}

// MatchNotifierJob periodically emails creators about briefs they qualify for
type MatchNotifierJob struct {
	notifier Notifier
	interval time.Duration
	logger   *slog.Logger
	done     chan struct{}
}

// DefaultMatchInterval is used when the job is given a non-positive interval
const DefaultMatchInterval = 15 * time.Minute

// NewMatchNotifierJob creates a new match notifier job
func NewMatchNotifierJob(notifier Notifier, interval time.Duration, logger *slog.Logger) *MatchNotifierJob {
	if interval <= 0 {
		logger.Warn("invalid match notifier interval, using default", "interval", interval.String(), "default", DefaultMatchInterval.String())
		interval = DefaultMatchInterval
	}
	return &MatchNotifierJob{
		notifier: notifier,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start runs the job in the background until ctx is cancelled
func (j *MatchNotifierJob) Start(ctx context.Context) {
	go j.Run(ctx)
}

// Run runs one pass immediately, then one per interval, until ctx is cancelled
func (j *MatchNotifierJob) Run(ctx context.Context) {
	defer close(j.done)
	j.logger.Info("match notifier started", "interval", j.interval.String())

	j.runOnce(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.runOnce(ctx)
		case <-ctx.Done():
			j.logger.Info("match notifier stopped")
			return
		}
	}
}

// Done is closed once Run has returned
func (j *MatchNotifierJob) Done() <-chan struct{} {
	return j.done
}

func (j *MatchNotifierJob) runOnce(ctx context.Context) {
	sent, err := j.notifier.NotifyNewBriefs(ctx)
	if err != nil {
		if ctx.Err() == nil {
			j.logger.Error("match notification pass failed", "error", err, "sent", sent)
		}
		return
	}
	if sent > 0 {
		j.logger.Info("match notification pass finished", "sent", sent)
	}
}
