package cleanup

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper is the part of the session manager the worker drives.
type Sweeper interface {
	CleanupOldSessions(idleTTL, finishedTTL time.Duration) int
}

type Worker struct {
	Sessions    Sweeper
	Interval    time.Duration
	IdleTTL     time.Duration
	FinishedTTL time.Duration
}

func NewWorker(s Sweeper, interval, idleTTL, finishedTTL time.Duration) *Worker {
	return &Worker{
		Sessions:    s,
		Interval:    interval,
		IdleTTL:     idleTTL,
		FinishedTTL: finishedTTL,
	}
}

// Start runs one cleanup immediately and then every Interval until ctx is
// cancelled. It blocks; run it in its own goroutine.
func (w *Worker) Start(ctx context.Context) {
	logrus.WithField("interval", w.Interval).Info("[CLEANUP] Background worker started")

	w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("[CLEANUP] Background worker stopped")
			return
		case <-ticker.C:
			w.runCleanup()
		}
	}
}

// runCleanup executes the actual cleanup logic
func (w *Worker) runCleanup() {
	removed := w.Sessions.CleanupOldSessions(w.IdleTTL, w.FinishedTTL)
	if removed > 0 {
		logrus.WithField("removed", removed).Debug("[CLEANUP] Scheduled cleanup finished")
	}
}
