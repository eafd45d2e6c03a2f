package application

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/davarch/ci-dashboard/internal/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule accepts 5-field cron expressions and descriptors such as
// "@every 1m".
func ParseSchedule(expr string) (cron.Schedule, error) {
	return scheduleParser.Parse(expr)
}

// Warmer keeps the cache warm on a schedule, exports the full status set
// and sends a notification when a platform changes status.
type Warmer struct {
	log       *zap.Logger
	agg       *Aggregator
	schedule  cron.Schedule
	pauseFile string
	export    domain.StatusExporter
	note      domain.Notifier
	repoURL   string

	last map[string]domain.AppSnapshot
}

// NewWarmer builds a warmer. export and note may be nil.
func NewWarmer(l *zap.Logger, agg *Aggregator, schedule cron.Schedule, pauseFile string,
	export domain.StatusExporter, note domain.Notifier, repoURL string) *Warmer {
	return &Warmer{
		log: l, agg: agg, schedule: schedule, pauseFile: pauseFile,
		export: export, note: note, repoURL: repoURL,
		last: make(map[string]domain.AppSnapshot),
	}
}

func (w *Warmer) Run(ctx context.Context) {
	w.tick(ctx)

	for {
		now := time.Now()
		t := time.NewTimer(w.schedule.Next(now).Sub(now))
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *Warmer) tick(ctx context.Context) {
	if w.isPaused() {
		w.log.Debug("paused: skipping warm-up")
		return
	}

	set := w.agg.GetAll(ctx)

	if w.export != nil {
		if err := w.export.Write(ctx, set); err != nil {
			w.log.Warn("status export failed", zap.Error(err))
		}
	}

	for _, e := range set {
		w.compare(ctx, e.App, e.Snapshot)
	}
}

func (w *Warmer) isPaused() bool {
	if w.pauseFile == "" {
		return false
	}
	_, err := os.Stat(w.pauseFile)
	return err == nil
}

// compare notifies for each platform whose status moved to a known value.
// The first snapshot seen for an app only sets the baseline.
func (w *Warmer) compare(ctx context.Context, app string, snap domain.AppSnapshot) {
	prev, ok := w.last[app]
	w.last[app] = snap
	if !ok || w.note == nil {
		return
	}

	for _, p := range domain.Platforms {
		before, after := *prev.Slot(p), *snap.Slot(p)
		if after.Status == domain.StatusPending || before.Status == after.Status {
			continue
		}

		body := fmt.Sprintf("%s %s", app, p)
		url := ""
		if after.RunID != nil {
			body += fmt.Sprintf(": run #%d", *after.RunID)
			if w.repoURL != "" {
				url = fmt.Sprintf("%s/%s/actions/runs/%d", w.repoURL, app, *after.RunID)
			}
		}
		if err := w.note.Notify(ctx, titleFor(after.Status), body, url); err != nil {
			w.log.Debug("notify failed", zap.String("app", app), zap.Error(err))
		}
	}
}

func titleFor(s domain.PlatformStatus) string {
	switch s {
	case domain.StatusSuccess:
		return "✅ CI: success"
	case domain.StatusFailure:
		return "❌ CI: failure"
	case domain.StatusInProgress:
		return "▶️ CI: in progress"
	case domain.StatusQueued:
		return "⏳ CI: queued"
	case domain.StatusCancelled:
		return "⛔ CI: cancelled"
	default:
		return "ℹ️ CI: " + string(s)
	}
}
