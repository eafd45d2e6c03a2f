package application

import (
	"context"
	"fmt"
	"time"

	"github.com/davarch/ci-dashboard/internal/domain"
	"github.com/davarch/ci-dashboard/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// TargetAll expands to the mobile platforms built by the shared workflow.
const TargetAll = "all"

type TriggerResult struct {
	Success  bool   `json:"success"`
	App      string `json:"app,omitempty"`
	Platform string `json:"platform,omitempty"`
	Error    string `json:"error,omitempty"`
}

type BulkResult struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Apps    []string        `json:"apps"`
	Results []TriggerResult `json:"results"`
}

type TriggerUseCase struct {
	log       *zap.Logger
	dispatch  domain.Dispatcher
	agg       *Aggregator
	workflows map[string]string
	spacing   time.Duration
	sleep     func(ctx context.Context, d time.Duration)
}

// NewTriggerUseCase wires build dispatch. workflows maps app to workflow
// file; apps missing from it use "<app>-builds.yml".
func NewTriggerUseCase(l *zap.Logger, d domain.Dispatcher, agg *Aggregator, workflows map[string]string, spacing time.Duration) *TriggerUseCase {
	return &TriggerUseCase{
		log: l, dispatch: d, agg: agg, workflows: workflows, spacing: spacing,
		sleep: sleepCtx,
	}
}

func ResolveTarget(target string) ([]domain.Platform, error) {
	if target == TargetAll {
		return []domain.Platform{domain.PlatformIOS, domain.PlatformAAB, domain.PlatformAmazon}, nil
	}
	p, err := domain.ParsePlatform(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, target)
	}
	return []domain.Platform{p}, nil
}

func (t *TriggerUseCase) Workflow(app string) string {
	if w := t.workflows[app]; w != "" {
		return w
	}
	return app + "-builds.yml"
}

// Trigger dispatches one build. The error is reserved for an unknown app or
// target; dispatch failures are reported in the result.
func (t *TriggerUseCase) Trigger(ctx context.Context, app, target string) (TriggerResult, error) {
	if !t.agg.Has(app) {
		return TriggerResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownApplication, app)
	}
	platforms, err := ResolveTarget(target)
	if err != nil {
		return TriggerResult{}, err
	}
	return t.run(ctx, app, target, platforms), nil
}

// TriggerBulk dispatches target for every roster app, one after another
// with the configured spacing between calls.
func (t *TriggerUseCase) TriggerBulk(ctx context.Context, target string) (BulkResult, error) {
	platforms, err := ResolveTarget(target)
	if err != nil {
		return BulkResult{}, err
	}

	out := BulkResult{Apps: []string{}}
	for i, app := range t.agg.Roster() {
		if i > 0 && t.spacing > 0 {
			t.sleep(ctx, t.spacing)
		}
		res := t.run(ctx, app, target, platforms)
		out.Results = append(out.Results, res)
		if res.Success {
			out.Apps = append(out.Apps, app)
		}
	}
	out.Count = len(out.Apps)
	out.Success = out.Count > 0

	return out, nil
}

func (t *TriggerUseCase) run(ctx context.Context, app, target string, platforms []domain.Platform) TriggerResult {
	workflow := t.Workflow(app)
	if err := t.dispatch.Dispatch(ctx, app, workflow, platforms); err != nil {
		metrics.Triggers.WithLabelValues(app, "failed").Inc()
		t.log.Warn("trigger failed",
			zap.String("app", app),
			zap.String("workflow", workflow),
			zap.String("target", target),
			zap.Error(err),
		)
		return TriggerResult{Success: false, Error: err.Error()}
	}

	metrics.Triggers.WithLabelValues(app, "ok").Inc()
	t.agg.Invalidate(app)
	t.log.Info("build triggered",
		zap.String("app", app),
		zap.String("workflow", workflow),
		zap.String("target", target),
	)
	return TriggerResult{Success: true, App: app, Platform: target}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
