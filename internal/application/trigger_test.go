package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/davarch/ci-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTrigger(d domain.Dispatcher, agg *Aggregator) *TriggerUseCase {
	uc := NewTriggerUseCase(zap.NewNop(), d, agg, map[string]string{"kenocasino": "keno-builds.yml"}, time.Second)
	uc.sleep = func(context.Context, time.Duration) {}
	return uc
}

func TestResolveTarget(t *testing.T) {
	all, err := ResolveTarget("all")
	require.NoError(t, err)
	assert.Equal(t, []domain.Platform{domain.PlatformIOS, domain.PlatformAAB, domain.PlatformAmazon}, all)

	one, err := ResolveTarget("windows")
	require.NoError(t, err)
	assert.Equal(t, []domain.Platform{domain.PlatformWindows}, one)

	_, err = ResolveTarget("linux")
	assert.ErrorIs(t, err, domain.ErrUnknownPlatform)
}

func TestTrigger_DispatchesAndInvalidates(t *testing.T) {
	q := &domain.MockRunQuery{Runs: map[string][]domain.RunRecord{"kenocasino": iosRun(1)}}
	agg := newTestAggregator(q, domain.NewMockClock(epoch), "kenocasino", "roulette")
	d := &domain.MockDispatcher{}
	uc := newTrigger(d, agg)

	_, _ = agg.GetOne(context.Background(), "kenocasino")

	res, err := uc.Trigger(context.Background(), "kenocasino", "ios")
	require.NoError(t, err)
	assert.Equal(t, TriggerResult{Success: true, App: "kenocasino", Platform: "ios"}, res)
	assert.Equal(t, []string{"kenocasino|keno-builds.yml"}, d.Calls)

	_, _ = agg.GetOne(context.Background(), "kenocasino")
	assert.Equal(t, 2, q.CallsFor("kenocasino"))
}

func TestTrigger_DefaultWorkflowName(t *testing.T) {
	uc := newTrigger(&domain.MockDispatcher{}, newTestAggregator(&domain.MockRunQuery{}, domain.NewMockClock(epoch), "roulette"))
	assert.Equal(t, "roulette-builds.yml", uc.Workflow("roulette"))
}

func TestTrigger_Validation(t *testing.T) {
	d := &domain.MockDispatcher{}
	uc := newTrigger(d, newTestAggregator(&domain.MockRunQuery{}, domain.NewMockClock(epoch), "roulette"))

	_, err := uc.Trigger(context.Background(), "poker", "ios")
	assert.ErrorIs(t, err, domain.ErrUnknownApplication)

	_, err = uc.Trigger(context.Background(), "roulette", "linux")
	assert.ErrorIs(t, err, domain.ErrUnknownPlatform)

	assert.Empty(t, d.Calls)
}

func TestTrigger_DispatchFailureReported(t *testing.T) {
	d := &domain.MockDispatcher{Err: errors.New("gh: HTTP 422")}
	uc := newTrigger(d, newTestAggregator(&domain.MockRunQuery{}, domain.NewMockClock(epoch), "roulette"))

	res, err := uc.Trigger(context.Background(), "roulette", "all")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "HTTP 422")
}

func TestTriggerBulk_WalksRoster(t *testing.T) {
	d := &domain.MockDispatcher{}
	uc := newTrigger(d, newTestAggregator(&domain.MockRunQuery{}, domain.NewMockClock(epoch), roster...))

	var slept int
	uc.sleep = func(context.Context, time.Duration) { slept++ }

	res, err := uc.TriggerBulk(context.Background(), "amazon")
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, roster, res.Apps)
	assert.Len(t, res.Results, 3)
	assert.Equal(t, 2, slept)
}

func TestTriggerBulk_AllFailing(t *testing.T) {
	d := &domain.MockDispatcher{Err: errors.New("offline")}
	uc := newTrigger(d, newTestAggregator(&domain.MockRunQuery{}, domain.NewMockClock(epoch), roster...))

	res, err := uc.TriggerBulk(context.Background(), "all")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.Apps)
}
