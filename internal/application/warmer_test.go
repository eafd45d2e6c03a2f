package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davarch/ci-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseSchedule(t *testing.T) {
	s, err := ParseSchedule("@every 1m")
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(time.Minute), s.Next(epoch))

	_, err = ParseSchedule("not a schedule")
	assert.Error(t, err)
}

func TestWarmer_ExportsAndNotifiesOnChange(t *testing.T) {
	q := &domain.MockRunQuery{Runs: map[string][]domain.RunRecord{"roulette": {
		{ID: 1, Status: domain.RunInProgress, Title: "ios build"},
	}}}
	clock := domain.NewMockClock(epoch)
	agg := newTestAggregator(q, clock, "roulette")
	exp := &domain.MockExporter{}
	note := &domain.MockNotifier{}
	w := NewWarmer(zap.NewNop(), agg, nil, "", exp, note, "https://github.com/acme")

	w.tick(context.Background())
	assert.Empty(t, note.Messages)

	q.Runs["roulette"] = []domain.RunRecord{
		{ID: 1, Status: domain.RunCompleted, Conclusion: domain.ConclusionFailure, Title: "ios build"},
	}
	clock.Advance(FreshnessWindow)
	w.tick(context.Background())

	require.Len(t, exp.Sets, 2)
	require.Len(t, note.Messages, 1)
	assert.Equal(t, "❌ CI: failure|roulette ios: run #1|https://github.com/acme/roulette/actions/runs/1", note.Messages[0])
}

func TestWarmer_FailedFetchDoesNotNotify(t *testing.T) {
	q := &domain.MockRunQuery{Runs: map[string][]domain.RunRecord{"roulette": iosRun(1)}}
	clock := domain.NewMockClock(epoch)
	note := &domain.MockNotifier{}
	w := NewWarmer(zap.NewNop(), newTestAggregator(q, clock, "roulette"), nil, "", nil, note, "")

	w.tick(context.Background())
	clock.Advance(FreshnessWindow)
	q.Err = domain.ErrExternalQuery
	w.tick(context.Background())

	assert.Empty(t, note.Messages)
}

func TestWarmer_PauseFileSkipsTick(t *testing.T) {
	pause := filepath.Join(t.TempDir(), "paused")
	require.NoError(t, os.WriteFile(pause, nil, 0o644))

	q := &domain.MockRunQuery{}
	w := NewWarmer(zap.NewNop(), newTestAggregator(q, domain.NewMockClock(epoch), "roulette"), nil, pause, nil, nil, "")

	w.tick(context.Background())
	assert.Equal(t, 0, q.CallsFor("roulette"))
}
