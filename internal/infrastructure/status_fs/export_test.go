package status_fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davarch/ci-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_WritesStatusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "status.json")
	e := New(path)
	e.now = func() time.Time { return time.Unix(123, 0) }

	failed := domain.Classify("roulette", []domain.RunRecord{
		{ID: 8, Status: domain.RunCompleted, Conclusion: domain.ConclusionFailure, Title: "amazon"},
	})
	set := domain.StatusSet{
		{App: "blackjack21", Snapshot: domain.PendingSnapshot("blackjack21")},
		{App: "roulette", Snapshot: failed},
	}

	require.NoError(t, e.Write(context.Background(), set))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Retrieved int64                     `json:"retrieved"`
		Failing   []string                  `json:"failing"`
		Apps      map[string]map[string]any `json:"apps"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, int64(123), doc.Retrieved)
	assert.Equal(t, []string{"roulette/amazon"}, doc.Failing)
	assert.Len(t, doc.Apps, 2)
	assert.Equal(t, "failure", doc.Apps["roulette"]["amazon"])

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestExporter_EmptyPath(t *testing.T) {
	assert.Error(t, New("").Write(context.Background(), nil))
}

func TestExporter_FailedWriteLeavesNoTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "occupied"), 0o755))

	err := New(path).Write(context.Background(), domain.StatusSet{
		{App: "roulette", Snapshot: domain.PendingSnapshot("roulette")},
	})
	require.Error(t, err)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestExporter_FailedEncodeLeavesNoTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	e := New(path)
	e.write = func(p string, _ any) error {
		require.NoError(t, os.WriteFile(p, []byte(`{"retr`), 0o644))
		return errors.New("disk full")
	}

	require.Error(t, e.Write(context.Background(), nil))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
