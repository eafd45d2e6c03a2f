package status_fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/davarch/ci-dashboard/internal/domain"
)

// Exporter writes the latest status set to a JSON file for status bars and
// scripts. The file is never read back.
type Exporter struct {
	path  string
	now   func() time.Time
	write func(path string, doc any) error
}

func New(path string) *Exporter {
	return &Exporter{path: path, now: time.Now, write: writeFile}
}

func (e *Exporter) Write(_ context.Context, s domain.StatusSet) error {
	if e.path == "" {
		return errors.New("export path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return err
	}

	type out struct {
		Retrieved int64            `json:"retrieved"`
		Failing   []string         `json:"failing"`
		Apps      domain.StatusSet `json:"apps"`
	}

	doc := out{Retrieved: e.now().Unix(), Failing: failing(s), Apps: s}

	tmp := e.path + ".tmp"
	if err := e.write(tmp, doc); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, e.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func writeFile(path string, doc any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return f.Close()
}

// failing lists "app/platform" for every slot currently in failure.
func failing(s domain.StatusSet) []string {
	out := []string{}
	for _, e := range s {
		snap := e.Snapshot
		for _, p := range domain.Platforms {
			if snap.Slot(p).Status == domain.StatusFailure {
				out = append(out, e.App+"/"+string(p))
			}
		}
	}
	return out
}
