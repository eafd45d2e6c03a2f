package dashboard

import (
	"context"
	_ "embed"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

//go:embed static/dashboard.html
var defaultPage []byte

// Document holds the dashboard page served at / and /dashboard. When built
// from a file it can follow edits to that file.
type Document struct {
	log  *zap.Logger
	path string

	mu   sync.RWMutex
	body []byte
}

// Load reads path, or uses the built-in page when path is empty.
func Load(l *zap.Logger, path string) (*Document, error) {
	d := &Document{log: l, path: path, body: defaultPage}
	if path == "" {
		return d, nil
	}
	if err := d.reload(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) Bytes() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.body
}

func (d *Document) reload() error {
	b, err := os.ReadFile(d.path)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.body = b
	d.mu.Unlock()
	return nil
}

// Watch reloads the document when its file changes, until ctx is done.
// Editors that replace the file trigger several events; they are collapsed
// into one reload.
func (d *Document) Watch(ctx context.Context) error {
	if d.path == "" {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(d.path)); err != nil {
		_ = w.Close()
		return err
	}

	base := filepath.Base(d.path)

	go func() {
		defer func() { _ = w.Close() }()

		var timer *time.Timer
		fire := func() {
			if err := d.reload(); err != nil {
				d.log.Warn("dashboard reload failed", zap.String("path", d.path), zap.Error(err))
				return
			}
			d.log.Info("dashboard reloaded", zap.String("path", d.path))
		}

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer == nil {
					timer = time.AfterFunc(300*time.Millisecond, fire)
				} else {
					timer.Reset(300 * time.Millisecond)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				d.log.Warn("fsnotify error", zap.Error(err))
			}
		}
	}()

	return nil
}
