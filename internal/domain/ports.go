package domain

import (
	"context"
	"time"
)

// RunQuery fetches the recent runs of one application, newest first.
type RunQuery interface {
	RecentRuns(ctx context.Context, app string) ([]RunRecord, error)
}

// Dispatcher starts a build workflow for an application.
type Dispatcher interface {
	Dispatch(ctx context.Context, app, workflow string, platforms []Platform) error
}

type Notifier interface {
	Notify(ctx context.Context, title, body, url string) error
}

type StatusExporter interface {
	Write(ctx context.Context, s StatusSet) error
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
