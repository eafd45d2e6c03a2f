package domain

import (
	"context"
	"sync"
	"time"
)

type MockRunQuery struct {
	mu     sync.Mutex
	Runs   map[string][]RunRecord
	Err    error
	Calls  map[string]int
	Before func(app string)
}

func (m *MockRunQuery) RecentRuns(ctx context.Context, app string) ([]RunRecord, error) {
	if m.Before != nil {
		m.Before(app)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[app]++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Runs[app], nil
}

func (m *MockRunQuery) CallsFor(app string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[app]
}

type MockDispatcher struct {
	mu    sync.Mutex
	Err   error
	Calls []string
}

func (d *MockDispatcher) Dispatch(ctx context.Context, app, workflow string, platforms []Platform) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, app+"|"+workflow)
	return d.Err
}

type MockNotifier struct {
	Messages []string
	Err      error
}

func (n *MockNotifier) Notify(ctx context.Context, title, body, url string) error {
	n.Messages = append(n.Messages, title+"|"+body+"|"+url)
	return n.Err
}

type MockExporter struct {
	Sets []StatusSet
	Err  error
}

func (c *MockExporter) Write(ctx context.Context, s StatusSet) error {
	if c.Err != nil {
		return c.Err
	}
	c.Sets = append(c.Sets, s)
	return nil
}

type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(t time.Time) *MockClock { return &MockClock{now: t} }

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
