package gh_cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/davarch/ci-dashboard/internal/domain"
)

// Exec runs a command and returns its stdout.
type Exec func(ctx context.Context, name string, args ...string) ([]byte, error)

type Client struct {
	bin     string
	owner   string
	limit   int
	timeout time.Duration
	exec    Exec
	backoff func() backoff.BackOff
}

func New(bin, owner string, limit int, timeout time.Duration) *Client {
	return &Client{
		bin:     bin,
		owner:   owner,
		limit:   limit,
		timeout: timeout,
		exec:    runCommand,
		backoff: defaultBackOff,
	}
}

func (c *Client) WithExec(e Exec) *Client {
	c.exec = e
	return c
}

func (c *Client) WithBackOff(f func() backoff.BackOff) *Client {
	c.backoff = f
	return c
}

// RecentRuns lists the newest runs of app. A zero timeout means the call
// waits for gh to exit however long that takes.
func (c *Client) RecentRuns(ctx context.Context, app string) ([]domain.RunRecord, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.exec(ctx, c.bin,
		"run", "list",
		"--repo", c.repo(app),
		"--limit", strconv.Itoa(c.limit),
		"--json", runFields,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: gh run list %s: %v", domain.ErrExternalQuery, app, err)
	}

	return ParseRuns(out)
}

// Dispatch starts workflow on the default branch with build_platforms set
// to the given platforms. Transient failures are retried.
func (c *Client) Dispatch(ctx context.Context, app, workflow string, platforms []domain.Platform) error {
	names := make([]string, 0, len(platforms))
	for _, p := range platforms {
		names = append(names, string(p))
	}

	op := func() error {
		_, err := c.exec(ctx, c.bin,
			"workflow", "run", workflow,
			"--repo", c.repo(app),
			"-f", "build_platforms="+strings.Join(names, ","),
		)
		if err == nil {
			return nil
		}
		if permanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	if err := backoff.Retry(op, backoff.WithContext(c.backoff(), ctx)); err != nil {
		return fmt.Errorf("%w: gh workflow run %s for %s: %v", domain.ErrExternalQuery, workflow, app, err)
	}
	return nil
}

func (c *Client) repo(app string) string {
	return c.owner + "/" + app
}

func defaultBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 300 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = 5 * time.Second
	return bo
}

// permanent reports gh errors that a retry cannot fix.
func permanent(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"http 404", "http 422", "could not find", "not found", "authentication"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("%s: %s", ee, msg)
			}
		}
		return nil, err
	}
	return out, nil
}
