package notify_libnotify

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Exec runs a command to completion.
type Exec func(ctx context.Context, name string, args ...string) error

type Notifier struct {
	soft   bool
	expire time.Duration
	run    Exec
}

// NewSoft returns a notifier that swallows notify-send failures, e.g. on a
// headless host.
func NewSoft() *Notifier { return &Notifier{soft: true, run: runCommand} }

func (n *Notifier) WithExpire(d time.Duration) *Notifier {
	n.expire = d
	return n
}

func (n *Notifier) WithExec(run Exec) *Notifier {
	n.run = run
	return n
}

func (n *Notifier) Notify(ctx context.Context, title, body, url string) error {
	if err := n.run(ctx, "notify-send", notifyArgs(title, body, url, n.expire)...); err != nil {
		if n.soft {
			return nil
		}
		return err
	}
	return nil
}

func notifyArgs(title, body, url string, expire time.Duration) []string {
	args := []string{"--app-name=ci-dashboard"}
	if strings.HasPrefix(title, "❌") {
		args = append(args, "--urgency=critical")
	}
	if expire > 0 {
		args = append(args, "--expire-time="+strconv.Itoa(int(expire/time.Millisecond)))
	}
	return append(args, title, joinURL(body, url))
}

func joinURL(body, url string) string {
	if strings.TrimSpace(url) == "" {
		return body
	}
	if body == "" {
		return url
	}
	return body + "\n" + url
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}
