package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server:
  addr: ":8080"
github:
  owner: acme
  limit: 5
  timeout: 20s
apps:
  - name: blackjack21
    enabled: true
    workflow: blackjack-builds.yml
  - name: keno4card
    enabled: false
  - name: roulette
    enabled: true
trigger:
  enabled: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FromYAML(t *testing.T) {
	c, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.True(t, c.Server.Metrics)
	assert.Equal(t, "acme", c.GitHub.Owner)
	assert.Equal(t, "gh", c.GitHub.GhPath)
	assert.Equal(t, 5, c.GitHub.Limit)
	assert.Equal(t, 20*time.Second, c.GitHub.Timeout)
	assert.Equal(t, 1, c.Poll.Concurrency)
	assert.Equal(t, time.Second, c.Trigger.Spacing)
	assert.True(t, c.Trigger.Enabled)
	assert.Equal(t, []string{"blackjack21", "roulette"}, c.Roster())
	assert.Equal(t, map[string]string{"blackjack21": "blackjack-builds.yml"}, c.Workflows())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GH_OWNER", "other-org")
	t.Setenv("GH_TIMEOUT", "3s")
	t.Setenv("DASHBOARD_APPS", "roulette, vintageslots,")

	c, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "other-org", c.GitHub.Owner)
	assert.Equal(t, 3*time.Second, c.GitHub.Timeout)
	assert.Equal(t, []string{"roulette", "vintageslots"}, c.Roster())
}

func TestLoad_DotEnvNextToConfig(t *testing.T) {
	path := writeConfig(t, sample)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte("LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("LOG_LEVEL") })

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("DASHBOARD_APPS", "roulette")

	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "LuckyJackpotCasino", c.GitHub.Owner)
	assert.Equal(t, ":3000", c.Server.Addr)
	assert.Equal(t, []string{"roulette"}, c.Roster())
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"no apps":   "apps: []\n",
		"none on":   "apps:\n  - name: a\n    enabled: false\n",
		"duplicate": "apps:\n  - name: a\n    enabled: true\n  - name: a\n    enabled: true\n",
		"slash":     "apps:\n  - name: a/b\n    enabled: true\n",
		"bad yaml":  "apps: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := writeConfig(t, sample)
	c, err := Read(path)
	require.NoError(t, err)

	c.Apps[1].Enabled = true
	require.NoError(t, Save(path, c))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"blackjack21", "keno4card", "roulette"}, again.Roster())
}

func TestSetEnabled_KeepsFileContentsOverEnv(t *testing.T) {
	path := writeConfig(t, sample+"warm:\n  pause_file: ~/.cache/paused\n")
	t.Setenv("DASHBOARD_APPS", "vintageslots")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GH_OWNER", "other-org")

	changed, err := SetEnabled(path, "keno4card", true)
	require.NoError(t, err)
	assert.True(t, changed)

	c, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []App{
		{Name: "blackjack21", Enabled: true, Workflow: "blackjack-builds.yml"},
		{Name: "keno4card", Enabled: true},
		{Name: "roulette", Enabled: true},
	}, c.Apps)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "acme", c.GitHub.Owner)
	assert.Equal(t, "~/.cache/paused", c.Warm.PauseFile)
}

func TestSetEnabled_NoChange(t *testing.T) {
	path := writeConfig(t, sample)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	for _, name := range []string{"blackjack21", "poker"} {
		changed, err := SetEnabled(path, name, name == "blackjack21")
		require.NoError(t, err)
		assert.False(t, changed, name)
	}

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
