package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type App struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Workflow string `yaml:"workflow,omitempty"`
}

type Config struct {
	Server struct {
		Addr      string `yaml:"addr"`
		Dashboard string `yaml:"dashboard"`
		Metrics   bool   `yaml:"metrics"`
	} `yaml:"server"`

	GitHub struct {
		Owner   string        `yaml:"owner"`
		GhPath  string        `yaml:"gh_path"`
		Limit   int           `yaml:"limit"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"github"`

	Apps []App `yaml:"apps"`

	Poll struct {
		Concurrency int `yaml:"concurrency"`
	} `yaml:"poll"`

	Warm struct {
		Schedule  string `yaml:"schedule"`
		PauseFile string `yaml:"pause_file"`
		Notify    bool   `yaml:"notify"`
	} `yaml:"warm"`

	Export struct {
		Path string `yaml:"path"`
	} `yaml:"export"`

	Trigger struct {
		Enabled bool          `yaml:"enabled"`
		Spacing time.Duration `yaml:"spacing"`
	} `yaml:"trigger"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Roster returns the enabled apps in file order.
func (c Config) Roster() []string {
	var out []string
	for _, a := range c.Apps {
		if a.Enabled {
			out = append(out, a.Name)
		}
	}
	return out
}

func (c Config) Workflows() map[string]string {
	out := make(map[string]string, len(c.Apps))
	for _, a := range c.Apps {
		if a.Workflow != "" {
			out[a.Name] = a.Workflow
		}
	}
	return out
}

// Load reads path (a missing file is fine), then a .env next to it, then
// environment overrides, and validates the result.
func Load(path string) (Config, error) {
	c, err := Read(path)
	if err != nil {
		return c, err
	}
	if path != "" {
		_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	}
	applyEnv(&c)
	return c, normalize(&c)
}

// Read returns the defaults overlaid with the YAML file only. It is what
// Save should be given back, so env overrides never end up in the file.
func Read(path string) (Config, error) {
	var c Config

	c.Server.Addr = ":3000"
	c.Server.Metrics = true
	c.GitHub.Owner = "LuckyJackpotCasino"
	c.GitHub.GhPath = "gh"
	c.GitHub.Limit = 10
	c.Poll.Concurrency = 1
	c.Trigger.Spacing = time.Second
	c.Log.Level = "info"
	c.Log.Format = "console"

	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return c, err
	}
	return c, nil
}

// SetEnabled flips one app's enabled flag in the file at path. It reports
// false when the app is missing or already in that state.
func SetEnabled(path, name string, enabled bool) (bool, error) {
	c, err := Read(path)
	if err != nil {
		return false, err
	}

	changed := false
	for i := range c.Apps {
		if c.Apps[i].Name == name && c.Apps[i].Enabled != enabled {
			c.Apps[i].Enabled = enabled
			changed = true
		}
	}
	if !changed {
		return false, nil
	}

	return true, Save(path, c)
}

func applyEnv(c *Config) {
	if v := os.Getenv("DASHBOARD_ADDR"); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv("GH_OWNER"); v != "" {
		c.GitHub.Owner = v
	}

	if v := os.Getenv("GH_PATH"); v != "" {
		c.GitHub.GhPath = v
	}

	if v := os.Getenv("GH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.GitHub.Limit = n
		}
	}

	if v := os.Getenv("GH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.GitHub.Timeout = d
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}

	if s := os.Getenv("DASHBOARD_APPS"); s != "" {
		var apps []App
		for _, item := range strings.Split(s, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			apps = append(apps, App{Name: item, Enabled: true})
		}
		if len(apps) > 0 {
			c.Apps = apps
		}
	}
}

func normalize(c *Config) error {
	c.Warm.PauseFile = expandHome(c.Warm.PauseFile)
	c.Export.Path = expandHome(c.Export.Path)
	c.Server.Dashboard = expandHome(c.Server.Dashboard)

	if c.GitHub.Limit <= 0 {
		c.GitHub.Limit = 10
	}

	if c.Poll.Concurrency <= 0 {
		c.Poll.Concurrency = 1
	}

	if c.GitHub.Owner == "" {
		return errors.New("github.owner is required")
	}

	seen := make(map[string]bool, len(c.Apps))
	for _, a := range c.Apps {
		if a.Name == "" {
			return errors.New("app with empty name")
		}
		if strings.Contains(a.Name, "/") {
			return fmt.Errorf("app %q: name must not contain '/'", a.Name)
		}
		if seen[a.Name] {
			return fmt.Errorf("app %q listed twice", a.Name)
		}
		seen[a.Name] = true
	}

	if len(c.Roster()) == 0 {
		return errors.New("no apps configured (YAML or DASHBOARD_APPS)")
	}

	return nil
}

func Save(path string, c Config) error {
	if path == "" {
		return errors.New("empty config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	lockFile := path + ".lock"
	lf, err := os.OpenFile(lockFile, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}
	defer func() { _ = lf.Close() }()

	if runtime.GOOS != "windows" {
		if err := syscall.Flock(int(lf.Fd()), syscall.LOCK_EX); err != nil {
			return err
		}
		defer func() { _ = syscall.Flock(int(lf.Fd()), syscall.LOCK_UN) }()
	}

	b, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	defer func() { _ = f.Close() }()

	if _, err := f.Write(b); err != nil {
		return err
	}

	if err := f.Sync(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if h, _ := os.UserHomeDir(); h != "" {
			return h + p[1:]
		}
	}
	return p
}
