// Package config loads sprout settings from defaults, sprout.yaml, SPROUT_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/sprout/pkg/bootstrap"
	"github.com/aretw0/sprout/pkg/domain"
)

// Store drivers.
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config is the fully resolved configuration.
type Config struct {
	ProjectDir  string              `koanf:"project_dir"`
	DryRun      bool                `koanf:"dry_run"`
	Strict      bool                `koanf:"strict"`
	Interactive bool                `koanf:"interactive"`
	Skip        []string            `koanf:"skip"`
	Debug       bool                `koanf:"debug"`
	JSON        bool                `koanf:"json"`
	Python      PythonConfig        `koanf:"python"`
	Git         GitConfig           `koanf:"git"`
	Packages    map[string][]string `koanf:"packages"`
	Store       StoreConfig         `koanf:"store"`
	Metrics     MetricsConfig       `koanf:"metrics"`
	Serve       ServeConfig         `koanf:"serve"`
	Log         LogConfig           `koanf:"log"`

	// ConfigFile is the file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// PythonConfig configures the Python phase.
type PythonConfig struct {
	Interpreter string   `koanf:"interpreter"`
	VenvDir     string   `koanf:"venv_dir"`
	Fallback    []string `koanf:"fallback"`
}

// GitConfig pre-supplies the git identity.
type GitConfig struct {
	Name  string `koanf:"name"`
	Email string `koanf:"email"`
}

// StoreConfig selects where run reports are persisted.
type StoreConfig struct {
	Driver        string        `koanf:"driver"`
	Path          string        `koanf:"path"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	TTL           time.Duration `koanf:"ttl"`
	// LockTTL bounds how long a run holds the project lock (redis only).
	LockTTL time.Duration `koanf:"lock_ttl"`
	// Redact masks the git identity in persisted reports.
	Redact bool `koanf:"redact"`
}

// MetricsConfig configures metric export after a run.
type MetricsConfig struct {
	Textfile string `koanf:"textfile"`
}

// ServeConfig configures the status API.
type ServeConfig struct {
	Port int `koanf:"port"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Validate checks values koanf cannot type-check.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverFile, DriverMemory:
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q (want file, memory or redis)", c.Store.Driver)
	}
	if _, err := c.SkipPhases(); err != nil {
		return err
	}
	for _, p := range c.Python.Fallback {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("python.fallback contains a blank package name")
		}
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d out of range", c.Serve.Port)
	}
	return nil
}

// SkipPhases parses the skip list. Entries may be comma separated.
func (c *Config) SkipPhases() ([]domain.PhaseName, error) {
	var phases []domain.PhaseName
	for _, entry := range c.Skip {
		for _, raw := range strings.Split(entry, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			p, ok := domain.ParsePhase(raw)
			if !ok {
				return nil, fmt.Errorf("unknown phase %q in skip list", raw)
			}
			phases = append(phases, p)
		}
	}
	return phases, nil
}

// StorePath returns the report directory of the file driver.
func (c *Config) StorePath() string {
	if c.Store.Path == "" {
		return filepath.Join(c.ProjectDir, ".sprout", "runs")
	}
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(c.ProjectDir, c.Store.Path)
}

// Settings converts the configuration into bootstrap settings for platform.
func (c *Config) Settings(platform domain.Platform) (bootstrap.Settings, error) {
	skip, err := c.SkipPhases()
	if err != nil {
		return bootstrap.Settings{}, err
	}
	return bootstrap.Settings{
		ProjectDir:  c.ProjectDir,
		Platform:    platform,
		DryRun:      c.DryRun,
		Strict:      c.Strict,
		Interactive: c.Interactive,
		Skip:        skip,
		Python: bootstrap.PythonSettings{
			Interpreter: c.Python.Interpreter,
			VenvDir:     c.Python.VenvDir,
			Fallback:    c.Python.Fallback,
		},
		Git: bootstrap.GitSettings{
			Name:  c.Git.Name,
			Email: c.Git.Email,
		},
		Packages: c.Packages,
	}, nil
}
