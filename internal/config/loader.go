package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/sprout/pkg/bootstrap"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment override. A double underscore separates
// nesting levels: SPROUT_STORE__REDIS_ADDR sets store.redis_addr.
const EnvPrefix = "SPROUT_"

// FileNames are searched in the project directory when no --config is given.
var FileNames = []string{"sprout.yaml", "sprout.yml"}

// flagKeys maps flag names to config keys. Flags not listed here are not configuration.
var flagKeys = map[string]string{
	"dir":              "project_dir",
	"dry-run":          "dry_run",
	"strict":           "strict",
	"skip":             "skip",
	"debug":            "debug",
	"json":             "json",
	"log-level":        "log.level",
	"store":            "store.driver",
	"redis":            "store.redis_addr",
	"metrics-textfile": "metrics.textfile",
	"port":             "serve.port",
}

// Defaults returns the lowest-precedence values.
func Defaults() map[string]any {
	return map[string]any{
		"project_dir":        ".",
		"dry_run":            false,
		"strict":             false,
		"interactive":        true,
		"skip":               []string{},
		"python.venv_dir":    "venv",
		"python.fallback":    append([]string(nil), bootstrap.DefaultFallback...),
		"store.driver":       DriverFile,
		"store.redis_db":     0,
		"store.ttl":          "0s",
		"store.lock_ttl":     "30m",
		"store.redact":       true,
		"serve.port":         8080,
		"log.level":          "info",
		"metrics.textfile":   "",
		"store.path":         "",
		"store.redis_addr":   "",
		"git.name":           "",
		"git.email":          "",
		"python.interpreter": "",
	}
}

// Load resolves the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile, projectHint(flags))
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			if f.Name == "yes" {
				// --yes answers every question, so nobody is asked.
				yes, _ := flags.GetBool("yes")
				return "interactive", !yes
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = used

	abs, err := filepath.Abs(cfg.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("invalid project directory %q: %w", cfg.ProjectDir, err)
	}
	cfg.ProjectDir = abs

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey transforms SPROUT_STORE__REDIS_ADDR into store.redis_addr.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// projectHint returns the project directory before the full load, so the config
// file can be looked up inside it.
func projectHint(flags *pflag.FlagSet) string {
	if flags != nil && flags.Changed("dir") {
		if v, err := flags.GetString("dir"); err == nil && v != "" {
			return v
		}
	}
	if v := os.Getenv(EnvPrefix + "PROJECT_DIR"); v != "" {
		return v
	}
	return "."
}

// findConfigFile returns the config file to load, or "" when there is none.
// Priority: explicit path > sprout.yaml > sprout.yml in the project directory.
func findConfigFile(explicit, projectDir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range FileNames {
		candidate := filepath.Join(projectDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
