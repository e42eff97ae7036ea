// Package doctor inspects a host and project before a bootstrap run.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/sprout/pkg/bootstrap"
	"github.com/aretw0/sprout/pkg/domain"
	"github.com/aretw0/sprout/pkg/ports"
)

// Status is the outcome of a single health check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
	StatusSkip Status = "skip"
)

// Result holds the outcome of a single health check.
type Result struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Pass creates a passing check result.
func Pass(name, message string) Result {
	return Result{Name: name, Status: StatusPass, Message: message}
}

// Fail creates a failing check result. Failures make the doctor exit non-zero:
// they predict a terminal error in a real run.
func Fail(name, message string) Result {
	return Result{Name: name, Status: StatusFail, Message: message}
}

// Warn creates a warning check result. Warnings predict a skipped or failed phase.
func Warn(name, message string) Result {
	return Result{Name: name, Status: StatusWarn, Message: message}
}

// Skip creates a skipped check result.
func Skip(name, message string) Result {
	return Result{Name: name, Status: StatusSkip, Message: message}
}

// JSONOutput is the JSON output structure of the doctor command.
type JSONOutput struct {
	Platform domain.Platform `json:"platform"`
	Checks   []Result        `json:"checks"`
	OK       bool            `json:"ok"`
}

// OK reports whether no check failed.
func OK(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return false
		}
	}
	return true
}

// Check probes tools and manifests the bootstrap phases depend on.
func Check(ctx context.Context, runner ports.CommandRunner, s bootstrap.Settings) []Result {
	c := &checker{runner: runner, settings: s}

	results := []Result{c.platform()}
	results = append(results, c.packageManager()...)
	results = append(results,
		c.tool("git", "git identity phase will be skipped until git is installed"),
		c.gitIdentity(ctx),
		c.tool("npm", "node phase will fail until npm is installed"),
		c.tool(s.Interpreter(), "virtual environment cannot be created"),
		c.manifest(),
		c.optional("package-lock.json", "npm install --dev will run", "npm install --dev will not run"),
		c.optional("requirements.txt", "pip will install requirements.txt",
			"fallback set will be installed: "+strings.Join(s.FallbackPackages(), ", ")),
		c.envFile(),
	)
	return results
}

type checker struct {
	runner   ports.CommandRunner
	settings bootstrap.Settings
}

func (c *checker) has(bin string) (string, bool) {
	path, err := c.runner.LookPath(bin)
	return path, err == nil
}

func (c *checker) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(c.settings.ProjectDir, rel))
	return err == nil
}

func (c *checker) platform() Result {
	p := c.settings.Platform
	if !p.Supported() {
		return Warn("platform", "unsupported platform; system packages will not be installed")
	}
	return Pass("platform", string(p))
}

func (c *checker) packageManager() []Result {
	switch c.settings.Platform {
	case domain.PlatformLinux:
		for _, m := range []string{"apt", "dnf"} {
			if path, ok := c.has(m); ok {
				return []Result{Pass("package manager", fmt.Sprintf("%s (%s)", m, path)), c.tool("sudo", "package installation needs sudo")}
			}
		}
		return []Result{Warn("package manager", "neither apt nor dnf found; system phase will be skipped")}

	case domain.PlatformDarwin:
		if path, ok := c.has("brew"); ok {
			return []Result{Pass("package manager", "brew ("+path+")")}
		}
		if _, ok := c.has("curl"); ok {
			return []Result{Warn("package manager", "brew not found; Homebrew will be installed")}
		}
		return []Result{Fail("package manager", "brew not found and curl is missing; Homebrew cannot be installed")}

	case domain.PlatformWindows:
		if path, ok := c.has("choco"); ok {
			return []Result{Pass("package manager", "choco ("+path+")")}
		}
		return []Result{Fail("package manager", "choco not found; install it from https://chocolatey.org/install")}
	}
	return []Result{Skip("package manager", "no package manager for this platform")}
}

func (c *checker) tool(bin, consequence string) Result {
	name := "tool: " + bin
	if path, ok := c.has(bin); ok {
		return Pass(name, path)
	}
	return Warn(name, "not found; "+consequence)
}

func (c *checker) gitIdentity(ctx context.Context) Result {
	const name = "git identity"
	if _, ok := c.has("git"); !ok {
		return Skip(name, "git not found")
	}

	var unset []string
	for _, key := range []string{"user.name", "user.email"} {
		out, res := c.runner.Output(ctx, domain.NewCommand("git", "config", "--global", "--get", key))
		if !res.OK() || strings.TrimSpace(out) == "" {
			unset = append(unset, key)
		}
	}
	if len(unset) == 0 {
		return Pass(name, "user.name and user.email are set")
	}
	return Warn(name, strings.Join(unset, ", ")+" unset; you will be prompted")
}

func (c *checker) manifest() Result {
	if c.exists("package.json") {
		return Pass("manifest: package.json", "found")
	}
	return Fail("manifest: package.json", "not found; the node phase will abort the run")
}

func (c *checker) optional(file, present, absent string) Result {
	if c.exists(file) {
		return Pass("manifest: "+file, present)
	}
	return Skip("manifest: "+file, absent)
}

func (c *checker) envFile() Result {
	if c.exists(bootstrap.EnvFileName) {
		return Pass("env file", bootstrap.EnvFileName+" exists and will not be modified")
	}
	return Pass("env file", bootstrap.EnvFileName+" will be created from the template")
}
