package bootstrap

import "github.com/aretw0/sprout/pkg/domain"

// DefaultPackages lists the system packages installed per package manager.
var DefaultPackages = map[string][]string{
	"apt":   {"git", "nodejs", "npm", "python3-pip", "python3-venv", "sudo"},
	"dnf":   {"git", "nodejs", "npm", "python3-pip", "python3-venv", "sudo"},
	"brew":  {"git", "node", "python3", "python3-venv", "sudo"},
	"choco": {"git", "nodejs", "python3", "python3-venv", "sudo"},
}

// HomebrewInstaller bootstraps Homebrew on macOS hosts that lack it.
var HomebrewInstaller = domain.NewCommand("/bin/bash", "-c",
	`$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)`)

// task is a command preceded by an optional progress line.
type task struct {
	msg string
	cmd domain.Command
}

// PackagesFor returns the configured package list of manager, or its default.
func (s Settings) PackagesFor(manager string) []string {
	if pkgs, ok := s.Packages[manager]; ok && len(pkgs) > 0 {
		return pkgs
	}
	return DefaultPackages[manager]
}

// systemTasks returns the update/upgrade/install sequence of a package manager,
// ending with the npm self-update.
func systemTasks(manager string, pkgs []string) []task {
	install := func(prefix ...string) domain.Command {
		args := append(append([]string{}, prefix[1:]...), pkgs...)
		return domain.NewCommand(prefix[0], args...)
	}

	switch manager {
	case "apt":
		return []task{
			{"Updating package lists...", domain.NewCommand("sudo", "apt", "update")},
			{"Upgrading system packages...", domain.NewCommand("sudo", "apt", "upgrade", "-y")},
			{"Installing required packages...", install("sudo", "apt", "install", "-y")},
			{"", domain.NewCommand("sudo", "npm", "install", "-g", "npm@latest")},
		}
	case "dnf":
		return []task{
			{"Updating package lists...", domain.NewCommand("sudo", "dnf", "check-update")},
			{"Upgrading system packages...", domain.NewCommand("sudo", "dnf", "upgrade", "-y")},
			{"Installing required packages...", install("sudo", "dnf", "install", "-y")},
			{"", domain.NewCommand("sudo", "npm", "install", "-g", "npm@latest")},
		}
	case "brew":
		return []task{
			{"Updating Homebrew...", domain.NewCommand("brew", "update")},
			{"Upgrading Homebrew packages...", domain.NewCommand("brew", "upgrade")},
			{"Installing required packages...", install("brew", "install")},
			{"", domain.NewCommand("npm", "install", "-g", "npm@latest")},
		}
	case "choco":
		return []task{
			{"Upgrading Chocolatey packages...", domain.NewCommand("choco", "upgrade", "all", "-y")},
			{"Installing required packages...", install("choco", "install", "-y")},
			{"", domain.NewCommand("npm", "install", "-g", "npm@latest")},
		}
	}
	return nil
}
