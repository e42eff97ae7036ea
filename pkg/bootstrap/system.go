package bootstrap

import (
	"context"
	"fmt"

	"github.com/aretw0/sprout/pkg/domain"
)

// installSystem installs git, Node.js and Python through the platform's package manager.
func (b *Bootstrapper) installSystem(ctx context.Context, p *phase) error {
	p.say("Checking and installing system dependencies...")

	switch b.settings.Platform {
	case domain.PlatformLinux:
		for _, manager := range []string{"apt", "dnf"} {
			if p.has(manager) {
				return p.runAll(systemTasks(manager, b.settings.PackagesFor(manager)))
			}
		}
		p.skip("no supported package manager (apt, dnf)")
		return nil

	case domain.PlatformDarwin:
		if !p.has("brew") {
			p.say("Installing Homebrew...")
			if err := p.run(HomebrewInstaller); err != nil {
				return err
			}
		}
		return p.runAll(systemTasks("brew", b.settings.PackagesFor("brew")))

	case domain.PlatformWindows:
		if !p.has("choco") {
			p.say("Please install Chocolatey package manager for Windows first.")
			p.say("Visit: https://chocolatey.org/install")
			return fmt.Errorf("choco: %w", domain.ErrPackageManagerMissing)
		}
		return p.runAll(systemTasks("choco", b.settings.PackagesFor("choco")))
	}

	p.skip(fmt.Sprintf("unsupported platform %q", b.settings.Platform))
	return nil
}
