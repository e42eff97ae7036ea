package bootstrap

import (
	"context"
	"fmt"

	"github.com/aretw0/sprout/pkg/domain"
)

// installNode installs the project's npm dependencies.
// The manifest is checked before anything else so a wrong directory issues no command.
func (b *Bootstrapper) installNode(ctx context.Context, p *phase) error {
	p.say("\nSetting up Node.js project...")

	if !p.exists("package.json") {
		p.say("Error: package.json not found. Please ensure you're in the correct directory.")
		return fmt.Errorf("package.json: %w", domain.ErrManifestMissing)
	}

	if !p.has("npm") {
		p.say("Error: npm is not installed. Please ensure Node.js and npm are properly installed.")
		p.fail("npm is not installed")
		return nil
	}

	tasks := []task{
		{"Updating npm to latest version...", domain.NewCommand("npm", "install", "-g", "npm@latest")},
		{"Installing Node.js dependencies...", domain.NewCommand("npm", "install")},
	}
	if p.exists("package-lock.json") {
		tasks = append(tasks, task{"", domain.NewCommand("npm", "install", "--dev")})
	}
	tasks = append(tasks, task{"\nChecking for package funding opportunities...", domain.NewCommand("npm", "fund")})

	return p.runAll(tasks)
}
