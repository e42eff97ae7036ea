package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aretw0/sprout/pkg/domain"
)

// EnvFileName is created at the project root.
const EnvFileName = ".env"

// EnvTemplate is the content of a freshly created .env file.
const EnvTemplate = `# OpenAI API Key
OPENAI_API_KEY=your_openai_api_key_here

# Environment
NODE_ENV=development

# Add any other environment variables here
`

// writeEnvFile creates .env from EnvTemplate. An existing file is never opened for writing.
func (b *Bootstrapper) writeEnvFile(ctx context.Context, p *phase) error {
	if p.exists(EnvFileName) {
		p.skip(EnvFileName + " already exists")
		return nil
	}

	p.say("\nCreating .env file...")
	if b.settings.DryRun {
		p.note("dry run: " + EnvFileName + " not written")
		return nil
	}

	path := filepath.Join(b.settings.ProjectDir, EnvFileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			p.skip(EnvFileName + " already exists")
			return nil
		}
		return b.envFailure(p, err)
	}
	_, err = f.WriteString(EnvTemplate)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return b.envFailure(p, err)
	}

	p.say("Please update the .env file with your actual API keys and configuration.")
	return nil
}

func (b *Bootstrapper) envFailure(p *phase, err error) error {
	p.fail(fmt.Sprintf("cannot write %s: %v", EnvFileName, err))
	b.logger.Warn("env file not written", "error", err)
	if b.settings.Strict {
		return fmt.Errorf("%s: %w", EnvFileName, domain.ErrCommandFailed)
	}
	return nil
}
