package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/sprout/pkg/domain"
)

type identityKey struct {
	key    string
	prompt string
	preset string
}

// configureGit makes sure user.name and user.email are set globally.
// A key counts as unset when the lookup fails or prints nothing.
func (b *Bootstrapper) configureGit(ctx context.Context, p *phase) error {
	if !p.has("git") {
		p.skip("git not found")
		return nil
	}

	keys := []identityKey{
		{key: "user.name", prompt: "Enter your name: ", preset: b.settings.Git.Name},
		{key: "user.email", prompt: "Enter your email: ", preset: b.settings.Git.Email},
	}

	var missing []identityKey
	for _, k := range keys {
		value, ok := p.query(domain.NewCommand("git", "config", "--global", "--get", k.key))
		if !ok || value == "" {
			missing = append(missing, k)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(missing) == 0 {
		p.skip("git identity already configured")
		return nil
	}

	var pending []identityKey
	wrote := false
	for _, k := range missing {
		if v := strings.TrimSpace(k.preset); v != "" {
			if err := p.run(setIdentity(k.key, v)); err != nil {
				return err
			}
			wrote = true
			continue
		}
		pending = append(pending, k)
	}
	if len(pending) == 0 {
		return nil
	}

	if !b.interactive() {
		reason := "git identity unset; run interactively to configure"
		if wrote {
			p.note(reason)
		} else {
			p.skip(reason)
		}
		return nil
	}

	p.say("\nGit needs to be configured. Please enter your details:")
	var unset []string
	for _, k := range pending {
		answer, err := b.prompter.Ask(ctx, k.prompt)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Closed input counts as an empty answer.
			b.logger.Debug("no answer", "key", k.key, "error", err)
			answer = ""
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			unset = append(unset, k.key)
			continue
		}
		if err := p.run(setIdentity(k.key, answer)); err != nil {
			return err
		}
		wrote = true
	}
	if len(unset) > 0 {
		reason := fmt.Sprintf("%s left unset", strings.Join(unset, ", "))
		if wrote {
			p.note(reason)
		} else {
			p.skip(reason)
		}
	}
	return nil
}

func setIdentity(key, value string) domain.Command {
	return domain.NewCommand("git", "config", "--global", key, value)
}
