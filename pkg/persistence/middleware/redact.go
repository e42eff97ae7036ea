package middleware

import (
	"context"
	"regexp"
	"strings"

	"github.com/aretw0/sprout/pkg/domain"
	"github.com/aretw0/sprout/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

// DefaultRedactPatterns match the git identity keys written by the git phase.
var DefaultRedactPatterns = []string{`^user\.(name|email)$`}

type redactMiddleware struct {
	next     ports.ReportStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks command arguments before a
// report is persisted. A value is masked when it follows an argument matching
// one of the patterns ("user.name", "Ada") or is assigned to one ("TOKEN=abc").
func NewRedactMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ReportStore) ports.ReportStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactMiddleware) Save(ctx context.Context, report *domain.Report) error {
	// Copy so the report held by the caller keeps the real values.
	cloned := *report
	cloned.Phases = make([]domain.PhaseResult, len(report.Phases))
	for i, p := range report.Phases {
		cmds := make([]domain.CommandResult, len(p.Commands))
		for j, c := range p.Commands {
			c.Command.Args = m.maskArgs(c.Command.Args)
			cmds[j] = c
		}
		p.Commands = cmds
		cloned.Phases[i] = p
	}
	return m.next.Save(ctx, &cloned)
}

func (m *redactMiddleware) Load(ctx context.Context, id string) (*domain.Report, error) {
	return m.next.Load(ctx, id)
}

func (m *redactMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactMiddleware) maskArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	out := make([]string, len(args))
	copy(out, args)

	for i, a := range out {
		if k, _, ok := strings.Cut(a, "="); ok && m.matches(k) {
			out[i] = k + "=" + Mask
			continue
		}
		if m.matches(a) && i+1 < len(out) {
			out[i+1] = Mask
		}
	}
	return out
}

func (m *redactMiddleware) matches(s string) bool {
	for _, p := range m.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
