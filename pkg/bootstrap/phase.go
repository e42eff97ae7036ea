package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/sprout/pkg/domain"
)

// phase accumulates the result of one running phase.
type phase struct {
	b      *Bootstrapper
	ctx    context.Context
	runID  string
	result domain.PhaseResult
}

func (p *phase) say(format string, args ...any) {
	p.b.say(format, args...)
}

// has probes whether a binary is invocable.
func (p *phase) has(bin string) bool {
	_, err := p.b.runner.LookPath(bin)
	return err == nil
}

// exists checks a path relative to the project directory.
func (p *phase) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(p.b.settings.ProjectDir, rel))
	return err == nil
}

func (p *phase) skip(reason string) {
	p.result.Status = domain.StatusSkipped
	p.result.Reason = reason
}

func (p *phase) fail(reason string) {
	p.result.Status = domain.StatusFailed
	p.result.Reason = reason
}

// note records a reason without deciding the status.
func (p *phase) note(reason string) {
	p.result.Reason = reason
}

// runAll prints each task's progress line and runs its command.
func (p *phase) runAll(tasks []task) error {
	for _, t := range tasks {
		if t.msg != "" {
			p.say("%s", t.msg)
		}
		if err := p.run(t.cmd); err != nil {
			return err
		}
	}
	return nil
}

// run invokes cmd and records its result. A failure only stops the phase in strict mode.
func (p *phase) run(cmd domain.Command) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}

	p.commandStart(cmd)
	res := p.b.runner.Run(p.ctx, cmd)
	p.commandEnd(res)

	if !res.OK() {
		p.b.logger.Warn("command failed", "phase", p.result.Phase, "command", cmd.String(), "exit_code", res.ExitCode, "error", res.Error)
		if p.b.settings.Strict {
			return fmt.Errorf("%s: %w", cmd, domain.ErrCommandFailed)
		}
	}
	return nil
}

// query runs a read-only lookup and returns its trimmed output.
// ok is false when the lookup exited non-zero.
func (p *phase) query(cmd domain.Command) (string, bool) {
	if p.ctx.Err() != nil {
		return "", false
	}

	p.commandStart(cmd)
	out, res := p.b.runner.Output(p.ctx, cmd)
	res.Query = true
	p.commandEnd(res)

	return strings.TrimSpace(out), res.OK()
}

func (p *phase) commandStart(cmd domain.Command) {
	p.b.logger.Debug("running command", "phase", p.result.Phase, "command", cmd.String())
	if p.b.hooks.OnCommandStart != nil {
		p.b.hooks.OnCommandStart(p.ctx, &domain.CommandEvent{
			EventBase: domain.EventBase{Timestamp: p.b.now(), Type: domain.EventCommandStart, RunID: p.runID},
			Phase:     p.result.Phase,
			Command:   cmd,
		})
	}
}

func (p *phase) commandEnd(res domain.CommandResult) {
	p.result.Commands = append(p.result.Commands, res)
	if p.b.hooks.OnCommandEnd != nil {
		p.b.hooks.OnCommandEnd(p.ctx, &domain.CommandEvent{
			EventBase: domain.EventBase{Timestamp: p.b.now(), Type: domain.EventCommandEnd, RunID: p.runID},
			Phase:     p.result.Phase,
			Command:   res.Command,
			ExitCode:  res.ExitCode,
			Duration:  res.Duration,
			IsError:   !res.Query && !res.OK(),
		})
	}
}
