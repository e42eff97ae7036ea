package domain

import "time"

// Report aggregates the phase results of one bootstrap run.
type Report struct {
	ID         string        `json:"id" yaml:"id"`
	ProjectDir string        `json:"project_dir" yaml:"project_dir"`
	Platform   Platform      `json:"platform" yaml:"platform"`
	DryRun     bool          `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Status     Status        `json:"status" yaml:"status"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time     `json:"finished_at" yaml:"finished_at"`
	Phases     []PhaseResult `json:"phases" yaml:"phases"`
}

// Phase returns the result recorded for name, if that phase ran.
func (r *Report) Phase(name PhaseName) (PhaseResult, bool) {
	for _, p := range r.Phases {
		if p.Phase == name {
			return p, true
		}
	}
	return PhaseResult{}, false
}

// Commands flattens the commands of every phase in execution order.
func (r *Report) Commands() []Command {
	var cmds []Command
	for _, p := range r.Phases {
		for _, c := range p.Commands {
			cmds = append(cmds, c.Command)
		}
	}
	return cmds
}

// Summarize derives the run status from the phase results.
// A terminal error always wins over per-phase failures.
func (r *Report) Summarize() Status {
	if r.Error != "" {
		r.Status = StatusAborted
		return r.Status
	}
	r.Status = StatusSuccess
	for _, p := range r.Phases {
		switch p.Status {
		case StatusAborted:
			r.Status = StatusAborted
			return r.Status
		case StatusFailed:
			r.Status = StatusFailed
		}
	}
	return r.Status
}
