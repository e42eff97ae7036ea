package domain

import "time"

// PhaseName identifies one of the ordered bootstrap phases.
type PhaseName string

const (
	PhaseSystem PhaseName = "system"
	PhaseGit    PhaseName = "git"
	PhaseNode   PhaseName = "node"
	PhasePython PhaseName = "python"
	PhaseEnv    PhaseName = "env"
)

// Phases returns every phase in execution order.
func Phases() []PhaseName {
	return []PhaseName{PhaseSystem, PhaseGit, PhaseNode, PhasePython, PhaseEnv}
}

// ParsePhase validates a phase name coming from user configuration.
func ParsePhase(s string) (PhaseName, bool) {
	for _, p := range Phases() {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Status is the outcome of a phase or of a whole run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	// StatusFailed means at least one command failed but the run continued.
	StatusFailed Status = "failed"
	// StatusAborted means a terminal condition stopped the run.
	StatusAborted Status = "aborted"
)

// PhaseResult is the outcome of a single phase.
type PhaseResult struct {
	Phase     PhaseName       `json:"phase" yaml:"phase"`
	Status    Status          `json:"status" yaml:"status"`
	Reason    string          `json:"reason,omitempty" yaml:"reason,omitempty"`
	Commands  []CommandResult `json:"commands,omitempty" yaml:"commands,omitempty"`
	StartedAt time.Time       `json:"started_at" yaml:"started_at"`
	Duration  time.Duration   `json:"duration" yaml:"duration"`
}

// FailedCommands returns the commands of the phase that did not succeed.
// Queries are never reported as failures.
func (p PhaseResult) FailedCommands() []CommandResult {
	var failed []CommandResult
	for _, c := range p.Commands {
		if !c.Query && !c.OK() {
			failed = append(failed, c)
		}
	}
	return failed
}
