package domain

import (
	"strings"
	"time"
)

// Command is a single external invocation issued by a phase.
type Command struct {
	Name string   `json:"name" yaml:"name" mapstructure:"name"`
	Args []string `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"`
	// Dir is the working directory. Empty means the project directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty" mapstructure:"dir"`
}

// NewCommand builds a Command from a program name and its arguments.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// String renders the command line the way a user would type it.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quote(c.Name))
	for _, a := range c.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\"'$") {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}

// CommandResult records how a Command ended.
type CommandResult struct {
	Command  Command       `json:"command" yaml:"command"`
	ExitCode int           `json:"exit_code" yaml:"exit_code"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	// Error is set when the process could not be started or was killed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// Query marks read-only lookups whose non-zero exit is an answer, not a failure.
	Query bool `json:"query,omitempty" yaml:"query,omitempty"`
}

// OK reports whether the command started and exited with status 0.
func (r CommandResult) OK() bool {
	return r.ExitCode == 0 && r.Error == ""
}
