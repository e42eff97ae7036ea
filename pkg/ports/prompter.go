package ports

import "context"

// Prompter collects free-form answers from the user.
type Prompter interface {
	// Interactive reports whether a human can answer (stdin is a terminal and prompts are allowed).
	Interactive() bool

	// Ask prints question and returns the trimmed answer.
	// io.EOF is returned when the input stream is closed.
	Ask(ctx context.Context, question string) (string, error)
}
