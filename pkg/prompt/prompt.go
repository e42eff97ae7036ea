// Package prompt reads answers to interactive questions from a terminal.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// TextPrompter implements ports.Prompter over a line-oriented reader.
// A line is read only while Ask waits for it, so between questions the input
// is left to the child processes that inherit it.
type TextPrompter struct {
	Reader *bufio.Reader
	Writer io.Writer

	interactive bool

	mu sync.Mutex
	// pending carries the result of a read that outlived a cancelled Ask.
	pending chan inputResult
}

type inputResult struct {
	text string
	err  error
}

// Option configures a TextPrompter.
type Option func(*TextPrompter)

// WithInteractive overrides terminal detection.
func WithInteractive(interactive bool) Option {
	return func(p *TextPrompter) {
		p.interactive = interactive
	}
}

// New creates a prompter. Nil streams default to Stdin and Stdout.
// The session is interactive when r is a terminal.
func New(r io.Reader, w io.Writer, opts ...Option) *TextPrompter {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	p := &TextPrompter{
		Reader:      bufio.NewReader(r),
		Writer:      w,
		interactive: IsTerminal(r),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsTerminal reports whether r is a file attached to a terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Interactive reports whether a human can answer.
func (p *TextPrompter) Interactive() bool {
	return p.interactive
}

// Ask prints question without a trailing newline and returns the trimmed, sanitized answer.
// A closed input returns io.EOF. Cancellation returns ctx.Err() without printing anything.
func (p *TextPrompter) Ask(ctx context.Context, question string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(p.Writer, question)

		res, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		if res.text == "" && res.err != nil {
			return "", res.err
		}
		clean, err := Sanitize(strings.TrimSpace(res.text))
		if err != nil {
			fmt.Fprintf(p.Writer, "Error: %v. Please try again.\n", err)
			continue
		}
		return clean, nil
	}
}

// readLine waits for one line. The read runs in its own goroutine so ctx can
// interrupt the wait; an interrupted read is picked up by the next call.
func (p *TextPrompter) readLine(ctx context.Context) (inputResult, error) {
	if p.pending == nil {
		ch := make(chan inputResult, 1)
		p.pending = ch
		go func() {
			text, err := p.Reader.ReadString('\n')
			ch <- inputResult{text: text, err: err}
		}()
	}

	select {
	case <-ctx.Done():
		return inputResult{}, ctx.Err()
	case res := <-p.pending:
		p.pending = nil
		return res, nil
	}
}

// Static is a non-interactive Prompter used when no human can answer.
type Static struct{}

// Interactive always reports false.
func (Static) Interactive() bool { return false }

// Ask always returns io.EOF.
func (Static) Ask(context.Context, string) (string, error) { return "", io.EOF }
