package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("  Ada Lovelace \nada@example.com\n"), &out)
	ctx := context.Background()

	assert.False(t, p.Interactive(), "a strings.Reader is not a terminal")

	name, err := p.Ask(ctx, "Enter your name: ")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", name)

	email, err := p.Ask(ctx, "Enter your email: ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)

	assert.Equal(t, "Enter your name: Enter your email: ", out.String())

	_, err = p.Ask(ctx, "again: ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextPrompter_LastLineWithoutNewline(t *testing.T) {
	p := New(strings.NewReader("dev"), io.Discard, WithInteractive(true))
	assert.True(t, p.Interactive())

	got, err := p.Ask(context.Background(), "> ")
	require.NoError(t, err)
	assert.Equal(t, "dev", got)
}

func TestTextPrompter_Cancellation(t *testing.T) {
	r, _ := io.Pipe()
	p := New(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Ask(ctx, "Enter your name: ")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTextPrompter_LeavesInputAloneBetweenQuestions(t *testing.T) {
	r, w := io.Pipe()
	defer r.Close()
	p := New(r, io.Discard)

	go func() { _, _ = w.Write([]byte("Ada\n")) }()
	name, err := p.Ask(context.Background(), "Enter your name: ")
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)

	// A child process writing to the shared input must not be drained by the prompter.
	written := make(chan struct{})
	go func() {
		_, _ = w.Write([]byte("ada@example.com\n"))
		close(written)
	}()
	select {
	case <-written:
		t.Fatal("input was consumed while no question was asked")
	case <-time.After(50 * time.Millisecond):
	}

	email, err := p.Ask(context.Background(), "Enter your email: ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)
	<-written
}

func TestTextPrompter_ReadSurvivesCancellation(t *testing.T) {
	r, w := io.Pipe()
	defer r.Close()
	p := New(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Ask(ctx, "Enter your name: ")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	go func() { _, _ = w.Write([]byte("Ada\n")) }()
	name, err := p.Ask(context.Background(), "Enter your name: ")
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)
}

func TestSanitize(t *testing.T) {
	got, err := Sanitize("Ada\x1b[31m Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Ada[31m Lovelace", got)

	_, err = Sanitize(strings.Repeat("a", MaxInputSize+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = Sanitize(string([]byte{0xff, 0xfe}))
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestStatic(t *testing.T) {
	var s Static
	assert.False(t, s.Interactive())
	_, err := s.Ask(context.Background(), "q")
	assert.ErrorIs(t, err, io.EOF)
}
