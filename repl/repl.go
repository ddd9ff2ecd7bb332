// Package repl runs a conversation with the engine on a terminal.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/zeozeozeo/elizabot/eliza"
	"golang.org/x/term"
)

const DefaultPrompt = "> "

// Session reads lines from In and writes the replies to Out.
type Session struct {
	In  io.Reader
	Out io.Writer
	// Prompt is written before every line. It is left out when In is a
	// file that is not a terminal, e.g. piped input.
	Prompt string
}

// NewStdio returns a session on the process' standard input and output.
func NewStdio() *Session {
	return &Session{In: os.Stdin, Out: os.Stdout, Prompt: DefaultPrompt}
}

func (s *Session) prompt() string {
	if f, ok := s.In.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return ""
	}
	return s.Prompt
}

// Run greets, then answers one line at a time until a farewell, the end of
// the input, or ctx is done.
func (s *Session) Run(ctx context.Context, conv *eliza.Conversation) error {
	greeting, err := conv.Greeting()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(s.Out, greeting); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()

	prompt := s.prompt()
	for {
		if _, err := io.WriteString(s.Out, prompt); err != nil {
			return err
		}

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			// end of input
			if prompt != "" {
				fmt.Fprintln(s.Out)
			}
			return <-errc
		}

		res, err := conv.Interact(line)
		if err != nil {
			return err
		}
		slog.Debug("replied", slog.String("input", line), slog.Bool("farewell", res.IsFarewell))
		if _, err := fmt.Fprintln(s.Out, res.Message); err != nil {
			return err
		}
		if res.IsFarewell {
			return nil
		}
	}
}
