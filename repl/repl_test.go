package repl

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeozeozeo/elizabot/eliza"
	"go.uber.org/goleak"
)

func testConversation(t *testing.T) *eliza.Conversation {
	t.Helper()
	e, err := eliza.New(eliza.Rules{
		Initial: []string{"How do you do."},
		Final:   []string{"Goodbye."},
		Quit:    []string{"quit"},
		Post:    []eliza.Replacement{{From: "my", To: "your"}},
		Keywords: []eliza.Keyword{
			{Word: "xnone", Decompositions: []eliza.Decomposition{{Pattern: "*", Reasmb: []string{"Please go on."}}}},
			{Word: "i need", Weight: 1, Decompositions: []eliza.Decomposition{{Pattern: "* i need *", Reasmb: []string{"Why do you need (2) ?"}}}},
		},
	})
	require.NoError(t, err)
	return e.NewConversation()
}

func TestRunStopsOnFarewell(t *testing.T) {
	defer goleak.VerifyNone(t)

	var out strings.Builder
	s := &Session{In: strings.NewReader("hello\nwell i need my coffee\nquit\nnever read\n"), Out: &out, Prompt: "> "}
	require.NoError(t, s.Run(context.Background(), testConversation(t)))

	want := "How do you do.\n" +
		"> Please go on.\n" +
		"> Why do you need your coffee ?\n" +
		"> Goodbye.\n"
	assert.Equal(t, want, out.String())
}

func TestRunStopsAtEOF(t *testing.T) {
	defer goleak.VerifyNone(t)

	var out strings.Builder
	s := &Session{In: strings.NewReader("hello\n"), Out: &out}
	require.NoError(t, s.Run(context.Background(), testConversation(t)))
	assert.Equal(t, "How do you do.\nPlease go on.\n", out.String())
}

func TestRunCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, w := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	s := &Session{In: r, Out: &out}
	err := s.Run(ctx, testConversation(t))
	assert.ErrorIs(t, err, context.Canceled)

	// unblock the reader goroutine
	w.Close()
}

func TestRunWithoutGreeting(t *testing.T) {
	e, err := eliza.New(eliza.Rules{Keywords: []eliza.Keyword{
		{Word: "xnone", Decompositions: []eliza.Decomposition{{Pattern: "*", Reasmb: []string{"ok"}}}},
	}})
	require.NoError(t, err)

	s := &Session{In: strings.NewReader(""), Out: io.Discard}
	assert.ErrorIs(t, s.Run(context.Background(), e.NewConversation()), eliza.ErrNoGreeting)
}
