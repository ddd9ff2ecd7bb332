package eliza

import "errors"

var ErrConversationEnded = errors.New("conversation has ended")

// State is the state of a Conversation.
type State int

const (
	StateActive State = iota
	StateEnded
)

func (s State) String() string {
	if s == StateEnded {
		return "ended"
	}
	return "active"
}

// Conversation is a single session with an Engine. It ends on the first
// farewell. A Conversation is not safe for concurrent use, the Engine is.
type Conversation struct {
	engine *Engine
	state  State
}

func (e *Engine) NewConversation() *Conversation {
	return &Conversation{engine: e}
}

func (c *Conversation) State() State { return c.state }

func (c *Conversation) Greeting() (string, error) {
	return c.engine.Greeting()
}

// Interact answers input. After a farewell every call fails with ErrConversationEnded.
func (c *Conversation) Interact(input string) (Response, error) {
	if c.state == StateEnded {
		return Response{}, ErrConversationEnded
	}
	res, err := c.engine.Interact(input)
	if err != nil {
		return Response{}, err
	}
	if res.IsFarewell {
		c.state = StateEnded
	}
	return res, nil
}
