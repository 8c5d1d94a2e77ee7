package dispatch

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultHistoryTurns = 10
	DefaultHistoryChars = 500
)

// Window bounds the history sent with each message.
type Window struct {
	Turns int
	Chars int
}

func (w Window) normalized() Window {
	if w.Turns <= 0 {
		w.Turns = DefaultHistoryTurns
	}
	if w.Chars <= 0 {
		w.Chars = DefaultHistoryChars
	}
	return w
}

// Apply keeps the most recent turns, truncates each to the character cap and normalizes
// roles.
func (w Window) Apply(turns []Turn) []Turn {
	w = w.normalized()
	if len(turns) > w.Turns {
		turns = turns[len(turns)-w.Turns:]
	}

	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		text := []rune(t.Text)
		if len(text) > w.Chars {
			text = text[:w.Chars]
		}
		out = append(out, Turn{Role: NormalizeRole(string(t.Role)), Text: string(text)})
	}
	return out
}

type Entry struct {
	ID   string    `json:"id"`
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Conversation is the in-memory chat log of one widget. Entries are only ever appended.
type Conversation struct {
	mu       sync.Mutex
	entries  []Entry
	observer func(Entry)
}

func NewConversation(observer func(Entry)) *Conversation {
	return &Conversation{observer: observer}
}

func (c *Conversation) Append(role Role, text string) Entry {
	e := Entry{
		ID:   uuid.NewString(),
		Role: role,
		Text: text,
		At:   time.Now().UTC(),
	}

	c.mu.Lock()
	c.entries = append(c.entries, e)
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer(e)
	}
	return e
}

func (c *Conversation) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// History returns the windowed user/assistant turns. Error and warning entries are not part
// of the dialogue.
func (c *Conversation) History(w Window) []Turn {
	c.mu.Lock()
	turns := make([]Turn, 0, len(c.entries))
	for _, e := range c.entries {
		if e.Role != RoleUser && e.Role != RoleAssistant {
			continue
		}
		turns = append(turns, Turn{Role: e.Role, Text: e.Text})
	}
	c.mu.Unlock()

	return w.Apply(turns)
}
