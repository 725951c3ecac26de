package agent

import (
	"sync"

	"github.com/quizpilot/quizpilot/internal/mcq"
)

type EventType string

const (
	EventScan   EventType = "scan"
	EventAnswer EventType = "answer"
	EventStats  EventType = "stats"
	EventError  EventType = "error"
)

// Event is one item on the session stream consumed by external UIs.
type Event struct {
	Type     EventType  `json:"type"`
	Question string     `json:"question,omitempty"`
	Answer   string     `json:"answer,omitempty"`
	Matched  string     `json:"matched,omitempty"`
	Tier     string     `json:"tier,omitempty"`
	Provider string     `json:"provider,omitempty"`
	Found    int        `json:"found,omitempty"`
	Error    string     `json:"error,omitempty"`
	Stats    *mcq.Stats `json:"stats,omitempty"`
}

// Bus fans events out to subscribers. Publish never blocks; a subscriber
// that stops draining loses events rather than stalling the agent.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe returns a receive channel and a cancel func that closes it.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, 16)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
