package stores

import (
	"strings"
	"sync"
)

// hub fans document change events out to prefix subscriptions. All writes go
// through the owning store, so publishing after a successful write is enough
// to keep every live subscription current.
type hub struct {
	mu      sync.Mutex
	nextId  int
	subs    map[int]subscription
}

type subscription struct {
	prefix   string
	onChange func(Event)
}

func newHub() *hub {
	return &hub{subs: make(map[int]subscription)}
}

func (h *hub) add(prefix string, onChange func(Event)) func() {
	h.mu.Lock()
	id := h.nextId
	h.nextId++
	h.subs[id] = subscription{prefix: prefix, onChange: onChange}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

func (h *hub) publish(event Event) {
	h.mu.Lock()
	matched := make([]func(Event), 0, len(h.subs))
	for _, sub := range h.subs {
		if event.Path == sub.prefix || strings.HasPrefix(event.Path, sub.prefix+"/") {
			matched = append(matched, sub.onChange)
		}
	}
	h.mu.Unlock()

	for _, onChange := range matched {
		onChange(event)
	}
}
