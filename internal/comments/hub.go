package comments

import "sync"

// Hub fans new comments out to live subscribers, keyed by obra. Slow
// subscribers are dropped rather than allowed to block a publish.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan *Comment]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan *Comment]struct{})}
}

// Subscribe registers a listener for one obra. The returned cancel func must
// be called exactly once; after it returns the channel is closed.
func (h *Hub) Subscribe(obraID string) (<-chan *Comment, func()) {
	ch := make(chan *Comment, 16)

	h.mu.Lock()
	set, ok := h.subs[obraID]
	if !ok {
		set = make(map[chan *Comment]struct{})
		h.subs[obraID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[obraID]; ok {
			if _, live := set[ch]; live {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, obraID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Publish(c *Comment) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[c.ObraID] {
		select {
		case ch <- c:
		default:
		}
	}
}

func (h *Hub) Subscribers(obraID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[obraID])
}
