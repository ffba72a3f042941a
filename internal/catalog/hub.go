package catalog

import "sync"

// Hub fans out "something changed" pings. Slow subscribers drop pings rather than block
// the sender; subscribers re-read whatever state they render, so a dropped ping is harmless.
type Hub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: map[chan struct{}]struct{}{}}
}

// Subscribe registers a listener. cancel unregisters it and closes the channel; it is safe to
// call more than once.
func (h *Hub) Subscribe() (ch <-chan struct{}, cancel func()) {
	c := make(chan struct{}, 8)
	h.mu.Lock()
	h.subs[c] = struct{}{}
	h.mu.Unlock()
	var once sync.Once
	return c, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, c)
			h.mu.Unlock()
			close(c)
		})
	}
}

func (h *Hub) Broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}
