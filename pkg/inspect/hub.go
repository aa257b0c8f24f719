package inspect

import "sync"

// sendBuffer is the per-connection event queue depth. A consumer that
// falls further behind than this starts losing events rather than
// blocking mutation delivery.
const sendBuffer = 64

// hub fans change events out to connected websocket clients.
type hub struct {
	mu    sync.Mutex
	conns map[*client]struct{}
}

// client is one websocket consumer.
type client struct {
	send chan Event
}

func newHub() *hub {
	return &hub{conns: make(map[*client]struct{})}
}

// add registers a new consumer and returns it.
func (h *hub) add() *client {
	c := &client{send: make(chan Event, sendBuffer)}
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// remove unregisters a consumer and closes its queue.
func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; !ok {
		return
	}
	delete(h.conns, c)
	close(c.send)
}

// broadcast queues e on every consumer, dropping it for consumers whose
// queue is full.
func (h *hub) broadcast(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		select {
		case c.send <- e:
		default:
		}
	}
}

// size returns the number of connected consumers.
func (h *hub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
