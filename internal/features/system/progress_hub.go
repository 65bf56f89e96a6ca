package system

import (
	"sync"

	"chainsync/internal/features/importer"
)

// ProgressHub fans import progress events out to websocket subscribers,
// keyed by session ID. Publishing never blocks: a subscriber that cannot
// keep up loses events rather than stalling the import.
type ProgressHub struct {
	mu   sync.RWMutex
	subs map[string]map[chan importer.Progress]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{subs: make(map[string]map[chan importer.Progress]struct{})}
}

func (h *ProgressHub) Subscribe(sessionID string) chan importer.Progress {
	ch := make(chan importer.Progress, 16)

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan importer.Progress]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *ProgressHub) Unsubscribe(sessionID string, ch chan importer.Progress) {
	h.mu.Lock()
	if set, ok := h.subs[sessionID]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(h.subs, sessionID)
		}
	}
	h.mu.Unlock()
	close(ch)
}

func (h *ProgressHub) Publish(p importer.Progress) {
	h.mu.RLock()
	for ch := range h.subs[p.SessionID] {
		select {
		case ch <- p:
		default:
		}
	}
	h.mu.RUnlock()
}
