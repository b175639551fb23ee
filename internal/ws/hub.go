package ws

import (
	"sync"

	"sandra-backend/internal/shared/telemetry"
)

// ChangeEvent tells connected clients that a collection changed and they
// should refetch. Payloads stay small on purpose; the data itself travels
// over the REST API.
type ChangeEvent struct {
	Collection string `json:"collection"`
	EntityID   string `json:"entityId"`
	Action     string `json:"action"`
}

// Hub fans change events out to the websocket clients of one company.
// Clients only ever see events for their own company.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool
}

// NewHub constructs a Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]bool)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.companyID]
	if !ok {
		set = make(map[*Client]bool)
		h.clients[c.companyID] = set
	}
	set[c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.companyID]
	if !ok {
		return
	}
	if set[c] {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.clients, c.companyID)
	}
}

// Broadcast delivers the event to every client of the company. Slow clients
// whose buffers are full are dropped rather than blocking the sender.
func (h *Hub) Broadcast(companyID string, event ChangeEvent) {
	h.mu.RLock()
	var stale []*Client
	for c := range h.clients[companyID] {
		select {
		case c.send <- event:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		telemetry.Warn("ws.client_dropped", map[string]any{"company_id": companyID})
		h.unregister(c)
	}
}
