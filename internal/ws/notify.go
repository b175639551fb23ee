package ws

import "sync"

var (
	defaultMu  sync.RWMutex
	defaultHub *Hub
)

// SetDefaultHub installs the hub used by NotifyChanged. Called once at
// bootstrap; a nil hub turns notifications into no-ops.
func SetDefaultHub(h *Hub) {
	defaultMu.Lock()
	defaultHub = h
	defaultMu.Unlock()
}

// NotifyChanged broadcasts a change event to the company's clients through
// the default hub. Safe to call when no hub is installed.
func NotifyChanged(companyID, collection, entityID, action string) {
	defaultMu.RLock()
	h := defaultHub
	defaultMu.RUnlock()
	if h == nil || companyID == "" {
		return
	}
	h.Broadcast(companyID, ChangeEvent{
		Collection: collection,
		EntityID:   entityID,
		Action:     action,
	})
}
