package collab

import (
	"sync"
)

// Viewers tracks the clients of a room and the elements each has selected, in join order.
type Viewers struct {
	mu      sync.RWMutex
	order   []string
	viewers map[string]*PresencePayload
}

func NewViewers() *Viewers {
	return &Viewers{viewers: make(map[string]*PresencePayload)}
}

func (v *Viewers) Join(clientID, name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.viewers[clientID]; ok {
		return
	}
	v.order = append(v.order, clientID)
	v.viewers[clientID] = &PresencePayload{ClientID: clientID, Name: name}
}

// Select replaces the selection of a viewer and returns the updated presence.
func (v *Viewers) Select(clientID string, selection []string) (PresencePayload, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.viewers[clientID]
	if !ok {
		return PresencePayload{}, false
	}
	p.Selection = append([]string(nil), selection...)
	return *p, true
}

func (v *Viewers) Leave(clientID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.viewers[clientID]; !ok {
		return
	}
	delete(v.viewers, clientID)
	for i, id := range v.order {
		if id == clientID {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}

func (v *Viewers) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.order)
}

func (v *Viewers) State() PresenceStatePayload {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := PresenceStatePayload{Viewers: make([]PresencePayload, 0, len(v.order))}
	for _, id := range v.order {
		out.Viewers = append(out.Viewers, *v.viewers[id])
	}
	return out
}
