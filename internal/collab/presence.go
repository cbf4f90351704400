package collab

import (
	"slices"
	"sync"
)

// Presence tracks what each user in a room is pointing at.
type Presence struct {
	mu    sync.RWMutex
	users map[string]*PresencePayload // userID -> presence
}

func NewPresence() *Presence {
	return &Presence{users: make(map[string]*PresencePayload)}
}

func (p *Presence) Set(userID string, state *PresencePayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[userID] = state
}

func (p *Presence) Remove(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.users, userID)
}

// Snapshot returns a deep copy, safe to marshal without the lock.
func (p *Presence) Snapshot() map[string]*PresencePayload {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]*PresencePayload, len(p.users))
	for id, state := range p.users {
		c := *state
		c.Selection = slices.Clone(state.Selection)
		out[id] = &c
	}
	return out
}

// PruneSelections drops ids that are not in live from every user's
// selection, e.g. after an undo removed elements.
func (p *Presence) PruneSelections(live map[string]bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, state := range p.users {
		var kept []string
		for _, id := range state.Selection {
			if live[id] {
				kept = append(kept, id)
			}
		}
		state.Selection = kept
	}
}
