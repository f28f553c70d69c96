package conversation

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry maps session ids to their History.
//
// Looking up an unknown id through GetOrCreate registers an empty history for it.
// Sessions are never removed; the registry lives as long as its owner.
type Registry struct {
	mu        sync.RWMutex
	histories map[string]*History
	order     []string
}

func NewRegistry() *Registry {
	return &Registry{
		histories: map[string]*History{},
	}
}

// GetOrCreate returns the history for id, creating and registering an empty one first if needed.
// An existing history is never replaced.
func (r *Registry) GetOrCreate(id string) *History {
	r.mu.RLock()
	h, ok := r.histories[id]
	r.mu.RUnlock()
	if ok {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another caller may have created it between the two locks
	if h, ok := r.histories[id]; ok {
		return h
	}
	h = NewHistory()
	r.histories[id] = h
	r.order = append(r.order, id)
	log.Debug().Str("session_id", id).Int("sessions", len(r.order)).Msg("created session")

	return h
}

// Get looks up the history for id without creating it.
func (r *Registry) Get(id string) (*History, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.histories[id]
	return h, ok
}

func (r *Registry) Exists(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// IDs returns the known session ids in creation order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]string, len(r.order))
	copy(ret, r.order)
	return ret
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
