package state

import (
	"sync"
	"time"

	"github.com/webspot/webspot/internal/domain"
)

// EventKind names the optimistic mutations applied to the in-memory list.
type EventKind int

const (
	Added EventKind = iota
	Removed
	Updated
)

// Event is one optimistic mutation. Added carries Website, Removed
// carries ID, Updated carries ID and Patch.
type Event struct {
	Kind    EventKind
	Website *domain.Website
	ID      string
	Patch   domain.Patch
}

// List is the in-memory snapshot of the active backend's records.
// It is a derived, disposable cache: never authoritative, rebuilt from
// the backend on every session transition.
//
// Fetch generations guard against stale re-fetches: a fetch commits its
// result only if no newer fetch has begun since it was issued.
type List struct {
	mu         sync.RWMutex
	websites   []*domain.Website
	generation uint64
	lastFetch  time.Time
}

func NewList() *List {
	return &List{websites: []*domain.Website{}}
}

// Snapshot returns a copy of the current list.
func (l *List) Snapshot() []*domain.Website {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.Website, len(l.websites))
	copy(out, l.websites)
	return out
}

// Len returns the number of records in the snapshot.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.websites)
}

// Apply merges one optimistic event into the list.
// The reducer is pure list manipulation, independent of backend timing.
func (l *List) Apply(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch e.Kind {
	case Added:
		if e.Website != nil {
			l.websites = append(l.websites, e.Website)
		}
	case Removed:
		kept := make([]*domain.Website, 0, len(l.websites))
		for _, w := range l.websites {
			if w.ID != e.ID {
				kept = append(kept, w)
			}
		}
		l.websites = kept
	case Updated:
		for _, w := range l.websites {
			if w.ID == e.ID {
				clone := *w
				e.Patch.Apply(&clone)
				*w = clone
				break
			}
		}
	}
}

// Begin starts a new fetch cycle and returns its generation.
// Beginning a fetch supersedes every fetch still in flight.
func (l *List) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.generation++
	return l.generation
}

// Commit installs a fetch result if gen is still the current
// generation. Superseded results are discarded and Commit reports false.
func (l *List) Commit(gen uint64, websites []*domain.Website) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		return false
	}
	if websites == nil {
		websites = []*domain.Website{}
	}
	l.websites = websites
	l.lastFetch = time.Now()
	return true
}

// Clear empties the list immediately, without touching the generation.
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.websites = []*domain.Website{}
}

// LastFetch returns when a fetch last committed.
func (l *List) LastFetch() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastFetch
}
