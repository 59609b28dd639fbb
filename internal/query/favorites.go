package query

import (
	"sort"
	"sync"

	"github.com/pageza/cookbook/internal/models"
)

// Favorites is a set of favorited recipe ids. The zero value is ready to
// use and a nil *Favorites behaves as an empty set.
type Favorites struct {
	mu  sync.RWMutex
	ids map[models.ID]struct{}
}

func NewFavorites(ids ...models.ID) *Favorites {
	f := &Favorites{}
	for _, id := range ids {
		f.Toggle(id)
	}
	return f
}

// Toggle flips id in or out of the set and returns the new state.
func (f *Favorites) Toggle(id models.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ids == nil {
		f.ids = make(map[models.ID]struct{})
	}
	if _, ok := f.ids[id]; ok {
		delete(f.ids, id)
		return false
	}
	f.ids[id] = struct{}{}
	return true
}

func (f *Favorites) Has(id models.ID) bool {
	if f == nil {
		return false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.ids[id]
	return ok
}

// IDs returns the favorited ids in sorted order.
func (f *Favorites) IDs() []models.ID {
	if f == nil {
		return nil
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.ID, 0, len(f.ids))
	for id := range f.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
