package mem

import (
	"sync"

	"github.com/goserg/heatbracket/internal/scoring"

	"github.com/google/uuid"
)

// Cache keeps computed standings per tournament until the tournament is
// saved again.
type Cache struct {
	mu        sync.RWMutex
	standings map[uuid.UUID][]scoring.Ranking
}

func New() *Cache {
	return &Cache{
		standings: make(map[uuid.UUID][]scoring.Ranking),
	}
}

func (c *Cache) Update(id uuid.UUID, rankings []scoring.Ranking) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.standings[id] = append([]scoring.Ranking(nil), rankings...)
}

func (c *Cache) Get(id uuid.UUID) ([]scoring.Ranking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rankings, ok := c.standings[id]
	if !ok {
		return nil, false
	}
	return append([]scoring.Ranking(nil), rankings...), true
}

func (c *Cache) Invalidate(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.standings, id)
}

func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.standings = make(map[uuid.UUID][]scoring.Ranking)
}
