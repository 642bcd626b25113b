package store

import (
	"sort"
	"sync"

	"github.com/civicdocs/formportal/internal/models"
)

// cacheKeyPrefix namespaces draft entries so the cache can share a keyspace
// with other entry families without collisions.
const cacheKeyPrefix = "form_draft_"

// Cache is the local tier: synchronous, always available, volatile across
// process restarts. It is the source of truth for the current session.
type Cache struct {
	mu     sync.RWMutex
	drafts map[string]*models.Draft
}

func NewCache() *Cache {
	return &Cache{drafts: make(map[string]*models.Draft)}
}

func (c *Cache) Put(draft *models.Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts[cacheKeyPrefix+draft.ID] = draft.Clone()
	return nil
}

func (c *Cache) Get(id string) (*models.Draft, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.drafts[cacheKeyPrefix+id]
	if !ok {
		return nil, nil
	}
	return d.Clone(), nil
}

// ListByUser scans all cached drafts for userID, newest modification first,
// capped at limit.
func (c *Cache) ListByUser(userID string, limit int) ([]models.Draft, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Draft
	for _, d := range c.drafts {
		if d.UserID == userID {
			out = append(out, *d.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastModifiedAt > out[j].LastModifiedAt
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *Cache) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.drafts, cacheKeyPrefix+id)
	return nil
}

// Len reports the number of cached drafts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.drafts)
}
