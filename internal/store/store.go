// Package store is the persistence adapter for drafts: one uniform contract
// over a fast volatile local cache and a durable remote document store.
package store

import (
	"errors"

	"github.com/civicdocs/formportal/internal/models"
)

// ErrPersistence means no storage tier could take the write. Callers surface
// it as a retryable failure; no partial state is left behind.
var ErrPersistence = errors.New("persistence unavailable")

// MaxListResults bounds ListByUser so cached history cannot grow without
// limit in responses.
const MaxListResults = 20

// Backend is the storage contract both tiers satisfy with identical
// semantics. Get returns (nil, nil) when no draft exists for id.
type Backend interface {
	Put(draft *models.Draft) error
	Get(id string) (*models.Draft, error)
	ListByUser(userID string, limit int) ([]models.Draft, error)
	Delete(id string) error
}
