package store

import (
	"fmt"
	"log"
	"sync"

	"github.com/civicdocs/formportal/internal/models"
)

// Tiered combines the local cache and the remote store under one Backend.
//
// Write policy ("best-effort mirror"): every Put lands in the local cache
// synchronously, then is mirrored to the remote tier without blocking the
// caller. A mirror failure is logged and swallowed; an autosave must not fail
// because the remote tier is down. Only when the local tier itself refuses
// the write does the remote write happen inline, and only if that also fails
// does Put return ErrPersistence.
//
// Read policy: Get prefers the local cache and falls back to the remote
// store, re-warming the cache on a remote hit. ListByUser serves from the
// local cache only.
//
// Mirrors for the same draft id run in submission order: a delayed older
// mirror must never land after a newer one and regress the remote copy.
type Tiered struct {
	local   Backend
	remote  Backend
	mirrors sync.WaitGroup

	mu   sync.Mutex
	tail map[string]chan struct{}
}

func NewTiered(local, remote Backend) *Tiered {
	return &Tiered{
		local:  local,
		remote: remote,
		tail:   make(map[string]chan struct{}),
	}
}

func (t *Tiered) Put(draft *models.Draft) error {
	if err := t.local.Put(draft); err != nil {
		// Local tier down: the remote write becomes the write.
		if rerr := t.remote.Put(draft); rerr != nil {
			return fmt.Errorf("%w: local: %v, remote: %v", ErrPersistence, err, rerr)
		}
		return nil
	}
	snapshot := draft.Clone()
	t.enqueueMirror(snapshot.ID, func() {
		if err := t.remote.Put(snapshot); err != nil {
			log.Printf("Warning: draft %s mirror to remote store failed: %v", snapshot.ID, err)
		}
	})
	return nil
}

func (t *Tiered) Get(id string) (*models.Draft, error) {
	if d, err := t.local.Get(id); err == nil && d != nil {
		return d, nil
	}
	d, err := t.remote.Get(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	if err := t.local.Put(d); err != nil {
		log.Printf("Warning: draft %s cache re-warm failed: %v", id, err)
	}
	return d, nil
}

func (t *Tiered) ListByUser(userID string, limit int) ([]models.Draft, error) {
	if limit <= 0 || limit > MaxListResults {
		limit = MaxListResults
	}
	return t.local.ListByUser(userID, limit)
}

func (t *Tiered) Delete(id string) error {
	if err := t.local.Delete(id); err != nil {
		return err
	}
	t.enqueueMirror(id, func() {
		if err := t.remote.Delete(id); err != nil {
			log.Printf("Warning: draft %s remote delete failed: %v", id, err)
		}
	})
	return nil
}

// enqueueMirror runs fn on the remote tier after every earlier mirror for the
// same draft id has finished, keeping remote writes in submission order.
// Mirrors for different drafts still run independently.
func (t *Tiered) enqueueMirror(id string, fn func()) {
	t.mu.Lock()
	prev := t.tail[id]
	done := make(chan struct{})
	t.tail[id] = done
	t.mu.Unlock()

	t.mirrors.Add(1)
	go func() {
		defer t.mirrors.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}
		fn()
		t.mu.Lock()
		if t.tail[id] == done {
			delete(t.tail, id)
		}
		t.mu.Unlock()
	}()
}

// Flush waits for in-flight mirror writes. Called on shutdown so a clean exit
// does not abandon the remote tier's copy; tests use it for determinism.
func (t *Tiered) Flush() {
	t.mirrors.Wait()
}
