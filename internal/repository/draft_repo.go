package repository

import (
	"github.com/civicdocs/formportal/internal/db"
	"github.com/civicdocs/formportal/internal/models"
	"github.com/parisxmas/OxiDB/go/oxidb"
)

const DraftsCollection = "_fp_drafts"

// DraftRepo is the durable remote tier of the persistence adapter. Drafts are
// keyed by their client-generated draftId field rather than the store's
// auto-assigned _id, because the local cache accepts the write before the
// store ever sees the draft.
type DraftRepo struct {
	pool *db.Pool
}

func NewDraftRepo(pool *db.Pool) *DraftRepo {
	return &DraftRepo{pool: pool}
}

func (r *DraftRepo) EnsureIndexes() error {
	c := r.pool.Get()
	if err := c.CreateUniqueIndex(DraftsCollection, "draftId"); err != nil {
		return err
	}
	if err := c.CreateIndex(DraftsCollection, "userId"); err != nil {
		return err
	}
	return c.CreateCompositeIndex(DraftsCollection, []string{"userId", "lastModifiedAt"})
}

// Put inserts or replaces the stored draft for draft.ID.
func (r *DraftRepo) Put(draft *models.Draft) error {
	c := r.pool.Get()
	doc := toDoc(draft)
	doc["draftId"] = draft.ID
	existing, err := c.FindOne(DraftsCollection, map[string]any{"draftId": draft.ID})
	if err != nil {
		return err
	}
	if existing == nil {
		_, err = c.Insert(DraftsCollection, doc)
		return err
	}
	// Last write by lastModifiedAt wins; a stale mirror never overwrites a
	// newer stored draft.
	if prev, ok := existing["lastModifiedAt"].(float64); ok && int64(prev) > draft.LastModifiedAt {
		return nil
	}
	_, err = c.UpdateOne(DraftsCollection, map[string]any{"draftId": draft.ID}, map[string]any{"$set": doc})
	return err
}

// Get returns the draft, or nil if the store has no record for id.
func (r *DraftRepo) Get(id string) (*models.Draft, error) {
	c := r.pool.Get()
	doc, err := c.FindOne(DraftsCollection, map[string]any{"draftId": id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return docToDraft(doc)
}

// ListByUser returns the user's drafts, most recently modified first.
func (r *DraftRepo) ListByUser(userID string, limit int) ([]models.Draft, error) {
	c := r.pool.Get()
	docs, err := c.Find(DraftsCollection, map[string]any{"userId": userID}, &oxidb.FindOptions{
		Sort:  map[string]any{"lastModifiedAt": -1},
		Limit: &limit,
	})
	if err != nil {
		return nil, err
	}
	drafts := make([]models.Draft, 0, len(docs))
	for _, d := range docs {
		draft, err := docToDraft(d)
		if err != nil {
			continue
		}
		drafts = append(drafts, *draft)
	}
	return drafts, nil
}

func (r *DraftRepo) Delete(id string) error {
	c := r.pool.Get()
	_, err := c.DeleteOne(DraftsCollection, map[string]any{"draftId": id})
	return err
}

func (r *DraftRepo) Count() (int, error) {
	c := r.pool.Get()
	return c.Count(DraftsCollection, map[string]any{})
}

func (r *DraftRepo) CountByStatus(status string) (int, error) {
	c := r.pool.Get()
	return c.Count(DraftsCollection, map[string]any{"status": status})
}

// docToDraft restores the draft identity from the draftId field; the store's
// own _id never surfaces past this package.
func docToDraft(doc map[string]any) (*models.Draft, error) {
	delete(doc, "_id")
	draft, err := fromDoc[models.Draft](doc)
	if err != nil {
		return nil, err
	}
	if id, ok := doc["draftId"].(string); ok {
		draft.ID = id
	}
	return draft, nil
}
