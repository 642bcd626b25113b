package repository

import (
	"github.com/civicdocs/formportal/internal/db"
	"github.com/civicdocs/formportal/internal/models"
	"github.com/parisxmas/OxiDB/go/oxidb"
)

const SubmissionsCollection = "_fp_submissions"

type SubmissionRepo struct {
	pool *db.Pool
}

func NewSubmissionRepo(pool *db.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

func (r *SubmissionRepo) EnsureIndexes() error {
	c := r.pool.Get()
	if err := c.CreateIndex(SubmissionsCollection, "userId"); err != nil {
		return err
	}
	if err := c.CreateIndex(SubmissionsCollection, "status"); err != nil {
		return err
	}
	return c.CreateCompositeIndex(SubmissionsCollection, []string{"userId", "timestamp"})
}

func (r *SubmissionRepo) Create(sub *models.Submission) (string, error) {
	c := r.pool.Get()
	result, err := c.Insert(SubmissionsCollection, toDoc(sub))
	if err != nil {
		return "", err
	}
	return extractID(result), nil
}

func (r *SubmissionRepo) FindByID(id string) (*models.Submission, error) {
	c := r.pool.Get()
	doc, err := c.FindOne(SubmissionsCollection, map[string]any{"_id": toNumericID(id)})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return fromDoc[models.Submission](doc)
}

func (r *SubmissionRepo) FindByUser(userID string, skip, limit int) ([]models.Submission, int, error) {
	return r.page(map[string]any{"userId": userID}, skip, limit)
}

// FindByStatus feeds the review queue: reviewers pull submitted records and
// resolve them through UpdateStatus.
func (r *SubmissionRepo) FindByStatus(status string, skip, limit int) ([]models.Submission, int, error) {
	return r.page(map[string]any{"status": status}, skip, limit)
}

func (r *SubmissionRepo) page(query map[string]any, skip, limit int) ([]models.Submission, int, error) {
	c := r.pool.Get()
	total, err := c.Count(SubmissionsCollection, query)
	if err != nil {
		return nil, 0, err
	}
	docs, err := c.Find(SubmissionsCollection, query, &oxidb.FindOptions{
		Sort:  map[string]any{"timestamp": -1},
		Skip:  &skip,
		Limit: &limit,
	})
	if err != nil {
		return nil, 0, err
	}
	return fromDocs[models.Submission](docs), total, nil
}

// UpdateStatus persists a review decision. The transition legality check
// belongs to the service layer; this is a plain field update.
func (r *SubmissionRepo) UpdateStatus(id, status string, lastUpdated int64) error {
	c := r.pool.Get()
	_, err := c.UpdateOne(SubmissionsCollection,
		map[string]any{"_id": toNumericID(id)},
		map[string]any{"$set": map[string]any{"status": status, "lastUpdated": lastUpdated}})
	return err
}

func (r *SubmissionRepo) Count() (int, error) {
	c := r.pool.Get()
	return c.Count(SubmissionsCollection, map[string]any{})
}

func (r *SubmissionRepo) CountByStatus(status string) (int, error) {
	c := r.pool.Get()
	return c.Count(SubmissionsCollection, map[string]any{"status": status})
}

func (r *SubmissionRepo) TextSearch(query string, limit int) ([]models.Submission, error) {
	c := r.pool.Get()
	docs, err := c.TextSearch(SubmissionsCollection, query, limit)
	if err != nil {
		return nil, err
	}
	return fromDocs[models.Submission](docs), nil
}

func (r *SubmissionRepo) EnsureTextIndex(fields []string) error {
	c := r.pool.Get()
	return c.CreateTextIndex(SubmissionsCollection, fields)
}

func (r *SubmissionRepo) ListIndexes() ([]map[string]any, error) {
	c := r.pool.Get()
	return c.ListIndexes(SubmissionsCollection)
}

func (r *SubmissionRepo) Compact() (map[string]any, error) {
	c := r.pool.Get()
	return c.Compact(SubmissionsCollection)
}
