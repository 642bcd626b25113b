package repository

import (
	"github.com/civicdocs/formportal/internal/db"
	"github.com/civicdocs/formportal/internal/models"
	"github.com/parisxmas/OxiDB/go/oxidb"
)

const (
	ValidationsCollection = "_fp_validations"
	DocumentsBucket       = "fp_documents"
)

// ValidationRepo stores document-quality check records and the checked file
// bytes. Records are append-only: there is no update method on purpose.
type ValidationRepo struct {
	pool *db.Pool
}

func NewValidationRepo(pool *db.Pool) *ValidationRepo {
	return &ValidationRepo{pool: pool}
}

func (r *ValidationRepo) EnsureIndexes() error {
	c := r.pool.Get()
	if err := c.CreateIndex(ValidationsCollection, "userId"); err != nil {
		return err
	}
	return c.CreateCompositeIndex(ValidationsCollection, []string{"userId", "timestamp"})
}

func (r *ValidationRepo) EnsureBucket() error {
	c := r.pool.Get()
	return c.CreateBucket(DocumentsBucket)
}

func (r *ValidationRepo) Create(rec *models.ValidationRecord) (string, error) {
	c := r.pool.Get()
	result, err := c.Insert(ValidationsCollection, toDoc(rec))
	if err != nil {
		return "", err
	}
	return extractID(result), nil
}

func (r *ValidationRepo) FindByID(id string) (*models.ValidationRecord, error) {
	c := r.pool.Get()
	doc, err := c.FindOne(ValidationsCollection, map[string]any{"_id": toNumericID(id)})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return fromDoc[models.ValidationRecord](doc)
}

// FindByUser returns the user's validation history, most recent first.
func (r *ValidationRepo) FindByUser(userID string, limit int) ([]models.ValidationRecord, error) {
	c := r.pool.Get()
	docs, err := c.Find(ValidationsCollection, map[string]any{"userId": userID}, &oxidb.FindOptions{
		Sort:  map[string]any{"timestamp": -1},
		Limit: &limit,
	})
	if err != nil {
		return nil, err
	}
	return fromDocs[models.ValidationRecord](docs), nil
}

func (r *ValidationRepo) Count() (int, error) {
	c := r.pool.Get()
	return c.Count(ValidationsCollection, map[string]any{})
}

func (r *ValidationRepo) CountByStatus(status string) (int, error) {
	c := r.pool.Get()
	return c.Count(ValidationsCollection, map[string]any{"overallStatus": status})
}

func (r *ValidationRepo) PutBlob(key string, data []byte, contentType string) error {
	c := r.pool.Get()
	_, err := c.PutObject(DocumentsBucket, key, data, contentType, nil)
	return err
}

func (r *ValidationRepo) GetBlob(key string) ([]byte, map[string]any, error) {
	c := r.pool.Get()
	return c.GetObject(DocumentsBucket, key)
}

func (r *ValidationRepo) DeleteBlob(key string) error {
	c := r.pool.Get()
	return c.DeleteObject(DocumentsBucket, key)
}
