package repository

import (
	"github.com/civicdocs/formportal/internal/db"
	"github.com/civicdocs/formportal/internal/models"
	"github.com/parisxmas/OxiDB/go/oxidb"
)

const FormsCollection = "_fp_forms"

// FormRepo is the read side of the form catalog. Definitions are written only
// by seeding; the running service never mutates them.
type FormRepo struct {
	pool *db.Pool
}

func NewFormRepo(pool *db.Pool) *FormRepo {
	return &FormRepo{pool: pool}
}

func (r *FormRepo) EnsureIndexes() error {
	c := r.pool.Get()
	if err := c.CreateUniqueIndex(FormsCollection, "slug"); err != nil {
		return err
	}
	if err := c.CreateIndex(FormsCollection, "department"); err != nil {
		return err
	}
	return c.CreateIndex(FormsCollection, "documentType")
}

func (r *FormRepo) Create(form *models.FormDefinition) (string, error) {
	c := r.pool.Get()
	result, err := c.Insert(FormsCollection, toDoc(form))
	if err != nil {
		return "", err
	}
	return extractID(result), nil
}

func (r *FormRepo) FindAll() ([]models.FormDefinition, error) {
	c := r.pool.Get()
	docs, err := c.Find(FormsCollection, map[string]any{}, &oxidb.FindOptions{
		Sort: map[string]any{"name": 1},
	})
	if err != nil {
		return nil, err
	}
	return fromDocs[models.FormDefinition](docs), nil
}

func (r *FormRepo) FindByID(id string) (*models.FormDefinition, error) {
	c := r.pool.Get()
	doc, err := c.FindOne(FormsCollection, map[string]any{"_id": toNumericID(id)})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return fromDoc[models.FormDefinition](doc)
}

func (r *FormRepo) FindBySlug(slug string) (*models.FormDefinition, error) {
	c := r.pool.Get()
	doc, err := c.FindOne(FormsCollection, map[string]any{"slug": slug})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return fromDoc[models.FormDefinition](doc)
}

func (r *FormRepo) FindByDepartment(department string) ([]models.FormDefinition, error) {
	return r.findBy(map[string]any{"department": department})
}

func (r *FormRepo) FindByDocumentType(documentType string) ([]models.FormDefinition, error) {
	return r.findBy(map[string]any{"documentType": documentType})
}

func (r *FormRepo) findBy(query map[string]any) ([]models.FormDefinition, error) {
	c := r.pool.Get()
	docs, err := c.Find(FormsCollection, query, &oxidb.FindOptions{
		Sort: map[string]any{"name": 1},
	})
	if err != nil {
		return nil, err
	}
	return fromDocs[models.FormDefinition](docs), nil
}

func (r *FormRepo) Count() (int, error) {
	c := r.pool.Get()
	return c.Count(FormsCollection, map[string]any{})
}
