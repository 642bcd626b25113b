package service

import (
	"fmt"

	"github.com/civicdocs/formportal/internal/models"
)

// CatalogRepo is the storage surface of the form catalog.
type CatalogRepo interface {
	FindByID(id string) (*models.FormDefinition, error)
	FindBySlug(slug string) (*models.FormDefinition, error)
	FindAll() ([]models.FormDefinition, error)
	FindByDepartment(department string) ([]models.FormDefinition, error)
	FindByDocumentType(documentType string) ([]models.FormDefinition, error)
	Create(form *models.FormDefinition) (string, error)
}

// CatalogService is the read-only form catalog. Nothing here mutates a
// definition; Seed only fills gaps at boot.
type CatalogService struct {
	forms CatalogRepo
}

func NewCatalogService(forms CatalogRepo) *CatalogService {
	return &CatalogService{forms: forms}
}

func (s *CatalogService) Get(id string) (*models.FormDefinition, error) {
	form, err := s.forms.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("lookup form %s: %w", id, err)
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return form, nil
}

func (s *CatalogService) List() ([]models.FormDefinition, error) {
	return s.forms.FindAll()
}

func (s *CatalogService) ListByDepartment(department string) ([]models.FormDefinition, error) {
	return s.forms.FindByDepartment(department)
}

func (s *CatalogService) ListByDocumentType(documentType string) ([]models.FormDefinition, error) {
	return s.forms.FindByDocumentType(documentType)
}

// Seed inserts definitions whose slug is not yet in the catalog. Existing
// definitions are left untouched; the catalog is immutable at runtime.
func (s *CatalogService) Seed(forms []models.FormDefinition) (int, error) {
	added := 0
	for i := range forms {
		f := forms[i]
		existing, err := s.forms.FindBySlug(f.Slug)
		if err != nil {
			return added, fmt.Errorf("seed form %s: %w", f.Slug, err)
		}
		if existing != nil {
			continue
		}
		if _, err := s.forms.Create(&f); err != nil {
			return added, fmt.Errorf("seed form %s: %w", f.Slug, err)
		}
		added++
	}
	return added, nil
}
