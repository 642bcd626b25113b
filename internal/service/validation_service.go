package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/civicdocs/formportal/internal/models"
	"github.com/civicdocs/formportal/internal/store"
)

// ValidationStore is the storage surface for validation records and the
// checked document bytes.
type ValidationStore interface {
	Create(rec *models.ValidationRecord) (string, error)
	FindByID(id string) (*models.ValidationRecord, error)
	FindByUser(userID string, limit int) ([]models.ValidationRecord, error)
	PutBlob(key string, data []byte, contentType string) error
	GetBlob(key string) ([]byte, map[string]any, error)
}

// ValidationService records document-quality check outcomes. Unlike draft
// autosave, a failed write here surfaces to the caller: a validation record is
// a point-in-time audit entry, not recoverable session state.
type ValidationService struct {
	records ValidationStore
	now     func() int64
}

func NewValidationService(records ValidationStore) *ValidationService {
	return &ValidationService{
		records: records,
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

// Record stores one check run. overallStatus is derived: failed if any check
// failed, completed otherwise. When fileData is present the checked document
// is kept alongside the record for audit review.
func (s *ValidationService) Record(userID, documentType, fileName string, fileSize int64, results []models.CheckResult, fileData []byte, contentType string) (*models.ValidationRecord, error) {
	rec := &models.ValidationRecord{
		UserID:        userID,
		DocumentType:  documentType,
		FileName:      fileName,
		FileSize:      fileSize,
		Results:       results,
		OverallStatus: models.DeriveStatus(results),
		Timestamp:     s.now(),
	}
	if len(fileData) > 0 {
		rec.FileSize = int64(len(fileData))
		rec.BlobKey = fmt.Sprintf("%s_%s", uuid.NewString(), fileName)
		if err := s.records.PutBlob(rec.BlobKey, fileData, contentType); err != nil {
			return nil, fmt.Errorf("store checked document: %w: %v", store.ErrPersistence, err)
		}
	}
	id, err := s.records.Create(rec)
	if err != nil {
		return nil, fmt.Errorf("record validation: %w: %v", store.ErrPersistence, err)
	}
	rec.ID = id
	return rec, nil
}

// historyLimit bounds the history response; older records stay queryable
// through the store directly.
const historyLimit = 50

// History returns the user's validation records, most recent first.
func (s *ValidationService) History(userID string) ([]models.ValidationRecord, error) {
	recs, err := s.records.FindByUser(userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("validation history for %s: %w", userID, err)
	}
	return recs, nil
}

// Document returns the stored bytes of a checked document.
func (s *ValidationService) Document(recordID string) ([]byte, *models.ValidationRecord, error) {
	rec, err := s.records.FindByID(recordID)
	if err != nil {
		return nil, nil, fmt.Errorf("lookup validation %s: %w", recordID, err)
	}
	if rec == nil || rec.BlobKey == "" {
		return nil, nil, fmt.Errorf("validation %s: no stored document", recordID)
	}
	data, _, err := s.records.GetBlob(rec.BlobKey)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch document %s: %w", rec.BlobKey, err)
	}
	return data, rec, nil
}
