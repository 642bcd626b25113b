package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdocs/formportal/internal/models"
	"github.com/civicdocs/formportal/internal/store"
)

type fakeValidationStore struct {
	records  map[string]*models.ValidationRecord
	blobs    map[string][]byte
	seq      int
	failPut  bool
	failBlob bool
}

func newFakeValidationStore() *fakeValidationStore {
	return &fakeValidationStore{
		records: make(map[string]*models.ValidationRecord),
		blobs:   make(map[string][]byte),
	}
}

func (f *fakeValidationStore) Create(rec *models.ValidationRecord) (string, error) {
	if f.failPut {
		return "", errors.New("backend down")
	}
	f.seq++
	id := fmt.Sprintf("rec-%d", f.seq)
	cp := *rec
	cp.ID = id
	f.records[id] = &cp
	return id, nil
}

func (f *fakeValidationStore) FindByID(id string) (*models.ValidationRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeValidationStore) FindByUser(userID string, limit int) ([]models.ValidationRecord, error) {
	var out []models.ValidationRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeValidationStore) PutBlob(key string, data []byte, contentType string) error {
	if f.failBlob {
		return errors.New("bucket down")
	}
	f.blobs[key] = data
	return nil
}

func (f *fakeValidationStore) GetBlob(key string) ([]byte, map[string]any, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, nil, errors.New("no such object")
	}
	return data, map[string]any{"contentType": "application/pdf"}, nil
}

func TestValidationRecordDerivesFailed(t *testing.T) {
	vs := newFakeValidationStore()
	svc := NewValidationService(vs)

	rec, err := svc.Record("u1", "passport", "scan.pdf", 2048, []models.CheckResult{
		{CheckName: "file_size", Passed: true},
		{CheckName: "page_count", Passed: false, Message: "expected 2 pages, found 5"},
		{CheckName: "resolution", Passed: true},
	}, nil, "")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, models.ValidationStatusFailed, rec.OverallStatus)
	assert.NotZero(t, rec.Timestamp)
	assert.Len(t, rec.Results, 3)
}

func TestValidationRecordDerivesCompleted(t *testing.T) {
	vs := newFakeValidationStore()
	svc := NewValidationService(vs)

	rec, err := svc.Record("u1", "passport", "scan.pdf", 2048, []models.CheckResult{
		{CheckName: "file_size", Passed: true},
		{CheckName: "page_count", Passed: true},
	}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusCompleted, rec.OverallStatus)
}

func TestValidationRecordEmptyResultsCompleted(t *testing.T) {
	vs := newFakeValidationStore()
	svc := NewValidationService(vs)

	rec, err := svc.Record("u1", "passport", "scan.pdf", 0, nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusCompleted, rec.OverallStatus)
}

func TestValidationRecordStoresDocument(t *testing.T) {
	vs := newFakeValidationStore()
	svc := NewValidationService(vs)

	body := []byte("%PDF-1.7 fake")
	rec, err := svc.Record("u1", "passport", "scan.pdf", 0, []models.CheckResult{
		{CheckName: "file_size", Passed: true},
	}, body, "application/pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.BlobKey)
	assert.Equal(t, int64(len(body)), rec.FileSize)

	data, got, err := svc.Document(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, body, data)
	assert.Equal(t, rec.ID, got.ID)
}

func TestValidationRecordPersistenceFailure(t *testing.T) {
	vs := newFakeValidationStore()
	vs.failPut = true
	svc := NewValidationService(vs)

	_, err := svc.Record("u1", "passport", "scan.pdf", 0, nil, nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrPersistence)
}

func TestValidationRecordBlobFailure(t *testing.T) {
	vs := newFakeValidationStore()
	vs.failBlob = true
	svc := NewValidationService(vs)

	_, err := svc.Record("u1", "passport", "scan.pdf", 0, nil, []byte("x"), "application/pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrPersistence)
	// The record must not exist without its document.
	assert.Empty(t, vs.records)
}

func TestValidationHistory(t *testing.T) {
	vs := newFakeValidationStore()
	svc := NewValidationService(vs)

	for i := 0; i < 3; i++ {
		_, err := svc.Record("u1", "passport", fmt.Sprintf("scan-%d.pdf", i), 0, nil, nil, "")
		require.NoError(t, err)
	}
	_, err := svc.Record("u2", "passport", "other.pdf", 0, nil, nil, "")
	require.NoError(t, err)

	recs, err := svc.History("u1")
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestValidationDocumentMissing(t *testing.T) {
	vs := newFakeValidationStore()
	svc := NewValidationService(vs)

	rec, err := svc.Record("u1", "passport", "scan.pdf", 0, nil, nil, "")
	require.NoError(t, err)

	_, _, err = svc.Document(rec.ID)
	assert.Error(t, err)
}
