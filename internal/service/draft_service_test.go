package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdocs/formportal/internal/models"
	"github.com/civicdocs/formportal/internal/store"
)

type fakeCatalog struct {
	forms map[string]*models.FormDefinition
}

func (f *fakeCatalog) FindByID(id string) (*models.FormDefinition, error) {
	return f.forms[id], nil
}

type fakeFinalizer struct {
	fail      bool
	finalized []*models.Draft
}

func (f *fakeFinalizer) Finalize(draft *models.Draft) (*models.Submission, error) {
	if f.fail {
		return nil, store.ErrPersistence
	}
	f.finalized = append(f.finalized, draft)
	return &models.Submission{
		ID:       "sub-1",
		UserID:   draft.UserID,
		FormType: draft.FormID,
		Data:     draft.Data,
		Status:   models.SubmissionStatusSubmitted,
	}, nil
}

func newDraftService(t *testing.T) (*DraftService, *store.Cache, *fakeFinalizer) {
	t.Helper()
	cache := store.NewCache()
	catalog := &fakeCatalog{forms: map[string]*models.FormDefinition{
		"form-7": {
			ID:      "form-7",
			Name:    "Citizenship Application",
			Version: "v1",
			Fields: []models.FieldSpec{
				{ID: "name", Label: "Full Name", Type: "text"},
				{ID: "age", Label: "Age", Type: "number"},
			},
		},
	}}
	fin := &fakeFinalizer{}
	svc := NewDraftService(cache, catalog, fin)
	return svc, cache, fin
}

func TestDraftCreate(t *testing.T) {
	svc, cache, _ := newDraftService(t)

	draft, err := svc.Create("u1", "form-7", "v1", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, "u1", draft.UserID)
	assert.Equal(t, models.DraftStatusDraft, draft.Status)
	assert.Equal(t, 0, draft.CompletionPercentage)
	assert.Zero(t, draft.SubmittedAt)
	assert.Equal(t, draft.CreatedAt, draft.LastModifiedAt)

	stored, err := cache.Get(draft.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, draft.ID, stored.ID)
}

func TestDraftCreateUnknownForm(t *testing.T) {
	svc, _, _ := newDraftService(t)
	_, err := svc.Create("u1", "no-such-form", "v1", nil)
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestDraftAutosaveRecomputesCompletion(t *testing.T) {
	svc, _, _ := newDraftService(t)
	draft, err := svc.Create("u1", "form-7", "v1", nil)
	require.NoError(t, err)

	saved, err := svc.Autosave(draft.ID, map[string]any{"name": "Ram", "age": ""}, []string{"name"}, "")
	require.NoError(t, err)
	assert.Equal(t, 50, saved.CompletionPercentage)
	assert.Greater(t, saved.LastModifiedAt, draft.LastModifiedAt)
}

func TestDraftAutosaveNotFound(t *testing.T) {
	svc, _, _ := newDraftService(t)
	_, err := svc.Autosave("missing", map[string]any{}, nil, "")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDraftAutosaveIdempotentDataMonotonicClock(t *testing.T) {
	svc, _, _ := newDraftService(t)
	draft, err := svc.Create("u1", "form-7", "v1", nil)
	require.NoError(t, err)

	data := map[string]any{"name": "Ram"}
	completed := []string{"name"}
	first, err := svc.Autosave(draft.ID, data, completed, "")
	require.NoError(t, err)
	second, err := svc.Autosave(draft.ID, data, completed, "")
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, first.CompletedFieldIDs, second.CompletedFieldIDs)
	assert.Greater(t, second.LastModifiedAt, first.LastModifiedAt)
}

func TestDraftLastWriteWins(t *testing.T) {
	svc, _, _ := newDraftService(t)
	draft, err := svc.Create("u1", "form-7", "v1", nil)
	require.NoError(t, err)

	_, err = svc.Autosave(draft.ID, map[string]any{"name": "Ram"}, []string{"name"}, "")
	require.NoError(t, err)
	_, err = svc.Autosave(draft.ID, map[string]any{"name": "Sita"}, []string{"name"}, "")
	require.NoError(t, err)

	got, err := svc.Get(draft.ID)
	require.NoError(t, err)
	// Whole-state replacement: the later write's data, never a merge.
	assert.Equal(t, map[string]any{"name": "Sita"}, got.Data)
}

func TestDraftSubmit(t *testing.T) {
	svc, _, fin := newDraftService(t)
	draft, err := svc.Create("u1", "form-7", "v1", nil)
	require.NoError(t, err)
	_, err = svc.Autosave(draft.ID, map[string]any{"name": "Ram"}, []string{"name"}, "")
	require.NoError(t, err)

	sub, err := svc.Submit(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusSubmitted, sub.Status)
	require.Len(t, fin.finalized, 1)

	got, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusSubmitted, got.Status)
	assert.NotZero(t, got.SubmittedAt)
	assert.Equal(t, got.LastModifiedAt, got.SubmittedAt)
}

func TestDraftSubmitTwiceRejected(t *testing.T) {
	svc, _, _ := newDraftService(t)
	draft, err := svc.Create("u1", "form-7", "v1", nil)
	require.NoError(t, err)

	_, err = svc.Submit(draft.ID)
	require.NoError(t, err)
	first, err := svc.Get(draft.ID)
	require.NoError(t, err)

	_, err = svc.Submit(draft.ID)
	assert.ErrorIs(t, err, ErrDraftSubmitted)

	after, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, first.SubmittedAt, after.SubmittedAt)
}

func TestDraftNoAutosaveAfterSubmit(t *testing.T) {
	svc, _, _ := newDraftService(t)
	draft, err := svc.Create("u1", "form-7", "v1", nil)
	require.NoError(t, err)
	_, err = svc.Submit(draft.ID)
	require.NoError(t, err)

	_, err = svc.Autosave(draft.ID, map[string]any{"name": "late"}, []string{"name"}, "")
	assert.ErrorIs(t, err, ErrDraftSubmitted)
}

// An empty draft may be submitted immediately; completion stays 0.
func TestDraftSubmitWithoutAutosave(t *testing.T) {
	svc, _, _ := newDraftService(t)
	draft, err := svc.Create("u1", "form-7", "v1", nil)
	require.NoError(t, err)

	sub, err := svc.Submit(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusSubmitted, sub.Status)

	got, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CompletionPercentage)
	assert.Empty(t, got.Data)
}

// A finalizer failure leaves the draft in its pre-submission state.
func TestDraftSubmitFinalizeFailureKeepsDraftEditable(t *testing.T) {
	svc, _, fin := newDraftService(t)
	draft, err := svc.Create("u1", "form-7", "v1", nil)
	require.NoError(t, err)

	fin.fail = true
	_, err = svc.Submit(draft.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrPersistence)

	got, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusDraft, got.Status)
	assert.Zero(t, got.SubmittedAt)

	fin.fail = false
	_, err = svc.Submit(draft.ID)
	require.NoError(t, err)
}

// Stored completion percentages are never trusted on read.
func TestDraftGetRecomputesCompletion(t *testing.T) {
	svc, cache, _ := newDraftService(t)
	draft, err := svc.Create("u1", "form-7", "v1", nil)
	require.NoError(t, err)

	stale := draft.Clone()
	stale.Data = map[string]any{"name": "Ram", "age": ""}
	stale.CompletedFieldIDs = []string{"name"}
	stale.CompletionPercentage = 100 // disagrees with data
	require.NoError(t, cache.Put(stale))

	got, err := svc.Get(draft.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.CompletionPercentage)
}

func TestDraftListForUser(t *testing.T) {
	svc, _, _ := newDraftService(t)
	for i := 0; i < 3; i++ {
		_, err := svc.Create("u1", "form-7", "v1", nil)
		require.NoError(t, err)
	}
	_, err := svc.Create("u2", "form-7", "v1", nil)
	require.NoError(t, err)

	drafts, err := svc.ListForUser("u1")
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	for i := 1; i < len(drafts); i++ {
		assert.GreaterOrEqual(t, drafts[i-1].LastModifiedAt, drafts[i].LastModifiedAt)
	}
}

func TestDraftGetNotFound(t *testing.T) {
	svc, _, _ := newDraftService(t)
	_, err := svc.Get("missing")
	assert.True(t, errors.Is(err, ErrDraftNotFound))
}
