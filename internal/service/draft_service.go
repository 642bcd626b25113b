package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/civicdocs/formportal/internal/completion"
	"github.com/civicdocs/formportal/internal/models"
	"github.com/civicdocs/formportal/internal/store"
)

// FormCatalog is the read-only form lookup the draft manager needs.
type FormCatalog interface {
	FindByID(id string) (*models.FormDefinition, error)
}

// Finalizer turns a submitted draft into a persisted submission record.
type Finalizer interface {
	Finalize(draft *models.Draft) (*models.Submission, error)
}

// DraftService owns the draft state machine: create, autosave, submit.
// Storage goes exclusively through the persistence adapter; the draft manager
// never sees a concrete tier.
type DraftService struct {
	drafts    store.Backend
	catalog   FormCatalog
	finalizer Finalizer
	now       func() int64
}

func NewDraftService(drafts store.Backend, catalog FormCatalog, finalizer Finalizer) *DraftService {
	return &DraftService{
		drafts:    drafts,
		catalog:   catalog,
		finalizer: finalizer,
		now:       func() int64 { return time.Now().UnixMilli() },
	}
}

// Create starts a fresh draft for the user. The id is generated here, not by
// storage: the local tier must accept the draft before the remote store ever
// sees it.
func (s *DraftService) Create(userID, formID, formVersion string, initialData map[string]any) (*models.Draft, error) {
	form, err := s.catalog.FindByID(formID)
	if err != nil {
		return nil, fmt.Errorf("lookup form %s: %w", formID, err)
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	if initialData == nil {
		initialData = map[string]any{}
	}
	now := s.now()
	draft := &models.Draft{
		ID:                   uuid.NewString(),
		UserID:               userID,
		FormID:               formID,
		FormVersion:          formVersion,
		Data:                 initialData,
		CompletedFieldIDs:    []string{},
		CompletionPercentage: 0,
		Status:               models.DraftStatusDraft,
		CreatedAt:            now,
		LastModifiedAt:       now,
	}
	if err := s.drafts.Put(draft); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	return draft, nil
}

// Autosave replaces the draft's working data. Completion is recomputed from
// the new data, never carried over. Two sessions racing on the same draft
// resolve by last write wins; no merge is attempted.
func (s *DraftService) Autosave(draftID string, data map[string]any, completedFieldIDs []string, currentSection string) (*models.Draft, error) {
	draft, err := s.drafts.Get(draftID)
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", draftID, err)
	}
	if draft == nil {
		return nil, ErrDraftNotFound
	}
	if !draft.Editable() {
		return nil, ErrDraftSubmitted
	}
	if data == nil {
		data = map[string]any{}
	}
	if completedFieldIDs == nil {
		completedFieldIDs = []string{}
	}
	draft.Data = data
	draft.CompletedFieldIDs = completedFieldIDs
	draft.CompletionPercentage = completion.Score(data, completedFieldIDs)
	if currentSection != "" {
		draft.CurrentSection = currentSection
	}
	draft.LastModifiedAt = s.tick(draft.LastModifiedAt)
	if err := s.drafts.Put(draft); err != nil {
		return nil, fmt.Errorf("autosave draft %s: %w", draftID, err)
	}
	return draft, nil
}

// Submit finalizes the draft. The submission record is persisted first; only
// after that write succeeds does the draft flip to submitted, so a storage
// failure leaves the draft in its pre-submission state and the user can retry.
// A second Submit on the same draft fails with ErrDraftSubmitted.
func (s *DraftService) Submit(draftID string) (*models.Submission, error) {
	draft, err := s.drafts.Get(draftID)
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", draftID, err)
	}
	if draft == nil {
		return nil, ErrDraftNotFound
	}
	if !draft.Editable() {
		return nil, ErrDraftSubmitted
	}

	sub, err := s.finalizer.Finalize(draft.Clone())
	if err != nil {
		return nil, fmt.Errorf("finalize draft %s: %w", draftID, err)
	}

	now := s.tick(draft.LastModifiedAt)
	draft.Status = models.DraftStatusSubmitted
	draft.SubmittedAt = now
	draft.LastModifiedAt = now
	if err := s.drafts.Put(draft); err != nil {
		return nil, fmt.Errorf("persist submitted draft %s: %w", draftID, err)
	}
	return sub, nil
}

// Get returns the draft with its completion recomputed: the stored percentage
// is never trusted when data and completed fields disagree with it.
func (s *DraftService) Get(draftID string) (*models.Draft, error) {
	draft, err := s.drafts.Get(draftID)
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", draftID, err)
	}
	if draft == nil {
		return nil, ErrDraftNotFound
	}
	draft.CompletionPercentage = completion.Score(draft.Data, draft.CompletedFieldIDs)
	return draft, nil
}

// ListForUser returns the user's cached drafts, newest modification first.
func (s *DraftService) ListForUser(userID string) ([]models.Draft, error) {
	drafts, err := s.drafts.ListByUser(userID, store.MaxListResults)
	if err != nil {
		return nil, fmt.Errorf("list drafts for %s: %w", userID, err)
	}
	for i := range drafts {
		drafts[i].CompletionPercentage = completion.Score(drafts[i].Data, drafts[i].CompletedFieldIDs)
	}
	return drafts, nil
}

// tick returns the current instant, nudged forward when the clock has not
// advanced past the previous modification so lastModifiedAt never repeats.
func (s *DraftService) tick(prev int64) int64 {
	now := s.now()
	if now <= prev {
		return prev + 1
	}
	return now
}
