package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/civicdocs/formportal/internal/models"
	"github.com/civicdocs/formportal/internal/notify"
	"github.com/civicdocs/formportal/internal/store"
)

// SubmissionStore is the storage surface for finalized submissions.
type SubmissionStore interface {
	Create(sub *models.Submission) (string, error)
	FindByID(id string) (*models.Submission, error)
	FindByUser(userID string, skip, limit int) ([]models.Submission, int, error)
	FindByStatus(status string, skip, limit int) ([]models.Submission, int, error)
	UpdateStatus(id, status string, lastUpdated int64) error
}

// UserLookup resolves a user id to an account, for notification addressing.
type UserLookup interface {
	FindByID(id string) (*models.User, error)
}

// Notifier sends a status notification; dispatch errors come back to us and
// stop here (logged), retry is not this layer's call.
type Notifier interface {
	Dispatch(to, kind string, payload map[string]any) error
}

// SubmissionService finalizes drafts into submission records and applies
// external review decisions to them.
type SubmissionService struct {
	subs     SubmissionStore
	users    UserLookup
	notifier Notifier
	now      func() int64
	pending  sync.WaitGroup
}

func NewSubmissionService(subs SubmissionStore, users UserLookup, notifier Notifier) *SubmissionService {
	return &SubmissionService{
		subs:     subs,
		users:    users,
		notifier: notifier,
		now:      func() int64 { return time.Now().UnixMilli() },
	}
}

// Finalize persists the submission record for a draft at the moment of the
// draft → submitted transition. A storage failure surfaces so the caller can
// leave the draft untouched and retry.
func (s *SubmissionService) Finalize(draft *models.Draft) (*models.Submission, error) {
	now := s.now()
	sub := &models.Submission{
		UserID:      draft.UserID,
		FormType:    draft.FormID,
		Data:        draft.Data,
		Status:      models.SubmissionStatusSubmitted,
		Timestamp:   now,
		LastUpdated: now,
	}
	id, err := s.subs.Create(sub)
	if err != nil {
		return nil, fmt.Errorf("persist submission: %w: %v", store.ErrPersistence, err)
	}
	sub.ID = id
	s.notifyStatus(sub)
	return sub, nil
}

// UpdateStatus applies an external review decision. Only submitted → approved
// and submitted → rejected are legal; everything else is ErrInvalidTransition.
func (s *SubmissionService) UpdateStatus(id, newStatus, actor string) (*models.Submission, error) {
	sub, err := s.subs.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("lookup submission %s: %w", id, err)
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	if sub.Status != models.SubmissionStatusSubmitted {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, sub.Status, newStatus)
	}
	if newStatus != models.SubmissionStatusApproved && newStatus != models.SubmissionStatusRejected {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, sub.Status, newStatus)
	}
	now := s.now()
	if err := s.subs.UpdateStatus(id, newStatus, now); err != nil {
		return nil, fmt.Errorf("update submission %s: %w: %v", id, store.ErrPersistence, err)
	}
	log.Printf("submission %s: %s → %s by %s", id, sub.Status, newStatus, actor)
	sub.Status = newStatus
	sub.LastUpdated = now
	s.notifyStatus(sub)
	return sub, nil
}

func (s *SubmissionService) Get(id string) (*models.Submission, error) {
	sub, err := s.subs.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("lookup submission %s: %w", id, err)
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	return sub, nil
}

func (s *SubmissionService) ListForUser(userID string, skip, limit int) ([]models.Submission, int, error) {
	return s.subs.FindByUser(userID, skip, limit)
}

// ListByStatus feeds the reviewer queue.
func (s *SubmissionService) ListByStatus(status string, skip, limit int) ([]models.Submission, int, error) {
	return s.subs.FindByStatus(status, skip, limit)
}

// notifyStatus fires a status notification at the submission's owner without
// blocking the caller: the status change already happened, and a slow
// endpoint must not delay the user-visible response. A dispatch failure is
// logged, never propagated.
func (s *SubmissionService) notifyStatus(sub *models.Submission) {
	if s.notifier == nil || s.users == nil {
		return
	}
	snapshot := *sub
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.dispatchStatus(&snapshot)
	}()
}

// Flush waits for in-flight notifications; called on shutdown and by tests.
func (s *SubmissionService) Flush() {
	s.pending.Wait()
}

func (s *SubmissionService) dispatchStatus(sub *models.Submission) {
	user, err := s.users.FindByID(sub.UserID)
	if err != nil || user == nil {
		log.Printf("Warning: notify lookup user %s: %v", sub.UserID, err)
		return
	}
	err = s.notifier.Dispatch(user.Email, notify.KindStatus, map[string]any{
		"submissionId": sub.ID,
		"formType":     sub.FormType,
		"status":       sub.Status,
	})
	if err != nil {
		log.Printf("Warning: status notification for submission %s failed: %v", sub.ID, err)
	}
}
