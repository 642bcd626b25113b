package service

import "errors"

// Sentinel errors handlers map onto HTTP statuses with errors.Is.
var (
	ErrFormNotFound       = errors.New("form not found")
	ErrDraftNotFound      = errors.New("draft not found")
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrDraftSubmitted means a mutation or duplicate submit was attempted on
	// a draft whose status is already submitted.
	ErrDraftSubmitted = errors.New("form was already submitted and can no longer be edited")

	// ErrInvalidTransition means an illegal submission status change was
	// requested; only submitted → approved and submitted → rejected exist.
	ErrInvalidTransition = errors.New("invalid status transition")
)
