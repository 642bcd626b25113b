package handler

import (
	"net/http"

	"github.com/civicdocs/formportal/internal/models"
	"github.com/civicdocs/formportal/internal/repository"
)

// DashboardHandler reports service-wide counts for the admin overview.
type DashboardHandler struct {
	forms       *repository.FormRepo
	drafts      *repository.DraftRepo
	subs        *repository.SubmissionRepo
	validations *repository.ValidationRepo
}

func NewDashboardHandler(forms *repository.FormRepo, drafts *repository.DraftRepo, subs *repository.SubmissionRepo, validations *repository.ValidationRepo) *DashboardHandler {
	return &DashboardHandler{forms: forms, drafts: drafts, subs: subs, validations: validations}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	formCount, _ := h.forms.Count()
	draftCount, _ := h.drafts.CountByStatus(models.DraftStatusDraft)
	submittedDrafts, _ := h.drafts.CountByStatus(models.DraftStatusSubmitted)

	subsByStatus := map[string]int{}
	for _, status := range []string{
		models.SubmissionStatusSubmitted,
		models.SubmissionStatusApproved,
		models.SubmissionStatusRejected,
	} {
		n, _ := h.subs.CountByStatus(status)
		subsByStatus[status] = n
	}

	valTotal, _ := h.validations.Count()
	valFailed, _ := h.validations.CountByStatus(models.ValidationStatusFailed)

	writeJSON(w, http.StatusOK, map[string]any{
		"formCount": formCount,
		"drafts": map[string]int{
			"inProgress": draftCount,
			"submitted":  submittedDrafts,
		},
		"submissionsByStatus": subsByStatus,
		"validations": map[string]int{
			"total":  valTotal,
			"failed": valFailed,
		},
	})
}
