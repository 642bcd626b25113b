package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/civicdocs/formportal/internal/auth"
	"github.com/civicdocs/formportal/internal/models"
	"github.com/civicdocs/formportal/internal/service"
)

// SubmissionHandler serves finalized submissions and the review entry point.
// Submissions are only ever created through draft submit; there is no direct
// create route.
type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	skip, limit := paging(r)

	subs, total, err := h.svc.ListForUser(claims.UserID, skip, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"submissions": subs,
		"total":       total,
		"skip":        skip,
		"limit":       limit,
	})
}

// Queue lists submissions awaiting review (admin).
func (h *SubmissionHandler) Queue(w http.ResponseWriter, r *http.Request) {
	skip, limit := paging(r)
	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.SubmissionStatusSubmitted
	}
	subs, total, err := h.svc.ListByStatus(status, skip, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"submissions": subs,
		"total":       total,
		"skip":        skip,
		"limit":       limit,
	})
}

func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.svc.Get(chi.URLParam(r, "subId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	claims := auth.GetUser(r.Context())
	if sub.UserID != claims.UserID && claims.Role != "admin" {
		writeError(w, http.StatusNotFound, service.ErrSubmissionNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// UpdateStatus applies a review decision (admin).
func (h *SubmissionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims := auth.GetUser(r.Context())
	sub, err := h.svc.UpdateStatus(chi.URLParam(r, "subId"), req.Status, claims.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func paging(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 20
	}
	return skip, limit
}
