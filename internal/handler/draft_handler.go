package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/civicdocs/formportal/internal/auth"
	"github.com/civicdocs/formportal/internal/service"
)

// DraftHandler exposes the draft lifecycle: start, autosave, submit.
type DraftHandler struct {
	svc *service.DraftService
}

func NewDraftHandler(svc *service.DraftService) *DraftHandler {
	return &DraftHandler{svc: svc}
}

func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FormID      string         `json:"formId"`
		FormVersion string         `json:"formVersion"`
		Data        map[string]any `json:"data"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FormID == "" {
		writeError(w, http.StatusBadRequest, "formId is required")
		return
	}
	claims := auth.GetUser(r.Context())
	draft, err := h.svc.Create(claims.UserID, req.FormID, req.FormVersion, req.Data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, draft)
}

func (h *DraftHandler) Autosave(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftId")
	var req struct {
		Data              map[string]any `json:"data"`
		CompletedFieldIDs []string       `json:"completedFieldIds"`
		CurrentSection    string         `json:"currentSection"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.ownDraft(r, draftID); err != nil {
		writeServiceError(w, err)
		return
	}
	draft, err := h.svc.Autosave(draftID, req.Data, req.CompletedFieldIDs, req.CurrentSection)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftId")
	if err := h.ownDraft(r, draftID); err != nil {
		writeServiceError(w, err)
		return
	}
	sub, err := h.svc.Submit(draftID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	draft, err := h.svc.Get(chi.URLParam(r, "draftId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	claims := auth.GetUser(r.Context())
	if draft.UserID != claims.UserID && claims.Role != "admin" {
		writeError(w, http.StatusNotFound, service.ErrDraftNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *DraftHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	drafts, err := h.svc.ListForUser(claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts, "total": len(drafts)})
}

// ownDraft enforces the single-writer model: only the owning user's session
// may touch a draft.
func (h *DraftHandler) ownDraft(r *http.Request, draftID string) error {
	claims := auth.GetUser(r.Context())
	draft, err := h.svc.Get(draftID)
	if err != nil {
		return err
	}
	if draft.UserID != claims.UserID && claims.Role != "admin" {
		return service.ErrDraftNotFound
	}
	return nil
}
