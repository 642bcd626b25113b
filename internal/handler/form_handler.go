package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/civicdocs/formportal/internal/models"
	"github.com/civicdocs/formportal/internal/service"
)

// FormHandler serves the read-only form catalog.
type FormHandler struct {
	svc *service.CatalogService
}

func NewFormHandler(svc *service.CatalogService) *FormHandler {
	return &FormHandler{svc: svc}
}

// List returns the catalog, optionally narrowed by ?department= or
// ?documentType=.
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		forms []models.FormDefinition
		err   error
	)
	switch {
	case r.URL.Query().Get("department") != "":
		forms, err = h.svc.ListByDepartment(r.URL.Query().Get("department"))
	case r.URL.Query().Get("documentType") != "":
		forms, err = h.svc.ListByDocumentType(r.URL.Query().Get("documentType"))
	default:
		forms, err = h.svc.List()
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.svc.Get(chi.URLParam(r, "formId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}
