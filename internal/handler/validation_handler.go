package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/civicdocs/formportal/internal/auth"
	"github.com/civicdocs/formportal/internal/models"
	"github.com/civicdocs/formportal/internal/service"
)

// ValidationHandler records document-quality check outcomes and serves the
// user's validation history.
type ValidationHandler struct {
	svc *service.ValidationService
}

func NewValidationHandler(svc *service.ValidationService) *ValidationHandler {
	return &ValidationHandler{svc: svc}
}

// Record accepts either a JSON body with the check results, or a multipart
// form carrying the checked file plus a JSON "results" field.
func (h *ValidationHandler) Record(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())

	if err := r.ParseMultipartForm(12 << 20); err != nil {
		// Not multipart, so a plain JSON record.
		var req struct {
			DocumentType string               `json:"documentType"`
			FileName     string               `json:"fileName"`
			FileSize     int64                `json:"fileSize"`
			Results      []models.CheckResult `json:"results"`
		}
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		rec, err := h.svc.Record(claims.UserID, req.DocumentType, req.FileName, req.FileSize, req.Results, nil, "")
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
		return
	}

	var results []models.CheckResult
	if s := r.FormValue("results"); s != "" {
		if err := json.Unmarshal([]byte(s), &results); err != nil {
			writeError(w, http.StatusBadRequest, "invalid results JSON")
			return
		}
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	rec, err := h.svc.Record(claims.UserID, r.FormValue("documentType"), header.Filename,
		int64(len(data)), results, data, header.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *ValidationHandler) History(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	recs, err := h.svc.History(claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": recs, "total": len(recs)})
}

// Download returns the stored bytes of a checked document for audit review.
func (h *ValidationHandler) Download(w http.ResponseWriter, r *http.Request) {
	data, rec, err := h.svc.Document(chi.URLParam(r, "recordId"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, rec.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
