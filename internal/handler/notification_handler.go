package handler

import (
	"net/http"

	"github.com/civicdocs/formportal/internal/notify"
)

// NotificationHandler lets reviewers send renewal reminders and custom
// notices through the same dispatcher the finalizer uses.
type NotificationHandler struct {
	dispatcher *notify.Dispatcher
}

func NewNotificationHandler(dispatcher *notify.Dispatcher) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher}
}

func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	if h.dispatcher == nil {
		writeError(w, http.StatusServiceUnavailable, "notification endpoint not configured")
		return
	}
	var req struct {
		To      string         `json:"to"`
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.dispatcher.Dispatch(req.To, req.Type, req.Payload); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"sent": req.To})
}
