package handlers

import (
	"net/http"

	"eventflow/internal/services"
)

// AdminHandler serves the review queue: listing every event and deciding
// pending ones.
type AdminHandler struct {
	eventService *services.EventService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(eventService *services.EventService) *AdminHandler {
	return &AdminHandler{eventService: eventService}
}

// ListEvents handles GET /api/admin/events
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListAllEvents()
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "events retrieved", events)
}

// ApproveEvent handles PUT /api/admin/events/{id}/approve
func (h *AdminHandler) ApproveEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.eventService.ApproveEvent(eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "event approved", event)
}

// RejectEvent handles PUT /api/admin/events/{id}/reject
func (h *AdminHandler) RejectEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.eventService.RejectEvent(eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "event rejected", event)
}
