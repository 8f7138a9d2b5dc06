package handlers

import (
	"net/http"
	"strconv"

	"eventflow/internal/middleware"
	"eventflow/internal/models"
	"eventflow/internal/services"
)

// TicketHandler serves booking, cancellation, and the caller's ticket list
type TicketHandler struct {
	ticketService *services.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

type bookTicketRequest struct {
	EventID int `json:"event_id"`
}

// Book handles POST /api/user/tickets
func (h *TicketHandler) Book(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req bookTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.EventID <= 0 {
		writeError(w, r, models.NewValidationError("event_id is required"))
		return
	}

	ticket, err := h.ticketService.BookTicket(user.ID, req.EventID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, "ticket booked", ticket)
}

// Cancel handles PUT /api/user/tickets/{id}/cancel
func (h *TicketHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	ticketID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	ticket, err := h.ticketService.CancelTicket(user.ID, ticketID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "ticket cancelled", ticket)
}

// GetByID handles GET /api/user/tickets/{id}
func (h *TicketHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	ticketID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	ticket, err := h.ticketService.GetTicketByID(user.ID, ticketID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "ticket retrieved", ticket)
}

// ListMine handles GET /api/user/tickets with an optional ?event_id= filter
func (h *TicketHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	eventID := 0
	if v := r.URL.Query().Get("event_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			writeError(w, r, models.NewValidationError("invalid event_id"))
			return
		}
		eventID = id
	}

	tickets, err := h.ticketService.GetMyTickets(user.ID, eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "tickets retrieved", tickets)
}
