package handlers

import (
	"net/http"
	"strconv"
	"time"

	"eventflow/internal/middleware"
	"eventflow/internal/models"
	"eventflow/internal/services"
)

// EventHandler serves event submission, browsing, and organizer statistics
type EventHandler struct {
	eventService  *services.EventService
	ticketService *services.TicketService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService, ticketService *services.TicketService) *EventHandler {
	return &EventHandler{
		eventService:  eventService,
		ticketService: ticketService,
	}
}

// Create handles POST /api/user/events. The body is a multipart form so an
// image can ride along with the event fields.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	req, image, err := parseEventForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), user.ID, req, image)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, "event submitted for review", event)
}

// Update handles PUT /api/user/events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	eventID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, image, err := parseEventUpdateForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.eventService.UpdateEvent(r.Context(), user.ID, eventID, req, image)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "event updated", event)
}

// GetByID handles GET /api/events/{id}. Public: no authentication required.
func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.eventService.GetEventByID(eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "event retrieved", event)
}

// ListApproved handles GET /api/events. Authenticated callers do not see
// their own events in the browse list unless they ask with ?include_own=true.
func (h *EventHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	excludeOrganizerID := 0
	includeOwn := r.URL.Query().Get("include_own") == "true"
	if user := middleware.GetUserFromContext(r.Context()); user != nil && !includeOwn {
		excludeOrganizerID = user.ID
	}

	events, err := h.eventService.ListApprovedEvents(excludeOrganizerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "events retrieved", events)
}

// ListMine handles GET /api/user/events with an optional ?status= filter
func (h *EventHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	status := models.EventStatus(r.URL.Query().Get("status"))

	events, err := h.eventService.ListMyEvents(user.ID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "events retrieved", events)
}

// Attendees handles GET /api/user/events/{id}/attendees
func (h *EventHandler) Attendees(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	eventID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.ticketService.GetEventAttendees(user.ID, eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "attendees retrieved", report)
}

// ApprovedLastFiveMonths handles GET /api/user/stats/approved-last-5-months
func (h *EventHandler) ApprovedLastFiveMonths(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	count, err := h.eventService.ApprovedEventsLastFiveMonths(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "stats retrieved", map[string]int{"count": count})
}

// ApprovedNextThreeMonths handles GET /api/user/stats/approved-next-3-months
func (h *EventHandler) ApprovedNextThreeMonths(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	count, err := h.eventService.ApprovedEventsNextThreeMonths(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "stats retrieved", map[string]int{"count": count})
}

// AttendeesLastThreeMonths handles GET /api/user/stats/attendees-last-3-months
func (h *EventHandler) AttendeesLastThreeMonths(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	total, err := h.eventService.TotalAttendeesLastThreeMonths(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "stats retrieved", map[string]int{"total_attendees": total})
}

// RevenueLastThreeMonths handles GET /api/user/stats/revenue-last-3-months
func (h *EventHandler) RevenueLastThreeMonths(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	total, err := h.eventService.TotalRevenueLastThreeMonths(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "stats retrieved", map[string]float64{"total_revenue": total})
}

// parseEventForm reads an event create request from either a multipart form
// (with optional image) or a JSON body.
func parseEventForm(r *http.Request) (*models.EventCreateRequest, *services.ImageUpload, error) {
	if !isMultipart(r) {
		var req models.EventCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, nil, err
		}
		return &req, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, nil, models.NewValidationError("invalid multipart form")
	}

	req := &models.EventCreateRequest{
		Title:       r.FormValue("title"),
		Time:        r.FormValue("time"),
		Location:    r.FormValue("location"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}

	if v := r.FormValue("date"); v != "" {
		date, err := parseDate(v)
		if err != nil {
			return nil, nil, err
		}
		req.Date = date
	}
	if v := r.FormValue("expected_attendees"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, models.NewValidationError("expected attendees must be a number")
		}
		req.ExpectedAttendees = n
	}
	if v := r.FormValue("price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil, models.NewValidationError("price must be a number")
		}
		req.Price = p
	}

	image, err := formImage(r, "image")
	if err != nil {
		return nil, nil, err
	}

	return req, image, nil
}

// parseEventUpdateForm reads a partial event update. Absent form fields stay
// nil so the service keeps their current values.
func parseEventUpdateForm(r *http.Request) (*models.EventUpdateRequest, *services.ImageUpload, error) {
	if !isMultipart(r) {
		var req models.EventUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, nil, err
		}
		return &req, nil, nil
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, nil, models.NewValidationError("invalid multipart form")
	}

	req := &models.EventUpdateRequest{}

	if v := r.FormValue("title"); v != "" {
		req.Title = &v
	}
	if v := r.FormValue("time"); v != "" {
		req.Time = &v
	}
	if v := r.FormValue("location"); v != "" {
		req.Location = &v
	}
	if v := r.FormValue("description"); v != "" {
		req.Description = &v
	}
	if v := r.FormValue("category"); v != "" {
		req.Category = &v
	}
	if v := r.FormValue("date"); v != "" {
		date, err := parseDate(v)
		if err != nil {
			return nil, nil, err
		}
		req.Date = &date
	}
	if v := r.FormValue("expected_attendees"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, models.NewValidationError("expected attendees must be a number")
		}
		req.ExpectedAttendees = &n
	}
	if v := r.FormValue("price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil, models.NewValidationError("price must be a number")
		}
		req.Price = &p
	}

	image, err := formImage(r, "image")
	if err != nil {
		return nil, nil, err
	}

	return req, image, nil
}

// parseDate accepts a bare calendar date or a full RFC 3339 timestamp
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, models.NewValidationError("invalid date format")
}
