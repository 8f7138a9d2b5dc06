package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"eventflow/internal/models"
)

// EventService owns the event lifecycle: validation, the organizer-only and
// date-floor rules, and the pending -> approved/rejected state machine.
type EventService struct {
	eventRepo EventRepositoryInterface
	images    *ImageService
}

// NewEventService creates a new event service
func NewEventService(eventRepo EventRepositoryInterface, images *ImageService) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		images:    images,
	}
}

// ImageUpload carries a pending image file through an event create or update
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// CreateEvent validates and persists a new event for the organizer. Status
// is forced to pending and the attendee counter to zero regardless of input.
// If an image is supplied it is uploaded first; an upload failure aborts the
// operation before anything is persisted.
func (s *EventService) CreateEvent(ctx context.Context, organizerID int, req *models.EventCreateRequest, image *ImageUpload) (*models.Event, error) {
	now := time.Now()
	if err := req.Validate(now); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.images.UploadImage(ctx, "events", image)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		req.Image = url
	}

	event := &models.Event{
		Title:             strings.TrimSpace(req.Title),
		Date:              models.DayOf(req.Date),
		Time:              req.Time,
		Location:          strings.TrimSpace(req.Location),
		ExpectedAttendees: req.ExpectedAttendees,
		Attendees:         0,
		Price:             req.Price,
		Description:       strings.TrimSpace(req.Description),
		Category:          req.Category,
		Image:             req.Image,
		OrganizerID:       organizerID,
		Status:            models.StatusPending,
	}

	return s.eventRepo.Create(event)
}

// UpdateEvent applies a partial edit to the organizer's own pending event.
// Absent fields keep their current values. Approved events are immutable to
// their organizer.
func (s *EventService) UpdateEvent(ctx context.Context, organizerID, eventID int, req *models.EventUpdateRequest, image *ImageUpload) (*models.Event, error) {
	now := time.Now()
	if err := req.Validate(now); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}

	if event.OrganizerID != organizerID {
		return nil, models.ErrUnauthorized
	}
	if event.Status == models.StatusApproved {
		return nil, models.ErrEventNotEditable
	}

	if image != nil {
		url, err := s.images.UploadImage(ctx, "events", image)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		req.Image = &url
	}

	req.Apply(event)

	return s.eventRepo.Update(event)
}

// GetEventByID retrieves an event with its organizer's identity attached
func (s *EventService) GetEventByID(id int) (*models.Event, error) {
	return s.eventRepo.GetByIDWithOrganizer(id)
}

// ListMyEvents returns the organizer's own events, optionally filtered by status
func (s *EventService) ListMyEvents(organizerID int, status models.EventStatus) ([]*models.Event, error) {
	switch status {
	case "", models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		return nil, models.NewValidationError("invalid status filter")
	}
	return s.eventRepo.ListByOrganizer(organizerID, status)
}

// ListApprovedEvents returns approved events for browsing. A non-zero
// excludeOrganizerID hides that organizer's own events.
func (s *EventService) ListApprovedEvents(excludeOrganizerID int) ([]*models.Event, error) {
	return s.eventRepo.ListApproved(excludeOrganizerID)
}

// ListAllEvents returns every event regardless of status (admin view)
func (s *EventService) ListAllEvents() ([]*models.Event, error) {
	return s.eventRepo.ListAll()
}

// ApproveEvent transitions a pending event to approved. Approved and
// rejected are terminal: re-processing an already-processed event is a
// conflict.
func (s *EventService) ApproveEvent(eventID int) (*models.Event, error) {
	return s.eventRepo.SetStatus(eventID, models.StatusApproved)
}

// RejectEvent transitions a pending event to rejected
func (s *EventService) RejectEvent(eventID int) (*models.Event, error) {
	return s.eventRepo.SetStatus(eventID, models.StatusRejected)
}

// SweepExpired rejects every pending event whose date has passed and
// returns the number of events changed. Safe to call repeatedly.
func (s *EventService) SweepExpired(now time.Time) (int64, error) {
	return s.eventRepo.SweepExpired(now)
}

// ApprovedEventsLastFiveMonths counts the organizer's approved events dated
// within the past five months.
func (s *EventService) ApprovedEventsLastFiveMonths(organizerID int) (int, error) {
	now := time.Now()
	return s.eventRepo.CountApprovedBetween(organizerID, now.AddDate(0, -5, 0), now)
}

// ApprovedEventsNextThreeMonths counts the organizer's approved events dated
// within the coming three months.
func (s *EventService) ApprovedEventsNextThreeMonths(organizerID int) (int, error) {
	now := time.Now()
	return s.eventRepo.CountApprovedBetween(organizerID, now, now.AddDate(0, 3, 0))
}

// TotalAttendeesLastThreeMonths sums attendee counters over the organizer's
// approved events dated within the past three months.
func (s *EventService) TotalAttendeesLastThreeMonths(organizerID int) (int, error) {
	now := time.Now()
	return s.eventRepo.SumAttendeesBetween(organizerID, now.AddDate(0, -3, 0), now)
}

// TotalRevenueLastThreeMonths sums attendees*price over the organizer's
// approved events dated within the past three months.
func (s *EventService) TotalRevenueLastThreeMonths(organizerID int) (float64, error) {
	now := time.Now()
	return s.eventRepo.SumRevenueBetween(organizerID, now.AddDate(0, -3, 0), now)
}
