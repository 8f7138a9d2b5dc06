package models

import (
	"strings"
	"time"
)

// EventStatus represents the status of an event
type EventStatus string

const (
	StatusPending  EventStatus = "pending"
	StatusApproved EventStatus = "approved"
	StatusRejected EventStatus = "rejected"
)

// MinLeadDays is the minimum number of calendar days between event
// creation (or edit) and the event date.
const MinLeadDays = 3

// Categories lists the fixed set of event categories
var Categories = []string{
	"Arts & Science",
	"Engineering",
	"Agriculture",
	"Pharmacy",
	"Physiotherapy",
	"Allied Health Sciences",
	"Hotel Management",
	"Business",
}

// Event represents a proposed or live campus event
type Event struct {
	ID                int         `json:"id" db:"id"`
	Title             string      `json:"title" db:"title"`
	Date              time.Time   `json:"date" db:"date"`
	Time              string      `json:"time" db:"time"`
	Location          string      `json:"location" db:"location"`
	ExpectedAttendees int         `json:"expected_attendees" db:"expected_attendees"`
	Attendees         int         `json:"attendees" db:"attendees"`
	Price             float64     `json:"price" db:"price"`
	Description       string      `json:"description" db:"description"`
	Category          string      `json:"category,omitempty" db:"category"`
	Image             string      `json:"image,omitempty" db:"image"`
	OrganizerID       int         `json:"organizer_id" db:"organizer_id"`
	Status            EventStatus `json:"status" db:"status"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`

	// Related data
	Organizer *User `json:"organizer,omitempty"`
}

// EventCreateRequest represents the data needed to create a new event
type EventCreateRequest struct {
	Title             string    `json:"title"`
	Date              time.Time `json:"date"`
	Time              string    `json:"time"`
	Location          string    `json:"location"`
	ExpectedAttendees int       `json:"expected_attendees"`
	Price             float64   `json:"price"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	Image             string    `json:"image"`
}

// EventUpdateRequest represents the fields an organizer may change while an
// event is still pending. Nil pointers mean "keep current value".
type EventUpdateRequest struct {
	Title             *string    `json:"title"`
	Date              *time.Time `json:"date"`
	Time              *string    `json:"time"`
	Location          *string    `json:"location"`
	ExpectedAttendees *int       `json:"expected_attendees"`
	Price             *float64   `json:"price"`
	Description       *string    `json:"description"`
	Category          *string    `json:"category"`
	Image             *string    `json:"image"`
}

// Validate validates event creation data against a reference time
func (req *EventCreateRequest) Validate(now time.Time) error {
	if strings.TrimSpace(req.Title) == "" {
		return NewValidationError("title is required")
	}
	if req.Date.IsZero() {
		return NewValidationError("date is required")
	}
	if strings.TrimSpace(req.Time) == "" {
		return NewValidationError("time is required")
	}
	if strings.TrimSpace(req.Location) == "" {
		return NewValidationError("location is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return NewValidationError("description is required")
	}
	if req.ExpectedAttendees < 1 {
		return NewValidationError("expected attendees must be at least 1")
	}
	if req.Price < 0 {
		return NewValidationError("price cannot be negative")
	}
	if err := ValidateEventDate(req.Date, now); err != nil {
		return err
	}
	if req.Category != "" {
		if err := validateCategory(req.Category); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates an update request. The date floor is re-checked only
// when a new date is supplied.
func (req *EventUpdateRequest) Validate(now time.Time) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return NewValidationError("title cannot be empty")
	}
	if req.Time != nil && strings.TrimSpace(*req.Time) == "" {
		return NewValidationError("time cannot be empty")
	}
	if req.Location != nil && strings.TrimSpace(*req.Location) == "" {
		return NewValidationError("location cannot be empty")
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return NewValidationError("description cannot be empty")
	}
	if req.ExpectedAttendees != nil && *req.ExpectedAttendees < 1 {
		return NewValidationError("expected attendees must be at least 1")
	}
	if req.Price != nil && *req.Price < 0 {
		return NewValidationError("price cannot be negative")
	}
	if req.Date != nil {
		if err := ValidateEventDate(*req.Date, now); err != nil {
			return err
		}
	}
	if req.Category != nil && *req.Category != "" {
		if err := validateCategory(*req.Category); err != nil {
			return err
		}
	}
	return nil
}

// Apply copies the supplied fields onto the event, leaving absent fields
// unchanged.
func (req *EventUpdateRequest) Apply(e *Event) {
	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Date != nil {
		e.Date = DayOf(*req.Date)
	}
	if req.Time != nil {
		e.Time = *req.Time
	}
	if req.Location != nil {
		e.Location = strings.TrimSpace(*req.Location)
	}
	if req.ExpectedAttendees != nil {
		e.ExpectedAttendees = *req.ExpectedAttendees
	}
	if req.Price != nil {
		e.Price = *req.Price
	}
	if req.Description != nil {
		e.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		e.Category = *req.Category
	}
	if req.Image != nil {
		e.Image = *req.Image
	}
}

// ValidateEventDate enforces the date floor: the event day must be at least
// MinLeadDays calendar days after the day of now. Days are compared, not
// instants, so an event at any hour of the boundary day is acceptable.
func ValidateEventDate(date, now time.Time) error {
	minDay := DayOf(now).AddDate(0, 0, MinLeadDays)
	if DayOf(date).Before(minDay) {
		return NewValidationError("event date must be at least 3 days from today")
	}
	return nil
}

// DayOf truncates a time to its UTC calendar day
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateCategory(category string) error {
	for _, c := range Categories {
		if c == category {
			return nil
		}
	}
	return NewValidationError("invalid event category")
}

// IsPending returns true if the event is awaiting review
func (e *Event) IsPending() bool {
	return e.Status == StatusPending
}

// IsApproved returns true if the event has been approved
func (e *Event) IsApproved() bool {
	return e.Status == StatusApproved
}

// HasEnded reports whether the event date has passed
func (e *Event) HasEnded(now time.Time) bool {
	return e.Date.Before(now)
}

// Remaining returns the number of tickets still bookable
func (e *Event) Remaining() int {
	return e.ExpectedAttendees - e.Attendees
}
