package models

import "time"

// TicketStatus represents the status of a ticket
type TicketStatus string

const (
	TicketBooked    TicketStatus = "booked"
	TicketCancelled TicketStatus = "cancelled"
)

// Ticket represents one user's claim on one event. Quantity is fixed to 1:
// each user may hold at most one booked ticket per event.
type Ticket struct {
	ID         int          `json:"id" db:"id"`
	UserID     int          `json:"user_id" db:"user_id"`
	EventID    int          `json:"event_id" db:"event_id"`
	Quantity   int          `json:"quantity" db:"quantity"`
	TotalPrice float64      `json:"total_price" db:"total_price"`
	Status     TicketStatus `json:"status" db:"status"`
	BookedAt   time.Time    `json:"booked_at" db:"booked_at"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`

	// Related data
	Event *Event `json:"event,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// IsBooked returns true if the ticket is currently booked
func (t *Ticket) IsBooked() bool {
	return t.Status == TicketBooked
}

// CanBeCancelled returns true if the ticket may transition to cancelled
func (t *Ticket) CanBeCancelled() bool {
	return t.Status == TicketBooked
}

// AttendeeStats holds aggregates recomputed from ticket rows. The event's
// stored attendees counter is a cache; these sums are the source of truth
// and may drift from it, which GetAttendees surfaces rather than corrects.
type AttendeeStats struct {
	TotalAttendees int     `json:"total_attendees"`
	TotalRevenue   float64 `json:"total_revenue"`
	BookedCount    int     `json:"booked_count"`
	CancelledCount int     `json:"cancelled_count"`
}

// EventAttendees is the organizer-facing attendee report for one event
type EventAttendees struct {
	Event     *Event        `json:"event"`
	Attendees []*Ticket     `json:"attendees"`
	Stats     AttendeeStats `json:"statistics"`
}
