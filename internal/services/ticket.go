package services

import (
	"log"
	"time"

	"eventflow/internal/models"
)

// TicketService owns booking eligibility and the attendee counter. The
// counter on Event is a cache; GetEventAttendees recomputes the truth from
// ticket rows and surfaces any drift instead of correcting it.
type TicketService struct {
	ticketRepo TicketRepositoryInterface
	eventRepo  EventRepositoryInterface
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo TicketRepositoryInterface, eventRepo EventRepositoryInterface) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		eventRepo:  eventRepo,
	}
}

// BookTicket books one ticket for the user on the event. Quantity is fixed
// at 1 and the total price is a snapshot of the event price at booking time.
// Preconditions are checked here in order so each failure is distinct; the
// repository re-checks capacity and uniqueness atomically inside the booking
// transaction, so a race between two callers loses there, not here.
func (s *TicketService) BookTicket(userID, eventID int) (*models.Ticket, error) {
	now := time.Now()

	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.HasEnded(now) {
		return nil, models.ErrEventEnded
	}
	if event.OrganizerID == userID {
		return nil, models.ErrOrganizerBooking
	}

	existing, err := s.ticketRepo.ListBookedByUser(userID, eventID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, models.ErrAlreadyBooked
	}

	if event.Attendees+1 > event.ExpectedAttendees {
		return nil, models.ErrNotEnoughTickets
	}

	return s.ticketRepo.Book(userID, eventID, now)
}

// CancelTicket cancels the caller's booked ticket and releases its seat
func (s *TicketService) CancelTicket(userID, ticketID int) (*models.Ticket, error) {
	return s.ticketRepo.Cancel(userID, ticketID)
}

// GetTicketByID retrieves one of the caller's tickets
func (s *TicketService) GetTicketByID(userID, ticketID int) (*models.Ticket, error) {
	return s.ticketRepo.GetByID(userID, ticketID)
}

// GetMyTickets lists the caller's booked tickets, optionally filtered to one
// event, with each ticket's event populated for display.
func (s *TicketService) GetMyTickets(userID, eventID int) ([]*models.Ticket, error) {
	return s.ticketRepo.ListBookedByUser(userID, eventID)
}

// GetEventAttendees returns the booked tickets for an event with booking
// users attached, plus aggregates recomputed from ticket rows. Only the
// event's organizer may call it.
func (s *TicketService) GetEventAttendees(callerID, eventID int) (*models.EventAttendees, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}

	if event.OrganizerID != callerID {
		return nil, models.ErrUnauthorized
	}

	tickets, err := s.ticketRepo.ListBookedByEvent(eventID)
	if err != nil {
		return nil, err
	}

	stats, err := s.ticketRepo.StatsByEvent(eventID)
	if err != nil {
		return nil, err
	}

	// Drift between the cached counter and the ticket-row sum is an
	// observability signal, not something to silently repair.
	if stats.TotalAttendees != event.Attendees {
		log.Printf("attendee counter drift on event %d: counter=%d, ticket sum=%d",
			event.ID, event.Attendees, stats.TotalAttendees)
	}

	return &models.EventAttendees{
		Event:     event,
		Attendees: tickets,
		Stats:     stats,
	}, nil
}
