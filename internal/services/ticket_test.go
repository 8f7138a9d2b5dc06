package services

import (
	"errors"
	"testing"
	"time"

	"eventflow/internal/models"
)

// newBookingFixture wires the ticket mock to the event mock so bookings and
// cancellations move the attendee counter the way the store transaction does.
func newBookingFixture() (*TicketService, *mockEventRepository, *mockTicketRepository) {
	eventRepo := newMockEventRepository()
	ticketRepo := newMockTicketRepository()
	ticketRepo.events = eventRepo
	return NewTicketService(ticketRepo, eventRepo), eventRepo, ticketRepo
}

func bookableEvent(t *testing.T, repo *mockEventRepository, organizerID, capacity int, price float64) *models.Event {
	t.Helper()

	event, err := repo.Create(&models.Event{
		Title:             "Concert",
		Date:              time.Now().AddDate(0, 0, 10),
		ExpectedAttendees: capacity,
		Price:             price,
		OrganizerID:       organizerID,
		Status:            models.StatusApproved,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return event
}

func TestBookTicketMissingEvent(t *testing.T) {
	service, _, _ := newBookingFixture()

	_, err := service.BookTicket(10, 42)
	if !errors.Is(err, models.ErrEventNotFound) {
		t.Errorf("Expected ErrEventNotFound, got %v", err)
	}
}

func TestBookTicketRejectsEndedEvent(t *testing.T) {
	service, eventRepo, _ := newBookingFixture()

	event, err := eventRepo.Create(&models.Event{
		Title: "Yesterday's Gig", Date: time.Now().AddDate(0, 0, -1),
		ExpectedAttendees: 100, OrganizerID: 7, Status: models.StatusApproved,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = service.BookTicket(10, event.ID)
	if !errors.Is(err, models.ErrEventEnded) {
		t.Errorf("Expected ErrEventEnded, got %v", err)
	}
}

func TestBookTicketEndedCheckPrecedesOrganizerCheck(t *testing.T) {
	service, eventRepo, _ := newBookingFixture()

	event, err := eventRepo.Create(&models.Event{
		Title: "Old Own Event", Date: time.Now().AddDate(0, 0, -1),
		ExpectedAttendees: 100, OrganizerID: 7, Status: models.StatusApproved,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Organizer booking their own ended event: the ended check runs first.
	_, err = service.BookTicket(7, event.ID)
	if !errors.Is(err, models.ErrEventEnded) {
		t.Errorf("Expected ErrEventEnded before the organizer check, got %v", err)
	}
}

func TestBookTicketRejectsOrganizer(t *testing.T) {
	service, eventRepo, _ := newBookingFixture()
	event := bookableEvent(t, eventRepo, 7, 100, 25)

	_, err := service.BookTicket(7, event.ID)
	if !errors.Is(err, models.ErrOrganizerBooking) {
		t.Errorf("Expected ErrOrganizerBooking, got %v", err)
	}
	if eventRepo.events[event.ID].Attendees != 0 {
		t.Errorf("Expected counter untouched on failed booking, got %d", eventRepo.events[event.ID].Attendees)
	}
}

func TestBookTicketRejectsDoubleBooking(t *testing.T) {
	service, eventRepo, _ := newBookingFixture()
	event := bookableEvent(t, eventRepo, 7, 100, 25)

	if _, err := service.BookTicket(10, event.ID); err != nil {
		t.Fatalf("First booking failed: %v", err)
	}

	_, err := service.BookTicket(10, event.ID)
	if !errors.Is(err, models.ErrAlreadyBooked) {
		t.Errorf("Expected ErrAlreadyBooked, got %v", err)
	}
	if eventRepo.events[event.ID].Attendees != 1 {
		t.Errorf("Expected counter to stay at 1, got %d", eventRepo.events[event.ID].Attendees)
	}
}

func TestBookTicketRejectsFullEvent(t *testing.T) {
	service, eventRepo, _ := newBookingFixture()
	event := bookableEvent(t, eventRepo, 7, 1, 25)

	if _, err := service.BookTicket(10, event.ID); err != nil {
		t.Fatalf("Booking the last seat failed: %v", err)
	}

	_, err := service.BookTicket(11, event.ID)
	if !errors.Is(err, models.ErrNotEnoughTickets) {
		t.Errorf("Expected ErrNotEnoughTickets, got %v", err)
	}
}

func TestBookTicketSnapshotsPriceAndIncrementsCounter(t *testing.T) {
	service, eventRepo, _ := newBookingFixture()
	event := bookableEvent(t, eventRepo, 7, 100, 25)

	ticket, err := service.BookTicket(10, event.ID)
	if err != nil {
		t.Fatalf("BookTicket failed: %v", err)
	}

	if ticket.Quantity != 1 {
		t.Errorf("Expected quantity 1, got %d", ticket.Quantity)
	}
	if ticket.TotalPrice != 25 {
		t.Errorf("Expected price snapshot 25, got %v", ticket.TotalPrice)
	}
	if !ticket.IsBooked() {
		t.Errorf("Expected booked status, got %s", ticket.Status)
	}
	if eventRepo.events[event.ID].Attendees != 1 {
		t.Errorf("Expected attendee counter 1, got %d", eventRepo.events[event.ID].Attendees)
	}

	// A later price edit does not touch the snapshot.
	eventRepo.events[event.ID].Price = 99
	if ticket.TotalPrice != 25 {
		t.Errorf("Expected snapshot to survive price edits, got %v", ticket.TotalPrice)
	}
}

func TestCancelReleasesSeatForNextCaller(t *testing.T) {
	service, eventRepo, _ := newBookingFixture()
	event := bookableEvent(t, eventRepo, 7, 1, 25)

	// B takes the last seat; C is turned away.
	bTicket, err := service.BookTicket(10, event.ID)
	if err != nil {
		t.Fatalf("B's booking failed: %v", err)
	}
	if _, err := service.BookTicket(11, event.ID); !errors.Is(err, models.ErrNotEnoughTickets) {
		t.Fatalf("Expected C to be rejected while full, got %v", err)
	}

	// B cancels, releasing the seat.
	if _, err := service.CancelTicket(10, bTicket.ID); err != nil {
		t.Fatalf("B's cancellation failed: %v", err)
	}
	if eventRepo.events[event.ID].Attendees != 0 {
		t.Errorf("Expected counter back to 0 after cancel, got %d", eventRepo.events[event.ID].Attendees)
	}

	// C can now book.
	if _, err := service.BookTicket(11, event.ID); err != nil {
		t.Errorf("Expected C's retry to succeed, got %v", err)
	}
}

func TestGetEventAttendeesRequiresOrganizer(t *testing.T) {
	eventRepo := newMockEventRepository()
	ticketRepo := newMockTicketRepository()
	service := NewTicketService(ticketRepo, eventRepo)

	event, err := eventRepo.Create(&models.Event{
		Title: "Show", Date: time.Now().AddDate(0, 0, 10),
		OrganizerID: 7, Status: models.StatusApproved,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = service.GetEventAttendees(8, event.ID)
	if !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for non-organizer, got %v", err)
	}
}

func TestGetEventAttendeesMissingEvent(t *testing.T) {
	service := NewTicketService(newMockTicketRepository(), newMockEventRepository())

	_, err := service.GetEventAttendees(7, 42)
	if !errors.Is(err, models.ErrEventNotFound) {
		t.Errorf("Expected ErrEventNotFound, got %v", err)
	}
}

func TestGetEventAttendeesReturnsBookedTicketsAndStats(t *testing.T) {
	eventRepo := newMockEventRepository()
	ticketRepo := newMockTicketRepository()
	service := NewTicketService(ticketRepo, eventRepo)

	event, err := eventRepo.Create(&models.Event{
		Title: "Show", Date: time.Now().AddDate(0, 0, 10),
		OrganizerID: 7, Status: models.StatusApproved, Attendees: 2,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ticketRepo.addTicket(&models.Ticket{
		UserID: 10, EventID: event.ID, Quantity: 1, TotalPrice: 25, Status: models.TicketBooked,
	})
	ticketRepo.addTicket(&models.Ticket{
		UserID: 11, EventID: event.ID, Quantity: 1, TotalPrice: 25, Status: models.TicketBooked,
	})
	ticketRepo.addTicket(&models.Ticket{
		UserID: 12, EventID: event.ID, Quantity: 1, TotalPrice: 25, Status: models.TicketCancelled,
	})

	report, err := service.GetEventAttendees(7, event.ID)
	if err != nil {
		t.Fatalf("GetEventAttendees failed: %v", err)
	}

	if len(report.Attendees) != 2 {
		t.Errorf("Expected 2 booked tickets, got %d", len(report.Attendees))
	}
	if report.Stats.TotalAttendees != 2 {
		t.Errorf("Expected 2 total attendees, got %d", report.Stats.TotalAttendees)
	}
	if report.Stats.TotalRevenue != 50 {
		t.Errorf("Expected revenue 50, got %v", report.Stats.TotalRevenue)
	}
	if report.Stats.CancelledCount != 1 {
		t.Errorf("Expected 1 cancelled ticket, got %d", report.Stats.CancelledCount)
	}
}

func TestCancelTicketNotBookedConflict(t *testing.T) {
	eventRepo := newMockEventRepository()
	ticketRepo := newMockTicketRepository()
	service := NewTicketService(ticketRepo, eventRepo)

	ticket := ticketRepo.addTicket(&models.Ticket{
		UserID: 10, EventID: 1, Quantity: 1, Status: models.TicketCancelled,
	})

	_, err := service.CancelTicket(10, ticket.ID)
	if !errors.Is(err, models.ErrTicketNotBooked) {
		t.Errorf("Expected ErrTicketNotBooked, got %v", err)
	}
}

func TestGetTicketByIDScopedToOwner(t *testing.T) {
	eventRepo := newMockEventRepository()
	ticketRepo := newMockTicketRepository()
	service := NewTicketService(ticketRepo, eventRepo)

	ticket := ticketRepo.addTicket(&models.Ticket{
		UserID: 10, EventID: 1, Quantity: 1, Status: models.TicketBooked,
	})

	if _, err := service.GetTicketByID(10, ticket.ID); err != nil {
		t.Errorf("Expected owner lookup to succeed, got %v", err)
	}

	_, err := service.GetTicketByID(11, ticket.ID)
	if !errors.Is(err, models.ErrTicketNotFound) {
		t.Errorf("Expected ErrTicketNotFound for other user, got %v", err)
	}
}

func TestGetMyTicketsFiltersByEvent(t *testing.T) {
	eventRepo := newMockEventRepository()
	ticketRepo := newMockTicketRepository()
	service := NewTicketService(ticketRepo, eventRepo)

	ticketRepo.addTicket(&models.Ticket{UserID: 10, EventID: 1, Status: models.TicketBooked})
	ticketRepo.addTicket(&models.Ticket{UserID: 10, EventID: 2, Status: models.TicketBooked})
	ticketRepo.addTicket(&models.Ticket{UserID: 10, EventID: 3, Status: models.TicketCancelled})

	all, err := service.GetMyTickets(10, 0)
	if err != nil {
		t.Fatalf("GetMyTickets failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 booked tickets, got %d", len(all))
	}

	one, err := service.GetMyTickets(10, 2)
	if err != nil {
		t.Fatalf("GetMyTickets with filter failed: %v", err)
	}
	if len(one) != 1 || one[0].EventID != 2 {
		t.Errorf("Expected only the event 2 ticket, got %v", one)
	}
}
