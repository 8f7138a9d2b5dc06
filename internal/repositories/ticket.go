package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"eventflow/internal/models"
)

// TicketRepository handles ticket data operations. Booking and cancellation
// run inside transactions so the ticket row and the event's attendee counter
// always move together.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, user_id, event_id, quantity, total_price, status, booked_at, created_at, updated_at`

func scanTicket(row interface{ Scan(...interface{}) error }) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.EventID,
		&ticket.Quantity,
		&ticket.TotalPrice,
		&ticket.Status,
		&ticket.BookedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// Book creates a booked ticket for the user and increments the event's
// attendee counter in one transaction. Preconditions are evaluated against
// the row-locked event so concurrent bookings cannot oversell capacity, and
// the partial unique index on (user_id, event_id) backs the already-booked
// check.
func (r *TicketRepository) Book(userID, eventID int, now time.Time) (*models.Ticket, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		date              time.Time
		organizerID       int
		price             float64
		expectedAttendees int
		attendees         int
	)
	err = tx.QueryRow(`
		SELECT date, organizer_id, price, expected_attendees, attendees
		FROM events
		WHERE id = $1
		FOR UPDATE`, eventID).Scan(&date, &organizerID, &price, &expectedAttendees, &attendees)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event for booking: %w", err)
	}

	if date.Before(now) {
		return nil, models.ErrEventEnded
	}
	if organizerID == userID {
		return nil, models.ErrOrganizerBooking
	}

	var alreadyBooked bool
	err = tx.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM tickets
			WHERE user_id = $1 AND event_id = $2 AND status = 'booked'
		)`, userID, eventID).Scan(&alreadyBooked)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing ticket: %w", err)
	}
	if alreadyBooked {
		return nil, models.ErrAlreadyBooked
	}

	if attendees+1 > expectedAttendees {
		return nil, models.ErrNotEnoughTickets
	}

	// Conditional increment: validates against the freshest counter even
	// though the row is already locked above.
	result, err := tx.Exec(`
		UPDATE events
		SET attendees = attendees + 1, updated_at = NOW()
		WHERE id = $1 AND attendees + 1 <= expected_attendees`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment attendees: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, models.ErrNotEnoughTickets
	}

	ticket, err := scanTicket(tx.QueryRow(`
		INSERT INTO tickets (user_id, event_id, quantity, total_price, status, booked_at, created_at, updated_at)
		VALUES ($1, $2, 1, $3, 'booked', $4, $4, $4)
		RETURNING `+ticketColumns, userID, eventID, price, now))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, models.ErrAlreadyBooked
		}
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	return ticket, nil
}

// Cancel transitions the caller's booked ticket to cancelled and decrements
// the event's attendee counter. The decrement is best-effort: if the event
// row no longer exists the cancellation still proceeds.
func (r *TicketRepository) Cancel(userID, ticketID int) (*models.Ticket, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ticket, err := scanTicket(tx.QueryRow(`
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`, ticketID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	if !ticket.CanBeCancelled() {
		return nil, models.ErrTicketNotBooked
	}

	updated, err := scanTicket(tx.QueryRow(`
		UPDATE tickets
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1
		RETURNING `+ticketColumns, ticketID))
	if err != nil {
		return nil, fmt.Errorf("failed to cancel ticket: %w", err)
	}

	// GREATEST keeps the counter from going negative if it has drifted.
	_, err = tx.Exec(`
		UPDATE events
		SET attendees = GREATEST(attendees - $2, 0), updated_at = NOW()
		WHERE id = $1`, ticket.EventID, ticket.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to decrement attendees: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	return updated, nil
}

// GetByID retrieves a ticket owned by the given user
func (r *TicketRepository) GetByID(userID, ticketID int) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1 AND user_id = $2`

	ticket, err := scanTicket(r.db.QueryRow(query, ticketID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// ListBookedByUser returns the user's booked tickets, optionally filtered to
// one event, each with its event populated for display.
func (r *TicketRepository) ListBookedByUser(userID, eventID int) ([]*models.Ticket, error) {
	query := `
		SELECT t.id, t.user_id, t.event_id, t.quantity, t.total_price, t.status, t.booked_at, t.created_at, t.updated_at,
			e.id, e.title, e.date, e.time, e.location, e.expected_attendees, e.attendees,
			e.price, e.description, e.category, e.image, e.organizer_id, e.status, e.created_at, e.updated_at
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.user_id = $1 AND t.status = 'booked'`

	args := []interface{}{userID}
	if eventID != 0 {
		query += ` AND t.event_id = $2`
		args = append(args, eventID)
	}
	query += ` ORDER BY t.booked_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket := &models.Ticket{}
		event := &models.Event{}
		err := rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.EventID,
			&ticket.Quantity,
			&ticket.TotalPrice,
			&ticket.Status,
			&ticket.BookedAt,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&event.ID,
			&event.Title,
			&event.Date,
			&event.Time,
			&event.Location,
			&event.ExpectedAttendees,
			&event.Attendees,
			&event.Price,
			&event.Description,
			&event.Category,
			&event.Image,
			&event.OrganizerID,
			&event.Status,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		ticket.Event = event
		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}

// ListBookedByEvent returns all booked tickets for an event with the booking
// user's identity attached, most recent first.
func (r *TicketRepository) ListBookedByEvent(eventID int) ([]*models.Ticket, error) {
	query := `
		SELECT t.id, t.user_id, t.event_id, t.quantity, t.total_price, t.status, t.booked_at, t.created_at, t.updated_at,
			u.id, u.username, u.email, u.avatar
		FROM tickets t
		JOIN users u ON u.id = t.user_id
		WHERE t.event_id = $1 AND t.status = 'booked'
		ORDER BY t.booked_at DESC`

	rows, err := r.db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket := &models.Ticket{}
		user := &models.User{}
		err := rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.EventID,
			&ticket.Quantity,
			&ticket.TotalPrice,
			&ticket.Status,
			&ticket.BookedAt,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&user.ID,
			&user.Username,
			&user.Email,
			&user.Avatar,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		ticket.User = user
		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	return tickets, nil
}

// StatsByEvent recomputes attendee aggregates from ticket rows instead of
// trusting the event's attendees counter. Booked tickets contribute to the
// totals; cancelled tickets only to their count.
func (r *TicketRepository) StatsByEvent(eventID int) (models.AttendeeStats, error) {
	query := `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE status = 'booked'), 0),
			COALESCE(SUM(total_price) FILTER (WHERE status = 'booked'), 0),
			COUNT(*) FILTER (WHERE status = 'booked'),
			COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM tickets
		WHERE event_id = $1`

	var stats models.AttendeeStats
	err := r.db.QueryRow(query, eventID).Scan(
		&stats.TotalAttendees,
		&stats.TotalRevenue,
		&stats.BookedCount,
		&stats.CancelledCount,
	)
	if err != nil {
		return models.AttendeeStats{}, fmt.Errorf("failed to compute attendee stats: %w", err)
	}

	return stats, nil
}
