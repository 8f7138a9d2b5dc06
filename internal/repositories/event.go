package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"eventflow/internal/models"
)

// EventRepository handles event data operations
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title, date, time, location, expected_attendees, attendees,
	price, description, category, image, organizer_id, status, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
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
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) queryEvents(query string, args ...interface{}) ([]*models.Event, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// Create inserts a new event. Status and attendees are forced by the
// service, not taken from the caller.
func (r *EventRepository) Create(event *models.Event) (*models.Event, error) {
	query := `
		INSERT INTO events (title, date, time, location, expected_attendees, attendees,
			price, description, category, image, organizer_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		RETURNING ` + eventColumns

	now := time.Now()
	created, err := scanEvent(r.db.QueryRow(
		query,
		event.Title,
		event.Date,
		event.Time,
		event.Location,
		event.ExpectedAttendees,
		event.Attendees,
		event.Price,
		event.Description,
		event.Category,
		event.Image,
		event.OrganizerID,
		event.Status,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return created, nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// GetByIDWithOrganizer retrieves an event together with its organizer's
// public identity.
func (r *EventRepository) GetByIDWithOrganizer(id int) (*models.Event, error) {
	query := `
		SELECT e.id, e.title, e.date, e.time, e.location, e.expected_attendees, e.attendees,
			e.price, e.description, e.category, e.image, e.organizer_id, e.status, e.created_at, e.updated_at,
			u.id, u.username, u.email
		FROM events e
		JOIN users u ON u.id = e.organizer_id
		WHERE e.id = $1`

	event := &models.Event{}
	organizer := &models.User{}
	err := r.db.QueryRow(query, id).Scan(
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
		&organizer.ID,
		&organizer.Username,
		&organizer.Email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	event.Organizer = organizer
	return event, nil
}

// Update persists edited event fields and returns the fresh row
func (r *EventRepository) Update(event *models.Event) (*models.Event, error) {
	query := `
		UPDATE events
		SET title = $2, date = $3, time = $4, location = $5, expected_attendees = $6,
			price = $7, description = $8, category = $9, image = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns

	updated, err := scanEvent(r.db.QueryRow(
		query,
		event.ID,
		event.Title,
		event.Date,
		event.Time,
		event.Location,
		event.ExpectedAttendees,
		event.Price,
		event.Description,
		event.Category,
		event.Image,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return updated, nil
}

// ListByOrganizer returns the organizer's own events, optionally filtered
// by status.
func (r *EventRepository) ListByOrganizer(organizerID int, status models.EventStatus) ([]*models.Event, error) {
	if status != "" {
		query := `SELECT ` + eventColumns + ` FROM events WHERE organizer_id = $1 AND status = $2 ORDER BY date ASC`
		return r.queryEvents(query, organizerID, status)
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE organizer_id = $1 ORDER BY date ASC`
	return r.queryEvents(query, organizerID)
}

// ListApproved returns approved events. When excludeOrganizerID is non-zero
// that organizer's own events are filtered out.
func (r *EventRepository) ListApproved(excludeOrganizerID int) ([]*models.Event, error) {
	if excludeOrganizerID != 0 {
		query := `SELECT ` + eventColumns + ` FROM events WHERE status = 'approved' AND organizer_id <> $1 ORDER BY date ASC`
		return r.queryEvents(query, excludeOrganizerID)
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = 'approved' ORDER BY date ASC`
	return r.queryEvents(query)
}

// ListAll returns every event regardless of status (admin view)
func (r *EventRepository) ListAll() ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC`
	return r.queryEvents(query)
}

// SetStatus transitions a pending event to the given terminal status. The
// WHERE clause refuses already-processed events so an approve and a reject
// can never both win.
func (r *EventRepository) SetStatus(id int, status models.EventStatus) (*models.Event, error) {
	query := `
		UPDATE events
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + eventColumns

	event, err := scanEvent(r.db.QueryRow(query, id, status))
	if err != nil {
		if err == sql.ErrNoRows {
			// Either the event does not exist or it was already processed.
			if _, getErr := r.GetByID(id); getErr != nil {
				return nil, getErr
			}
			return nil, models.ErrEventProcessed
		}
		return nil, fmt.Errorf("failed to set event status: %w", err)
	}

	return event, nil
}

// SweepExpired rejects every pending event whose date has passed, in one
// bulk statement, and reports how many rows changed. Running it twice with
// the same now is a no-op the second time.
func (r *EventRepository) SweepExpired(now time.Time) (int64, error) {
	query := `
		UPDATE events
		SET status = 'rejected', updated_at = NOW()
		WHERE status = 'pending' AND date < $1`

	result, err := r.db.Exec(query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired events: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected, nil
}

// CountApprovedBetween counts an organizer's approved events dated within
// [from, to].
func (r *EventRepository) CountApprovedBetween(organizerID int, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM events
		WHERE organizer_id = $1 AND status = 'approved' AND date >= $2 AND date <= $3`

	var count int
	if err := r.db.QueryRow(query, organizerID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count approved events: %w", err)
	}

	return count, nil
}

// SumAttendeesBetween totals the attendee counters of an organizer's
// approved events dated within [from, to].
func (r *EventRepository) SumAttendeesBetween(organizerID int, from, to time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(attendees), 0)
		FROM events
		WHERE organizer_id = $1 AND status = 'approved' AND date >= $2 AND date <= $3`

	var total int
	if err := r.db.QueryRow(query, organizerID, from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum attendees: %w", err)
	}

	return total, nil
}

// SumRevenueBetween totals attendees*price over an organizer's approved
// events dated within [from, to].
func (r *EventRepository) SumRevenueBetween(organizerID int, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(attendees * price), 0)
		FROM events
		WHERE organizer_id = $1 AND status = 'approved' AND date >= $2 AND date <= $3`

	var total float64
	if err := r.db.QueryRow(query, organizerID, from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return total, nil
}
