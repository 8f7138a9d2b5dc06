package services

import (
	"context"
	"io"
	"time"

	"eventflow/internal/models"
)

// UserRepositoryInterface defines the user store operations the services need
type UserRepositoryInterface interface {
	Create(req *models.UserCreateRequest) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdateProfile(id int, req *models.UserUpdateRequest) (*models.User, error)
	UpdatePassword(id int, passwordHash string) error
	SetResetToken(id int, token string, expires time.Time) error
	GetByResetToken(token string) (*models.User, error)
}

// EventRepositoryInterface defines the event store operations the services need
type EventRepositoryInterface interface {
	Create(event *models.Event) (*models.Event, error)
	GetByID(id int) (*models.Event, error)
	GetByIDWithOrganizer(id int) (*models.Event, error)
	Update(event *models.Event) (*models.Event, error)
	ListByOrganizer(organizerID int, status models.EventStatus) ([]*models.Event, error)
	ListApproved(excludeOrganizerID int) ([]*models.Event, error)
	ListAll() ([]*models.Event, error)
	SetStatus(id int, status models.EventStatus) (*models.Event, error)
	SweepExpired(now time.Time) (int64, error)
	CountApprovedBetween(organizerID int, from, to time.Time) (int, error)
	SumAttendeesBetween(organizerID int, from, to time.Time) (int, error)
	SumRevenueBetween(organizerID int, from, to time.Time) (float64, error)
}

// TicketRepositoryInterface defines the ticket store operations the services need
type TicketRepositoryInterface interface {
	Book(userID, eventID int, now time.Time) (*models.Ticket, error)
	Cancel(userID, ticketID int) (*models.Ticket, error)
	GetByID(userID, ticketID int) (*models.Ticket, error)
	ListBookedByUser(userID, eventID int) ([]*models.Ticket, error)
	ListBookedByEvent(eventID int) ([]*models.Ticket, error)
	StatsByEvent(eventID int) (models.AttendeeStats, error)
}

// StorageService abstracts the object store that holds uploaded images
type StorageService interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// EmailService abstracts the outbound mailer
type EmailService interface {
	Send(to, subject, body string) error
}
