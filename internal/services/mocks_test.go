package services

import (
	"time"

	"eventflow/internal/models"
)

// Mock UserRepository for testing
type mockUserRepository struct {
	users       map[int]*models.User
	nextID      int
	createError error
	getError    error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[int]*models.User),
		nextID: 1,
	}
}

func (m *mockUserRepository) Create(req *models.UserCreateRequest) (*models.User, error) {
	if m.createError != nil {
		return nil, m.createError
	}

	for _, u := range m.users {
		if u.Email == models.NormalizeEmail(req.Email) {
			return nil, models.ErrDuplicateEmail
		}
	}

	user := &models.User{
		ID:           m.nextID,
		Username:     req.Username,
		Email:        models.NormalizeEmail(req.Email),
		PasswordHash: req.Password,
		Role:         req.Role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.users[m.nextID] = user
	m.nextID++

	return user, nil
}

func (m *mockUserRepository) GetByID(id int) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	user, exists := m.users[id]
	if !exists {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == models.NormalizeEmail(email) {
			return u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (m *mockUserRepository) UpdateProfile(id int, req *models.UserUpdateRequest) (*models.User, error) {
	user, exists := m.users[id]
	if !exists {
		return nil, models.ErrUserNotFound
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.RollNumber != nil {
		user.RollNumber = *req.RollNumber
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	return user, nil
}

func (m *mockUserRepository) UpdatePassword(id int, passwordHash string) error {
	user, exists := m.users[id]
	if !exists {
		return models.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	return nil
}

func (m *mockUserRepository) SetResetToken(id int, token string, expires time.Time) error {
	user, exists := m.users[id]
	if !exists {
		return models.ErrUserNotFound
	}
	user.ResetPasswordToken = token
	user.ResetPasswordExpires = &expires
	return nil
}

func (m *mockUserRepository) GetByResetToken(token string) (*models.User, error) {
	now := time.Now()
	for _, u := range m.users {
		if u.ResetTokenValid(token, now) {
			return u, nil
		}
	}
	return nil, models.ErrInvalidResetToken
}

// Mock EventRepository for testing
type mockEventRepository struct {
	events      map[int]*models.Event
	nextID      int
	createError error
	getError    error
	updateError error
	sweepError  error
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{
		events: make(map[int]*models.Event),
		nextID: 1,
	}
}

func (m *mockEventRepository) Create(event *models.Event) (*models.Event, error) {
	if m.createError != nil {
		return nil, m.createError
	}

	stored := *event
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = time.Now()
	m.events[m.nextID] = &stored
	m.nextID++

	return &stored, nil
}

func (m *mockEventRepository) GetByID(id int) (*models.Event, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	event, exists := m.events[id]
	if !exists {
		return nil, models.ErrEventNotFound
	}
	return event, nil
}

func (m *mockEventRepository) GetByIDWithOrganizer(id int) (*models.Event, error) {
	return m.GetByID(id)
}

func (m *mockEventRepository) Update(event *models.Event) (*models.Event, error) {
	if m.updateError != nil {
		return nil, m.updateError
	}
	if _, exists := m.events[event.ID]; !exists {
		return nil, models.ErrEventNotFound
	}
	stored := *event
	stored.UpdatedAt = time.Now()
	m.events[event.ID] = &stored
	return &stored, nil
}

func (m *mockEventRepository) ListByOrganizer(organizerID int, status models.EventStatus) ([]*models.Event, error) {
	var events []*models.Event
	for _, e := range m.events {
		if e.OrganizerID != organizerID {
			continue
		}
		if status != "" && e.Status != status {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

func (m *mockEventRepository) ListApproved(excludeOrganizerID int) ([]*models.Event, error) {
	var events []*models.Event
	for _, e := range m.events {
		if e.Status != models.StatusApproved {
			continue
		}
		if excludeOrganizerID != 0 && e.OrganizerID == excludeOrganizerID {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

func (m *mockEventRepository) ListAll() ([]*models.Event, error) {
	var events []*models.Event
	for _, e := range m.events {
		events = append(events, e)
	}
	return events, nil
}

func (m *mockEventRepository) SetStatus(id int, status models.EventStatus) (*models.Event, error) {
	event, exists := m.events[id]
	if !exists {
		return nil, models.ErrEventNotFound
	}
	if event.Status != models.StatusPending {
		return nil, models.ErrEventProcessed
	}
	event.Status = status
	event.UpdatedAt = time.Now()
	return event, nil
}

func (m *mockEventRepository) SweepExpired(now time.Time) (int64, error) {
	if m.sweepError != nil {
		return 0, m.sweepError
	}
	var count int64
	for _, e := range m.events {
		if e.Status == models.StatusPending && e.Date.Before(now) {
			e.Status = models.StatusRejected
			count++
		}
	}
	return count, nil
}

func (m *mockEventRepository) CountApprovedBetween(organizerID int, from, to time.Time) (int, error) {
	count := 0
	for _, e := range m.events {
		if e.OrganizerID == organizerID && e.Status == models.StatusApproved &&
			!e.Date.Before(from) && !e.Date.After(to) {
			count++
		}
	}
	return count, nil
}

func (m *mockEventRepository) SumAttendeesBetween(organizerID int, from, to time.Time) (int, error) {
	sum := 0
	for _, e := range m.events {
		if e.OrganizerID == organizerID && e.Status == models.StatusApproved &&
			!e.Date.Before(from) && !e.Date.After(to) {
			sum += e.Attendees
		}
	}
	return sum, nil
}

func (m *mockEventRepository) SumRevenueBetween(organizerID int, from, to time.Time) (float64, error) {
	sum := 0.0
	for _, e := range m.events {
		if e.OrganizerID == organizerID && e.Status == models.StatusApproved &&
			!e.Date.Before(from) && !e.Date.After(to) {
			sum += float64(e.Attendees) * e.Price
		}
	}
	return sum, nil
}

// Mock TicketRepository for testing. When events is set, Book and Cancel
// mirror the store's transactional guard: the conditional capacity increment,
// the booked-ticket uniqueness check, and the counter decrement on cancel.
type mockTicketRepository struct {
	tickets    map[int]*models.Ticket
	nextID     int
	events     *mockEventRepository
	bookError  error
	listError  error
	statsError error
	stats      models.AttendeeStats
}

func newMockTicketRepository() *mockTicketRepository {
	return &mockTicketRepository{
		tickets: make(map[int]*models.Ticket),
		nextID:  1,
	}
}

func (m *mockTicketRepository) addTicket(t *models.Ticket) *models.Ticket {
	stored := *t
	stored.ID = m.nextID
	m.tickets[m.nextID] = &stored
	m.nextID++
	return &stored
}

func (m *mockTicketRepository) Book(userID, eventID int, now time.Time) (*models.Ticket, error) {
	if m.bookError != nil {
		return nil, m.bookError
	}

	ticket := &models.Ticket{
		UserID:   userID,
		EventID:  eventID,
		Quantity: 1,
		Status:   models.TicketBooked,
		BookedAt: now,
	}

	if m.events != nil {
		event, exists := m.events.events[eventID]
		if !exists {
			return nil, models.ErrEventNotFound
		}
		for _, t := range m.tickets {
			if t.UserID == userID && t.EventID == eventID && t.IsBooked() {
				return nil, models.ErrAlreadyBooked
			}
		}
		if event.Attendees+1 > event.ExpectedAttendees {
			return nil, models.ErrNotEnoughTickets
		}
		event.Attendees++
		ticket.TotalPrice = event.Price
	}

	return m.addTicket(ticket), nil
}

func (m *mockTicketRepository) Cancel(userID, ticketID int) (*models.Ticket, error) {
	ticket, exists := m.tickets[ticketID]
	if !exists || ticket.UserID != userID {
		return nil, models.ErrTicketNotFound
	}
	if !ticket.CanBeCancelled() {
		return nil, models.ErrTicketNotBooked
	}
	ticket.Status = models.TicketCancelled

	if m.events != nil {
		if event, exists := m.events.events[ticket.EventID]; exists {
			event.Attendees -= ticket.Quantity
			if event.Attendees < 0 {
				event.Attendees = 0
			}
		}
	}

	return ticket, nil
}

func (m *mockTicketRepository) GetByID(userID, ticketID int) (*models.Ticket, error) {
	ticket, exists := m.tickets[ticketID]
	if !exists || ticket.UserID != userID {
		return nil, models.ErrTicketNotFound
	}
	return ticket, nil
}

func (m *mockTicketRepository) ListBookedByUser(userID, eventID int) ([]*models.Ticket, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var tickets []*models.Ticket
	for _, t := range m.tickets {
		if t.UserID != userID || !t.IsBooked() {
			continue
		}
		if eventID != 0 && t.EventID != eventID {
			continue
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func (m *mockTicketRepository) ListBookedByEvent(eventID int) ([]*models.Ticket, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var tickets []*models.Ticket
	for _, t := range m.tickets {
		if t.EventID == eventID && t.IsBooked() {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

func (m *mockTicketRepository) StatsByEvent(eventID int) (models.AttendeeStats, error) {
	if m.statsError != nil {
		return models.AttendeeStats{}, m.statsError
	}
	if m.stats != (models.AttendeeStats{}) {
		return m.stats, nil
	}

	var stats models.AttendeeStats
	for _, t := range m.tickets {
		if t.EventID != eventID {
			continue
		}
		switch t.Status {
		case models.TicketBooked:
			stats.BookedCount++
			stats.TotalAttendees += t.Quantity
			stats.TotalRevenue += t.TotalPrice
		case models.TicketCancelled:
			stats.CancelledCount++
		}
	}
	return stats, nil
}

// Mock EmailService for testing
type mockMailer struct {
	sent      []sentEmail
	sendError error
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

func (m *mockMailer) Send(to, subject, body string) error {
	if m.sendError != nil {
		return m.sendError
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}
