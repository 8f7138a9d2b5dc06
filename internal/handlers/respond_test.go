package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventflow/internal/models"
	"eventflow/internal/services"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.NewValidationError("bad input"), http.StatusBadRequest},
		{"invalid reset token", models.ErrInvalidResetToken, http.StatusBadRequest},
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", services.ErrInvalidToken, http.StatusUnauthorized},
		{"unauthorized", models.ErrUnauthorized, http.StatusForbidden},
		{"event not found", models.ErrEventNotFound, http.StatusNotFound},
		{"ticket not found", models.ErrTicketNotFound, http.StatusNotFound},
		{"already booked", models.ErrAlreadyBooked, http.StatusConflict},
		{"not enough tickets", models.ErrNotEnoughTickets, http.StatusConflict},
		{"already processed", models.ErrEventProcessed, http.StatusConflict},
		{"organizer booking", models.ErrOrganizerBooking, http.StatusConflict},
		{"event ended", models.ErrEventEnded, http.StatusConflict},
		{"duplicate email", models.ErrDuplicateEmail, http.StatusConflict},
		{"unknown", errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/test", nil)

			writeError(w, r, tt.err)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestWriteErrorMasksInternalDetail(t *testing.T) {
	orig := Development
	Development = false
	defer func() { Development = orig }()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/test", nil)

	writeError(w, r, errors.New("pq: connection refused"))

	var resp envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "internal server error", resp.Message)
	assert.NotContains(t, resp.Message, "pq:")
}

func TestWriteJSONEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	writeJSON(w, http.StatusOK, "it worked", map[string]int{"count": 3})

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Message string         `json:"message"`
		Data    map[string]int `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "it worked", resp.Message)
	assert.Equal(t, 3, resp.Data["count"])
}
