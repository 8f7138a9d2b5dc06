package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventflow/internal/middleware"
	"eventflow/internal/models"
	"eventflow/internal/services"
)

// AuthHandler serves registration, login, profile, and password-reset routes
type AuthHandler struct {
	authService *services.AuthService
	images      *services.ImageService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, images *services.ImageService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		images:      images,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, "registered successfully", user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "logged in successfully", resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	profile, err := h.authService.GetProfile(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "profile retrieved", profile)
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req models.UserUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	// Avatar changes go through the upload endpoint, never raw URLs.
	req.Avatar = nil

	updated, err := h.authService.UpdateProfile(user.ID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "profile updated", updated)
}

// UploadAvatar handles POST /api/auth/upload-avatar
func (h *AuthHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, r, models.NewValidationError("invalid multipart form"))
		return
	}

	upload, err := formImage(r, "avatar")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if upload == nil {
		writeError(w, r, models.NewValidationError("no avatar supplied"))
		return
	}

	url, err := h.images.UploadImage(r.Context(), "avatars", upload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.authService.UpdateProfile(user.ID, &models.UserUpdateRequest{Avatar: &url})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "avatar updated", updated)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles PUT /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.authService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "password changed", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Email == "" {
		writeError(w, r, models.NewValidationError("email is required"))
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "password reset email sent", nil)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword handles POST /api/auth/reset-password/{token}
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeError(w, r, models.NewValidationError("reset token is required"))
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.authService.ResetPassword(token, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, "password reset successfully", nil)
}
