package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"eventflow/internal/models"
)

// Authentication errors surfaced to handlers
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailSendFailed    = errors.New("could not send email")
)

const resetTokenTTL = 15 * time.Minute

// AuthService handles registration, login, JWT issuing/verification, and
// the password-reset flow.
type AuthService struct {
	userRepo UserRepositoryInterface
	mailer   EmailService

	jwtSecret []byte
	tokenTTL  time.Duration
	clientURL string
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepositoryInterface, mailer EmailService, jwtSecret string, tokenTTL time.Duration, clientURL string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		mailer:    mailer,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		clientURL: clientURL,
	}
}

// RegisterRequest represents the data needed to register an account
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a fresh token and the authenticated user
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new account with the user role
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, models.NewValidationError("password and confirm password do not match")
	}
	if err := models.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	createReq := &models.UserCreateRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.RoleUser,
	}
	if err := createReq.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	createReq.Password = string(hash)

	return s.userRepo.Create(createReq)
}

// Login verifies credentials and issues a JWT
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, models.NewValidationError("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user}, nil
}

// GenerateToken issues a signed JWT carrying the user id in the canonical
// "id" claim.
func (s *AuthService) GenerateToken(userID int) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// UserFromToken verifies a bearer token and resolves the account it names.
// The identity claim has exactly one shape: a numeric "id". Anything else
// fails closed.
func (s *AuthService) UserFromToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(int(id))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}

// GetProfile retrieves a user's profile
func (s *AuthService) GetProfile(userID int) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile applies a partial profile update
func (s *AuthService) UpdateProfile(userID int, req *models.UserUpdateRequest) (*models.User, error) {
	if req.Username != nil && *req.Username == "" {
		return nil, models.NewValidationError("username cannot be empty")
	}
	return s.userRepo.UpdateProfile(userID, req)
}

// ChangePassword verifies the current password and stores a new hash
func (s *AuthService) ChangePassword(userID int, current, newPassword string) error {
	if err := models.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(userID, string(hash))
}

// ForgotPassword issues a reset token and emails a reset link. The mailer is
// fire-and-forget from the caller's point of view; a send failure surfaces
// as a generic error with no internal detail.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	expires := time.Now().Add(resetTokenTTL)
	if err := s.userRepo.SetResetToken(user.ID, token, expires); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
	body := fmt.Sprintf(
		"You requested a password reset.\nFollow this link to choose a new password:\n%s\n\nThe link is valid for 15 minutes.",
		resetURL,
	)

	if err := s.mailer.Send(user.Email, "Reset your EventFlow password", body); err != nil {
		return ErrEmailSendFailed
	}

	return nil
}

// ResetPassword completes the reset flow: the token must match an unexpired
// reset request.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if err := models.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByResetToken(token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// UpdatePassword also clears the reset token so it cannot be replayed.
	return s.userRepo.UpdatePassword(user.ID, string(hash))
}
