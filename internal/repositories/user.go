package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"eventflow/internal/models"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role, roll_number, avatar,
	reset_password_token, reset_password_expires, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	var resetExpires sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.RollNumber,
		&user.Avatar,
		&user.ResetPasswordToken,
		&resetExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if resetExpires.Valid {
		user.ResetPasswordExpires = &resetExpires.Time
	}

	return user, nil
}

// Create creates a new user. The password must already be hashed.
func (r *UserRepository) Create(req *models.UserCreateRequest) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING ` + userColumns

	now := time.Now()
	user, err := scanUser(r.db.QueryRow(
		query,
		strings.TrimSpace(req.Username),
		models.NormalizeEmail(req.Email),
		req.Password,
		req.Role,
		now,
	))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, models.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email (for authentication)
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(query, models.NormalizeEmail(email)))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// UpdateProfile applies a partial profile update and returns the fresh row
func (r *UserRepository) UpdateProfile(id int, req *models.UserUpdateRequest) (*models.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    roll_number = COALESCE($3, roll_number),
		    avatar = COALESCE($4, avatar),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(query, id, req.Username, req.RollNumber, req.Avatar))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// UpdatePassword replaces the stored password hash and clears any pending
// reset token.
func (r *UserRepository) UpdatePassword(id int, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2,
		    reset_password_token = '',
		    reset_password_expires = NULL,
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.Exec(query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// SetResetToken stores a password-reset token with its expiry
func (r *UserRepository) SetResetToken(id int, token string, expires time.Time) error {
	query := `
		UPDATE users
		SET reset_password_token = $2,
		    reset_password_expires = $3,
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.Exec(query, id, token, expires)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// GetByResetToken retrieves the user holding an unexpired reset token
func (r *UserRepository) GetByResetToken(token string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_password_token = $1
		  AND reset_password_token <> ''
		  AND reset_password_expires > NOW()`

	user, err := scanUser(r.db.QueryRow(query, token))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrInvalidResetToken
		}
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	return user, nil
}
