package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
)

// UserRepository persists account records.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a repository over the given database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts an account with its hashed password and returns the
// stored user. A taken username yields [shared.ErrAlreadyExists].
func (r *UserRepository) Create(username, hashedPassword, displayName string) (*models.User, error) {
	if displayName == "" {
		displayName = username
	}

	result, err := r.db.Exec(
		"INSERT INTO users (username, hashed_password, display_name) VALUES (?, ?, ?)",
		username, hashedPassword, displayName,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, fmt.Errorf("%w: username %q", shared.ErrAlreadyExists, username)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return &models.User{ID: id, Username: username, DisplayName: displayName}, nil
}

// GetByID returns the account for id, or [shared.ErrNotFound].
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	var user models.User
	var displayName sql.NullString

	err := r.db.QueryRow(
		"SELECT id, username, display_name FROM users WHERE id = ?", id,
	).Scan(&user.ID, &user.Username, &displayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.DisplayName = displayName.String
	return &user, nil
}

// GetCredentials returns the account and stored password hash for a
// username, or [shared.ErrNotFound].
func (r *UserRepository) GetCredentials(username string) (*models.User, string, error) {
	var user models.User
	var displayName sql.NullString
	var hash string

	err := r.db.QueryRow(
		"SELECT id, username, display_name, hashed_password FROM users WHERE username = ?", username,
	).Scan(&user.ID, &user.Username, &displayName, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%w: user %q", shared.ErrNotFound, username)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to query user: %w", err)
	}

	user.DisplayName = displayName.String
	return &user, hash, nil
}

// UpdateDisplayName changes the display name for id.
func (r *UserRepository) UpdateDisplayName(id int64, displayName string) error {
	result, err := r.db.Exec("UPDATE users SET display_name = ? WHERE id = ?", displayName, id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %d", shared.ErrNotFound, id)
	}
	return nil
}
