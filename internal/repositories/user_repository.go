package repositories

import (
	"errors"

	"paypsp/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(email string) (*models.User, error)

	// Update updates an existing user's information
	Update(user *models.User) error

	// IncrementTokenVersion increments the user's token version
	IncrementTokenVersion(userID uint) error

	// List retrieves users with pagination
	List(limit, offset int) ([]*models.User, int64, error)

	// Backup codes
	ReplaceBackupCodes(userID uint, hashes []string) error
	GetUnusedBackupCodes(userID uint) ([]*models.MFABackupCode, error)
	MarkBackupCodeUsed(id uint) error
	CountUnusedBackupCodes(userID uint) (int64, error)
}

// Implementation is in user_repository_impl.go
