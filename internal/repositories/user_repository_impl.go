package repositories

import (
	"context"
	"log"
	"time"

	"paypsp/internal/models"
	"paypsp/internal/repositories/cache"

	"gorm.io/gorm"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB, cache *cache.CacheService) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) Create(user *models.User) error {
	result := r.db.Create(user)
	if result.Error != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	// Try cache first
	key := r.cache.GenerateKey("user", "id", id)
	if user, err := r.cache.GetUser(context.Background(), key); err == nil {
		return user, nil
	}

	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := r.cache.CacheUser(context.Background(), &user); err != nil {
		log.Printf("Failed to cache user %d: %v", user.ID, err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	result := r.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	result := r.db.Save(user)
	if result.Error != nil {
		return ErrDatabaseOperation
	}

	if err := r.cache.InvalidateUser(context.Background(), user.ID); err != nil {
		log.Printf("Warning: failed to invalidate user cache: %v", err)
	}

	return nil
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	if err := r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error; err != nil {
		return ErrDatabaseOperation
	}

	if err := r.cache.InvalidateUser(context.Background(), userID); err != nil {
		log.Printf("Warning: failed to invalidate user cache: %v", err)
	}

	return nil
}

func (r *userRepository) List(limit, offset int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := r.db.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return users, total, nil
}

func (r *userRepository) ReplaceBackupCodes(userID uint, hashes []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.MFABackupCode{}).Error; err != nil {
			return err
		}
		for _, h := range hashes {
			if err := tx.Create(&models.MFABackupCode{UserID: userID, CodeHash: h}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *userRepository) GetUnusedBackupCodes(userID uint) ([]*models.MFABackupCode, error) {
	var codes []*models.MFABackupCode
	if err := r.db.Where("user_id = ? AND used_at IS NULL", userID).Find(&codes).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return codes, nil
}

func (r *userRepository) MarkBackupCodeUsed(id uint) error {
	now := time.Now()
	if err := r.db.Model(&models.MFABackupCode{}).Where("id = ?", id).
		Update("used_at", &now).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *userRepository) CountUnusedBackupCodes(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.MFABackupCode{}).
		Where("user_id = ? AND used_at IS NULL", userID).Count(&count).Error; err != nil {
		return 0, ErrDatabaseOperation
	}
	return count, nil
}
