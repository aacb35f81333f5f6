package repositories

import (
	"errors"

	"paypsp/internal/models"

	"gorm.io/gorm"
)

var ErrMerchantNotFound = errors.New("merchant profile not found")

// MerchantRepository defines merchant profile persistence operations.
type MerchantRepository interface {
	Create(profile *models.MerchantProfile) error
	GetByID(id uint) (*models.MerchantProfile, error)
	GetByUserID(userID uint) (*models.MerchantProfile, error)
	GetByProfileID(profileID string) (*models.MerchantProfile, error)
	Update(profile *models.MerchantProfile) error
	List(limit, offset int) ([]*models.MerchantProfile, int64, error)
}

type merchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) Create(profile *models.MerchantProfile) error {
	if err := r.db.Create(profile).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *merchantRepository) GetByID(id uint) (*models.MerchantProfile, error) {
	var profile models.MerchantProfile
	if err := r.db.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &profile, nil
}

func (r *merchantRepository) GetByUserID(userID uint) (*models.MerchantProfile, error) {
	var profile models.MerchantProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &profile, nil
}

func (r *merchantRepository) GetByProfileID(profileID string) (*models.MerchantProfile, error) {
	var profile models.MerchantProfile
	if err := r.db.Where("profile_id = ?", profileID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &profile, nil
}

func (r *merchantRepository) Update(profile *models.MerchantProfile) error {
	if err := r.db.Save(profile).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *merchantRepository) List(limit, offset int) ([]*models.MerchantProfile, int64, error) {
	var profiles []*models.MerchantProfile
	var total int64

	if err := r.db.Model(&models.MerchantProfile{}).Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := r.db.Order("id").Limit(limit).Offset(offset).Find(&profiles).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return profiles, total, nil
}
