package repositories

import (
	"errors"

	"paypsp/internal/models"

	"gorm.io/gorm"
)

var ErrAPIKeyNotFound = errors.New("api key not found")

// APIKeyRepository defines API key persistence operations.
type APIKeyRepository interface {
	Create(key *models.APIKey) error
	GetByKeyID(merchantID uint, keyID string) (*models.APIKey, error)
	ListByMerchant(merchantID uint) ([]*models.APIKey, error)
	Update(key *models.APIKey) error
}

type apiKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(key *models.APIKey) error {
	if err := r.db.Create(key).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *apiKeyRepository) GetByKeyID(merchantID uint, keyID string) (*models.APIKey, error) {
	var key models.APIKey
	if err := r.db.Where("merchant_id = ? AND key_id = ?", merchantID, keyID).
		First(&key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAPIKeyNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &key, nil
}

func (r *apiKeyRepository) ListByMerchant(merchantID uint) ([]*models.APIKey, error) {
	var keys []*models.APIKey
	if err := r.db.Where("merchant_id = ?", merchantID).
		Order("id DESC").Find(&keys).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return keys, nil
}

func (r *apiKeyRepository) Update(key *models.APIKey) error {
	if err := r.db.Save(key).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}
