package repositories

import (
	"errors"

	"paypsp/internal/models"

	"gorm.io/gorm"
)

var ErrKYCJobNotFound = errors.New("kyc job not found")

// KYCRepository defines verification job persistence operations.
type KYCRepository interface {
	CreateJob(job *models.KYCJob) error
	GetJobByJobID(jobID string) (*models.KYCJob, error)
	GetLatestJobForMerchant(merchantID uint) (*models.KYCJob, error)
	UpdateJob(job *models.KYCJob) error
	ListJobs(status string, limit, offset int) ([]*models.KYCJob, int64, error)
}

type kycRepository struct {
	db *gorm.DB
}

func NewKYCRepository(db *gorm.DB) KYCRepository {
	return &kycRepository{db: db}
}

func (r *kycRepository) CreateJob(job *models.KYCJob) error {
	if err := r.db.Create(job).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *kycRepository) GetJobByJobID(jobID string) (*models.KYCJob, error) {
	var job models.KYCJob
	if err := r.db.Where("job_id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCJobNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &job, nil
}

func (r *kycRepository) GetLatestJobForMerchant(merchantID uint) (*models.KYCJob, error) {
	var job models.KYCJob
	if err := r.db.Where("merchant_id = ?", merchantID).
		Order("id DESC").First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCJobNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &job, nil
}

func (r *kycRepository) UpdateJob(job *models.KYCJob) error {
	if err := r.db.Save(job).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *kycRepository) ListJobs(status string, limit, offset int) ([]*models.KYCJob, int64, error) {
	var jobs []*models.KYCJob
	var total int64

	query := r.db.Model(&models.KYCJob{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&jobs).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	return jobs, total, nil
}
