// Package compliance owns merchant identity verification. All KYC status
// transitions happen here; clients only ever trigger them.
package compliance

import (
	"log"

	"paypsp/internal/models"
	"paypsp/internal/repositories"
	"paypsp/internal/validation"

	"github.com/google/uuid"
)

type Service struct {
	kycRepo      repositories.KYCRepository
	merchantRepo repositories.MerchantRepository
}

func NewService(kycRepo repositories.KYCRepository, merchantRepo repositories.MerchantRepository) *Service {
	return &Service{kycRepo: kycRepo, merchantRepo: merchantRepo}
}

// Initiate validates a submission and opens a verification job. The owning
// profile moves to PENDING and records the job id as its reference.
func (s *Service) Initiate(userID uint, input *InitiateInput) (*InitiationResult, error) {
	profile, err := s.merchantRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	switch profile.KYCStatus {
	case models.KYCStatusVerified:
		return nil, ErrAlreadyVerified
	case models.KYCStatusPending, models.KYCStatusManualReview:
		return nil, ErrAlreadyInFlight
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	input.IDCountry = validation.NormalizeCountry(input.IDCountry)

	job := &models.KYCJob{
		JobID:        uuid.NewString(),
		MerchantID:   profile.ID,
		MerchantType: input.MerchantType,
		IDType:       input.IDType,
		IDCountry:    input.IDCountry,
		Status:       models.KYCJobPending,
	}

	uploaded := make([]string, 0, len(input.Files))
	for _, f := range input.Files {
		job.Documents = append(job.Documents, models.KYCDocument{
			Kind:        f.Kind,
			FileName:    f.FileName,
			ContentType: f.ContentType,
			Size:        f.Size,
			Data:        f.Data,
		})
		uploaded = append(uploaded, f.Kind)
	}

	if err := s.kycRepo.CreateJob(job); err != nil {
		return nil, err
	}

	profile.KYCStatus = models.KYCStatusPending
	profile.KYCReference = job.JobID
	if err := s.merchantRepo.Update(profile); err != nil {
		return nil, err
	}

	log.Printf("KYC job %s opened for merchant %d (%s)", job.JobID, profile.ID, job.MerchantType)

	return &InitiationResult{
		JobID:             job.JobID,
		MerchantType:      job.MerchantType,
		IDType:            job.IDType,
		IDCountry:         job.IDCountry,
		DocumentsUploaded: uploaded,
	}, nil
}

// Cancel marks an in-flight submission CANCELLED so a fresh one can run.
func (s *Service) Cancel(userID uint) (*CancelResult, error) {
	profile, err := s.merchantRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if !profile.KYCInFlight() {
		return nil, ErrNothingToCancel
	}

	previous := profile.KYCStatus

	job, err := s.kycRepo.GetJobByJobID(profile.KYCReference)
	if err == nil {
		job.Status = models.KYCJobCancelled
		if err := s.kycRepo.UpdateJob(job); err != nil {
			return nil, err
		}
	}

	profile.KYCStatus = models.KYCStatusCancelled
	if err := s.merchantRepo.Update(profile); err != nil {
		return nil, err
	}

	return &CancelResult{JobID: profile.KYCReference, PreviousStatus: previous}, nil
}

// Status returns the latest verification job for the user's merchant.
func (s *Service) Status(userID uint) (*models.KYCJob, error) {
	profile, err := s.merchantRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.kycRepo.GetLatestJobForMerchant(profile.ID)
}

// ListJobs returns verification jobs for the admin queue.
func (s *Service) ListJobs(status string, limit, offset int) ([]*models.KYCJob, int64, error) {
	return s.kycRepo.ListJobs(status, limit, offset)
}

// Decide applies an admin review decision to a pending job and propagates
// the resulting status to the merchant profile.
func (s *Service) Decide(jobID string, reviewerID uint, decision, note string) (*models.KYCJob, error) {
	job, err := s.kycRepo.GetJobByJobID(jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.KYCJobPending && job.Status != models.KYCJobManualReview {
		return nil, ErrJobNotReviewable
	}

	var jobStatus, profileStatus string
	switch decision {
	case DecisionApprove:
		jobStatus, profileStatus = models.KYCJobVerified, models.KYCStatusVerified
	case DecisionReject:
		jobStatus, profileStatus = models.KYCJobRejected, models.KYCStatusRejected
	case DecisionFlag:
		jobStatus, profileStatus = models.KYCJobManualReview, models.KYCStatusManualReview
	default:
		return nil, ErrInvalidDecision
	}

	job.Status = jobStatus
	job.ReviewedBy = &reviewerID
	job.ReviewNote = note
	if err := s.kycRepo.UpdateJob(job); err != nil {
		return nil, err
	}

	profile, err := s.merchantRepo.GetByID(job.MerchantID)
	if err != nil {
		return nil, err
	}
	profile.KYCStatus = profileStatus
	if err := s.merchantRepo.Update(profile); err != nil {
		return nil, err
	}

	log.Printf("KYC job %s decided: %s by user %d", job.JobID, jobStatus, reviewerID)
	return job, nil
}

// validateInput enforces the document-path invariant: BUSINESS submissions
// carry a registration certificate, INDIVIDUAL submissions carry an id front
// and a selfie.
func validateInput(input *InitiateInput) error {
	if !models.ValidMerchantType(input.MerchantType) {
		return ErrInvalidMerchant
	}

	for _, f := range input.Files {
		switch f.Kind {
		case models.DocSelfie, models.DocIDFront, models.DocIDBack,
			models.DocBusinessRegistration, models.DocTaxCertificate, models.DocProofOfAddress:
		default:
			return ErrUnknownDocumentKind
		}
		if f.Size > validation.MaxDocumentSize || int64(len(f.Data)) > validation.MaxDocumentSize {
			return ErrDocumentTooLarge
		}
	}

	if input.MerchantType == models.MerchantTypeBusiness {
		if input.File(models.DocBusinessRegistration) == nil {
			return ErrMissingDocument
		}
		return nil
	}

	if !models.ValidIDType(input.IDType) {
		return ErrInvalidIDType
	}
	if !validation.IsCountryCode(validation.NormalizeCountry(input.IDCountry)) {
		return ErrInvalidIDCountry
	}
	if input.File(models.DocIDFront) == nil || input.File(models.DocSelfie) == nil {
		return ErrMissingDocument
	}
	return nil
}
