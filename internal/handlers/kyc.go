package handlers

import (
	"errors"
	"io"
	"log"
	"mime/multipart"

	"paypsp/internal/models"
	"paypsp/internal/repositories"
	"paypsp/internal/services/compliance"
	"paypsp/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// documentKinds are the multipart part names accepted on initiation.
var documentKinds = []string{
	models.DocSelfie,
	models.DocIDFront,
	models.DocIDBack,
	models.DocBusinessRegistration,
	models.DocTaxCertificate,
	models.DocProofOfAddress,
}

type KYCHandler struct {
	service *compliance.Service
}

func NewKYCHandler(s *compliance.Service) *KYCHandler { return &KYCHandler{service: s} }

// Initiate accepts a multipart KYC submission: document files plus
// id_type / id_country / merchant_type form fields.
func (h *KYCHandler) Initiate(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "Expected multipart form data")
	}

	input := &compliance.InitiateInput{
		MerchantType: c.FormValue("merchant_type"),
		IDType:       c.FormValue("id_type"),
		IDCountry:    c.FormValue("id_country"),
	}

	for _, kind := range documentKinds {
		headers := form.File[kind]
		if len(headers) == 0 {
			continue
		}
		upload, err := readUpload(kind, headers[0])
		if err != nil {
			log.Printf("Failed to read %s upload for user %d: %v", kind, claims.UserID, err)
			return response.BadRequest(c, "Failed to read uploaded file: "+kind)
		}
		input.Files = append(input.Files, *upload)
	}

	result, err := h.service.Initiate(claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, compliance.ErrAlreadyInFlight),
			errors.Is(err, compliance.ErrAlreadyVerified):
			return response.Conflict(c, err.Error())
		case errors.Is(err, compliance.ErrMissingDocument),
			errors.Is(err, compliance.ErrInvalidMerchant),
			errors.Is(err, compliance.ErrInvalidIDType),
			errors.Is(err, compliance.ErrInvalidIDCountry),
			errors.Is(err, compliance.ErrDocumentTooLarge),
			errors.Is(err, compliance.ErrUnknownDocumentKind):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, repositories.ErrMerchantNotFound):
			return response.NotFound(c, "Merchant profile not found")
		}
		log.Printf("KYC initiation failed for user %d: %v", claims.UserID, err)
		return response.ServerError(c, "Failed to initiate verification")
	}

	return c.JSON(fiber.Map{
		"message":            "Verification initiated",
		"job_id":             result.JobID,
		"merchant_type":      result.MerchantType,
		"id_type":            result.IDType,
		"id_country":         result.IDCountry,
		"documents_uploaded": result.DocumentsUploaded,
	})
}

// Cancel marks the in-flight submission CANCELLED.
func (h *KYCHandler) Cancel(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	result, err := h.service.Cancel(claims.UserID)
	if err != nil {
		if errors.Is(err, compliance.ErrNothingToCancel) {
			return response.Conflict(c, err.Error())
		}
		if errors.Is(err, repositories.ErrMerchantNotFound) {
			return response.NotFound(c, "Merchant profile not found")
		}
		log.Printf("KYC cancel failed for user %d: %v", claims.UserID, err)
		return response.ServerError(c, "Failed to cancel verification")
	}

	return c.JSON(fiber.Map{
		"message":         "Verification cancelled",
		"job_id":          result.JobID,
		"previous_status": result.PreviousStatus,
	})
}

// Status returns the latest verification job for the caller's merchant.
func (h *KYCHandler) Status(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	job, err := h.service.Status(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrKYCJobNotFound) {
			return response.NotFound(c, "No verification found")
		}
		return response.ServerError(c, "Failed to load verification status")
	}

	return c.JSON(jobPayload(job))
}

func readUpload(kind string, header *multipart.FileHeader) (*compliance.FileUpload, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &compliance.FileUpload{
		Kind:        kind,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}, nil
}

func jobPayload(job *models.KYCJob) fiber.Map {
	return fiber.Map{
		"id":            job.JobID,
		"merchant_type": job.MerchantType,
		"status":        job.Status,
		"created_at":    job.CreatedAt,
	}
}
