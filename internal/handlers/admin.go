package handlers

import (
	"errors"
	"log"

	"paypsp/internal/models"
	"paypsp/internal/repositories"
	"paypsp/internal/services/compliance"
	"paypsp/internal/services/merchant"
	"paypsp/internal/utils/pagination"
	"paypsp/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the staff console: user and merchant listings and
// KYC review decisions.
type AdminHandler struct {
	userRepo   repositories.UserRepository
	merchants  *merchant.Service
	compliance *compliance.Service
}

func NewAdminHandler(userRepo repositories.UserRepository, merchants *merchant.Service, comp *compliance.Service) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, merchants: merchants, compliance: comp}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	users, total, err := h.userRepo.List(p.Limit, p.Offset)
	if err != nil {
		log.Printf("Admin user listing failed: %v", err)
		return response.ServerError(c, "Failed to list users")
	}
	p.Total = total

	items := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		items = append(items, fiber.Map{
			"id":             u.ID,
			"email":          u.Email,
			"name":           u.Name,
			"role":           u.Role,
			"status":         u.Status,
			"email_verified": u.EmailVerified,
			"mfa_enabled":    u.MFAEnabled,
			"last_login_at":  u.LastLoginAt,
			"created_at":     u.CreatedAt,
		})
	}

	return c.JSON(pagination.Response(p, items))
}

func (h *AdminHandler) ListMerchants(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	profiles, total, err := h.merchants.List(p.Limit, p.Offset)
	if err != nil {
		log.Printf("Admin merchant listing failed: %v", err)
		return response.ServerError(c, "Failed to list merchants")
	}
	p.Total = total

	items := make([]models.MerchantProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		items = append(items, profile.ToResponse())
	}

	return c.JSON(pagination.Response(p, items))
}

func (h *AdminHandler) ListKYCJobs(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	status := c.Query("status")

	jobs, total, err := h.compliance.ListJobs(status, p.Limit, p.Offset)
	if err != nil {
		log.Printf("Admin KYC listing failed: %v", err)
		return response.ServerError(c, "Failed to list verification jobs")
	}
	p.Total = total

	items := make([]fiber.Map, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, fiber.Map{
			"id":            job.JobID,
			"merchant_id":   job.MerchantID,
			"merchant_type": job.MerchantType,
			"id_type":       job.IDType,
			"id_country":    job.IDCountry,
			"status":        job.Status,
			"documents":     len(job.Documents),
			"created_at":    job.CreatedAt,
		})
	}

	return c.JSON(pagination.Response(p, items))
}

type kycDecisionRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note"`
}

// DecideKYC applies an approve / reject / flag decision to a pending job.
func (h *AdminHandler) DecideKYC(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	jobID := c.Params("id")

	var req kycDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	job, err := h.compliance.Decide(jobID, claims.UserID, req.Decision, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, compliance.ErrInvalidDecision):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, compliance.ErrJobNotReviewable):
			return response.Conflict(c, err.Error())
		case errors.Is(err, repositories.ErrKYCJobNotFound):
			return response.NotFound(c, "Verification job not found")
		}
		log.Printf("KYC decision on job %s failed: %v", jobID, err)
		return response.ServerError(c, "Failed to apply decision")
	}

	log.Printf("KYC job %s decided %q by staff user %d", jobID, req.Decision, claims.UserID)
	return c.JSON(fiber.Map{
		"message": "Decision recorded",
		"job_id":  job.JobID,
		"status":  job.Status,
	})
}
