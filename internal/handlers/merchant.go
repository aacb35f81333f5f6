package handlers

import (
	"errors"
	"log"

	"paypsp/internal/models"
	"paypsp/internal/repositories"
	"paypsp/internal/services/merchant"
	"paypsp/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type MerchantHandler struct {
	merchantService *merchant.Service
}

func NewMerchantHandler(merchantSvc *merchant.Service) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantSvc,
	}
}

func (h *MerchantHandler) GetProfile(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	profile, err := h.merchantService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrMerchantNotFound) {
			return response.NotFound(c, "Merchant profile not found")
		}
		return response.ServerError(c, "Failed to load merchant profile")
	}
	return c.JSON(profile.ToResponse())
}

// UpdateProfile applies a partial profile update. KYC status is not
// writable through this endpoint.
func (h *MerchantHandler) UpdateProfile(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input merchant.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	profile, err := h.merchantService.UpdateProfile(claims.UserID, input)
	if err != nil {
		var vErr *merchant.ValidationError
		if errors.As(err, &vErr) {
			return response.FieldErrors(c, vErr.Fields)
		}
		if errors.Is(err, repositories.ErrMerchantNotFound) {
			return response.NotFound(c, "Merchant profile not found")
		}
		log.Printf("Profile update failed for user %d: %v", claims.UserID, err)
		return response.ServerError(c, "Failed to update merchant profile")
	}

	return c.JSON(profile.ToResponse())
}
