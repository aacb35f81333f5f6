package handlers

import (
	"errors"
	"log"

	"paypsp/internal/models"
	"paypsp/internal/repositories"
	"paypsp/internal/services/apikey"
	"paypsp/internal/utils/response"
	"paypsp/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type APIKeyHandler struct {
	service *apikey.Service
}

func NewAPIKeyHandler(s *apikey.Service) *APIKeyHandler { return &APIKeyHandler{service: s} }

type createKeyRequest struct {
	Label       string `json:"label" validate:"omitempty,max=100"`
	Environment string `json:"environment" validate:"required,oneof=TEST LIVE"`
}

// Create issues a new key. The response carries the full secret once;
// it is never retrievable afterwards.
func (h *APIKeyHandler) Create(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var req createKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.Struct(&req); err != nil {
		return response.BadRequest(c, "environment must be TEST or LIVE")
	}

	resp, err := h.service.Create(claims.UserID, req.Label, req.Environment)
	if err != nil {
		switch {
		case errors.Is(err, apikey.ErrInvalidEnvironment),
			errors.Is(err, apikey.ErrLabelTooLong):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, apikey.ErrMerchantNotVerified):
			return response.Forbidden(c, err.Error())
		case errors.Is(err, repositories.ErrMerchantNotFound):
			return response.NotFound(c, "Merchant profile not found")
		}
		log.Printf("API key creation failed for user %d: %v", claims.UserID, err)
		return response.ServerError(c, "Failed to create API key")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "API key created. Store the key now; it will not be shown again.",
		"api_key": resp,
	})
}

// List returns the merchant's keys without secrets.
func (h *APIKeyHandler) List(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	keys, err := h.service.List(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrMerchantNotFound) {
			return response.NotFound(c, "Merchant profile not found")
		}
		return response.ServerError(c, "Failed to list API keys")
	}

	return c.JSON(fiber.Map{"api_keys": keys})
}

// Revoke deactivates a key by its public id.
func (h *APIKeyHandler) Revoke(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)
	keyID := c.Params("id")

	if err := h.service.Revoke(claims.UserID, keyID); err != nil {
		switch {
		case errors.Is(err, apikey.ErrKeyRevoked):
			return response.Conflict(c, err.Error())
		case errors.Is(err, repositories.ErrAPIKeyNotFound):
			return response.NotFound(c, "API key not found")
		case errors.Is(err, repositories.ErrMerchantNotFound):
			return response.NotFound(c, "Merchant profile not found")
		}
		log.Printf("API key revoke failed for user %d: %v", claims.UserID, err)
		return response.ServerError(c, "Failed to revoke API key")
	}

	return response.Success(c, "API key revoked", nil)
}
