package handlers

import (
	"errors"
	"log"

	"paypsp/internal/models"
	"paypsp/internal/services/mfa"
	"paypsp/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type MFAHandler struct {
	service mfa.Service
}

func NewMFAHandler(s mfa.Service) *MFAHandler { return &MFAHandler{service: s} }

func (h *MFAHandler) Status(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	status, err := h.service.Status(claims.UserID)
	if err != nil {
		log.Printf("MFA status failed for user %d: %v", claims.UserID, err)
		return response.ServerError(c, "Failed to load MFA status")
	}
	return c.JSON(status)
}

func (h *MFAHandler) Setup(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	result, err := h.service.Setup(claims.UserID)
	if err != nil {
		if errors.Is(err, mfa.ErrAlreadyEnabled) {
			return response.Conflict(c, err.Error())
		}
		log.Printf("MFA setup failed for user %d: %v", claims.UserID, err)
		return response.ServerError(c, "Failed to start MFA setup")
	}
	return c.JSON(result)
}

func (h *MFAHandler) Enable(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&input); err != nil || input.Code == "" {
		return response.BadRequest(c, "code is required")
	}

	if err := h.service.Enable(claims.UserID, input.Code); err != nil {
		switch {
		case errors.Is(err, mfa.ErrInvalidCode),
			errors.Is(err, mfa.ErrSetupNotStarted),
			errors.Is(err, mfa.ErrAlreadyEnabled):
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "Failed to enable MFA")
	}

	return response.Success(c, "Two-factor authentication enabled", nil)
}

func (h *MFAHandler) Disable(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil || input.Code == "" || input.Password == "" {
		return response.BadRequest(c, "code and password are required")
	}

	if err := h.service.Disable(claims.UserID, input.Code, input.Password); err != nil {
		switch {
		case errors.Is(err, mfa.ErrInvalidCode),
			errors.Is(err, mfa.ErrInvalidPassword),
			errors.Is(err, mfa.ErrNotEnabled):
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "Failed to disable MFA")
	}

	return response.Success(c, "Two-factor authentication disabled", nil)
}

func (h *MFAHandler) RegenerateBackupCodes(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*models.UserClaims)

	var input struct {
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil || input.Code == "" || input.Password == "" {
		return response.BadRequest(c, "code and password are required")
	}

	codes, err := h.service.RegenerateBackupCodes(claims.UserID, input.Code, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, mfa.ErrInvalidCode),
			errors.Is(err, mfa.ErrInvalidPassword),
			errors.Is(err, mfa.ErrNotEnabled):
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "Failed to regenerate backup codes")
	}

	return c.JSON(fiber.Map{"backup_codes": codes})
}
