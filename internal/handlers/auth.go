package handlers

import (
	"errors"
	"log"

	"paypsp/internal/models"
	"paypsp/internal/services/auth"
	"paypsp/internal/utils/response"
	"paypsp/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a merchant account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.Required("name", input.Name)
	v.Email("email", input.Email)
	v.Password("password", input.Password)
	if !v.Valid() {
		return response.FieldErrors(c, v.Errors)
	}

	user, err := h.authService.Register(c.Context(), &input)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return response.Conflict(c, err.Error())
		}
		log.Printf("Registration failed for %s: %v", input.Email, err)
		return response.ServerError(c, "Registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": userPayload(user),
	})
}

// Login handles credential submission. The response carries either a token
// pair or a two-factor challenge token, never both.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.Email("email", input.Email)
	v.Required("password", input.Password)
	if !v.Valid() {
		return response.FieldErrors(c, v.Errors)
	}

	result, err := h.authService.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid email or password")
		}
		log.Printf("Login failed: %v", err)
		return response.ServerError(c, "Authentication failed")
	}

	if result.MFARequired {
		return c.JSON(fiber.Map{
			"mfa_required": true,
			"mfa_token":    result.MFAToken,
		})
	}

	return c.JSON(fiber.Map{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          userPayload(result.User),
	})
}

// VerifyTwoFactor completes login after a code or backup-code check.
func (h *AuthHandler) VerifyTwoFactor(c *fiber.Ctx) error {
	var input struct {
		MFAToken      string `json:"mfa_token"`
		Code          string `json:"code"`
		UseBackupCode bool   `json:"use_backup_code"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.MFAToken == "" || input.Code == "" {
		return response.BadRequest(c, "mfa_token and code are required")
	}

	result, err := h.authService.VerifyTwoFactor(c.Context(), input.MFAToken, input.Code, input.UseBackupCode)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidChallenge):
			return response.Unauthorized(c, err.Error())
		case errors.Is(err, auth.ErrInvalidCode), errors.Is(err, auth.ErrTooManyAttempts):
			return response.BadRequest(c, err.Error())
		}
		log.Printf("Two-factor verification failed: %v", err)
		return response.ServerError(c, "Verification failed")
	}

	return c.JSON(fiber.Map{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          userPayload(result.User),
	})
}

// VerifyEmail consumes the token sent at registration and marks the
// account's email address confirmed.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var input struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&input); err != nil || input.Token == "" {
		return response.BadRequest(c, "Verification token not provided")
	}

	if err := h.authService.VerifyEmail(c.Context(), input.Token); err != nil {
		if errors.Is(err, auth.ErrInvalidVerification) {
			return response.BadRequest(c, err.Error())
		}
		log.Printf("Email verification failed: %v", err)
		return response.ServerError(c, "Email verification failed")
	}

	return response.Success(c, "Email verified", nil)
}

// RefreshToken handles token refresh requests
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&input); err != nil || input.RefreshToken == "" {
		return response.Unauthorized(c, "Refresh token not provided")
	}

	newAccessToken, newRefreshToken, err := h.authService.RefreshTokens(input.RefreshToken)
	if err != nil {
		log.Printf("Token refresh failed: %v", err)
		return response.Unauthorized(c, "Invalid refresh token")
	}

	return c.JSON(fiber.Map{
		"access_token":  newAccessToken,
		"refresh_token": newRefreshToken,
	})
}

// Logout invalidates all of the user's outstanding tokens.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c, "Invalid claims")
	}

	if err := h.authService.Logout(claims.UserID); err != nil {
		return response.ServerError(c, "Failed to logout")
	}

	return response.Success(c, "Successfully logged out", nil)
}

// ChangePassword handles password change requests
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}

	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c, "Invalid claims")
	}

	if err := h.authService.ChangePassword(claims.UserID, input.OldPassword, input.NewPassword); err != nil {
		log.Printf("Password change failed for user %d: %v", claims.UserID, err)
		return response.BadRequest(c, err.Error())
	}

	return response.Success(c, "Password changed successfully", nil)
}

func userPayload(user *models.User) fiber.Map {
	return fiber.Map{
		"id":             user.ID,
		"email":          user.Email,
		"name":           user.Name,
		"role":           user.Role,
		"is_staff":       user.IsStaff(),
		"email_verified": user.EmailVerified,
		"mfa_enabled":    user.MFAEnabled,
	}
}
