package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"paypsp/internal/models"
	"paypsp/internal/repositories"
	"paypsp/internal/repositories/cache"
	"paypsp/internal/services/mfa"
	"paypsp/internal/utils"
	"paypsp/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	pendingLoginTTL      = 5 * time.Minute
	maxMFAAttempts       = 5
	emailVerificationTTL = 24 * time.Hour
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidChallenge    = errors.New("invalid or expired two-factor challenge")
	ErrInvalidCode         = errors.New("invalid verification code")
	ErrTooManyAttempts     = errors.New("too many failed verification attempts")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrInvalidVerification = errors.New("invalid or expired verification token")
)

// LoginResult is the outcome of a credential or second-factor submission.
// Either tokens are present, or MFARequired is set with a challenge token.
// The two are mutually exclusive.
type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	MFARequired  bool
	MFAToken     string
}

// ChallengeStore holds the short-lived records behind two-factor login
// challenges and email verification tokens.
type ChallengeStore interface {
	SetPendingLogin(ctx context.Context, token string, p *cache.PendingLogin, ttl time.Duration) error
	GetPendingLogin(ctx context.Context, token string) (*cache.PendingLogin, error)
	DeletePendingLogin(ctx context.Context, token string) error
	SetEmailVerification(ctx context.Context, token string, userID uint, ttl time.Duration) error
	GetEmailVerification(ctx context.Context, token string) (uint, error)
	DeleteEmailVerification(ctx context.Context, token string) error
}

type Service interface {
	Register(ctx context.Context, input *models.CreateUserInput) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	VerifyTwoFactor(ctx context.Context, mfaToken, code string, useBackupCode bool) (*LoginResult, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(userID uint) error
	ChangePassword(userID uint, oldPassword, newPassword string) error
	GetUserByID(userID uint) (*models.User, error)
	GetUserTokenVersion(userID uint) (int, error)
}

type service struct {
	userRepo     repositories.UserRepository
	merchantRepo repositories.MerchantRepository
	mfaService   mfa.Service
	cache        ChallengeStore
}

func NewService(userRepo repositories.UserRepository, merchantRepo repositories.MerchantRepository, mfaService mfa.Service, cacheSvc ChallengeStore) Service {
	return &service{
		userRepo:     userRepo,
		merchantRepo: merchantRepo,
		mfaService:   mfaService,
		cache:        cacheSvc,
	}
}

func (s *service) Register(ctx context.Context, input *models.CreateUserInput) (*models.User, error) {
	existing, _ := s.userRepo.GetByEmail(input.Email)
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
		Role:     models.RoleMerchant,
		Status:   "active",
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// Every merchant account starts with an empty profile in NOT_STARTED.
	profile := &models.MerchantProfile{
		ProfileID: uuid.NewString(),
		UserID:    user.ID,
		KYCStatus: models.KYCStatusNotStarted,
	}
	if err := s.merchantRepo.Create(profile); err != nil {
		log.Printf("Failed to create merchant profile for user %d: %v", user.ID, err)
		return nil, err
	}

	// The verification token stands in for a mail delivery; it is logged
	// so operators can hand it to the user.
	token := uuid.NewString()
	if err := s.cache.SetEmailVerification(ctx, token, user.ID, emailVerificationTTL); err != nil {
		log.Printf("Failed to store email verification token for user %d: %v", user.ID, err)
	} else {
		log.Printf("Email verification token for %s: %s", user.Email, token)
	}

	return user, nil
}

// VerifyEmail consumes a verification token and marks the account's
// email address confirmed. Re-verifying an already confirmed account is
// a no-op.
func (s *service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.cache.GetEmailVerification(ctx, token)
	if err != nil {
		return err
	}
	if userID == 0 {
		return ErrInvalidVerification
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ErrInvalidVerification
	}

	if !user.EmailVerified {
		user.EmailVerified = true
		if err := s.userRepo.Update(user); err != nil {
			return err
		}
	}

	if err := s.cache.DeleteEmailVerification(ctx, token); err != nil {
		log.Printf("Failed to delete email verification token: %v", err)
	}
	return nil
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		log.Printf("Login failed: user not found for %s", email)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("Login failed: incorrect password for user ID %d", user.ID)
		return nil, ErrInvalidCredentials
	}

	if user.MFAEnabled {
		token := uuid.NewString()
		pending := &cache.PendingLogin{
			UserID:    user.ID,
			Email:     user.Email,
			CreatedAt: time.Now(),
		}
		if err := s.cache.SetPendingLogin(ctx, token, pending, pendingLoginTTL); err != nil {
			log.Printf("Failed to store pending login for user %d: %v", user.ID, err)
			return nil, errors.New("failed to start two-factor challenge")
		}
		return &LoginResult{User: user, MFARequired: true, MFAToken: token}, nil
	}

	return s.issueTokens(user)
}

func (s *service) VerifyTwoFactor(ctx context.Context, mfaToken, code string, useBackupCode bool) (*LoginResult, error) {
	pending, err := s.cache.GetPendingLogin(ctx, mfaToken)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, ErrInvalidChallenge
	}

	user, err := s.userRepo.GetByID(pending.UserID)
	if err != nil {
		return nil, ErrInvalidChallenge
	}

	ok := false
	if useBackupCode {
		ok, err = s.mfaService.ConsumeBackupCode(user, code)
		if err != nil {
			return nil, err
		}
	} else {
		ok = s.mfaService.VerifyCode(user, code)
	}

	if !ok {
		pending.Attempts++
		if pending.Attempts >= maxMFAAttempts {
			_ = s.cache.DeletePendingLogin(ctx, mfaToken)
			return nil, ErrTooManyAttempts
		}
		if err := s.cache.SetPendingLogin(ctx, mfaToken, pending, pendingLoginTTL); err != nil {
			log.Printf("Failed to update pending login attempts: %v", err)
		}
		return nil, ErrInvalidCode
	}

	if err := s.cache.DeletePendingLogin(ctx, mfaToken); err != nil {
		log.Printf("Failed to delete pending login: %v", err)
	}

	return s.issueTokens(user)
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", "", errors.New("user not found")
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:        user.ID,
		Email:         user.Email,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		TokenVersion:  user.TokenVersion,
		Permissions:   models.GetDefaultPermissions(user.Role),
	})
}

func (s *service) Logout(userID uint) error {
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return errors.New("failed to get user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errors.New("invalid old password")
	}

	v := validation.New()
	v.Password("new_password", newPassword)
	if !v.Valid() {
		for _, msg := range v.Errors {
			return errors.New("new password " + msg)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	user.Password = string(hashedPassword)
	user.TokenVersion++ // Invalidate existing tokens

	return s.userRepo.Update(user)
}

func (s *service) GetUserByID(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

func (s *service) GetUserTokenVersion(userID uint) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, err
	}
	return user.TokenVersion, nil
}

func (s *service) issueTokens(user *models.User) (*LoginResult, error) {
	access, refresh, err := utils.GenerateTokens(&models.UserClaims{
		UserID:        user.ID,
		Email:         user.Email,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		TokenVersion:  user.TokenVersion,
		Permissions:   models.GetDefaultPermissions(user.Role),
	})
	if err != nil {
		log.Println("Error generating tokens:", err)
		return nil, errors.New("error generating tokens")
	}

	user.LastLoginAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("Failed to record login time for user %d: %v", user.ID, err)
	}

	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}
