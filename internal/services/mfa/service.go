// Package mfa implements time-based one-time-password enrollment and
// verification, plus single-use backup codes.
package mfa

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"log"

	"paypsp/internal/models"
	"paypsp/internal/repositories"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

const backupCodeCount = 10

var (
	ErrAlreadyEnabled  = errors.New("two-factor authentication already enabled")
	ErrNotEnabled      = errors.New("two-factor authentication not enabled")
	ErrSetupNotStarted = errors.New("two-factor setup not started")
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrInvalidPassword = errors.New("invalid password")
)

type StatusResult struct {
	Enabled              bool   `json:"mfa_enabled"`
	BackupCodesRemaining *int64 `json:"backup_codes_remaining"`
}

type SetupResult struct {
	Secret          string   `json:"secret"`
	ProvisioningURI string   `json:"provisioning_uri"`
	BackupCodes     []string `json:"backup_codes"`
}

type Service interface {
	Status(userID uint) (*StatusResult, error)
	Setup(userID uint) (*SetupResult, error)
	Enable(userID uint, code string) error
	Disable(userID uint, code, password string) error
	RegenerateBackupCodes(userID uint, code, password string) ([]string, error)

	// VerifyCode checks a 6-digit authenticator code against the user's
	// secret.
	VerifyCode(user *models.User, code string) bool

	// ConsumeBackupCode marks a matching unused backup code as spent.
	ConsumeBackupCode(user *models.User, code string) (bool, error)
}

type service struct {
	userRepo repositories.UserRepository
	issuer   string
}

func NewService(userRepo repositories.UserRepository, issuer string) Service {
	return &service{userRepo: userRepo, issuer: issuer}
}

func (s *service) Status(userID uint) (*StatusResult, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{Enabled: user.MFAEnabled}
	if user.MFAEnabled {
		remaining, err := s.userRepo.CountUnusedBackupCodes(userID)
		if err != nil {
			return nil, err
		}
		result.BackupCodesRemaining = &remaining
	}
	return result, nil
}

func (s *service) Setup(userID uint) (*SetupResult, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.MFAEnabled {
		return nil, ErrAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp secret: %w", err)
	}

	codes, hashes, err := generateBackupCodes(backupCodeCount)
	if err != nil {
		return nil, fmt.Errorf("generate backup codes: %w", err)
	}

	user.MFASecret = key.Secret()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.ReplaceBackupCodes(userID, hashes); err != nil {
		return nil, err
	}

	return &SetupResult{
		Secret:          key.Secret(),
		ProvisioningURI: key.URL(),
		BackupCodes:     codes,
	}, nil
}

func (s *service) Enable(userID uint, code string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user.MFAEnabled {
		return ErrAlreadyEnabled
	}
	if user.MFASecret == "" {
		return ErrSetupNotStarted
	}
	if !totp.Validate(code, user.MFASecret) {
		return ErrInvalidCode
	}

	user.MFAEnabled = true
	return s.userRepo.Update(user)
}

func (s *service) Disable(userID uint, code, password string) error {
	user, err := s.verifyCodeAndPassword(userID, code, password)
	if err != nil {
		return err
	}

	user.MFAEnabled = false
	user.MFASecret = ""
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	return s.userRepo.ReplaceBackupCodes(userID, nil)
}

func (s *service) RegenerateBackupCodes(userID uint, code, password string) ([]string, error) {
	if _, err := s.verifyCodeAndPassword(userID, code, password); err != nil {
		return nil, err
	}

	codes, hashes, err := generateBackupCodes(backupCodeCount)
	if err != nil {
		return nil, fmt.Errorf("generate backup codes: %w", err)
	}
	if err := s.userRepo.ReplaceBackupCodes(userID, hashes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (s *service) VerifyCode(user *models.User, code string) bool {
	if user.MFASecret == "" {
		return false
	}
	return totp.Validate(code, user.MFASecret)
}

func (s *service) ConsumeBackupCode(user *models.User, code string) (bool, error) {
	codes, err := s.userRepo.GetUnusedBackupCodes(user.ID)
	if err != nil {
		return false, err
	}

	for _, c := range codes {
		if bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(code)) == nil {
			if err := s.userRepo.MarkBackupCodeUsed(c.ID); err != nil {
				return false, err
			}
			log.Printf("Backup code consumed for user %d", user.ID)
			return true, nil
		}
	}
	return false, nil
}

func (s *service) verifyCodeAndPassword(userID uint, code, password string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.MFAEnabled {
		return nil, ErrNotEnabled
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidPassword
	}
	if !totp.Validate(code, user.MFASecret) {
		return nil, ErrInvalidCode
	}
	return user, nil
}

// generateBackupCodes returns plaintext codes and their bcrypt hashes.
func generateBackupCodes(n int) ([]string, []string, error) {
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	codes := make([]string, 0, n)
	hashes := make([]string, 0, n)

	for i := 0; i < n; i++ {
		buf := make([]byte, 5)
		if _, err := rand.Read(buf); err != nil {
			return nil, nil, err
		}
		code := enc.EncodeToString(buf)
		code = code[:4] + "-" + code[4:]

		hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
		if err != nil {
			return nil, nil, err
		}
		codes = append(codes, code)
		hashes = append(hashes, string(hash))
	}
	return codes, hashes, nil
}
