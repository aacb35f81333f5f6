package auth

import (
	"context"
	"testing"
	"time"

	"paypsp/internal/models"
	"paypsp/internal/repositories"
	"paypsp/internal/repositories/cache"
	"paypsp/internal/services/mfa"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
	for _, u := range users {
		r.users[u.ID] = u
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error { r.users[user.ID] = user; return nil }

func (r *fakeUserRepo) IncrementTokenVersion(userID uint) error {
	r.users[userID].TokenVersion++
	return nil
}

func (r *fakeUserRepo) List(int, int) ([]*models.User, int64, error) { return nil, 0, nil }

func (r *fakeUserRepo) ReplaceBackupCodes(uint, []string) error { return nil }

func (r *fakeUserRepo) GetUnusedBackupCodes(uint) ([]*models.MFABackupCode, error) {
	return nil, nil
}

func (r *fakeUserRepo) MarkBackupCodeUsed(uint) error { return nil }

func (r *fakeUserRepo) CountUnusedBackupCodes(uint) (int64, error) { return 0, nil }

type fakeMerchantRepo struct {
	profiles map[uint]*models.MerchantProfile
}

func newFakeMerchantRepo() *fakeMerchantRepo {
	return &fakeMerchantRepo{profiles: make(map[uint]*models.MerchantProfile)}
}

func (r *fakeMerchantRepo) Create(p *models.MerchantProfile) error {
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeMerchantRepo) GetByID(uint) (*models.MerchantProfile, error) {
	return nil, repositories.ErrMerchantNotFound
}

func (r *fakeMerchantRepo) GetByUserID(userID uint) (*models.MerchantProfile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repositories.ErrMerchantNotFound
	}
	return p, nil
}

func (r *fakeMerchantRepo) GetByProfileID(string) (*models.MerchantProfile, error) {
	return nil, repositories.ErrMerchantNotFound
}

func (r *fakeMerchantRepo) Update(p *models.MerchantProfile) error {
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeMerchantRepo) List(int, int) ([]*models.MerchantProfile, int64, error) {
	return nil, 0, nil
}

// fakeMFA accepts the fixed code "123456".
type fakeMFA struct{}

func (fakeMFA) Status(uint) (*mfa.StatusResult, error) { return nil, nil }
func (fakeMFA) Setup(uint) (*mfa.SetupResult, error)   { return nil, nil }
func (fakeMFA) Enable(uint, string) error              { return nil }
func (fakeMFA) Disable(uint, string, string) error     { return nil }
func (fakeMFA) RegenerateBackupCodes(uint, string, string) ([]string, error) {
	return nil, nil
}

func (fakeMFA) VerifyCode(_ *models.User, code string) bool { return code == "123456" }

func (fakeMFA) ConsumeBackupCode(_ *models.User, code string) (bool, error) {
	return code == "backup-1", nil
}

type fakeChallengeStore struct {
	pending       map[string]*cache.PendingLogin
	verifications map[string]uint
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{
		pending:       make(map[string]*cache.PendingLogin),
		verifications: make(map[string]uint),
	}
}

func (s *fakeChallengeStore) SetPendingLogin(_ context.Context, token string, p *cache.PendingLogin, _ time.Duration) error {
	copied := *p
	s.pending[token] = &copied
	return nil
}

func (s *fakeChallengeStore) GetPendingLogin(_ context.Context, token string) (*cache.PendingLogin, error) {
	p, ok := s.pending[token]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (s *fakeChallengeStore) DeletePendingLogin(_ context.Context, token string) error {
	delete(s.pending, token)
	return nil
}

func (s *fakeChallengeStore) SetEmailVerification(_ context.Context, token string, userID uint, _ time.Duration) error {
	s.verifications[token] = userID
	return nil
}

func (s *fakeChallengeStore) GetEmailVerification(_ context.Context, token string) (uint, error) {
	return s.verifications[token], nil
}

func (s *fakeChallengeStore) DeleteEmailVerification(_ context.Context, token string) error {
	delete(s.verifications, token)
	return nil
}

func (s *fakeChallengeStore) verificationTokenFor(userID uint) string {
	for token, id := range s.verifications {
		if id == userID {
			return token
		}
	}
	return ""
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestService(t *testing.T, users ...*models.User) (Service, *fakeUserRepo, *fakeMerchantRepo, *fakeChallengeStore) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	userRepo := newFakeUserRepo(users...)
	merchantRepo := newFakeMerchantRepo()
	store := newFakeChallengeStore()
	return NewService(userRepo, merchantRepo, fakeMFA{}, store), userRepo, merchantRepo, store
}

func TestRegister_CreatesProfileAndVerificationToken(t *testing.T) {
	svc, _, merchantRepo, store := newTestService(t)

	user, err := svc.Register(context.Background(), &models.CreateUserInput{
		Name:     "Jane Merchant",
		Email:    "jane@example.com",
		Password: "Str0ng-pass!",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleMerchant, user.Role)
	assert.False(t, user.EmailVerified)

	profile, err := merchantRepo.GetByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.KYCStatusNotStarted, profile.KYCStatus)

	assert.NotEmpty(t, store.verificationTokenFor(user.ID))
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, _, _, _ := newTestService(t, &models.User{Email: "jane@example.com"})

	_, err := svc.Register(context.Background(), &models.CreateUserInput{
		Name:     "Jane Merchant",
		Email:    "jane@example.com",
		Password: "Str0ng-pass!",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestVerifyEmail(t *testing.T) {
	svc, userRepo, _, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &models.CreateUserInput{
		Name:     "Jane Merchant",
		Email:    "jane@example.com",
		Password: "Str0ng-pass!",
	})
	require.NoError(t, err)
	token := store.verificationTokenFor(user.ID)
	require.NotEmpty(t, token)

	require.NoError(t, svc.VerifyEmail(ctx, token))
	stored, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)

	// The token is single-use.
	assert.ErrorIs(t, svc.VerifyEmail(ctx, token), ErrInvalidVerification)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.VerifyEmail(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrInvalidVerification)
}

func TestLogin_WithoutMFAIssuesTokens(t *testing.T) {
	user := &models.User{
		Email:    "jane@example.com",
		Password: hashPassword(t, "Str0ng-pass!"),
		Role:     models.RoleMerchant,
	}
	user.ID = 1
	svc, _, _, _ := newTestService(t, user)

	result, err := svc.Login(context.Background(), "jane@example.com", "Str0ng-pass!")
	require.NoError(t, err)
	assert.False(t, result.MFARequired)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	user := &models.User{
		Email:    "jane@example.com",
		Password: hashPassword(t, "Str0ng-pass!"),
	}
	user.ID = 1
	svc, _, _, _ := newTestService(t, user)

	_, err := svc.Login(context.Background(), "jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_MFAEnabledReturnsChallenge(t *testing.T) {
	user := &models.User{
		Email:      "jane@example.com",
		Password:   hashPassword(t, "Str0ng-pass!"),
		MFAEnabled: true,
	}
	user.ID = 1
	svc, _, _, store := newTestService(t, user)

	result, err := svc.Login(context.Background(), "jane@example.com", "Str0ng-pass!")
	require.NoError(t, err)
	assert.True(t, result.MFARequired)
	require.NotEmpty(t, result.MFAToken)
	assert.Empty(t, result.AccessToken)
	assert.Empty(t, result.RefreshToken)

	pending, err := store.GetPendingLogin(context.Background(), result.MFAToken)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, user.ID, pending.UserID)
}

func TestVerifyTwoFactor(t *testing.T) {
	newChallenge := func(t *testing.T) (Service, *fakeChallengeStore, string) {
		user := &models.User{
			Email:      "jane@example.com",
			Password:   hashPassword(t, "Str0ng-pass!"),
			MFAEnabled: true,
		}
		user.ID = 1
		svc, _, _, store := newTestService(t, user)
		result, err := svc.Login(context.Background(), "jane@example.com", "Str0ng-pass!")
		require.NoError(t, err)
		return svc, store, result.MFAToken
	}

	t.Run("correct code issues tokens and consumes the challenge", func(t *testing.T) {
		svc, store, token := newChallenge(t)

		result, err := svc.VerifyTwoFactor(context.Background(), token, "123456", false)
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)

		pending, err := store.GetPendingLogin(context.Background(), token)
		require.NoError(t, err)
		assert.Nil(t, pending)
	})

	t.Run("backup code works through its own path", func(t *testing.T) {
		svc, _, token := newChallenge(t)

		result, err := svc.VerifyTwoFactor(context.Background(), token, "backup-1", true)
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
	})

	t.Run("wrong code keeps the challenge alive", func(t *testing.T) {
		svc, store, token := newChallenge(t)

		_, err := svc.VerifyTwoFactor(context.Background(), token, "000000", false)
		assert.ErrorIs(t, err, ErrInvalidCode)

		pending, err := store.GetPendingLogin(context.Background(), token)
		require.NoError(t, err)
		require.NotNil(t, pending)
		assert.Equal(t, 1, pending.Attempts)
	})

	t.Run("attempt cap burns the challenge", func(t *testing.T) {
		svc, store, token := newChallenge(t)

		var err error
		for i := 0; i < maxMFAAttempts-1; i++ {
			_, err = svc.VerifyTwoFactor(context.Background(), token, "000000", false)
			assert.ErrorIs(t, err, ErrInvalidCode)
		}
		_, err = svc.VerifyTwoFactor(context.Background(), token, "000000", false)
		assert.ErrorIs(t, err, ErrTooManyAttempts)

		pending, err := store.GetPendingLogin(context.Background(), token)
		require.NoError(t, err)
		assert.Nil(t, pending)

		_, err = svc.VerifyTwoFactor(context.Background(), token, "123456", false)
		assert.ErrorIs(t, err, ErrInvalidChallenge)
	})

	t.Run("unknown challenge token", func(t *testing.T) {
		svc, _, _ := newChallenge(t)

		_, err := svc.VerifyTwoFactor(context.Background(), "bogus", "123456", false)
		assert.ErrorIs(t, err, ErrInvalidChallenge)
	})
}
