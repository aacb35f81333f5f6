package apikey

import (
	"strings"
	"testing"

	"paypsp/internal/models"
	"paypsp/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMerchantRepo struct {
	profile *models.MerchantProfile
}

func (r *fakeMerchantRepo) Create(*models.MerchantProfile) error { return nil }
func (r *fakeMerchantRepo) GetByID(uint) (*models.MerchantProfile, error) {
	return r.profile, nil
}
func (r *fakeMerchantRepo) GetByUserID(uint) (*models.MerchantProfile, error) {
	if r.profile == nil {
		return nil, repositories.ErrMerchantNotFound
	}
	return r.profile, nil
}
func (r *fakeMerchantRepo) GetByProfileID(string) (*models.MerchantProfile, error) {
	return r.profile, nil
}
func (r *fakeMerchantRepo) Update(*models.MerchantProfile) error { return nil }
func (r *fakeMerchantRepo) List(int, int) ([]*models.MerchantProfile, int64, error) {
	return nil, 0, nil
}

type fakeKeyRepo struct {
	keys map[string]*models.APIKey
}

func newFakeKeyRepo() *fakeKeyRepo {
	return &fakeKeyRepo{keys: make(map[string]*models.APIKey)}
}

func (r *fakeKeyRepo) Create(key *models.APIKey) error {
	r.keys[key.KeyID] = key
	return nil
}

func (r *fakeKeyRepo) GetByKeyID(merchantID uint, keyID string) (*models.APIKey, error) {
	key, ok := r.keys[keyID]
	if !ok || key.MerchantID != merchantID {
		return nil, repositories.ErrAPIKeyNotFound
	}
	return key, nil
}

func (r *fakeKeyRepo) ListByMerchant(merchantID uint) ([]*models.APIKey, error) {
	var out []*models.APIKey
	for _, k := range r.keys {
		if k.MerchantID == merchantID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r *fakeKeyRepo) Update(key *models.APIKey) error {
	r.keys[key.KeyID] = key
	return nil
}

func verifiedMerchant() *models.MerchantProfile {
	return &models.MerchantProfile{ID: 1, UserID: 10, KYCStatus: models.KYCStatusVerified}
}

func TestService_Create(t *testing.T) {
	t.Run("test environment always available", func(t *testing.T) {
		keyRepo := newFakeKeyRepo()
		svc := NewService(keyRepo, &fakeMerchantRepo{profile: &models.MerchantProfile{ID: 1, UserID: 10}})

		resp, err := svc.Create(10, "ci", models.EnvironmentTest)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(resp.Key, "pk_test_"))
		assert.NotEmpty(t, resp.ID)
		assert.True(t, resp.IsActive)
	})

	t.Run("live requires a verified merchant", func(t *testing.T) {
		svc := NewService(newFakeKeyRepo(), &fakeMerchantRepo{
			profile: &models.MerchantProfile{ID: 1, UserID: 10, KYCStatus: models.KYCStatusPending},
		})

		_, err := svc.Create(10, "prod", models.EnvironmentLive)
		assert.ErrorIs(t, err, ErrMerchantNotVerified)
	})

	t.Run("live allowed once verified", func(t *testing.T) {
		svc := NewService(newFakeKeyRepo(), &fakeMerchantRepo{profile: verifiedMerchant()})

		resp, err := svc.Create(10, "prod", models.EnvironmentLive)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.Key, "pk_live_"))
	})

	t.Run("invalid environment", func(t *testing.T) {
		svc := NewService(newFakeKeyRepo(), &fakeMerchantRepo{profile: verifiedMerchant()})
		_, err := svc.Create(10, "x", "STAGING")
		assert.ErrorIs(t, err, ErrInvalidEnvironment)
	})
}

func TestService_ListNeverExposesSecrets(t *testing.T) {
	keyRepo := newFakeKeyRepo()
	svc := NewService(keyRepo, &fakeMerchantRepo{profile: verifiedMerchant()})

	created, err := svc.Create(10, "ci", models.EnvironmentTest)
	require.NoError(t, err)
	require.NotEmpty(t, created.Key)

	keys, err := svc.List(10)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Empty(t, keys[0].Key)
	assert.Equal(t, created.Prefix, keys[0].Prefix)
}

func TestService_Revoke(t *testing.T) {
	keyRepo := newFakeKeyRepo()
	svc := NewService(keyRepo, &fakeMerchantRepo{profile: verifiedMerchant()})

	created, err := svc.Create(10, "ci", models.EnvironmentTest)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(10, created.ID))
	stored := keyRepo.keys[created.ID]
	assert.False(t, stored.Active)
	require.NotNil(t, stored.RevokedAt)

	// Revocation is final; a second attempt is an error, never a
	// second effect.
	firstRevokedAt := *stored.RevokedAt
	assert.ErrorIs(t, svc.Revoke(10, created.ID), ErrKeyRevoked)
	assert.Equal(t, firstRevokedAt, *keyRepo.keys[created.ID].RevokedAt)
}

func TestService_RevokeUnknownKey(t *testing.T) {
	svc := NewService(newFakeKeyRepo(), &fakeMerchantRepo{profile: verifiedMerchant()})
	assert.ErrorIs(t, svc.Revoke(10, "missing"), repositories.ErrAPIKeyNotFound)
}
