package authflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"paypsp/internal/console/api"
	"paypsp/internal/console/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthServer struct {
	requireMFA   bool
	mfaToken     string
	validCode    string
	loginCalls   atomic.Int32
	verifyCalls  atomic.Int32
	logoutCalled atomic.Bool
}

func (s *fakeAuthServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		s.loginCalls.Add(1)
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&body)

		if body.Password != "correct-horse" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"error": "Invalid email or password"})
			return
		}
		if s.requireMFA {
			json.NewEncoder(w).Encode(map[string]any{
				"mfa_required": true,
				"mfa_token":    s.mfaToken,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-token",
			"refresh_token": "refresh-token",
			"user":          map[string]any{"id": 1, "email": body.Email, "role": "merchant"},
		})
	})

	mux.HandleFunc("POST /api/login/verify-2fa", func(w http.ResponseWriter, r *http.Request) {
		s.verifyCalls.Add(1)
		var body struct {
			MFAToken string `json:"mfa_token"`
			Code     string `json:"code"`
		}
		json.NewDecoder(r.Body).Decode(&body)

		if body.MFAToken != s.mfaToken || body.Code != s.validCode {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": "invalid verification code"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-token",
			"refresh_token": "refresh-token",
			"user":          map[string]any{"id": 1, "email": "m@example.com", "role": "merchant"},
		})
	})

	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		s.logoutCalled.Store(true)
		json.NewEncoder(w).Encode(map[string]any{"message": "Successfully logged out"})
	})

	return mux
}

func newFlow(t *testing.T, backend *fakeAuthServer) (*Flow, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	store := session.NewStore()
	client := api.NewClient(srv.URL, store.AccessToken)
	return New(client, store), store
}

func TestFlow_SuccessfulLogin(t *testing.T) {
	backend := &fakeAuthServer{}
	flow, store := newFlow(t, backend)

	state, err := flow.SubmitCredentials(context.Background(), "m@example.com", "correct-horse")
	require.NoError(t, err)

	assert.Equal(t, StateAuthenticated, state)
	sess := store.Current()
	assert.Equal(t, "access-token", sess.AccessToken)
	assert.Equal(t, "refresh-token", sess.RefreshToken)
	assert.Equal(t, "m@example.com", sess.User.Email)
}

func TestFlow_LocalValidationBlocksNetwork(t *testing.T) {
	backend := &fakeAuthServer{}
	flow, store := newFlow(t, backend)

	state, err := flow.SubmitCredentials(context.Background(), "not-an-email", "")
	require.NoError(t, err)

	assert.Equal(t, StateFailed, state)
	assert.Contains(t, flow.FieldErrors(), "email")
	assert.Contains(t, flow.FieldErrors(), "password")
	assert.Equal(t, int32(0), backend.loginCalls.Load(), "invalid input must fail before any network call")
	assert.False(t, store.IsAuthenticated())
}

func TestFlow_InvalidCredentials(t *testing.T) {
	backend := &fakeAuthServer{}
	flow, store := newFlow(t, backend)

	state, err := flow.SubmitCredentials(context.Background(), "m@example.com", "wrong")
	require.NoError(t, err)

	assert.Equal(t, StateFailed, state)
	assert.Equal(t, "Invalid email or password", flow.Message())
	assert.False(t, store.IsAuthenticated())
}

func TestFlow_SecondFactorChallenge(t *testing.T) {
	backend := &fakeAuthServer{requireMFA: true, mfaToken: "challenge-1", validCode: "123456"}
	flow, store := newFlow(t, backend)

	state, err := flow.SubmitCredentials(context.Background(), "m@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, StateAwaitingSecondFactor, state)
	assert.False(t, store.IsAuthenticated(), "no tokens before the second factor verifies")

	t.Run("malformed code never reaches the server", func(t *testing.T) {
		state, err := flow.SubmitSecondFactor(context.Background(), "12ab56", false)
		require.NoError(t, err)
		assert.Equal(t, StateAwaitingSecondFactor, state)
		assert.Equal(t, int32(0), backend.verifyCalls.Load())
	})

	t.Run("wrong code stays on the challenge step", func(t *testing.T) {
		state, err := flow.SubmitSecondFactor(context.Background(), "000000", false)
		require.NoError(t, err)
		assert.Equal(t, StateAwaitingSecondFactor, state)
		assert.Equal(t, "invalid verification code", flow.Message())
		assert.False(t, store.IsAuthenticated())
	})

	t.Run("correct code installs the session", func(t *testing.T) {
		state, err := flow.SubmitSecondFactor(context.Background(), "123456", false)
		require.NoError(t, err)
		assert.Equal(t, StateAuthenticated, state)
		assert.True(t, store.IsAuthenticated())
	})
}

func TestFlow_BackupCode(t *testing.T) {
	backend := &fakeAuthServer{requireMFA: true, mfaToken: "challenge-1", validCode: "AAAA-BBBB"}
	flow, store := newFlow(t, backend)

	_, err := flow.SubmitCredentials(context.Background(), "m@example.com", "correct-horse")
	require.NoError(t, err)

	// Backup codes are free-form; the six-digit rule does not apply.
	state, err := flow.SubmitSecondFactor(context.Background(), "AAAA-BBBB", true)
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, state)
	assert.True(t, store.IsAuthenticated())
}

func TestFlow_SecondFactorWithoutChallenge(t *testing.T) {
	backend := &fakeAuthServer{}
	flow, _ := newFlow(t, backend)

	_, err := flow.SubmitSecondFactor(context.Background(), "123456", false)
	assert.ErrorIs(t, err, ErrNotAwaitingChallenge)
}

func TestFlow_BackAbandonsChallenge(t *testing.T) {
	backend := &fakeAuthServer{requireMFA: true, mfaToken: "challenge-1", validCode: "123456"}
	flow, _ := newFlow(t, backend)

	_, err := flow.SubmitCredentials(context.Background(), "m@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, StateAwaitingSecondFactor, flow.State())

	flow.Back()
	assert.Equal(t, StateIdle, flow.State())

	_, err = flow.SubmitSecondFactor(context.Background(), "123456", false)
	assert.ErrorIs(t, err, ErrNotAwaitingChallenge)
}

func TestFlow_LogoutClearsLocallyFirst(t *testing.T) {
	backend := &fakeAuthServer{}
	flow, store := newFlow(t, backend)

	_, err := flow.SubmitCredentials(context.Background(), "m@example.com", "correct-horse")
	require.NoError(t, err)
	require.True(t, store.IsAuthenticated())

	flow.Logout()
	assert.False(t, store.IsAuthenticated(), "local teardown must not wait on the network")
	assert.Equal(t, StateIdle, flow.State())
}
