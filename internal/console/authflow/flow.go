// Package authflow drives the sign-in sequence: credential submission,
// an optional two-factor challenge, and session installation.
package authflow

import (
	"context"
	"errors"
	"time"

	"paypsp/internal/console/api"
	"paypsp/internal/console/session"
	"paypsp/internal/validation"
)

// State of the sign-in flow.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateAwaitingSecondFactor
	StateVerifyingCode
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateAwaitingSecondFactor:
		return "awaiting-second-factor"
	case StateVerifyingCode:
		return "verifying-code"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

const codeLength = 6

var (
	ErrNotAwaitingChallenge = errors.New("no second-factor challenge in progress")
	ErrFlowBusy             = errors.New("a submission is already in flight")
)

// Flow is a single sign-in attempt's state machine. It is driven from
// one event loop; it is not safe for concurrent use.
type Flow struct {
	client *api.Client
	store  *session.Store

	state       State
	mfaToken    string
	fieldErrors map[string]string
	message     string
}

func New(client *api.Client, store *session.Store) *Flow {
	return &Flow{client: client, store: store, state: StateIdle}
}

func (f *Flow) State() State { return f.state }

// FieldErrors returns the inline validation messages from the last
// submission, keyed by field name.
func (f *Flow) FieldErrors() map[string]string { return f.fieldErrors }

// Message returns the last user-facing error text.
func (f *Flow) Message() string { return f.message }

// SubmitCredentials validates locally, then submits. A response with a
// challenge marker parks the flow in AwaitingSecondFactor without
// touching the session store; only a full token grant installs a
// session.
func (f *Flow) SubmitCredentials(ctx context.Context, email, password string) (State, error) {
	if f.state == StateSubmitting || f.state == StateVerifyingCode {
		return f.state, ErrFlowBusy
	}

	v := validation.New()
	v.Email("email", email)
	v.Required("password", password)
	if !v.Valid() {
		f.state = StateFailed
		f.fieldErrors = v.Errors
		f.message = ""
		return f.state, nil
	}

	f.state = StateSubmitting
	f.fieldErrors = nil
	f.message = ""

	resp, err := f.client.Login(ctx, email, password)
	if err != nil {
		f.fail(err)
		return f.state, nil
	}

	if resp.MFARequired {
		f.state = StateAwaitingSecondFactor
		f.mfaToken = resp.MFAToken
		return f.state, nil
	}

	f.install(resp)
	return f.state, nil
}

// SubmitSecondFactor completes the challenge. Authenticator codes must
// be exactly six digits; backup codes are free-form non-empty strings.
// Failure keeps the flow on the challenge step.
func (f *Flow) SubmitSecondFactor(ctx context.Context, code string, useBackupCode bool) (State, error) {
	if f.state != StateAwaitingSecondFactor {
		return f.state, ErrNotAwaitingChallenge
	}

	if useBackupCode {
		if code == "" {
			f.message = "Enter a backup code"
			return f.state, nil
		}
	} else if !validCode(code) {
		f.message = "Enter the 6-digit code from your authenticator app"
		return f.state, nil
	}

	f.state = StateVerifyingCode
	f.message = ""

	resp, err := f.client.VerifyTwoFactor(ctx, f.mfaToken, code, useBackupCode)
	if err != nil {
		// Stay on the challenge step; only an explicit Back leaves it.
		f.state = StateAwaitingSecondFactor
		f.message = userMessage(err)
		return f.state, nil
	}

	f.install(resp)
	return f.state, nil
}

// Back abandons an in-progress challenge and returns to credential entry.
func (f *Flow) Back() {
	if f.state == StateAwaitingSecondFactor || f.state == StateFailed {
		f.state = StateIdle
		f.mfaToken = ""
		f.fieldErrors = nil
		f.message = ""
	}
}

// Logout clears the session immediately. Server-side invalidation is
// fire-and-forget; local teardown never waits on the network.
func (f *Flow) Logout() {
	f.store.Clear()
	f.state = StateIdle
	f.mfaToken = ""

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = f.client.Logout(ctx)
	}()
}

func (f *Flow) install(resp *api.LoginResponse) {
	sess := session.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.User != nil {
		sess.User = session.Identity{
			ID:            resp.User.ID,
			Email:         resp.User.Email,
			Name:          resp.User.Name,
			Role:          resp.User.Role,
			Staff:         resp.User.IsStaff,
			EmailVerified: resp.User.EmailVerified,
			MFAEnabled:    resp.User.MFAEnabled,
		}
	}
	f.store.Set(sess)
	f.state = StateAuthenticated
	f.mfaToken = ""
}

func (f *Flow) fail(err error) {
	f.state = StateFailed
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		f.fieldErrors = apiErr.Fields
	}
	f.message = userMessage(err)
}

func userMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return "Could not reach the server. Check your connection and try again."
}

func validCode(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
