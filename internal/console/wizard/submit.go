package wizard

import (
	"context"
	"fmt"

	"paypsp/internal/console/api"
)

// PartialFailure marks a submission where the profile update succeeded
// but verification initiation did not. The two phases are not rolled
// back; the caller retries initiation alone via RetryInitiate.
type PartialFailure struct {
	Err error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("profile saved but verification could not be started: %v", e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

// Submitter performs the two-phase submission: profile update first,
// then verification initiation. The phases are ordered, not
// transactional.
type Submitter struct {
	client *api.Client
}

func NewSubmitter(client *api.Client) *Submitter {
	return &Submitter{client: client}
}

// Submit runs both phases. A failure in the first phase is an ordinary
// error; a failure in the second, after the first succeeded, is
// reported as *PartialFailure so the caller can offer an
// initiation-only retry instead of forcing business info re-entry.
func (s *Submitter) Submit(ctx context.Context, p Payload) (*api.KYCJobRef, error) {
	if _, err := s.client.UpdateProfile(ctx, p.BusinessInfo); err != nil {
		return nil, err
	}

	ref, err := s.client.InitiateKYC(ctx, p.KYCData)
	if err != nil {
		return nil, &PartialFailure{Err: err}
	}
	return ref, nil
}

// RetryInitiate reruns only the verification phase of a payload whose
// profile update already succeeded.
func (s *Submitter) RetryInitiate(ctx context.Context, p Payload) (*api.KYCJobRef, error) {
	ref, err := s.client.InitiateKYC(ctx, p.KYCData)
	if err != nil {
		return nil, &PartialFailure{Err: err}
	}
	return ref, nil
}
