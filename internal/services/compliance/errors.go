package compliance

import "errors"

var (
	ErrAlreadyInFlight     = errors.New("a verification is already in progress")
	ErrAlreadyVerified     = errors.New("merchant is already verified")
	ErrNothingToCancel     = errors.New("no in-flight verification to cancel")
	ErrMissingDocument     = errors.New("required document missing")
	ErrInvalidMerchant     = errors.New("invalid merchant type")
	ErrInvalidIDType       = errors.New("invalid id type")
	ErrInvalidIDCountry    = errors.New("id country must be a 2-letter ISO code")
	ErrInvalidDecision     = errors.New("invalid review decision")
	ErrJobNotReviewable    = errors.New("job is not awaiting review")
	ErrDocumentTooLarge    = errors.New("document exceeds the size limit")
	ErrUnknownDocumentKind = errors.New("unknown document kind")
)
