package validation

const (
	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MaxBusinessNameLength = 255
	MaxLabelLength        = 100

	// Upload limits
	MaxDocumentSize = 5 << 20 // 5MB per KYC document
)
