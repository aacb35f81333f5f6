package compliance

// FileUpload is one document received on a KYC submission.
type FileUpload struct {
	Kind        string
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

// InitiateInput is the parsed multipart body of a KYC initiation.
type InitiateInput struct {
	MerchantType string
	IDType       string
	IDCountry    string
	Files        []FileUpload
}

// File returns the upload of the given kind, or nil.
func (in *InitiateInput) File(kind string) *FileUpload {
	for i := range in.Files {
		if in.Files[i].Kind == kind {
			return &in.Files[i]
		}
	}
	return nil
}

// InitiationResult is returned to the client on a successful submission.
type InitiationResult struct {
	JobID             string   `json:"job_id"`
	MerchantType      string   `json:"merchant_type"`
	IDType            string   `json:"id_type,omitempty"`
	IDCountry         string   `json:"id_country,omitempty"`
	DocumentsUploaded []string `json:"documents_uploaded"`
}

// CancelResult reports a cancelled submission and the status it left.
type CancelResult struct {
	JobID          string `json:"job_id"`
	PreviousStatus string `json:"previous_status"`
}

// Decision values for admin review.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
	DecisionFlag    = "flag"
)
