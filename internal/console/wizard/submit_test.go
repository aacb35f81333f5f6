package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"paypsp/internal/console/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	failInitiate  atomic.Bool
	profileCalls  atomic.Int32
	initiateCalls atomic.Int32
	lastIDCountry string
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("PUT /api/merchant/profile", func(w http.ResponseWriter, r *http.Request) {
		b.profileCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{"id": "profile-1"})
	})

	mux.HandleFunc("POST /api/merchant/kyc", func(w http.ResponseWriter, r *http.Request) {
		b.initiateCalls.Add(1)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.lastIDCountry = r.FormValue("id_country")

		if b.failInitiate.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{"error": "Failed to initiate verification"})
			return
		}

		uploaded := make([]string, 0)
		for field := range r.MultipartForm.File {
			uploaded = append(uploaded, field)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"job_id":             "job-1",
			"merchant_type":      r.FormValue("merchant_type"),
			"documents_uploaded": uploaded,
		})
	})

	return mux
}

func individualPayload() Payload {
	w := New()
	w.SetMerchantType(MerchantIndividual)
	w.SetIDType(IDNationalID)
	w.Business.BusinessName = "Acme Ltd"
	w.Business.Country = "ke"
	w.SetIDCountry("ke")
	w.StageFile(FileIDFront, "front.png", "image/png", []byte("front"))
	w.StageFile(FileSelfie, "selfie.png", "image/png", []byte("selfie"))
	return w.Payload()
}

func TestSubmitter_Submit(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	submitter := NewSubmitter(api.NewClient(srv.URL, nil))

	ref, err := submitter.Submit(context.Background(), individualPayload())
	require.NoError(t, err)

	assert.Equal(t, "job-1", ref.JobID)
	assert.Equal(t, int32(1), backend.profileCalls.Load())
	assert.Equal(t, int32(1), backend.initiateCalls.Load())
	assert.Equal(t, "KE", backend.lastIDCountry, "country code normalized before transmission")
	assert.ElementsMatch(t, []string{"selfie", "id_front"}, ref.DocumentsUploaded)
}

func TestSubmitter_PartialFailureAndRetry(t *testing.T) {
	backend := &fakeBackend{}
	backend.failInitiate.Store(true)
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	submitter := NewSubmitter(api.NewClient(srv.URL, nil))
	payload := individualPayload()

	_, err := submitter.Submit(context.Background(), payload)
	var partial *PartialFailure
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, int32(1), backend.profileCalls.Load())

	// Retry touches only the initiation phase.
	backend.failInitiate.Store(false)
	ref, err := submitter.RetryInitiate(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "job-1", ref.JobID)
	assert.Equal(t, int32(1), backend.profileCalls.Load(), "profile update must not rerun")
	assert.Equal(t, int32(2), backend.initiateCalls.Load())
}

func TestSubmitter_ProfileFailureIsNotPartial(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/merchant/profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error":  "validation failed",
			"fields": map[string]string{"business_name": "Business name is required"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	submitter := NewSubmitter(api.NewClient(srv.URL, nil))

	_, err := submitter.Submit(context.Background(), individualPayload())
	require.Error(t, err)

	var partial *PartialFailure
	assert.False(t, errors.As(err, &partial), "a first-phase failure is an ordinary error")

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Business name is required", apiErr.UserMessage())
}
