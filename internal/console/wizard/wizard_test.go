package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBusinessInfo(w *Wizard) {
	w.Business.BusinessName = "Acme Ltd"
	w.Business.Country = "KE"
}

func TestWizard_BusinessInfoGuard(t *testing.T) {
	tests := []struct {
		name     string
		business string
		country  string
		want     bool
	}{
		{"valid", "Acme Ltd", "KE", true},
		{"missing name", "", "KE", false},
		{"missing country", "Acme Ltd", "", false},
		{"one-letter country", "Acme Ltd", "K", false},
		{"three-letter country", "Acme Ltd", "KEN", false},
		{"lowercase country accepted", "Acme Ltd", "ke", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			w.Business.BusinessName = tt.business
			w.Business.Country = tt.country
			assert.Equal(t, tt.want, w.CanAdvance())
		})
	}
}

func TestWizard_BusinessPathSkipsSelfie(t *testing.T) {
	w := New()
	validBusinessInfo(w)
	require.True(t, w.SetMerchantType(MerchantBusiness))

	require.True(t, w.Next())
	assert.Equal(t, StepType, w.Step())
	require.True(t, w.Next())
	assert.Equal(t, StepIDUpload, w.Step())

	// Blocked until the registration certificate is staged.
	assert.False(t, w.Next())
	w.StageFile(FileBusinessRegistration, "cert.pdf", "application/pdf", []byte("pdf"))
	require.True(t, w.Next())
	assert.Equal(t, StepReview, w.Step())

	// Backward skips selfie too.
	require.True(t, w.Back())
	assert.Equal(t, StepIDUpload, w.Step())
}

func TestWizard_IndividualPathIncludesSelfie(t *testing.T) {
	w := New()
	validBusinessInfo(w)
	require.True(t, w.SetMerchantType(MerchantIndividual))
	w.SetIDCountry("ke")

	require.True(t, w.Next())
	require.True(t, w.Next())
	assert.Equal(t, StepIDUpload, w.Step())

	assert.False(t, w.Next(), "id front missing")
	w.StageFile(FileIDFront, "front.png", "image/png", []byte("img"))
	require.True(t, w.Next())
	assert.Equal(t, StepSelfie, w.Step())

	assert.False(t, w.Next(), "selfie missing")
	w.StageFile(FileSelfie, "selfie.png", "image/png", []byte("img"))
	require.True(t, w.Next())
	assert.Equal(t, StepReview, w.Step())

	require.True(t, w.Back())
	assert.Equal(t, StepSelfie, w.Step())
}

func TestWizard_TypeChangeOnSelfieStepFallsBackToUpload(t *testing.T) {
	w := New()
	validBusinessInfo(w)
	require.True(t, w.SetMerchantType(MerchantIndividual))
	w.SetIDCountry("KE")

	require.True(t, w.Next())
	require.True(t, w.Next())
	w.StageFile(FileIDFront, "front.png", "image/png", []byte("img"))
	require.True(t, w.Next())
	require.Equal(t, StepSelfie, w.Step())

	// The selfie step does not exist on the business path, so the
	// wizard must land on a step with valid transitions.
	require.True(t, w.SetMerchantType(MerchantBusiness))
	assert.Equal(t, StepIDUpload, w.Step())

	require.True(t, w.Back())
	assert.Equal(t, StepType, w.Step())

	w.StageFile(FileBusinessRegistration, "cert.pdf", "application/pdf", []byte("pdf"))
	require.True(t, w.Next())
	require.True(t, w.Next())
	assert.Equal(t, StepReview, w.Step())
}

func TestWizard_CanSubmit(t *testing.T) {
	t.Run("business requires registration document", func(t *testing.T) {
		w := New()
		validBusinessInfo(w)
		w.SetMerchantType(MerchantBusiness)

		assert.False(t, w.CanSubmit())
		w.StageFile(FileBusinessRegistration, "cert.pdf", "application/pdf", []byte("pdf"))
		assert.True(t, w.CanSubmit())
	})

	t.Run("individual requires selfie, id front and id country", func(t *testing.T) {
		w := New()
		validBusinessInfo(w)
		w.SetMerchantType(MerchantIndividual)
		w.SetIDCountry("KE")

		w.StageFile(FileIDFront, "front.png", "image/png", []byte("img"))
		assert.False(t, w.CanSubmit())
		w.StageFile(FileSelfie, "selfie.png", "image/png", []byte("img"))
		assert.True(t, w.CanSubmit())

		w.SetIDCountry("")
		assert.False(t, w.CanSubmit())
	})

	t.Run("stale business info blocks submit", func(t *testing.T) {
		w := New()
		validBusinessInfo(w)
		w.SetMerchantType(MerchantBusiness)
		w.StageFile(FileBusinessRegistration, "cert.pdf", "application/pdf", []byte("pdf"))
		require.True(t, w.CanSubmit())

		w.Business.BusinessName = ""
		assert.False(t, w.CanSubmit())
	})
}

func TestWizard_OffersIDBack(t *testing.T) {
	w := New()
	w.SetMerchantType(MerchantIndividual)

	require.True(t, w.SetIDType(IDNationalID))
	assert.True(t, w.OffersIDBack())

	require.True(t, w.SetIDType(IDDriversLicense))
	assert.True(t, w.OffersIDBack())

	require.True(t, w.SetIDType(IDPassport))
	assert.False(t, w.OffersIDBack())

	w.SetMerchantType(MerchantBusiness)
	assert.False(t, w.OffersIDBack())
}

func TestWizard_PayloadNormalizesCountries(t *testing.T) {
	w := New()
	w.SetMerchantType(MerchantIndividual)
	w.SetIDType(IDNationalID)
	w.Business.BusinessName = "Acme Ltd"
	w.Business.Country = "ke"
	w.SetIDCountry("ke")
	w.StageFile(FileIDFront, "front.png", "image/png", []byte("front"))
	w.StageFile(FileSelfie, "selfie.png", "image/png", []byte("selfie"))

	require.True(t, w.OffersIDBack())
	require.True(t, w.CanSubmit())

	p := w.Payload()
	assert.Equal(t, "KE", p.KYCData.IDCountry)
	require.NotNil(t, p.BusinessInfo.Address)
	assert.Equal(t, "KE", *p.BusinessInfo.Address.Country)

	kinds := make([]string, 0, len(p.KYCData.Files))
	for _, f := range p.KYCData.Files {
		kinds = append(kinds, f.Field)
	}
	assert.ElementsMatch(t, []string{FileSelfie, FileIDFront}, kinds)
}

func TestWizard_PayloadOmitsIDFieldsForBusiness(t *testing.T) {
	w := New()
	validBusinessInfo(w)
	w.SetMerchantType(MerchantBusiness)
	w.StageFile(FileBusinessRegistration, "cert.pdf", "application/pdf", []byte("pdf"))

	p := w.Payload()
	assert.Empty(t, p.KYCData.IDType)
	assert.Empty(t, p.KYCData.IDCountry)
	require.Len(t, p.KYCData.Files, 1)
	assert.Equal(t, FileBusinessRegistration, p.KYCData.Files[0].Field)
}

func TestWizard_StagedFilePreview(t *testing.T) {
	w := New()
	f := w.StageFile(FileSelfie, "selfie.png", "image/png", []byte{1, 2, 3})

	// Presence is immediate; only the preview is asynchronous.
	assert.True(t, w.Staged(FileSelfie))

	preview := f.WaitPreview()
	assert.Equal(t, "data:image/png;base64,AQID", preview)
}

func TestWizard_BackStopsAtFirstStep(t *testing.T) {
	w := New()
	assert.False(t, w.Back())
	assert.Equal(t, StepBusinessInfo, w.Step())
}
