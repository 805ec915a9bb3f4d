package artifact

import (
	"strings"
	"testing"
	"time"

	"gitee.com/czyczk/certichain/internal/models/common"
	"github.com/stretchr/testify/assert"
)

func sampleCertificate() *common.Certificate {
	issueDate := time.Date(2025, 6, 30, 10, 0, 0, 0, time.UTC)
	return &common.Certificate{
		CertificatePayload: common.CertificatePayload{
			CertificateID: "cmr2510143",
			StudentName:   "张三",
			CourseName:    "Computer Science and Engineering",
			Branch:        "CSE",
			PassOutYear:   2025,
		},
		InstitutionID:    "1001",
		InstitutionName:  "CMR Institute of Technology",
		IssueDate:        issueDate,
		DataHash:         "0f1e2d3c4b5a",
		DigitalSignature: "c2lnbmF0dXJl",
		SignatureStatus:  common.PendingAdminVerification,
		Status:           common.Active,
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	renderer := &StampRenderer{}
	cert := sampleCertificate()

	first, err := renderer.Render(cert, "https://certs.example.com/verify/cmr2510143")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	second, err := renderer.Render(cert, "https://certs.example.com/verify/cmr2510143")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// The file hash only works as a tamper detector if rendering is byte-for-byte stable
	assert.Equal(t, first, second)
}

func TestRenderPendingCertificate(t *testing.T) {
	renderer := &StampRenderer{}

	contents, err := renderer.Render(sampleCertificate(), "https://certs.example.com/verify/cmr2510143")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	document := string(contents)
	assert.Contains(t, document, "cmr2510143")
	assert.Contains(t, document, "张三")
	assert.Contains(t, document, "Issue Date     : 2025-06-30")
	assert.Contains(t, document, "-----BEGIN SIGNATURE BLOCK (PENDING)-----")
	assert.NotContains(t, document, "(VERIFIED)")

	// Exactly one signature block per document
	assert.Equal(t, 1, strings.Count(document, "-----BEGIN SIGNATURE BLOCK"))
	assert.Equal(t, 1, strings.Count(document, "-----END SIGNATURE BLOCK-----"))
}

func TestRenderVerifiedCertificate(t *testing.T) {
	renderer := &StampRenderer{}

	cert := sampleCertificate()
	verifiedAt := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	cert.SignatureStatus = common.Verified
	cert.VerifiedAt = &verifiedAt
	cert.VerifiedBy = "admin"

	contents, err := renderer.Render(cert, "https://certs.example.com/verify/cmr2510143")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	document := string(contents)
	assert.Contains(t, document, "-----BEGIN SIGNATURE BLOCK (VERIFIED)-----")
	assert.Contains(t, document, "Verified At : 2025-07-01 09:30:00")
	assert.Contains(t, document, "Verified By : admin")
	assert.NotContains(t, document, "(PENDING)")
	assert.Equal(t, 1, strings.Count(document, "-----BEGIN SIGNATURE BLOCK"))
}

func TestRenderOmitsBlankBranch(t *testing.T) {
	renderer := &StampRenderer{}

	cert := sampleCertificate()
	cert.Branch = ""

	contents, err := renderer.Render(cert, "https://certs.example.com/verify/cmr2510143")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.NotContains(t, string(contents), "Branch")
}

func TestGenerateVerificationQR(t *testing.T) {
	pngBytes, err := GenerateVerificationQR("https://certs.example.com/verify/cmr2510143")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// PNG magic bytes
	assert.True(t, len(pngBytes) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, pngBytes[:4])
}
