package service

import (
	"testing"

	"gitee.com/czyczk/certichain/internal/artifact"
	"gitee.com/czyczk/certichain/internal/models/common"
	"gitee.com/czyczk/certichain/pkg/certhash"
	"gitee.com/czyczk/certichain/pkg/errorcode"
	"github.com/stretchr/testify/assert"
)

const (
	approvedInstitutionID   = "1001"
	unapprovedInstitutionID = "1002"
)

type certServiceFixture struct {
	svc       *CertificateService
	store     *memCertificateStore
	blobs     *memBlobStore
	custodian *memKeyCustodian
	certBCAO  *memCertBCAO
	notifier  *memNotifier
}

func newCertServiceFixture(t *testing.T) *certServiceFixture {
	directory := &memInstitutionDirectory{
		institutions: map[string]*common.Institution{
			approvedInstitutionID: {
				ID:         approvedInstitutionID,
				Name:       "CMR Institute of Technology",
				ShortCode:  "CMR",
				IsApproved: true,
			},
			unapprovedInstitutionID: {
				ID:        unapprovedInstitutionID,
				Name:      "Unapproved Institute",
				ShortCode: "UAI",
			},
		},
	}

	custodian := newMemKeyCustodian()
	if err := custodian.GenerateKeyPair(approvedInstitutionID); err != nil {
		t.Fatal(err)
	}

	store := newMemCertificateStore()
	blobs := newMemBlobStore()
	certBCAO := newMemCertBCAO()
	notifier := &memNotifier{}

	svc := &CertificateService{
		Institutions:  directory,
		Store:         store,
		Blobs:         blobs,
		Custodian:     custodian,
		Renderer:      &artifact.StampRenderer{},
		CertBCAO:      certBCAO,
		Notifier:      notifier,
		VerifyBaseURL: "https://certs.example.com/",
	}

	return &certServiceFixture{
		svc:       svc,
		store:     store,
		blobs:     blobs,
		custodian: custodian,
		certBCAO:  certBCAO,
		notifier:  notifier,
	}
}

func sampleIssueParams() *IssueCertificateParams {
	return &IssueCertificateParams{
		InstitutionID: approvedInstitutionID,
		StudentName:   "张三",
		StudentEmail:  "zhangsan@example.com",
		CourseName:    "Computer Science and Engineering",
		Branch:        "CSE",
		PassOutYear:   2025,
		RollNumber:    "10143",
	}
}

func TestIssueCertificate(t *testing.T) {
	fixture := newCertServiceFixture(t)

	cert, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// The certificate ID is derived from the short code, the year and the roll number
	assert.Equal(t, "cmr2510143", cert.CertificateID)
	assert.Equal(t, common.PendingAdminVerification, cert.SignatureStatus)
	assert.Equal(t, common.Active, cert.Status)

	expectedHash := certhash.HashPayload(cert.CertificateID, "张三", "Computer Science and Engineering", "CSE", 2025)
	assert.Equal(t, expectedHash, cert.DataHash)

	// The signature must verify with the institution's public key
	publicKeyPEM, err := fixture.custodian.GetPublicKeyPEM(approvedInstitutionID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	ok, err := VerifyDataHashWithPEM(publicKeyPEM, cert.DataHash, cert.DigitalSignature)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.True(t, ok)

	// The file hash must match the uploaded document
	contents, err := fixture.blobs.Get(cert.ContentAddress)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, certhash.HashFileBytes(contents), cert.FileHash)

	// The anchoring transaction ID must be recorded in the store
	stored, err := fixture.store.GetCertificate(cert.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.NotEmpty(t, stored.LedgerRef)

	assert.Equal(t, []string{"zhangsan@example.com"}, fixture.notifier.issuedEmails)
}

func TestIssueCertificateForUnapprovedInstitution(t *testing.T) {
	fixture := newCertServiceFixture(t)

	params := sampleIssueParams()
	params.InstitutionID = unapprovedInstitutionID

	_, err := fixture.svc.IssueCertificate(params)
	assert.Equal(t, errorcode.ErrorForbidden, err)
}

func TestIssueCertificateWithoutKeyPair(t *testing.T) {
	fixture := newCertServiceFixture(t)
	delete(fixture.custodian.privateKeyPEMs, approvedInstitutionID)

	// A missing key pair must not block issuance. The certificate comes out unsigned.
	cert, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.Empty(t, cert.DigitalSignature)
	assert.Equal(t, common.PendingAdminVerification, cert.SignatureStatus)
}

func TestIssueCertificateWithBlobStoreDown(t *testing.T) {
	fixture := newCertServiceFixture(t)
	fixture.blobs.failPut = true

	// A failed upload must not block issuance. The content address stays empty.
	cert, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.Empty(t, cert.ContentAddress)
	assert.NotEmpty(t, cert.FileHash)
}

func TestIssueCertificateWithChainDown(t *testing.T) {
	fixture := newCertServiceFixture(t)
	fixture.certBCAO.failAnchor = true

	// A failed anchoring must not block issuance. The ledger reference stays empty.
	cert, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.Empty(t, cert.LedgerRef)

	stored, err := fixture.store.GetCertificate(cert.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Empty(t, stored.LedgerRef)
}

func TestIssueCertificateDuplicateID(t *testing.T) {
	fixture := newCertServiceFixture(t)

	_, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// Same institution, year and roll number derive the same certificate ID
	_, err = fixture.svc.IssueCertificate(sampleIssueParams())
	assert.Equal(t, errorcode.ErrorDuplicateID, err)
}

func TestIssueCertificates(t *testing.T) {
	fixture := newCertServiceFixture(t)

	good := sampleIssueParams()
	bad := sampleIssueParams()
	bad.StudentName = "  "
	bad.RollNumber = "10144"

	results := fixture.svc.IssueCertificates([]*IssueCertificateParams{good, bad})
	if isLenEqual := assert.Len(t, results, 2); !isLenEqual {
		t.FailNow()
	}

	assert.True(t, results[0].IsSuccess)
	assert.Equal(t, "cmr2510143", results[0].CertificateID)

	// One bad row must not fail the batch
	assert.False(t, results[1].IsSuccess)
	assert.Equal(t, "10144", results[1].RollNumber)
	assert.NotEmpty(t, results[1].Message)
}

func TestAdminVerifyCertificate(t *testing.T) {
	fixture := newCertServiceFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	verified, err := fixture.svc.AdminVerifyCertificate(issued.CertificateID, "admin", "抽查复核", "北京")
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.Equal(t, common.Verified, verified.SignatureStatus)
	assert.NotNil(t, verified.VerifiedAt)
	assert.Equal(t, "admin", verified.VerifiedBy)

	// The document is re-rendered with a VERIFIED signature block, so its hash changes
	assert.NotEqual(t, issued.FileHash, verified.FileHash)
	assert.NotEqual(t, issued.ContentAddress, verified.ContentAddress)

	contents, err := fixture.blobs.Get(verified.ContentAddress)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, certhash.HashFileBytes(contents), verified.FileHash)

	stored, err := fixture.store.GetCertificate(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, common.Verified, stored.SignatureStatus)

	// Promotion is one-way
	_, err = fixture.svc.AdminVerifyCertificate(issued.CertificateID, "admin", "再次复核", "北京")
	assert.Equal(t, errorcode.ErrorAlreadyVerified, err)
}

func TestAdminVerifyCertificateWithoutKeyPair(t *testing.T) {
	fixture := newCertServiceFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// Unlike issuance, verification cannot proceed without a signing key
	delete(fixture.custodian.privateKeyPEMs, approvedInstitutionID)
	_, err = fixture.svc.AdminVerifyCertificate(issued.CertificateID, "admin", "抽查复核", "北京")
	assert.Equal(t, errorcode.ErrorKeyMissing, err)

	stored, err := fixture.store.GetCertificate(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, common.PendingAdminVerification, stored.SignatureStatus)
}

func TestAdminVerifyCertificateWithBlobStoreDown(t *testing.T) {
	fixture := newCertServiceFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// Unlike issuance, verification requires the re-rendered document to be uploaded
	fixture.blobs.failPut = true
	_, err = fixture.svc.AdminVerifyCertificate(issued.CertificateID, "admin", "抽查复核", "北京")
	assert.Equal(t, errorcode.ErrorUnavailable, err)

	stored, err := fixture.store.GetCertificate(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, common.PendingAdminVerification, stored.SignatureStatus)
}

func TestAdminVerifyRemovedCertificate(t *testing.T) {
	fixture := newCertServiceFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	err = fixture.svc.RemoveCertificate(issued.CertificateID, approvedInstitutionID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	_, err = fixture.svc.AdminVerifyCertificate(issued.CertificateID, "admin", "抽查复核", "北京")
	assert.Equal(t, errorcode.ErrorNotFound, err)
}

func TestRemoveCertificateByAnotherInstitution(t *testing.T) {
	fixture := newCertServiceFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	err = fixture.svc.RemoveCertificate(issued.CertificateID, unapprovedInstitutionID)
	assert.Equal(t, errorcode.ErrorForbidden, err)
}

func TestDownloadArtifact(t *testing.T) {
	fixture := newCertServiceFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	contents, err := fixture.svc.DownloadArtifact(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, issued.FileHash, certhash.HashFileBytes(contents))
}

func TestDownloadArtifactWithoutContentAddress(t *testing.T) {
	fixture := newCertServiceFixture(t)
	fixture.blobs.failPut = true

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// With no content address the document is re-rendered from the record
	contents, err := fixture.svc.DownloadArtifact(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}
	assert.Equal(t, issued.FileHash, certhash.HashFileBytes(contents))
}

func TestDownloadArtifactOfRemovedCertificate(t *testing.T) {
	fixture := newCertServiceFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	err = fixture.svc.RemoveCertificate(issued.CertificateID, approvedInstitutionID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	_, err = fixture.svc.DownloadArtifact(issued.CertificateID)
	assert.Equal(t, errorcode.ErrorNotFound, err)
}
