package service

import (
	"testing"

	"gitee.com/czyczk/certichain/internal/models/common"
	"gitee.com/czyczk/certichain/pkg/errorcode"
	"github.com/stretchr/testify/assert"
)

func newVerificationFixture(t *testing.T) (*VerificationService, *certServiceFixture) {
	fixture := newCertServiceFixture(t)
	verificationSvc := &VerificationService{
		Store:     fixture.store,
		Custodian: fixture.custodian,
		CertBCAO:  fixture.certBCAO,
	}

	return verificationSvc, fixture
}

func TestVerifyRecordOfIntactCertificate(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	result, err := verificationSvc.VerifyRecord(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.False(t, result.Revoked)
	assert.True(t, result.IntegrityVerified)
	assert.True(t, result.SignatureVerified)
	if isNotNil := assert.NotNil(t, result.Certificate); !isNotNil {
		t.FailNow()
	}
	assert.Equal(t, issued.CertificateID, result.Certificate.CertificateID)
}

func TestVerifyRecordOfTamperedCertificate(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// Tamper with a stored field without touching the stored hash
	fixture.store.certs[issued.CertificateID].StudentName = "李四"

	result, err := verificationSvc.VerifyRecord(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// The integrity check fails, but the signature over the stored hash still verifies.
	// The two checks are independent and must be reported separately.
	assert.False(t, result.IntegrityVerified)
	assert.True(t, result.SignatureVerified)
}

func TestVerifyRecordWithForgedSignature(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	fixture.store.certs[issued.CertificateID].DigitalSignature = "bm90IGEgcmVhbCBzaWduYXR1cmU="

	result, err := verificationSvc.VerifyRecord(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.True(t, result.IntegrityVerified)
	assert.False(t, result.SignatureVerified)
}

func TestVerifyRecordOfUnsignedCertificate(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)
	delete(fixture.custodian.privateKeyPEMs, approvedInstitutionID)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	result, err := verificationSvc.VerifyRecord(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.True(t, result.IntegrityVerified)
	assert.False(t, result.SignatureVerified)
}

func TestVerifyRecordOfRemovedCertificate(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	err = fixture.svc.RemoveCertificate(issued.CertificateID, approvedInstitutionID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// Revocation is terminal. No integrity or signature check takes place.
	result, err := verificationSvc.VerifyRecord(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.True(t, result.Revoked)
	assert.False(t, result.IntegrityVerified)
	assert.False(t, result.SignatureVerified)
}

func TestVerifyRecordOfUnknownCertificate(t *testing.T) {
	verificationSvc, _ := newVerificationFixture(t)

	_, err := verificationSvc.VerifyRecord("cmr2599999")
	assert.Equal(t, errorcode.ErrorNotFound, err)
}

func TestVerifyFileGenuine(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	contents, err := fixture.svc.DownloadArtifact(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	result, err := verificationSvc.VerifyFile(issued.CertificateID, contents)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.True(t, result.Valid)
	assert.Equal(t, common.FileGenuine, result.Status)
	if isNotNil := assert.NotNil(t, result.Certificate); !isNotNil {
		t.FailNow()
	}
	assert.Equal(t, issued.CertificateID, result.Certificate.CertificateID)
}

func TestVerifyFileMismatch(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	result, err := verificationSvc.VerifyFile(issued.CertificateID, []byte("a forged document"))
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.False(t, result.Valid)
	assert.Equal(t, common.FileMismatch, result.Status)
}

func TestVerifyFileWrongID(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	contents, err := fixture.svc.DownloadArtifact(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// The document is genuine, but the presented certificate ID does not exist
	result, err := verificationSvc.VerifyFile("cmr2599999", contents)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.False(t, result.Valid)
	assert.Equal(t, common.FileWrongID, result.Status)
	assert.Equal(t, issued.CertificateID, result.MatchedCertificateID)
}

func TestVerifyFileMismatchTakesPrecedenceOverContentLookup(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)

	first, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	otherParams := sampleIssueParams()
	otherParams.RollNumber = "10144"
	other, err := fixture.svc.IssueCertificate(otherParams)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	otherContents, err := fixture.svc.DownloadArtifact(other.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// The ID exists, so the result is MISMATCH even though the document
	// belongs to another certificate. The ID lookup always runs first.
	result, err := verificationSvc.VerifyFile(first.CertificateID, otherContents)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.False(t, result.Valid)
	assert.Equal(t, common.FileMismatch, result.Status)
}

func TestVerifyFileInvalid(t *testing.T) {
	verificationSvc, _ := newVerificationFixture(t)

	result, err := verificationSvc.VerifyFile("cmr2599999", []byte("an unknown document"))
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.False(t, result.Valid)
	assert.Equal(t, common.FileInvalid, result.Status)
}

func TestVerifyFileOfRemovedCertificate(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	contents, err := fixture.svc.DownloadArtifact(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	err = fixture.svc.RemoveCertificate(issued.CertificateID, approvedInstitutionID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// A removed certificate fails every verification entry point
	result, err := verificationSvc.VerifyFile(issued.CertificateID, contents)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.False(t, result.Valid)
	assert.Equal(t, common.FileRevoked, result.Status)
}

func TestGetLedgerProof(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	proof, err := verificationSvc.GetLedgerProof(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	if isNotNil := assert.NotNil(t, proof.Anchor); !isNotNil {
		t.FailNow()
	}
	assert.Equal(t, issued.CertificateID, proof.Anchor.CertificateID)
	assert.True(t, proof.DataHashMatch)
	if isNotNil := assert.NotNil(t, proof.CreationInfo); !isNotNil {
		t.FailNow()
	}
	assert.Equal(t, proof.Anchor.TransactionID, proof.CreationInfo.TransactionID)
}

func TestGetLedgerProofOfTamperedRecord(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	// Tampering with the stored hash breaks the match against the on-chain anchor
	fixture.store.certs[issued.CertificateID].DataHash = "0000000000000000000000000000000000000000000000000000000000000000"

	proof, err := verificationSvc.GetLedgerProof(issued.CertificateID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	assert.False(t, proof.DataHashMatch)
}

func TestGetLedgerProofOfUnanchoredCertificate(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)
	fixture.certBCAO.failAnchor = true

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	fixture.certBCAO.failAnchor = false
	_, err = verificationSvc.GetLedgerProof(issued.CertificateID)
	assert.Equal(t, errorcode.ErrorNotFound, err)
}

func TestGetLedgerProofOfRemovedCertificate(t *testing.T) {
	verificationSvc, fixture := newVerificationFixture(t)

	issued, err := fixture.svc.IssueCertificate(sampleIssueParams())
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	err = fixture.svc.RemoveCertificate(issued.CertificateID, approvedInstitutionID)
	if isNoError := assert.NoError(t, err); !isNoError {
		t.FailNow()
	}

	_, err = verificationSvc.GetLedgerProof(issued.CertificateID)
	assert.Equal(t, errorcode.ErrorNotFound, err)
}
