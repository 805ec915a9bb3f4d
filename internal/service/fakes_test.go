package service

import (
	"fmt"

	"gitee.com/czyczk/certichain/internal/blockchain/bcao"
	"gitee.com/czyczk/certichain/internal/db"
	"gitee.com/czyczk/certichain/internal/models/common"
	"gitee.com/czyczk/certichain/pkg/errorcode"
	"gitee.com/czyczk/certichain/pkg/models/anchor"
	"gitee.com/czyczk/certichain/pkg/sm2keyutils"
)

// memInstitutionDirectory serves institutions from a map.
type memInstitutionDirectory struct {
	institutions map[string]*common.Institution
}

func (d *memInstitutionDirectory) GetInstitution(id string) (*common.Institution, error) {
	institution, ok := d.institutions[id]
	if !ok {
		return nil, errorcode.ErrorNotFound
	}

	return institution, nil
}

// memCertificateStore mimics the local database semantics, including the
// unique certificate ID index and the one-way promotion to VERIFIED.
type memCertificateStore struct {
	certs map[string]*common.Certificate
}

func newMemCertificateStore() *memCertificateStore {
	return &memCertificateStore{certs: make(map[string]*common.Certificate)}
}

func (s *memCertificateStore) SaveCertificate(cert *common.Certificate) error {
	if _, ok := s.certs[cert.CertificateID]; ok {
		return errorcode.ErrorDuplicateID
	}

	copied := *cert
	s.certs[cert.CertificateID] = &copied
	return nil
}

func (s *memCertificateStore) GetCertificate(certificateID string) (*common.Certificate, error) {
	cert, ok := s.certs[certificateID]
	if !ok {
		return nil, errorcode.ErrorNotFound
	}

	copied := *cert
	return &copied, nil
}

func (s *memCertificateStore) FindActiveCertificateByFileHash(fileHash string) (*common.Certificate, error) {
	for _, cert := range s.certs {
		if cert.Status == common.Active && cert.FileHash == fileHash {
			copied := *cert
			return &copied, nil
		}
	}

	return nil, errorcode.ErrorNotFound
}

func (s *memCertificateStore) PromoteToVerified(certificateID string, update *db.VerifiedUpdate) error {
	cert, ok := s.certs[certificateID]
	if !ok {
		return errorcode.ErrorNotFound
	}
	if cert.SignatureStatus != common.PendingAdminVerification {
		return errorcode.ErrorAlreadyVerified
	}

	verifiedAt := update.VerifiedAt
	cert.DataHash = update.DataHash
	cert.DigitalSignature = update.DigitalSignature
	cert.FileHash = update.FileHash
	cert.ContentAddress = update.ContentAddress
	cert.SignatureStatus = common.Verified
	cert.VerifiedAt = &verifiedAt
	cert.VerifiedBy = update.VerifiedBy
	cert.VerificationReason = update.Reason
	cert.VerificationLocation = update.Location
	return nil
}

func (s *memCertificateStore) MarkRemoved(certificateID string, institutionID string) error {
	cert, ok := s.certs[certificateID]
	if !ok {
		return errorcode.ErrorNotFound
	}
	if cert.InstitutionID != institutionID {
		return errorcode.ErrorForbidden
	}

	cert.Status = common.Removed
	return nil
}

func (s *memCertificateStore) UpdateLedgerRef(certificateID string, ledgerRef string) error {
	cert, ok := s.certs[certificateID]
	if !ok {
		return errorcode.ErrorNotFound
	}

	cert.LedgerRef = ledgerRef
	return nil
}

// memKeyCustodian keeps real SM2 key pairs in memory so that signatures
// produced in tests verify with the matching public keys.
type memKeyCustodian struct {
	publicKeyPEMs  map[string]string
	privateKeyPEMs map[string]string
}

func newMemKeyCustodian() *memKeyCustodian {
	return &memKeyCustodian{
		publicKeyPEMs:  make(map[string]string),
		privateKeyPEMs: make(map[string]string),
	}
}

func (c *memKeyCustodian) GenerateKeyPair(institutionID string) error {
	publicKeyPEM, privateKeyPEM, err := sm2keyutils.GenerateKeyPair()
	if err != nil {
		return err
	}

	c.publicKeyPEMs[institutionID] = string(publicKeyPEM)
	c.privateKeyPEMs[institutionID] = string(privateKeyPEM)
	return nil
}

func (c *memKeyCustodian) GetPublicKeyPEM(institutionID string) (string, error) {
	publicKeyPEM, ok := c.publicKeyPEMs[institutionID]
	if !ok {
		return "", errorcode.ErrorKeyMissing
	}

	return publicKeyPEM, nil
}

func (c *memKeyCustodian) SignDataHash(institutionID string, dataHash string) (string, error) {
	privateKeyPEM, ok := c.privateKeyPEMs[institutionID]
	if !ok {
		return "", errorcode.ErrorKeyMissing
	}

	return SignDataHashWithPEM(privateKeyPEM, dataHash)
}

// memBlobStore keeps uploaded contents in memory under sequential addresses.
type memBlobStore struct {
	blobs   map[string][]byte
	nextSeq int
	failPut bool
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (s *memBlobStore) Put(contents []byte) (string, error) {
	if s.failPut {
		return "", fmt.Errorf("存储服务不可用")
	}

	s.nextSeq++
	cid := fmt.Sprintf("blob-%v", s.nextSeq)
	copied := make([]byte, len(contents))
	copy(copied, contents)
	s.blobs[cid] = copied
	return cid, nil
}

func (s *memBlobStore) Get(cid string) ([]byte, error) {
	contents, ok := s.blobs[cid]
	if !ok {
		return nil, errorcode.ErrorNotFound
	}

	return contents, nil
}

// memCertBCAO mimics the chaincode's duplicate-anchor rejection.
type memCertBCAO struct {
	anchors    map[string]*anchor.CertificateAnchorStored
	nextTxSeq  int
	failAnchor bool
}

func newMemCertBCAO() *memCertBCAO {
	return &memCertBCAO{anchors: make(map[string]*anchor.CertificateAnchorStored)}
}

func (o *memCertBCAO) AnchorCertificate(certAnchor *anchor.CertificateAnchor, eventID ...string) (string, error) {
	if o.failAnchor {
		return "", errorcode.ErrorUnavailable
	}
	if _, ok := o.anchors[certAnchor.CertificateID]; ok {
		return "", errorcode.ErrorDuplicateID
	}

	o.nextTxSeq++
	txID := fmt.Sprintf("tx-%v", o.nextTxSeq)
	o.anchors[certAnchor.CertificateID] = &anchor.CertificateAnchorStored{
		CertificateAnchor: *certAnchor,
		TransactionID:     txID,
	}
	return txID, nil
}

func (o *memCertBCAO) GetAnchor(certificateID string) (*anchor.CertificateAnchorStored, error) {
	stored, ok := o.anchors[certificateID]
	if !ok {
		return nil, errorcode.ErrorNotFound
	}

	return stored, nil
}

func (o *memCertBCAO) GetTransactionCreationInfo(txID string) (*bcao.TransactionCreationInfo, error) {
	for _, stored := range o.anchors {
		if stored.TransactionID == txID {
			return &bcao.TransactionCreationInfo{TransactionID: txID}, nil
		}
	}

	return nil, errorcode.ErrorNotFound
}

// memNotifier records the notifications it was asked to send.
type memNotifier struct {
	issuedEmails   []string
	rejectedEmails []string
}

func (n *memNotifier) NotifyCertificateIssued(email string, cert *common.Certificate) {
	n.issuedEmails = append(n.issuedEmails, email)
}

func (n *memNotifier) NotifyRequestRejected(email string, request *common.CertificateRequest) {
	n.rejectedEmails = append(n.rejectedEmails, email)
}
