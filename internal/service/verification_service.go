package service

import (
	"fmt"
	"strings"

	"gitee.com/czyczk/certichain/internal/blockchain/bcao"
	"gitee.com/czyczk/certichain/internal/models/common"
	"gitee.com/czyczk/certichain/pkg/certhash"
	"gitee.com/czyczk/certichain/pkg/errorcode"
	log "github.com/sirupsen/logrus"
)

// VerificationService 对外提供证书的记录验真、文件验真与链上锚定查证。
type VerificationService struct {
	Store     CertificateStore
	Custodian KeyCustodianInterface
	CertBCAO  bcao.ICertificateBCAO
}

// VerifyRecord 按证书 ID 验证库内记录。
func (s *VerificationService) VerifyRecord(certificateID string) (*common.RecordVerificationResult, error) {
	if strings.TrimSpace(certificateID) == "" {
		return nil, fmt.Errorf("证书 ID 不能为空。")
	}

	cert, err := s.Store.GetCertificate(certificateID)
	if err != nil {
		return nil, err
	}

	// 吊销是终态，不再做完整性与签名检查
	if cert.Status == common.Removed {
		return &common.RecordVerificationResult{
			Revoked:     true,
			Certificate: cert,
		}, nil
	}

	result := &common.RecordVerificationResult{
		Certificate: cert,
	}

	// 完整性：按存储字段重算数据哈希并与存储值比对
	recomputedHash := certhash.HashPayload(cert.CertificateID, cert.StudentName, cert.CourseName, cert.Branch, cert.PassOutYear)
	result.IntegrityVerified = recomputedHash == cert.DataHash

	// 签名：机构公钥校验存储的 DataHash 上的签名。
	// 签名检查的对象是存储值而非重算值，两项检查相互独立。
	if cert.DigitalSignature != "" {
		publicKeyPEM, err := s.Custodian.GetPublicKeyPEM(cert.InstitutionID)
		if err != nil {
			log.Warnf("无法获取机构 '%v' 的公钥: %v", cert.InstitutionID, err)
		} else {
			ok, err := VerifyDataHashWithPEM(publicKeyPEM, cert.DataHash, cert.DigitalSignature)
			if err != nil {
				log.Warnf("无法校验证书 '%v' 的签名: %v", certificateID, err)
			} else {
				result.SignatureVerified = ok
			}
		}
	}

	return result, nil
}

// VerifyFile 验证持证人出示的证书文件。按证书 ID 的查找严格先于按文件内容的查找。
func (s *VerificationService) VerifyFile(certificateID string, fileBytes []byte) (*common.FileVerificationResult, error) {
	if strings.TrimSpace(certificateID) == "" {
		return nil, fmt.Errorf("证书 ID 不能为空。")
	}
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("证书文件不能为空。")
	}

	fileHash := certhash.HashFileBytes(fileBytes)

	cert, err := s.Store.GetCertificate(certificateID)
	if err == nil {
		if cert.Status == common.Removed {
			return &common.FileVerificationResult{
				Valid:   false,
				Status:  common.FileRevoked,
				Message: "该证书已被签发机构移除。",
			}, nil
		}

		if cert.FileHash == fileHash {
			return &common.FileVerificationResult{
				Valid:       true,
				Status:      common.FileGenuine,
				Message:     "证书文件真实有效。",
				Certificate: cert,
			}, nil
		}

		return &common.FileVerificationResult{
			Valid:   false,
			Status:  common.FileMismatch,
			Message: "证书 ID 存在，但文件内容与记录不一致。",
		}, nil
	}
	if err != errorcode.ErrorNotFound {
		return nil, err
	}

	// ID 查不到时才按文件内容反查
	matched, err := s.Store.FindActiveCertificateByFileHash(fileHash)
	if err == nil {
		return &common.FileVerificationResult{
			Valid:                false,
			Status:               common.FileWrongID,
			Message:              "文件内容属于另一张证书，出示的证书 ID 有误。",
			MatchedCertificateID: matched.CertificateID,
		}, nil
	}
	if err != errorcode.ErrorNotFound {
		return nil, err
	}

	return &common.FileVerificationResult{
		Valid:   false,
		Status:  common.FileInvalid,
		Message: "无法识别该证书 ID 与文件内容。",
	}, nil
}

// GetLedgerProof 查证证书的链上锚定记录，并与本地记录的数据哈希比对。
func (s *VerificationService) GetLedgerProof(certificateID string) (*LedgerProof, error) {
	if strings.TrimSpace(certificateID) == "" {
		return nil, fmt.Errorf("证书 ID 不能为空。")
	}

	cert, err := s.Store.GetCertificate(certificateID)
	if err != nil {
		return nil, err
	}
	if cert.Status == common.Removed {
		return nil, errorcode.ErrorNotFound
	}

	anchorStored, err := s.CertBCAO.GetAnchor(certificateID)
	if err != nil {
		return nil, err
	}

	proof := &LedgerProof{
		Anchor:        anchorStored,
		DataHashMatch: anchorStored.DataHash == cert.DataHash,
	}

	txID := anchorStored.TransactionID
	if txID == "" {
		txID = cert.LedgerRef
	}
	if txID != "" {
		creationInfo, err := s.CertBCAO.GetTransactionCreationInfo(txID)
		if err != nil {
			log.Warnf("无法获取证书 '%v' 锚定交易的区块信息: %v", certificateID, err)
		} else {
			proof.CreationInfo = creationInfo
		}
	}

	return proof, nil
}
