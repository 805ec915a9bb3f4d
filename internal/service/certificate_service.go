package service

import (
	"fmt"
	"strings"
	"time"

	"gitee.com/czyczk/certichain/internal/artifact"
	"gitee.com/czyczk/certichain/internal/blockchain/bcao"
	"gitee.com/czyczk/certichain/internal/db"
	"gitee.com/czyczk/certichain/internal/models/common"
	"gitee.com/czyczk/certichain/internal/models/sqlmodel"
	"gitee.com/czyczk/certichain/pkg/certhash"
	"gitee.com/czyczk/certichain/pkg/certid"
	"gitee.com/czyczk/certichain/pkg/errorcode"
	"gitee.com/czyczk/certichain/pkg/models/anchor"
	log "github.com/sirupsen/logrus"
)

// anchorEventID 是链码在锚定记录落块后发出的事件 ID，由后台确认服务监听。
const anchorEventID = "cert_anchored"

// CertificateService 用于管理数字证书的签发、复核与移除。
type CertificateService struct {
	ServiceInfo   *Info
	Institutions  InstitutionDirectory
	Store         CertificateStore
	Blobs         BlobStore
	Custodian     KeyCustodianInterface
	Renderer      artifact.Renderer
	CertBCAO      bcao.ICertificateBCAO
	Notifier      Notifier
	VerifyBaseURL string
}

func (s *CertificateService) verifyURL(certificateID string) string {
	return fmt.Sprintf("%v/verify/%v", strings.TrimRight(s.VerifyBaseURL, "/"), certificateID)
}

// IssueCertificate 签发单张证书。
//
// 本地数据库是证书 ID 唯一性的唯一裁决者。签名密钥缺失与文件上传失败
// 只降级处理（证书无签名或无内容地址），链上锚定为乐观操作，
// 失败只记录日志。唯一索引冲突是仅有的致命失败。
func (s *CertificateService) IssueCertificate(params *IssueCertificateParams) (*common.Certificate, error) {
	if strings.TrimSpace(params.StudentName) == "" {
		return nil, fmt.Errorf("学生姓名不能为空。")
	}
	if strings.TrimSpace(params.CourseName) == "" {
		return nil, fmt.Errorf("课程名称不能为空。")
	}

	institution, err := s.Institutions.GetInstitution(params.InstitutionID)
	if err != nil {
		return nil, err
	}
	if !institution.IsApproved {
		return nil, errorcode.ErrorForbidden
	}

	certificateID, err := certid.Derive(institution.ShortCode, params.PassOutYear, params.RollNumber)
	if err != nil {
		return nil, err
	}

	dataHash := certhash.HashPayload(certificateID, params.StudentName, params.CourseName, params.Branch, params.PassOutYear)

	// 没有可用密钥对时仍然签发，证书停留在待复核状态且不带签名
	signature, err := s.Custodian.SignDataHash(params.InstitutionID, dataHash)
	if err != nil {
		log.Warnf("无法为证书 '%v' 签名，将签发无签名证书: %v", certificateID, err)
		signature = ""
	}

	cert := &common.Certificate{
		CertificatePayload: common.CertificatePayload{
			CertificateID: certificateID,
			StudentName:   params.StudentName,
			CourseName:    params.CourseName,
			Branch:        params.Branch,
			PassOutYear:   params.PassOutYear,
		},
		InstitutionID:    params.InstitutionID,
		InstitutionName:  institution.Name,
		IssueDate:        time.Now(),
		DataHash:         dataHash,
		DigitalSignature: signature,
		SignatureStatus:  common.PendingAdminVerification,
		Status:           common.Active,
	}

	artifactBytes, err := s.Renderer.Render(cert, s.verifyURL(certificateID))
	if err != nil {
		return nil, err
	}
	cert.FileHash = certhash.HashFileBytes(artifactBytes)

	// 上传失败不阻止签发，内容地址留空
	cid, err := s.Blobs.Put(artifactBytes)
	if err != nil {
		log.Warnf("无法上传证书 '%v' 的文件: %v", certificateID, err)
	} else {
		cert.ContentAddress = cid
	}

	if err = s.Store.SaveCertificate(cert); err != nil {
		return nil, err
	}

	s.anchorOnChain(cert)

	if strings.TrimSpace(params.StudentEmail) != "" {
		s.Notifier.NotifyCertificateIssued(params.StudentEmail, cert)
	}

	return cert, nil
}

// anchorOnChain 把证书的锚定记录上链。锚定是乐观操作，
// 链上已有同 ID 记录或网络不可用都只记录日志。
func (s *CertificateService) anchorOnChain(cert *common.Certificate) {
	certAnchor := &anchor.CertificateAnchor{
		CertificateID:   cert.CertificateID,
		StudentName:     cert.StudentName,
		InstitutionName: cert.InstitutionName,
		CourseName:      cert.CourseName,
		Branch:          cert.Branch,
		PassOutYear:     cert.PassOutYear,
		IssuedAt:        cert.IssueDate.Unix(),
		DataHash:        cert.DataHash,
		ContentAddress:  cert.ContentAddress,
	}

	txID, err := s.CertBCAO.AnchorCertificate(certAnchor, anchorEventID)
	if err != nil {
		if err == errorcode.ErrorDuplicateID {
			log.Warnf("证书 '%v' 在链上已有锚定记录", cert.CertificateID)
		} else {
			log.Warnf("无法在链上锚定证书 '%v': %v", cert.CertificateID, err)
		}
		return
	}

	cert.LedgerRef = txID
	if err = s.Store.UpdateLedgerRef(cert.CertificateID, txID); err != nil {
		log.Warnf("无法补记证书 '%v' 的链上交易 ID: %v", cert.CertificateID, err)
	}
}

// IssueCertificates 批量签发证书。逐条处理，单条失败只体现在该条的结果中。
func (s *CertificateService) IssueCertificates(paramsList []*IssueCertificateParams) []*BulkIssueItem {
	results := make([]*BulkIssueItem, 0, len(paramsList))
	for _, params := range paramsList {
		item := &BulkIssueItem{
			RollNumber: params.RollNumber,
		}

		cert, err := s.IssueCertificate(params)
		if err != nil {
			item.IsSuccess = false
			item.Message = err.Error()
		} else {
			item.IsSuccess = true
			item.CertificateID = cert.CertificateID
		}

		results = append(results, item)
	}

	return results
}

// AdminVerifyCertificate 管理员复核证书。复核过程中签名与上传都是致命失败，
// 只有全部成功才会触发单向的状态提升。
func (s *CertificateService) AdminVerifyCertificate(certificateID string, verifiedBy string, reason string, location string) (*common.Certificate, error) {
	cert, err := s.Store.GetCertificate(certificateID)
	if err != nil {
		return nil, err
	}
	if cert.Status == common.Removed {
		return nil, errorcode.ErrorNotFound
	}
	if cert.SignatureStatus == common.Verified {
		return nil, errorcode.ErrorAlreadyVerified
	}

	dataHash := certhash.HashPayload(cert.CertificateID, cert.StudentName, cert.CourseName, cert.Branch, cert.PassOutYear)

	signature, err := s.Custodian.SignDataHash(cert.InstitutionID, dataHash)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	verifiedCert := *cert
	verifiedCert.DataHash = dataHash
	verifiedCert.DigitalSignature = signature
	verifiedCert.SignatureStatus = common.Verified
	verifiedCert.VerifiedAt = &now
	verifiedCert.VerifiedBy = verifiedBy
	verifiedCert.VerificationReason = reason
	verifiedCert.VerificationLocation = location

	artifactBytes, err := s.Renderer.Render(&verifiedCert, s.verifyURL(certificateID))
	if err != nil {
		return nil, err
	}
	verifiedCert.FileHash = certhash.HashFileBytes(artifactBytes)

	// 复核后的文件必须可下载，上传失败时放弃本次复核
	cid, err := s.Blobs.Put(artifactBytes)
	if err != nil {
		log.Errorf("无法上传证书 '%v' 复核后的文件: %v", certificateID, err)
		return nil, errorcode.ErrorUnavailable
	}
	verifiedCert.ContentAddress = cid

	err = s.Store.PromoteToVerified(certificateID, &db.VerifiedUpdate{
		DataHash:         dataHash,
		DigitalSignature: signature,
		FileHash:         verifiedCert.FileHash,
		ContentAddress:   cid,
		VerifiedAt:       now,
		VerifiedBy:       verifiedBy,
		Reason:           reason,
		Location:         location,
	})
	if err != nil {
		return nil, err
	}

	return &verifiedCert, nil
}

// RemoveCertificate 将证书软删除。
func (s *CertificateService) RemoveCertificate(certificateID string, institutionID string) error {
	return s.Store.MarkRemoved(certificateID, institutionID)
}

// GetCertificate 按证书 ID 读取证书记录。
func (s *CertificateService) GetCertificate(certificateID string) (*common.Certificate, error) {
	return s.Store.GetCertificate(certificateID)
}

// ListCertificatesByInstitution 列出某机构签发的全部证书记录。
func (s *CertificateService) ListCertificatesByInstitution(institutionID string) ([]*common.Certificate, error) {
	institutionIDInt64, err := sqlmodel.ParseSnowflakeStringToInt64(institutionID)
	if err != nil {
		return nil, err
	}

	return db.ListCertificatesByInstitutionFromLocalDB(institutionIDInt64, s.ServiceInfo.DB)
}

// DownloadArtifact 下载证书文件。优先取内容地址指向的字节，
// 地址缺失或获取失败时按当前记录重新渲染。
func (s *CertificateService) DownloadArtifact(certificateID string) ([]byte, error) {
	cert, err := s.Store.GetCertificate(certificateID)
	if err != nil {
		return nil, err
	}
	if cert.Status == common.Removed {
		return nil, errorcode.ErrorNotFound
	}

	if cert.ContentAddress != "" {
		contents, err := s.Blobs.Get(cert.ContentAddress)
		if err == nil {
			return contents, nil
		}
		log.Warnf("无法下载证书 '%v' 的文件，将重新渲染: %v", certificateID, err)
	}

	return s.Renderer.Render(cert, s.verifyURL(certificateID))
}
