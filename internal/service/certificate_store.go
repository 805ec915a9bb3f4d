package service

import (
	"gitee.com/czyczk/certichain/internal/db"
	"gitee.com/czyczk/certichain/internal/models/common"
)

// InstitutionDirectory 提供按 ID 查询机构的能力。`InstitutionService` 即是一个实现。
type InstitutionDirectory interface {
	GetInstitution(id string) (*common.Institution, error)
}

// CertificateStore 定义了证书记录的持久化接口。本地数据库是证书 ID 唯一性的唯一裁决者。
type CertificateStore interface {
	// SaveCertificate 保存证书记录。证书 ID 已存在时返回 `errorcode.ErrorDuplicateID`。
	SaveCertificate(cert *common.Certificate) error

	// GetCertificate 按证书 ID 读取证书记录。
	GetCertificate(certificateID string) (*common.Certificate, error)

	// FindActiveCertificateByFileHash 按文件哈希查找未被移除的证书记录。
	FindActiveCertificateByFileHash(fileHash string) (*common.Certificate, error)

	// PromoteToVerified 以条件更新把证书从待复核提升为已复核。
	// 证书已是 VERIFIED 时返回 `errorcode.ErrorAlreadyVerified`。
	PromoteToVerified(certificateID string, update *db.VerifiedUpdate) error

	// MarkRemoved 将证书软删除。只允许签发机构本身操作。
	MarkRemoved(certificateID string, institutionID string) error

	// UpdateLedgerRef 在链上锚定成功后补记交易 ID。
	UpdateLedgerRef(certificateID string, ledgerRef string) error
}
