package service

import (
	"gitee.com/czyczk/certichain/internal/blockchain/bcao"
	"gitee.com/czyczk/certichain/internal/models/common"
	"gitee.com/czyczk/certichain/pkg/models/anchor"
)

// LedgerProof 是证书在链上的锚定查证结果。
type LedgerProof struct {
	Anchor        *anchor.CertificateAnchorStored `json:"anchor"`                 // 链上保存的锚定记录
	CreationInfo  *bcao.TransactionCreationInfo   `json:"creationInfo,omitempty"` // 锚定交易及其所在区块的信息（获取失败时为空）
	DataHashMatch bool                            `json:"dataHashMatch"`          // 链上锚定的数据哈希与本地记录一致
}

// VerificationServiceInterface 定义了证书验真服务的接口。验真不需要登录。
type VerificationServiceInterface interface {
	// VerifyRecord 按证书 ID 验证库内记录。
	// 已移除的证书直接短路返回吊销结果，不再做任何完整性或签名检查。
	//
	// 参数：
	//   证书 ID
	//
	// 返回：
	//   记录验证结果
	VerifyRecord(certificateID string) (*common.RecordVerificationResult, error)

	// VerifyFile 验证持证人出示的证书文件。
	// 先按证书 ID 查找，文件哈希匹配为 GENUINE、不匹配为 MISMATCH；
	// ID 查不到时再按文件哈希查找，命中为 WRONG_ID，否则为 INVALID。
	//
	// 参数：
	//   证书 ID
	//   文件字节
	//
	// 返回：
	//   文件验证结果
	VerifyFile(certificateID string, fileBytes []byte) (*common.FileVerificationResult, error)

	// GetLedgerProof 查证证书的链上锚定记录，并与本地记录的数据哈希比对。
	// 已移除或不存在的证书返回 `errorcode.ErrorNotFound`。
	//
	// 参数：
	//   证书 ID
	//
	// 返回：
	//   链上锚定查证结果
	GetLedgerProof(certificateID string) (*LedgerProof, error)
}
