package bcao

import (
	"gitee.com/czyczk/certichain/pkg/models/anchor"
)

// ICertificateBCAO 是证书锚定记录的区块链操作接口。
type ICertificateBCAO interface {
	// AnchorCertificate 将证书的锚定记录上链。证书 ID 在链上已存在时返回 `errorcode.ErrorDuplicateID`。
	//
	// 参数：
	//   锚定记录
	//   事件 ID（可选）
	//
	// 返回：
	//   交易 ID
	AnchorCertificate(certAnchor *anchor.CertificateAnchor, eventID ...string) (string, error)

	// GetAnchor 获取指定证书 ID 的链上锚定记录。
	//
	// 参数：
	//   证书 ID
	//
	// 返回：
	//   锚定记录本体
	GetAnchor(certificateID string) (*anchor.CertificateAnchorStored, error)

	// GetTransactionCreationInfo 获取交易 ID 及其所在区块的信息。
	//
	// 参数：
	//   交易 ID
	//
	// 返回：
	//   交易创建信息
	GetTransactionCreationInfo(txID string) (*TransactionCreationInfo, error)
}
