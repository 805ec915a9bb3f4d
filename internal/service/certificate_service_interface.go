package service

import (
	"gitee.com/czyczk/certichain/internal/models/common"
)

// IssueCertificateParams 是签发单张证书所需的全部信息。
type IssueCertificateParams struct {
	InstitutionID string // 签发机构 ID
	StudentName   string // 学生姓名
	StudentEmail  string // 学生邮箱（可选，用于通知）
	CourseName    string // 课程或学位名称
	Branch        string // 专业方向（可选）
	PassOutYear   int    // 毕业年份
	RollNumber    string // 学号
}

// BulkIssueItem 是批量签发中单个条目的处理结果。
type BulkIssueItem struct {
	RollNumber    string `json:"rollNumber"`
	CertificateID string `json:"certificateId,omitempty"`
	IsSuccess     bool   `json:"isSuccess"`
	Message       string `json:"message,omitempty"`
}

// CertificateServiceInterface 定义了用于管理数字证书的服务的接口。
type CertificateServiceInterface interface {
	// IssueCertificate 签发单张证书。
	//
	// 参数：
	//   签发信息
	//
	// 返回：
	//   签发出的证书记录
	IssueCertificate(params *IssueCertificateParams) (*common.Certificate, error)

	// IssueCertificates 批量签发证书。单个条目的失败不影响其余条目。
	//
	// 参数：
	//   签发信息列表
	//
	// 返回：
	//   与入参等长的逐条结果
	IssueCertificates(paramsList []*IssueCertificateParams) []*BulkIssueItem

	// AdminVerifyCertificate 管理员复核证书：重算数据哈希、重新签名、
	// 重新渲染带 VERIFIED 签名区块的证书文件并重新上传，最后提升状态。
	// 状态提升是单向的，重复复核返回 `errorcode.ErrorAlreadyVerified`。
	//
	// 参数：
	//   证书 ID
	//   复核人
	//   复核原因
	//   复核地点
	//
	// 返回：
	//   复核后的证书记录
	AdminVerifyCertificate(certificateID string, verifiedBy string, reason string, location string) (*common.Certificate, error)

	// RemoveCertificate 将证书软删除。只允许签发机构本身操作。
	//
	// 参数：
	//   证书 ID
	//   机构 ID
	RemoveCertificate(certificateID string, institutionID string) error

	// GetCertificate 按证书 ID 读取证书记录。
	//
	// 参数：
	//   证书 ID
	//
	// 返回：
	//   证书记录
	GetCertificate(certificateID string) (*common.Certificate, error)

	// ListCertificatesByInstitution 列出某机构签发的全部证书记录。
	//
	// 参数：
	//   机构 ID
	//
	// 返回：
	//   证书记录列表
	ListCertificatesByInstitution(institutionID string) ([]*common.Certificate, error)

	// DownloadArtifact 下载证书文件。内容地址缺失或下载失败时按当前记录重新渲染。
	//
	// 参数：
	//   证书 ID
	//
	// 返回：
	//   证书文件字节
	DownloadArtifact(certificateID string) ([]byte, error)
}
