package common

import "time"

// SignatureStatus 表示证书的两段式信任状态。
type SignatureStatus string

const (
	// PendingAdminVerification 表示证书已由机构签发，但尚未经平台管理员复核。
	PendingAdminVerification SignatureStatus = "PENDING_ADMIN_VERIFICATION"
	// Verified 表示证书已由平台管理员复核并重新签名。
	Verified SignatureStatus = "VERIFIED"
)

// CertificateStatus 表示证书的可用状态。
type CertificateStatus string

const (
	// Active 表示证书有效。
	Active CertificateStatus = "ACTIVE"
	// Removed 表示证书已被签发机构软删除。被移除的证书在任何验证入口都必须失败。
	Removed CertificateStatus = "REMOVED"
)

// CertificatePayload 是参与规范化哈希的语义字段元组。
// 字段顺序即哈希的序列化顺序，不可调整。
type CertificatePayload struct {
	CertificateID string `json:"certificateId"` // 证书 ID（机构简码 + 两位年份 + 学号）
	StudentName   string `json:"studentName"`   // 学生姓名
	CourseName    string `json:"courseName"`    // 课程名称
	Branch        string `json:"branch"`        // 专业方向（可为空，哈希时归一化为空字符串）
	PassOutYear   int    `json:"passOutYear"`   // 毕业年份
}

// Certificate 是一张学历证书的完整记录。
type Certificate struct {
	CertificatePayload

	InstitutionID   string `json:"institutionId"`   // 签发机构 ID
	InstitutionName string `json:"institutionName"` // 签发机构名称

	IssueDate time.Time `json:"issueDate"` // 签发时间

	DataHash         string `json:"dataHash"`         // 载荷的规范化哈希（十六进制）
	FileHash         string `json:"fileHash"`         // 渲染后证书文件字节的哈希（十六进制）
	DigitalSignature string `json:"digitalSignature"` // 机构私钥对 DataHash 的签名（Base64，可为空）

	ContentAddress string `json:"contentAddress"` // 证书文件在外部存储中的内容地址（可为空）
	LedgerRef      string `json:"ledgerRef"`      // 链上锚定交易 ID（可为空，不代表最终确认）

	SignatureStatus SignatureStatus   `json:"signatureStatus"`
	Status          CertificateStatus `json:"status"`

	// 以下字段仅在 SignatureStatus 为 VERIFIED 后有意义。
	VerifiedAt           *time.Time `json:"verifiedAt,omitempty"`
	VerifiedBy           string     `json:"verifiedBy,omitempty"`
	VerificationReason   string     `json:"verificationReason,omitempty"`
	VerificationLocation string     `json:"verificationLocation,omitempty"`
}
