package common

// RecordVerificationResult 是证书记录验证的结果。完整性与签名两项检查相互独立，
// 永远作为两个布尔值返回，不合并为一个结论。
type RecordVerificationResult struct {
	Revoked           bool         `json:"revoked"`           // 证书已被移除（终态，为 true 时其余检查未执行）
	IntegrityVerified bool         `json:"integrityVerified"` // 重新计算的 DataHash 与存储值一致
	SignatureVerified bool         `json:"signatureVerified"` // 存储的签名能被机构公钥验证
	Certificate       *Certificate `json:"certificate,omitempty"`
}

// FileVerificationStatus 是证书文件验证的分类结果。
type FileVerificationStatus string

const (
	// FileGenuine 表示上传的文件与该证书 ID 记录的文件哈希一致。
	FileGenuine FileVerificationStatus = "GENUINE"
	// FileMismatch 表示证书 ID 存在，但上传的文件与记录的文件哈希不一致。
	FileMismatch FileVerificationStatus = "MISMATCH"
	// FileWrongID 表示证书 ID 不存在，但文件内容与另一张证书一致（真文件、错 ID）。
	FileWrongID FileVerificationStatus = "WRONG_ID"
	// FileInvalid 表示证书 ID 与文件内容均无法识别。
	FileInvalid FileVerificationStatus = "INVALID"
	// FileRevoked 表示该证书 ID 对应的证书已被移除。
	FileRevoked FileVerificationStatus = "REVOKED"
)

// FileVerificationResult 是证书文件验证的结果。
type FileVerificationResult struct {
	Valid                bool                   `json:"valid"`
	Status               FileVerificationStatus `json:"status"`
	Message              string                 `json:"message"`
	MatchedCertificateID string                 `json:"matchedCertificateId,omitempty"` // WRONG_ID 时为文件实际所属的证书 ID
	Certificate          *Certificate           `json:"certificate,omitempty"`          // GENUINE 时为证书记录
}
