package common

// RequestStatus 表示学生证书申请的状态。
type RequestStatus string

const (
	// RequestPending 表示申请等待机构处理。
	RequestPending RequestStatus = "PENDING"
	// RequestApproved 表示申请已通过，对应证书已签发。
	RequestApproved RequestStatus = "APPROVED"
	// RequestRejected 表示申请被机构拒绝。
	RequestRejected RequestStatus = "REJECTED"
)

// CertificateRequest 是学生提交的证书申请。申请通过后与签发出的证书 ID 关联。
type CertificateRequest struct {
	ID              string        `json:"id"`            // 申请 ID（snowflake 字符串）
	StudentName     string        `json:"studentName"`   // 学生姓名
	Email           string        `json:"email"`         // 学生邮箱
	InstitutionID   string        `json:"institutionId"` // 目标机构 ID
	CourseName      string        `json:"courseName"`    // 课程名称
	Branch          string        `json:"branch"`        // 专业方向（可为空）
	PassOutYear     int           `json:"passOutYear"`   // 毕业年份
	RollNumber      string        `json:"rollNumber"`    // 学号
	Message         string        `json:"message"`       // 附言（可为空）
	Status          RequestStatus `json:"status"`
	RejectionReason string        `json:"rejectionReason,omitempty"` // 拒绝原因（仅 REJECTED 时有意义）
	IssuedCertID    string        `json:"issuedCertificateId,omitempty"` // 签发后的证书 ID（仅 APPROVED 时有意义）
}
