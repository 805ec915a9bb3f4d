package anchor

// CertificateAnchor 是提交给链码 `anchorCertificate` 的锚定参数。
// 链上只保存签发时的一份锚定记录；管理员复核不会重新锚定。
type CertificateAnchor struct {
	CertificateID   string `json:"certificateId"`   // 证书 ID
	StudentName     string `json:"studentName"`     // 学生姓名
	InstitutionName string `json:"institutionName"` // 机构名称
	CourseName      string `json:"courseName"`      // 课程名称
	Branch          string `json:"branch"`          // 专业方向（可为空）
	PassOutYear     int    `json:"passOutYear"`     // 毕业年份
	IssuedAt        int64  `json:"issuedAt"`        // 签发时间（Unix 秒）
	DataHash        string `json:"dataHash"`        // 载荷的规范化哈希
	ContentAddress  string `json:"contentAddress"`  // 证书文件在外部存储中的内容地址（可为空）
}

// CertificateAnchorStored 是从链上查询锚定记录时返回的内容。
type CertificateAnchorStored struct {
	CertificateAnchor
	TransactionID string `json:"transactionId"` // 锚定交易 ID
	BlockID       string `json:"blockId"`       // 区块 ID（如果可以取得）
}

// AnchorConfirmation 是链码在锚定交易落块后发出的事件载荷。
// 锚定为乐观提交，确认结果仅用于异步记录，不阻塞签发流程。
type AnchorConfirmation struct {
	CertificateID string `json:"certificateId" mapstructure:"certificateId"`
	TransactionID string `json:"transactionId" mapstructure:"transactionId"`
	BlockID       string `json:"blockId" mapstructure:"blockId"`
	IsSuccess     bool   `json:"isSuccess" mapstructure:"isSuccess"`
	Message       string `json:"message" mapstructure:"message"`
}
