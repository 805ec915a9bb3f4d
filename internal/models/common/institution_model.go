package common

// Institution 是一个可签发证书的学术机构。
// 机构的私钥存放在密钥保管层内部，不出现在这个对外模型中。
type Institution struct {
	ID           string `json:"id"`           // 机构 ID（snowflake 字符串）
	Name         string `json:"name"`         // 机构名称
	ShortCode    string `json:"shortCode"`    // 机构简码（小写，参与证书 ID 派生）
	Email        string `json:"email"`        // 机构邮箱（唯一）
	EmailDomain  string `json:"emailDomain"`  // 邮箱域名
	Address      string `json:"address"`      // 地址
	Website      string `json:"website"`      // 网站
	PublicKeyPEM string `json:"publicKey"`    // SM2 公钥（PEM）
	IsApproved   bool   `json:"isApproved"`   // 是否已由平台管理员批准
	IsRejected   bool   `json:"isRejected"`   // 是否已被平台管理员拒绝
}

// InstitutionApprovalFilter 列出机构时的筛选条件。
type InstitutionApprovalFilter string

const (
	// FilterAll 不过滤。
	FilterAll InstitutionApprovalFilter = ""
	// FilterPending 仅列出待审批机构。
	FilterPending InstitutionApprovalFilter = "pending"
	// FilterApproved 仅列出已批准机构。
	FilterApproved InstitutionApprovalFilter = "approved"
	// FilterRejected 仅列出已拒绝机构。
	FilterRejected InstitutionApprovalFilter = "rejected"
)
