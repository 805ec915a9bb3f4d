package service

import (
	"gitee.com/czyczk/certichain/internal/db"
	"gitee.com/czyczk/certichain/internal/models/common"
)

// RegisterInstitutionParams 是机构注册所需的信息。
type RegisterInstitutionParams struct {
	Name      string
	ShortCode string
	Email     string
	Password  string
	Address   string
	Website   string
}

// InstitutionStats 是单个机构的签发统计。
type InstitutionStats struct {
	TotalCertificates int64            `json:"totalCertificates"`
	PerYear           []db.YearCount   `json:"perYear"`
	PerBranch         []db.BranchCount `json:"perBranch"`
}

// PlatformStats 是平台管理员看到的全局统计。
type PlatformStats struct {
	TotalInstitutions    int64 `json:"totalInstitutions"`
	PendingInstitutions  int64 `json:"pendingInstitutions"`
	ApprovedInstitutions int64 `json:"approvedInstitutions"`
	RejectedInstitutions int64 `json:"rejectedInstitutions"`
	TotalCertificates    int64 `json:"totalCertificates"`
}

// InstitutionServiceInterface 定义了机构生命周期管理服务的接口。
type InstitutionServiceInterface interface {
	// RegisterInstitution 注册新机构并为其生成签名密钥对。
	// 新机构处于待审批状态，批准前不能签发证书。
	//
	// 参数：
	//   注册信息
	//
	// 返回：
	//   机构记录
	RegisterInstitution(params *RegisterInstitutionParams) (*common.Institution, error)

	// Login 机构登录。凭据错误或机构未获批准时返回 `errorcode.ErrorForbidden`。
	//
	// 参数：
	//   机构邮箱
	//   密码
	//
	// 返回：
	//   登录令牌
	//   机构记录
	Login(email string, password string) (string, *common.Institution, error)

	// AdminLogin 平台管理员登录。
	//
	// 参数：
	//   管理员用户名
	//   密码
	//
	// 返回：
	//   登录令牌
	AdminLogin(username string, password string) (string, error)

	// GetInstitution 按 ID 读取机构记录。
	GetInstitution(id string) (*common.Institution, error)

	// ListInstitutions 按审批状态筛选并列出机构记录。
	ListInstitutions(filter common.InstitutionApprovalFilter) ([]*common.Institution, error)

	// ApproveInstitution 批准机构。
	ApproveInstitution(id string) error

	// RejectInstitution 拒绝机构。
	RejectInstitution(id string) error

	// GetInstitutionStats 获取单个机构的签发统计。
	GetInstitutionStats(id string) (*InstitutionStats, error)

	// GetPlatformStats 获取全局统计。
	GetPlatformStats() (*PlatformStats, error)
}
