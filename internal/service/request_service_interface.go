package service

import (
	"gitee.com/czyczk/certichain/internal/models/common"
)

// CreateRequestParams 是学生提交证书申请所需的信息。
type CreateRequestParams struct {
	StudentName   string
	Email         string
	InstitutionID string
	CourseName    string
	Branch        string
	PassOutYear   int
	RollNumber    string
	Message       string
}

// RequestServiceInterface 定义了学生证书申请服务的接口。
type RequestServiceInterface interface {
	// CreateRequest 提交证书申请。申请不需要登录。
	//
	// 参数：
	//   申请信息
	//
	// 返回：
	//   申请记录
	CreateRequest(params *CreateRequestParams) (*common.CertificateRequest, error)

	// GetRequest 按 ID 读取申请记录。
	GetRequest(id string) (*common.CertificateRequest, error)

	// ListRequests 列出提交给某机构的申请。status 为空时不筛选。
	ListRequests(institutionID string, status common.RequestStatus) ([]*common.CertificateRequest, error)

	// ApproveRequest 机构通过申请并按申请内容签发证书。
	// 只允许申请的目标机构操作。
	//
	// 参数：
	//   申请 ID
	//   机构 ID
	//
	// 返回：
	//   签发出的证书记录
	ApproveRequest(requestID string, institutionID string) (*common.Certificate, error)

	// RejectRequest 机构驳回申请。只允许申请的目标机构操作。
	//
	// 参数：
	//   申请 ID
	//   机构 ID
	//   驳回原因
	RejectRequest(requestID string, institutionID string, reason string) error
}
