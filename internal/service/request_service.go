package service

import (
	"fmt"
	"strings"

	"gitee.com/czyczk/certichain/internal/db"
	"gitee.com/czyczk/certichain/internal/models/common"
	"gitee.com/czyczk/certichain/internal/models/sqlmodel"
	"gitee.com/czyczk/certichain/internal/utils/idutils"
	"gitee.com/czyczk/certichain/pkg/errorcode"
)

// RequestService 用于管理学生提交的证书申请。
type RequestService struct {
	ServiceInfo *Info
	CertService CertificateServiceInterface
	Notifier    Notifier
}

// CreateRequest 提交证书申请。
func (s *RequestService) CreateRequest(params *CreateRequestParams) (*common.CertificateRequest, error) {
	if strings.TrimSpace(params.StudentName) == "" {
		return nil, fmt.Errorf("学生姓名不能为空。")
	}
	if strings.TrimSpace(params.RollNumber) == "" {
		return nil, fmt.Errorf("学号不能为空。")
	}
	if strings.TrimSpace(params.Email) == "" || !strings.Contains(params.Email, "@") {
		return nil, fmt.Errorf("学生邮箱无效。")
	}

	institutionID, err := sqlmodel.ParseSnowflakeStringToInt64(params.InstitutionID)
	if err != nil {
		return nil, err
	}
	// 目标机构必须存在
	if _, err = db.GetInstitutionFromLocalDB(institutionID, s.ServiceInfo.DB); err != nil {
		return nil, err
	}

	idStr, err := idutils.GenerateSnowflakeId()
	if err != nil {
		return nil, err
	}
	id, err := sqlmodel.ParseSnowflakeStringToInt64(idStr)
	if err != nil {
		return nil, err
	}

	requestDB := &sqlmodel.CertificateRequest{
		ID:            id,
		StudentName:   strings.TrimSpace(params.StudentName),
		Email:         strings.ToLower(strings.TrimSpace(params.Email)),
		InstitutionID: institutionID,
		CourseName:    params.CourseName,
		Branch:        params.Branch,
		PassOutYear:   params.PassOutYear,
		RollNumber:    params.RollNumber,
		Message:       params.Message,
		Status:        string(common.RequestPending),
	}

	if err = db.SaveCertificateRequestToLocalDB(requestDB, s.ServiceInfo.DB); err != nil {
		return nil, err
	}

	return requestDB.ToModel(), nil
}

// GetRequest 按 ID 读取申请记录。
func (s *RequestService) GetRequest(id string) (*common.CertificateRequest, error) {
	idInt64, err := sqlmodel.ParseSnowflakeStringToInt64(id)
	if err != nil {
		return nil, err
	}

	requestDB, err := db.GetCertificateRequestFromLocalDB(idInt64, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	return requestDB.ToModel(), nil
}

// ListRequests 列出提交给某机构的申请。
func (s *RequestService) ListRequests(institutionID string, status common.RequestStatus) ([]*common.CertificateRequest, error) {
	institutionIDInt64, err := sqlmodel.ParseSnowflakeStringToInt64(institutionID)
	if err != nil {
		return nil, err
	}

	requestsDB, err := db.ListCertificateRequestsByInstitutionFromLocalDB(institutionIDInt64, status, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	requests := make([]*common.CertificateRequest, len(requestsDB))
	for i := range requestsDB {
		requests[i] = requestsDB[i].ToModel()
	}

	return requests, nil
}

// ApproveRequest 机构通过申请并按申请内容签发证书。
func (s *RequestService) ApproveRequest(requestID string, institutionID string) (*common.Certificate, error) {
	request, err := s.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if request.InstitutionID != institutionID {
		return nil, errorcode.ErrorForbidden
	}
	if request.Status != common.RequestPending {
		return nil, fmt.Errorf("申请 '%v' 已被处理。", requestID)
	}

	cert, err := s.CertService.IssueCertificate(&IssueCertificateParams{
		InstitutionID: institutionID,
		StudentName:   request.StudentName,
		StudentEmail:  request.Email,
		CourseName:    request.CourseName,
		Branch:        request.Branch,
		PassOutYear:   request.PassOutYear,
		RollNumber:    request.RollNumber,
	})
	if err != nil {
		return nil, err
	}

	requestIDInt64, err := sqlmodel.ParseSnowflakeStringToInt64(requestID)
	if err != nil {
		return nil, err
	}
	if err = db.UpdateCertificateRequestStatusInLocalDB(requestIDInt64, common.RequestApproved, cert.CertificateID, "", s.ServiceInfo.DB); err != nil {
		return nil, err
	}

	return cert, nil
}

// RejectRequest 机构驳回申请。
func (s *RequestService) RejectRequest(requestID string, institutionID string, reason string) error {
	request, err := s.GetRequest(requestID)
	if err != nil {
		return err
	}
	if request.InstitutionID != institutionID {
		return errorcode.ErrorForbidden
	}
	if request.Status != common.RequestPending {
		return fmt.Errorf("申请 '%v' 已被处理。", requestID)
	}

	requestIDInt64, err := sqlmodel.ParseSnowflakeStringToInt64(requestID)
	if err != nil {
		return err
	}
	if err = db.UpdateCertificateRequestStatusInLocalDB(requestIDInt64, common.RequestRejected, "", reason, s.ServiceInfo.DB); err != nil {
		return err
	}

	request.Status = common.RequestRejected
	request.RejectionReason = reason
	s.Notifier.NotifyRequestRejected(request.Email, request)

	return nil
}
