package db

import (
	"gitee.com/czyczk/certichain/internal/models/common"
	"gitee.com/czyczk/certichain/internal/models/sqlmodel"
	"gitee.com/czyczk/certichain/pkg/errorcode"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SaveCertificateRequestToLocalDB 将学生的证书申请存入数据库。
func SaveCertificateRequestToLocalDB(request *sqlmodel.CertificateRequest, db *gorm.DB) error {
	dbResult := db.Create(request)
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法将证书申请存入数据库")
	}

	return nil
}

// GetCertificateRequestFromLocalDB 从数据库中读取指定 ID 的证书申请。
func GetCertificateRequestFromLocalDB(id int64, db *gorm.DB) (*sqlmodel.CertificateRequest, error) {
	var requestDB sqlmodel.CertificateRequest
	dbResult := db.Where("id = ?", id).Take(&requestDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		}
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取证书申请")
	}

	return &requestDB, nil
}

// ListCertificateRequestsByInstitutionFromLocalDB 列出提交给某机构的证书申请。
// status 为空字符串时不筛选状态。
func ListCertificateRequestsByInstitutionFromLocalDB(institutionID int64, status common.RequestStatus, db *gorm.DB) ([]sqlmodel.CertificateRequest, error) {
	query := db.Where("institution_id = ?", institutionID)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var requestsDB []sqlmodel.CertificateRequest
	dbResult := query.Order("created_at DESC").Find(&requestsDB)
	if dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中列出证书申请")
	}

	return requestsDB, nil
}

// UpdateCertificateRequestStatusInLocalDB 更新证书申请的处理状态。
// 申请被通过时 issuedCertID 填入签发出的证书 ID，被驳回时 rejectionReason 填入驳回原因。
func UpdateCertificateRequestStatusInLocalDB(id int64, status common.RequestStatus, issuedCertID string, rejectionReason string, db *gorm.DB) error {
	dbResult := db.Model(&sqlmodel.CertificateRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           string(status),
			"issued_cert_id":   issuedCertID,
			"rejection_reason": rejectionReason,
		})
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法更新证书申请的状态")
	}
	if dbResult.RowsAffected == 0 {
		return errorcode.ErrorNotFound
	}

	return nil
}
