package sqlmodel

import (
	"time"

	"gitee.com/czyczk/certichain/internal/models/common"
	"gorm.io/gorm"
)

// Certificate 定义了数据库表 certificates，用于读写已签发的证书记录。
// certificate_id 上的唯一索引是证书 ID 冲突的唯一裁决点。
type Certificate struct {
	gorm.Model
	CertificateID   string `gorm:"type:VARCHAR(64) NOT NULL;uniqueIndex"`
	StudentName     string `gorm:"type:VARCHAR(255) NOT NULL"`
	CourseName      string `gorm:"type:VARCHAR(255) NOT NULL"`
	Branch          string `gorm:"type:VARCHAR(255)"`
	PassOutYear     int    `gorm:"not null"`
	InstitutionID   int64  `gorm:"not null;index"`
	InstitutionName string `gorm:"type:VARCHAR(255) NOT NULL"`

	IssueDate time.Time `gorm:"not null"`

	DataHash         string `gorm:"type:CHAR(64) NOT NULL"`
	FileHash         string `gorm:"type:CHAR(64);index"`
	DigitalSignature string `gorm:"type:TEXT"`

	ContentAddress string `gorm:"type:VARCHAR(255)"`
	LedgerRef      string `gorm:"type:VARCHAR(255)"`

	SignatureStatus string `gorm:"type:ENUM('PENDING_ADMIN_VERIFICATION', 'VERIFIED') NOT NULL"`
	Status          string `gorm:"type:ENUM('ACTIVE', 'REMOVED') NOT NULL"`

	VerifiedAt           *time.Time
	VerifiedBy           string `gorm:"type:VARCHAR(255)"`
	VerificationReason   string `gorm:"type:VARCHAR(255)"`
	VerificationLocation string `gorm:"type:VARCHAR(255)"`
}

// Institution 定义了数据库表 institutions。私钥只被密钥保管层读取，
// 不随机构对象离开数据访问层。
type Institution struct {
	gorm.Model
	ID            int64
	Name          string `gorm:"type:VARCHAR(255) NOT NULL"`
	ShortCode     string `gorm:"type:VARCHAR(32) NOT NULL"`
	Email         string `gorm:"type:VARCHAR(255) NOT NULL;uniqueIndex"`
	EmailDomain   string `gorm:"type:VARCHAR(255)"`
	PasswordHash  string `gorm:"type:VARCHAR(255)"`
	Address       string `gorm:"type:VARCHAR(255)"`
	Website       string `gorm:"type:VARCHAR(255)"`
	PublicKeyPEM  string `gorm:"type:TEXT"`
	PrivateKeyPEM string `gorm:"type:TEXT"`
	IsApproved    bool   `gorm:"not null"`
	IsRejected    bool   `gorm:"not null"`
}

// CertificateRequest 定义了数据库表 certificate_requests，保存学生提交的证书申请。
type CertificateRequest struct {
	gorm.Model
	ID              int64
	StudentName     string `gorm:"type:VARCHAR(255) NOT NULL"`
	Email           string `gorm:"type:VARCHAR(255) NOT NULL"`
	InstitutionID   int64  `gorm:"not null;index"`
	CourseName      string `gorm:"type:VARCHAR(255) NOT NULL"`
	Branch          string `gorm:"type:VARCHAR(255)"`
	PassOutYear     int    `gorm:"not null"`
	RollNumber      string `gorm:"type:VARCHAR(64) NOT NULL"`
	Message         string `gorm:"type:TEXT"`
	Status          string `gorm:"type:ENUM('PENDING', 'APPROVED', 'REJECTED') NOT NULL"`
	RejectionReason string `gorm:"type:VARCHAR(255)"`
	IssuedCertID    string `gorm:"type:VARCHAR(64)"`
}

// ToModel 将一个 `sqlmodel.Certificate` 对象转为 `common.Certificate` 对象。
func (c *Certificate) ToModel() *common.Certificate {
	return &common.Certificate{
		CertificatePayload: common.CertificatePayload{
			CertificateID: c.CertificateID,
			StudentName:   c.StudentName,
			CourseName:    c.CourseName,
			Branch:        c.Branch,
			PassOutYear:   c.PassOutYear,
		},
		InstitutionID:        ParseInt64ToSnowflakeString(c.InstitutionID),
		InstitutionName:      c.InstitutionName,
		IssueDate:            c.IssueDate,
		DataHash:             c.DataHash,
		FileHash:             c.FileHash,
		DigitalSignature:     c.DigitalSignature,
		ContentAddress:       c.ContentAddress,
		LedgerRef:            c.LedgerRef,
		SignatureStatus:      common.SignatureStatus(c.SignatureStatus),
		Status:               common.CertificateStatus(c.Status),
		VerifiedAt:           c.VerifiedAt,
		VerifiedBy:           c.VerifiedBy,
		VerificationReason:   c.VerificationReason,
		VerificationLocation: c.VerificationLocation,
	}
}

// NewCertificateFromModel 通过 `common.Certificate` 对象创建一个 `sqlmodel.Certificate` 对象。
func NewCertificateFromModel(model *common.Certificate) (*Certificate, error) {
	errMsg := "无法转换证书对象为数据库对象"

	institutionID, err := ParseSnowflakeStringToInt64(model.InstitutionID)
	if err != nil {
		return nil, wrapConversionError(err, errMsg, "institutionId", model.InstitutionID)
	}

	return &Certificate{
		CertificateID:        model.CertificateID,
		StudentName:          model.StudentName,
		CourseName:           model.CourseName,
		Branch:               model.Branch,
		PassOutYear:          model.PassOutYear,
		InstitutionID:        institutionID,
		InstitutionName:      model.InstitutionName,
		IssueDate:            model.IssueDate,
		DataHash:             model.DataHash,
		FileHash:             model.FileHash,
		DigitalSignature:     model.DigitalSignature,
		ContentAddress:       model.ContentAddress,
		LedgerRef:            model.LedgerRef,
		SignatureStatus:      string(model.SignatureStatus),
		Status:               string(model.Status),
		VerifiedAt:           model.VerifiedAt,
		VerifiedBy:           model.VerifiedBy,
		VerificationReason:   model.VerificationReason,
		VerificationLocation: model.VerificationLocation,
	}, nil
}

// ToModel 将一个 `sqlmodel.Institution` 对象转为 `common.Institution` 对象。
// 私钥被有意丢弃。
func (i *Institution) ToModel() *common.Institution {
	return &common.Institution{
		ID:           ParseInt64ToSnowflakeString(i.ID),
		Name:         i.Name,
		ShortCode:    i.ShortCode,
		Email:        i.Email,
		EmailDomain:  i.EmailDomain,
		Address:      i.Address,
		Website:      i.Website,
		PublicKeyPEM: i.PublicKeyPEM,
		IsApproved:   i.IsApproved,
		IsRejected:   i.IsRejected,
	}
}

// ToModel 将一个 `sqlmodel.CertificateRequest` 对象转为 `common.CertificateRequest` 对象。
func (r *CertificateRequest) ToModel() *common.CertificateRequest {
	return &common.CertificateRequest{
		ID:              ParseInt64ToSnowflakeString(r.ID),
		StudentName:     r.StudentName,
		Email:           r.Email,
		InstitutionID:   ParseInt64ToSnowflakeString(r.InstitutionID),
		CourseName:      r.CourseName,
		Branch:          r.Branch,
		PassOutYear:     r.PassOutYear,
		RollNumber:      r.RollNumber,
		Message:         r.Message,
		Status:          common.RequestStatus(r.Status),
		RejectionReason: r.RejectionReason,
		IssuedCertID:    r.IssuedCertID,
	}
}

// NewCertificateRequestFromModel 通过 `common.CertificateRequest` 对象创建一个
// `sqlmodel.CertificateRequest` 对象。
func NewCertificateRequestFromModel(model *common.CertificateRequest) (*CertificateRequest, error) {
	errMsg := "无法转换证书申请对象为数据库对象"

	id, err := ParseSnowflakeStringToInt64(model.ID)
	if err != nil {
		return nil, wrapConversionError(err, errMsg, "id", model.ID)
	}

	institutionID, err := ParseSnowflakeStringToInt64(model.InstitutionID)
	if err != nil {
		return nil, wrapConversionError(err, errMsg, "institutionId", model.InstitutionID)
	}

	return &CertificateRequest{
		ID:              id,
		StudentName:     model.StudentName,
		Email:           model.Email,
		InstitutionID:   institutionID,
		CourseName:      model.CourseName,
		Branch:          model.Branch,
		PassOutYear:     model.PassOutYear,
		RollNumber:      model.RollNumber,
		Message:         model.Message,
		Status:          string(model.Status),
		RejectionReason: model.RejectionReason,
		IssuedCertID:    model.IssuedCertID,
	}, nil
}
