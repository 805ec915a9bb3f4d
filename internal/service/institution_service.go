package service

import (
	"fmt"
	"strings"

	"gitee.com/czyczk/certichain/internal/auth"
	"gitee.com/czyczk/certichain/internal/db"
	"gitee.com/czyczk/certichain/internal/models/common"
	"gitee.com/czyczk/certichain/internal/models/sqlmodel"
	"gitee.com/czyczk/certichain/internal/utils/idutils"
	"gitee.com/czyczk/certichain/pkg/errorcode"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// InstitutionService 用于管理学术机构的注册、登录与审批。
type InstitutionService struct {
	ServiceInfo       *Info
	Custodian         KeyCustodianInterface
	TokenIssuer       *auth.TokenIssuer
	AdminUsername     string
	AdminPasswordHash string
}

// RegisterInstitution 注册新机构并为其生成签名密钥对。
func (s *InstitutionService) RegisterInstitution(params *RegisterInstitutionParams) (*common.Institution, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("机构名称不能为空。")
	}
	if strings.TrimSpace(params.ShortCode) == "" {
		return nil, fmt.Errorf("机构简码不能为空。")
	}
	if strings.TrimSpace(params.Email) == "" || !strings.Contains(params.Email, "@") {
		return nil, fmt.Errorf("机构邮箱无效。")
	}
	if len(params.Password) < 8 {
		return nil, fmt.Errorf("密码长度不能小于 8。")
	}

	idStr, err := idutils.GenerateSnowflakeId()
	if err != nil {
		return nil, err
	}
	id, err := sqlmodel.ParseSnowflakeStringToInt64(idStr)
	if err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	institutionDB := &sqlmodel.Institution{
		ID:           id,
		Name:         strings.TrimSpace(params.Name),
		ShortCode:    strings.ToLower(strings.TrimSpace(params.ShortCode)),
		Email:        email,
		EmailDomain:  email[strings.LastIndex(email, "@")+1:],
		PasswordHash: string(passwordHash),
		Address:      params.Address,
		Website:      params.Website,
	}

	if err = db.SaveInstitutionToLocalDB(institutionDB, s.ServiceInfo.DB); err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return nil, errorcode.ErrorDuplicateID
		}
		return nil, err
	}

	// 密钥对生成失败不阻止注册，之后签发的证书将不带签名
	if err = s.Custodian.GenerateKeyPair(idStr); err != nil {
		log.Warnf("无法为机构 '%v' 生成密钥对: %v", idStr, err)
	}

	return s.GetInstitution(idStr)
}

// Login 机构登录。
func (s *InstitutionService) Login(email string, password string) (string, *common.Institution, error) {
	institutionDB, err := db.GetInstitutionByEmailFromLocalDB(strings.ToLower(strings.TrimSpace(email)), s.ServiceInfo.DB)
	if err != nil {
		if err == errorcode.ErrorNotFound {
			return "", nil, errorcode.ErrorForbidden
		}
		return "", nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(institutionDB.PasswordHash), []byte(password)); err != nil {
		return "", nil, errorcode.ErrorForbidden
	}
	if !institutionDB.IsApproved {
		return "", nil, errorcode.ErrorForbidden
	}

	token, err := s.TokenIssuer.IssueToken(sqlmodel.ParseInt64ToSnowflakeString(institutionDB.ID), auth.RoleInstitution)
	if err != nil {
		return "", nil, err
	}

	return token, institutionDB.ToModel(), nil
}

// AdminLogin 平台管理员登录。
func (s *InstitutionService) AdminLogin(username string, password string) (string, error) {
	if username != s.AdminUsername {
		return "", errorcode.ErrorForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.AdminPasswordHash), []byte(password)); err != nil {
		return "", errorcode.ErrorForbidden
	}

	return s.TokenIssuer.IssueToken(username, auth.RoleAdmin)
}

// GetInstitution 按 ID 读取机构记录。
func (s *InstitutionService) GetInstitution(id string) (*common.Institution, error) {
	idInt64, err := sqlmodel.ParseSnowflakeStringToInt64(id)
	if err != nil {
		return nil, err
	}

	institutionDB, err := db.GetInstitutionFromLocalDB(idInt64, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	return institutionDB.ToModel(), nil
}

// ListInstitutions 按审批状态筛选并列出机构记录。
func (s *InstitutionService) ListInstitutions(filter common.InstitutionApprovalFilter) ([]*common.Institution, error) {
	institutionsDB, err := db.ListInstitutionsFromLocalDB(filter, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	institutions := make([]*common.Institution, len(institutionsDB))
	for i := range institutionsDB {
		institutions[i] = institutionsDB[i].ToModel()
	}

	return institutions, nil
}

// ApproveInstitution 批准机构。
func (s *InstitutionService) ApproveInstitution(id string) error {
	idInt64, err := sqlmodel.ParseSnowflakeStringToInt64(id)
	if err != nil {
		return err
	}

	return db.UpdateInstitutionApprovalInLocalDB(idInt64, true, false, s.ServiceInfo.DB)
}

// RejectInstitution 拒绝机构。
func (s *InstitutionService) RejectInstitution(id string) error {
	idInt64, err := sqlmodel.ParseSnowflakeStringToInt64(id)
	if err != nil {
		return err
	}

	return db.UpdateInstitutionApprovalInLocalDB(idInt64, false, true, s.ServiceInfo.DB)
}

// GetInstitutionStats 获取单个机构的签发统计。
func (s *InstitutionService) GetInstitutionStats(id string) (*InstitutionStats, error) {
	idInt64, err := sqlmodel.ParseSnowflakeStringToInt64(id)
	if err != nil {
		return nil, err
	}

	total, err := db.CountActiveCertificatesFromLocalDB(idInt64, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	perYear, err := db.CountCertificatesPerYearFromLocalDB(idInt64, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	perBranch, err := db.CountCertificatesPerBranchFromLocalDB(idInt64, s.ServiceInfo.DB)
	if err != nil {
		return nil, err
	}

	return &InstitutionStats{
		TotalCertificates: total,
		PerYear:           perYear,
		PerBranch:         perBranch,
	}, nil
}

// GetPlatformStats 获取全局统计。
func (s *InstitutionService) GetPlatformStats() (*PlatformStats, error) {
	stats := &PlatformStats{}

	var err error
	if stats.TotalInstitutions, err = db.CountInstitutionsFromLocalDB(common.FilterAll, s.ServiceInfo.DB); err != nil {
		return nil, err
	}
	if stats.PendingInstitutions, err = db.CountInstitutionsFromLocalDB(common.FilterPending, s.ServiceInfo.DB); err != nil {
		return nil, err
	}
	if stats.ApprovedInstitutions, err = db.CountInstitutionsFromLocalDB(common.FilterApproved, s.ServiceInfo.DB); err != nil {
		return nil, err
	}
	if stats.RejectedInstitutions, err = db.CountInstitutionsFromLocalDB(common.FilterRejected, s.ServiceInfo.DB); err != nil {
		return nil, err
	}
	if stats.TotalCertificates, err = db.CountActiveCertificatesFromLocalDB(0, s.ServiceInfo.DB); err != nil {
		return nil, err
	}

	return stats, nil
}
