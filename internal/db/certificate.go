package db

import (
	"strings"
	"time"

	"gitee.com/czyczk/certichain/internal/models/common"
	"gitee.com/czyczk/certichain/internal/models/sqlmodel"
	"gitee.com/czyczk/certichain/pkg/errorcode"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// LocalDBCertificateStore 以本地数据库实现证书记录的读写。
// certificate_id 上的唯一索引与 signature_status 上的条件更新
// 是仅有的两个跨请求协调点。
type LocalDBCertificateStore struct {
	DB *gorm.DB
}

// VerifiedUpdate 是管理员复核通过时一次性落库的字段集合。
type VerifiedUpdate struct {
	DataHash         string
	DigitalSignature string
	FileHash         string
	ContentAddress   string
	VerifiedAt       time.Time
	VerifiedBy       string
	Reason           string
	Location         string
}

// SaveCertificate 将证书记录存入数据库。证书 ID 已存在时返回 `errorcode.ErrorDuplicateID`。
func (s *LocalDBCertificateStore) SaveCertificate(cert *common.Certificate) error {
	certDB, err := sqlmodel.NewCertificateFromModel(cert)
	if err != nil {
		return err
	}

	dbResult := s.DB.Create(certDB)
	if dbResult.Error != nil {
		// MySQL 的唯一索引冲突报错中带有 "Duplicate entry"
		if strings.Contains(dbResult.Error.Error(), "Duplicate entry") {
			return errorcode.ErrorDuplicateID
		}
		return errors.Wrap(dbResult.Error, "无法将证书记录存入数据库")
	}

	return nil
}

// GetCertificate 从数据库中读取指定 ID 的证书记录。
func (s *LocalDBCertificateStore) GetCertificate(certificateID string) (*common.Certificate, error) {
	var certDB sqlmodel.Certificate
	dbResult := s.DB.Where("certificate_id = ?", certificateID).Take(&certDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		}
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取证书记录")
	}

	return certDB.ToModel(), nil
}

// FindActiveCertificateByFileHash 按文件哈希查找未被移除的证书记录。
// 该查询只允许在按证书 ID 查找失败之后使用。
func (s *LocalDBCertificateStore) FindActiveCertificateByFileHash(fileHash string) (*common.Certificate, error) {
	var certDB sqlmodel.Certificate
	dbResult := s.DB.Where("file_hash = ? AND status = ?", fileHash, string(common.Active)).Take(&certDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		}
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中按文件哈希获取证书记录")
	}

	return certDB.ToModel(), nil
}

// PromoteToVerified 将证书从 PENDING_ADMIN_VERIFICATION 提升为 VERIFIED，
// 同时落库新的签名、文件哈希、内容地址与复核元数据。
// 状态检查与更新在同一条带条件的 UPDATE 中完成，两个并发复核只有一个能成功，
// 失败的一方收到 `errorcode.ErrorAlreadyVerified`。
func (s *LocalDBCertificateStore) PromoteToVerified(certificateID string, update *VerifiedUpdate) error {
	dbResult := s.DB.Model(&sqlmodel.Certificate{}).
		Where("certificate_id = ? AND signature_status = ?", certificateID, string(common.PendingAdminVerification)).
		Updates(map[string]interface{}{
			"data_hash":             update.DataHash,
			"digital_signature":     update.DigitalSignature,
			"file_hash":             update.FileHash,
			"content_address":       update.ContentAddress,
			"signature_status":      string(common.Verified),
			"verified_at":           update.VerifiedAt,
			"verified_by":           update.VerifiedBy,
			"verification_reason":   update.Reason,
			"verification_location": update.Location,
		})
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法更新证书的复核状态")
	}

	if dbResult.RowsAffected == 0 {
		// 没有命中行。区分是证书不存在还是已被复核过。
		if _, err := s.GetCertificate(certificateID); err != nil {
			return err
		}
		return errorcode.ErrorAlreadyVerified
	}

	return nil
}

// MarkRemoved 将证书软删除（status 置为 REMOVED）。只允许签发机构本身操作。
func (s *LocalDBCertificateStore) MarkRemoved(certificateID string, institutionID string) error {
	cert, err := s.GetCertificate(certificateID)
	if err != nil {
		return err
	}
	if cert.InstitutionID != institutionID {
		return errorcode.ErrorForbidden
	}

	dbResult := s.DB.Model(&sqlmodel.Certificate{}).
		Where("certificate_id = ?", certificateID).
		Update("status", string(common.Removed))
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法移除证书")
	}

	return nil
}

// UpdateLedgerRef 在链上锚定成功后把交易 ID 补记到证书记录上。
func (s *LocalDBCertificateStore) UpdateLedgerRef(certificateID string, ledgerRef string) error {
	dbResult := s.DB.Model(&sqlmodel.Certificate{}).
		Where("certificate_id = ?", certificateID).
		Update("ledger_ref", ledgerRef)
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法更新证书的链上交易 ID")
	}
	if dbResult.RowsAffected == 0 {
		return errorcode.ErrorNotFound
	}

	return nil
}

// ListCertificatesByInstitutionFromLocalDB 列出某机构签发的全部证书记录。
func ListCertificatesByInstitutionFromLocalDB(institutionID int64, db *gorm.DB) ([]*common.Certificate, error) {
	var certsDB []sqlmodel.Certificate
	dbResult := db.Where("institution_id = ?", institutionID).Order("created_at DESC").Find(&certsDB)
	if dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中列出机构的证书记录")
	}

	certs := make([]*common.Certificate, len(certsDB))
	for i := range certsDB {
		certs[i] = certsDB[i].ToModel()
	}

	return certs, nil
}

// CountActiveCertificatesFromLocalDB 统计未被移除的证书数量。institutionID 为 0 时统计全部机构。
func CountActiveCertificatesFromLocalDB(institutionID int64, db *gorm.DB) (int64, error) {
	query := db.Model(&sqlmodel.Certificate{}).Where("status = ?", string(common.Active))
	if institutionID != 0 {
		query = query.Where("institution_id = ?", institutionID)
	}

	var count int64
	dbResult := query.Count(&count)
	if dbResult.Error != nil {
		return 0, errors.Wrap(dbResult.Error, "无法统计证书数量")
	}

	return count, nil
}

// YearCount 是按毕业年份的证书数量统计行。
type YearCount struct {
	PassOutYear int   `json:"passOutYear"`
	Count       int64 `json:"count"`
}

// BranchCount 是按专业方向的证书数量统计行。
type BranchCount struct {
	Branch string `json:"branch"`
	Count  int64  `json:"count"`
}

// CountCertificatesPerYearFromLocalDB 按毕业年份统计某机构未被移除的证书数量。
func CountCertificatesPerYearFromLocalDB(institutionID int64, db *gorm.DB) ([]YearCount, error) {
	var rows []YearCount
	dbResult := db.Model(&sqlmodel.Certificate{}).
		Select("pass_out_year, COUNT(*) AS count").
		Where("institution_id = ? AND status = ?", institutionID, string(common.Active)).
		Group("pass_out_year").
		Order("pass_out_year").
		Scan(&rows)
	if dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法按年份统计证书数量")
	}

	return rows, nil
}

// CountCertificatesPerBranchFromLocalDB 按专业方向统计某机构未被移除的证书数量。
func CountCertificatesPerBranchFromLocalDB(institutionID int64, db *gorm.DB) ([]BranchCount, error) {
	var rows []BranchCount
	dbResult := db.Model(&sqlmodel.Certificate{}).
		Select("branch, COUNT(*) AS count").
		Where("institution_id = ? AND status = ?", institutionID, string(common.Active)).
		Group("branch").
		Scan(&rows)
	if dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法按专业方向统计证书数量")
	}

	return rows, nil
}
