package db

import (
	"gitee.com/czyczk/certichain/internal/models/common"
	"gitee.com/czyczk/certichain/internal/models/sqlmodel"
	"gitee.com/czyczk/certichain/pkg/errorcode"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// SaveInstitutionToLocalDB 将机构记录存入数据库。
func SaveInstitutionToLocalDB(institution *sqlmodel.Institution, db *gorm.DB) error {
	dbResult := db.Create(institution)
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法将机构记录存入数据库")
	}

	return nil
}

// GetInstitutionFromLocalDB 从数据库中读取指定 ID 的机构记录。
func GetInstitutionFromLocalDB(id int64, db *gorm.DB) (*sqlmodel.Institution, error) {
	var institutionDB sqlmodel.Institution
	dbResult := db.Where("id = ?", id).Take(&institutionDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		}
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取机构记录")
	}

	return &institutionDB, nil
}

// GetInstitutionByEmailFromLocalDB 按登录邮箱读取机构记录。
func GetInstitutionByEmailFromLocalDB(email string, db *gorm.DB) (*sqlmodel.Institution, error) {
	var institutionDB sqlmodel.Institution
	dbResult := db.Where("email = ?", email).Take(&institutionDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		}
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中获取机构记录")
	}

	return &institutionDB, nil
}

// ListInstitutionsFromLocalDB 按审批状态筛选并列出机构记录。
func ListInstitutionsFromLocalDB(filter common.InstitutionApprovalFilter, db *gorm.DB) ([]sqlmodel.Institution, error) {
	query := db.Model(&sqlmodel.Institution{})
	switch filter {
	case common.FilterPending:
		query = query.Where("is_approved = ? AND is_rejected = ?", false, false)
	case common.FilterApproved:
		query = query.Where("is_approved = ?", true)
	case common.FilterRejected:
		query = query.Where("is_rejected = ?", true)
	}

	var institutionsDB []sqlmodel.Institution
	dbResult := query.Order("created_at DESC").Find(&institutionsDB)
	if dbResult.Error != nil {
		return nil, errors.Wrap(dbResult.Error, "无法从数据库中列出机构记录")
	}

	return institutionsDB, nil
}

// UpdateInstitutionApprovalInLocalDB 更新机构的审批状态。
func UpdateInstitutionApprovalInLocalDB(id int64, isApproved bool, isRejected bool, db *gorm.DB) error {
	dbResult := db.Model(&sqlmodel.Institution{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_approved": isApproved,
			"is_rejected": isRejected,
		})
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法更新机构的审批状态")
	}
	if dbResult.RowsAffected == 0 {
		return errorcode.ErrorNotFound
	}

	return nil
}

// GetInstitutionKeyPairFromLocalDB 读取机构的 SM2 密钥对 PEM。
// 私钥只允许经由密钥保管组件取用，不进入任何对外模型。
// 机构没有密钥对时返回 `errorcode.ErrorKeyMissing`。
func GetInstitutionKeyPairFromLocalDB(id int64, db *gorm.DB) (publicKeyPEM string, privateKeyPEM string, err error) {
	institutionDB, err := GetInstitutionFromLocalDB(id, db)
	if err != nil {
		return "", "", err
	}

	if institutionDB.PublicKeyPEM == "" || institutionDB.PrivateKeyPEM == "" {
		return "", "", errorcode.ErrorKeyMissing
	}

	return institutionDB.PublicKeyPEM, institutionDB.PrivateKeyPEM, nil
}

// UpdateInstitutionKeyPairInLocalDB 为机构落库新的 SM2 密钥对 PEM。
func UpdateInstitutionKeyPairInLocalDB(id int64, publicKeyPEM string, privateKeyPEM string, db *gorm.DB) error {
	dbResult := db.Model(&sqlmodel.Institution{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"public_key_pem":  publicKeyPEM,
			"private_key_pem": privateKeyPEM,
		})
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "无法更新机构的密钥对")
	}
	if dbResult.RowsAffected == 0 {
		return errorcode.ErrorNotFound
	}

	return nil
}

// CountInstitutionsFromLocalDB 按审批状态统计机构数量。
func CountInstitutionsFromLocalDB(filter common.InstitutionApprovalFilter, db *gorm.DB) (int64, error) {
	query := db.Model(&sqlmodel.Institution{})
	switch filter {
	case common.FilterPending:
		query = query.Where("is_approved = ? AND is_rejected = ?", false, false)
	case common.FilterApproved:
		query = query.Where("is_approved = ?", true)
	case common.FilterRejected:
		query = query.Where("is_rejected = ?", true)
	}

	var count int64
	dbResult := query.Count(&count)
	if dbResult.Error != nil {
		return 0, errors.Wrap(dbResult.Error, "无法统计机构数量")
	}

	return count, nil
}
