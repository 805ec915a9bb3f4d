package appinit

import (
	"gitee.com/czyczk/certichain/internal/models/sqlmodel"
	errors "github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// SetupLocalDB opens the local MySQL database and migrates the tables used by the app.
//
// Parameters:
//   the MySQL DSN
//
// Returns:
//   the gorm DB handle
func SetupLocalDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "无法连接本地数据库")
	}

	err = db.AutoMigrate(
		&sqlmodel.Certificate{},
		&sqlmodel.Institution{},
		&sqlmodel.CertificateRequest{},
	)
	if err != nil {
		return nil, errors.Wrap(err, "无法迁移本地数据库表")
	}

	return db, nil
}
