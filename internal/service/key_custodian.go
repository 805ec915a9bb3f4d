package service

import (
	"crypto/rand"
	"encoding/base64"

	"gitee.com/czyczk/certichain/internal/db"
	"gitee.com/czyczk/certichain/internal/models/sqlmodel"
	"gitee.com/czyczk/certichain/pkg/sm2keyutils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// KeyCustodianInterface 定义了机构签名密钥的保管接口。
// 私钥不离开保管组件，调用方只能取得公钥与签名结果。
type KeyCustodianInterface interface {
	// GenerateKeyPair 为机构生成新的 SM2 密钥对并落库。
	//
	// 参数：
	//   机构 ID
	GenerateKeyPair(institutionID string) error

	// GetPublicKeyPEM 获取机构签名公钥的 PEM。
	//
	// 参数：
	//   机构 ID
	//
	// 返回：
	//   公钥 PEM
	GetPublicKeyPEM(institutionID string) (string, error)

	// SignDataHash 用机构私钥对数据哈希签名。机构没有可用密钥对时返回 `errorcode.ErrorKeyMissing`。
	//
	// 参数：
	//   机构 ID
	//   数据哈希（十六进制串）
	//
	// 返回：
	//   Base64 编码的签名
	SignDataHash(institutionID string, dataHash string) (string, error)
}

// LocalDBKeyCustodian 把机构密钥对保管在本地数据库中。
type LocalDBKeyCustodian struct {
	DB *gorm.DB
}

func (c *LocalDBKeyCustodian) GenerateKeyPair(institutionID string) error {
	id, err := sqlmodel.ParseSnowflakeStringToInt64(institutionID)
	if err != nil {
		return err
	}

	publicKeyPEM, privateKeyPEM, err := sm2keyutils.GenerateKeyPair()
	if err != nil {
		return err
	}

	return db.UpdateInstitutionKeyPairInLocalDB(id, string(publicKeyPEM), string(privateKeyPEM), c.DB)
}

func (c *LocalDBKeyCustodian) GetPublicKeyPEM(institutionID string) (string, error) {
	id, err := sqlmodel.ParseSnowflakeStringToInt64(institutionID)
	if err != nil {
		return "", err
	}

	publicKeyPEM, _, err := db.GetInstitutionKeyPairFromLocalDB(id, c.DB)
	if err != nil {
		return "", err
	}

	return publicKeyPEM, nil
}

func (c *LocalDBKeyCustodian) SignDataHash(institutionID string, dataHash string) (string, error) {
	id, err := sqlmodel.ParseSnowflakeStringToInt64(institutionID)
	if err != nil {
		return "", err
	}

	_, privateKeyPEM, err := db.GetInstitutionKeyPairFromLocalDB(id, c.DB)
	if err != nil {
		return "", err
	}

	return SignDataHashWithPEM(privateKeyPEM, dataHash)
}

// SignDataHashWithPEM 用 PEM 形式的 SM2 私钥对数据哈希签名，返回 Base64 编码的签名。
func SignDataHashWithPEM(privateKeyPEM string, dataHash string) (string, error) {
	privateKey, err := sm2keyutils.ConvertPEMToPrivateKey([]byte(privateKeyPEM))
	if err != nil {
		return "", err
	}

	signature, err := privateKey.Sign(rand.Reader, []byte(dataHash), nil)
	if err != nil {
		return "", errors.Wrap(err, "无法对数据哈希签名")
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}

// VerifyDataHashWithPEM 用 PEM 形式的 SM2 公钥校验数据哈希上的 Base64 签名。
func VerifyDataHashWithPEM(publicKeyPEM string, dataHash string, signatureBase64 string) (bool, error) {
	publicKey, err := sm2keyutils.ConvertPEMToPublicKey([]byte(publicKeyPEM))
	if err != nil {
		return false, err
	}

	signature, err := base64.StdEncoding.DecodeString(signatureBase64)
	if err != nil {
		return false, errors.Wrap(err, "无法解析 Base64 编码的签名")
	}

	return publicKey.Verify([]byte(dataHash), signature), nil
}
