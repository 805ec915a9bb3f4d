package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"

	"gitee.com/czyczk/certichain/pkg/sm2keyutils"
	"github.com/pkg/errors"
)

// generateKeys 为每个机构生成一对 SM2 密钥并以 PEM 形式保存。
// 生成的密钥对可在机构入驻时导入本地数据库的密钥保管层。
func generateKeys(dirKeys string, institutions []string) error {
	// Exit if the dir exists
	if _, err := os.Stat(dirKeys); os.IsExist(err) {
		return fmt.Errorf("the sm2 keys are already generated. Delete the folder first before running again")
	}

	// Create the dir
	os.Mkdir(dirKeys, 0755)

	for _, institution := range institutions {
		publicKeyPEM, privateKeyPEM, err := sm2keyutils.GenerateKeyPair()
		if err != nil {
			return errors.Wrapf(err, "cannot generate a key pair for '%v'", institution)
		}

		// Create a directory for the institution
		if _, err = os.Stat(path.Join(dirKeys, institution)); os.IsNotExist(err) {
			os.Mkdir(path.Join(dirKeys, institution), 0755)
		}

		// Save the private key and the public key to files
		if err = ioutil.WriteFile(path.Join(dirKeys, institution, "sk"), privateKeyPEM, 0600); err != nil {
			return errors.Wrapf(err, "cannot save the private key for '%v'", institution)
		}
		if err = ioutil.WriteFile(path.Join(dirKeys, institution, institution+".pem"), publicKeyPEM, 0644); err != nil {
			return errors.Wrapf(err, "cannot save the public key for '%v'", institution)
		}
	}

	return nil
}
