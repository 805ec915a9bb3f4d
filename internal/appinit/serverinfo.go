package appinit

import (
	"io/ioutil"

	errors "github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// OperatingIdentity represents the client / user that performs the operation.
type OperatingIdentity struct {
	OrgName string `yaml:"orgName"` // The name of the organization to which the user that performs the operation belongs
	UserID  string `yaml:"userID"`  // The ID of the user
}

// AdminInfo 是平台管理员的登录凭据。密码以 bcrypt 哈希形式保存在配置文件中。
type AdminInfo struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"passwordHash"`
}

// ServerInfo is the Go struct for contents in serve.yaml.
type ServerInfo struct {
	User                  *OperatingIdentity `yaml:"user"`
	Channels              []string           `yaml:"channels"`
	ChaincodeID           string             `yaml:"chaincodeID"`
	Port                  int                `yaml:"port"`
	MySQLDSN              string             `yaml:"mysqlDSN"`
	IPFSAPI               string             `yaml:"ipfsAPI"`
	VerifyBaseURL         string             `yaml:"verifyBaseURL"` // 二维码与证书文件中引用的对外校验地址前缀
	JWTSecret             string             `yaml:"jwtSecret"`
	TokenTTLHours         int                `yaml:"tokenTTLHours"`
	Admin                 *AdminInfo         `yaml:"admin"`
	IsAnchorConfirmServer bool               `yaml:"isAnchorConfirmServer"`
	ShowTimingLogs        bool               `yaml:"showTimingLogs"`
}

// LoadServerInfo loads the server config file (in YAML) which contains info needed to start a server.
//
// Parameters:
//   the path to the config file
//
// Returns:
//   the `ServerInfo` struct containing the info needed to start a server
func LoadServerInfo(configFilePath string) (ret ServerInfo, err error) {
	yamlStr, err := ioutil.ReadFile(configFilePath)
	if err != nil {
		err = errors.Wrap(err, "读取服务器配置文件失败")
		return
	}

	err = yaml.Unmarshal(yamlStr, &ret)
	if err != nil {
		err = errors.Wrap(err, "解析 YAML 文件时出现错误")
		return
	}

	return
}
