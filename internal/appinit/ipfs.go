package appinit

import (
	"fmt"

	ipfs "github.com/ipfs/go-ipfs-api"
)

// SetupIPFSShell creates an IPFS shell against the specified API endpoint.
// 连接是惰性的，IPFS 节点不可达只会让之后的上传降级。
//
// Parameters:
//   the IPFS API endpoint (e.g. "localhost:5001")
//
// Returns:
//   the IPFS shell
func SetupIPFSShell(apiEndpoint string) (*ipfs.Shell, error) {
	if apiEndpoint == "" {
		return nil, fmt.Errorf("未指定 IPFS API 地址")
	}

	sh := ipfs.NewShell(apiEndpoint)
	return sh, nil
}
