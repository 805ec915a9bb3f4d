package service

import (
	"bytes"
	"io"
	"time"

	"gitee.com/czyczk/certichain/internal/utils/timingutils"
	shell "github.com/ipfs/go-ipfs-api"
	"github.com/pkg/errors"
)

// BlobStore 存取证书文件本体。本体按内容寻址，返回的地址会记入证书记录。
type BlobStore interface {
	Put(contents []byte) (cid string, err error)
	Get(cid string) ([]byte, error)
}

// IPFSBlobStore 将证书文件存入 IPFS 网络。
type IPFSBlobStore struct {
	Sh *shell.Shell
}

func (s *IPFSBlobStore) Put(contents []byte) (cid string, err error) {
	defer timingutils.GetDeferrableTimingLogger("上传证书文件至 IPFS 网络")()

	// Increase timeout for large files
	if len(contents) > 1073741824 {
		s.Sh.SetTimeout(120 * time.Second)
	} else {
		s.Sh.SetTimeout(30 * time.Second)
	}

	cid, err = s.Sh.Add(bytes.NewReader(contents))
	if err != nil {
		err = errors.Wrap(err, "无法将证书文件上传至 IPFS 网络")
	}

	return
}

func (s *IPFSBlobStore) Get(cid string) ([]byte, error) {
	defer timingutils.GetDeferrableTimingLogger("从 IPFS 网络下载证书文件")()

	s.Sh.SetTimeout(30 * time.Second)
	reader, err := s.Sh.Cat(cid)
	if err != nil {
		return nil, errors.Wrap(err, "无法从 IPFS 网络获取证书文件")
	}
	defer reader.Close()

	contents, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "无法读取 IPFS 网络返回的证书文件")
	}

	return contents, nil
}
