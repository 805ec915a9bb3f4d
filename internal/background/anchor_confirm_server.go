package anchorserver

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gitee.com/czyczk/certichain/internal/service"
	"gitee.com/czyczk/certichain/pkg/models/anchor"
	"github.com/hyperledger/fabric-sdk-go/pkg/common/providers/fab"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// AnchorConfirmServer 监听链码发出的锚定确认事件并异步记录结果。
// 锚定是乐观提交，这里只补记交易 ID 与区块信息，从不回滚已签发的证书。
type AnchorConfirmServer struct {
	ServiceInfo *service.Info
	Store       service.CertificateStore
	wg          sync.WaitGroup
	chanQuit    chan int
	NumWorkers  int // The number of Go routines that will be created to perform the task. Don't change the value after creation or the server might not be able to stop as expected.
	reg         *fab.Registration
	isStarting  bool
	isStarted   bool
	isStopping  bool
}

func NewAnchorConfirmServer(serviceInfo *service.Info, store service.CertificateStore, numWorkers int) *AnchorConfirmServer {
	return &AnchorConfirmServer{
		ServiceInfo: serviceInfo,
		Store:       store,
		wg:          sync.WaitGroup{},
		chanQuit:    make(chan int),
		NumWorkers:  numWorkers,
		reg:         nil,
		isStarting:  false,
		isStarted:   false,
		isStopping:  false,
	}
}

// Start 启动锚定确认服务器，开始监听锚定确认事件。
func (s *AnchorConfirmServer) Start() error {
	// Don't start the server again if it has been started.
	log.Infoln("正在启动锚定确认服务器...")

	if s.isStarting {
		return fmt.Errorf("锚定确认服务器正在启动")
	} else if s.isStarted {
		return fmt.Errorf("锚定确认服务器已启动")
	}

	s.isStarting = true

	// Register the chaincode event and pass the chan object to the workers to be created.
	eventID := "cert_anchored"
	log.Tracef("正在尝试监听事件 '%v'...\n", eventID)
	reg, notifier, err := service.RegisterEvent(s.ServiceInfo.EventClient, s.ServiceInfo.ChaincodeID, eventID)
	if err != nil {
		s.ServiceInfo.EventClient.Unregister(reg)
		return errors.Wrap(err, "无法监听锚定确认事件")
	}

	s.reg = &reg

	// Start #NumWorkers Go routines with each running a worker.
	log.Tracef("正在创建 %v 个锚定确认工作单元...\n", s.NumWorkers)
	for id := 0; id < s.NumWorkers; id++ {
		go createAnchorConfirmServerWorker(id, s.Store, &s.wg, notifier, s.chanQuit)
	}

	s.isStarting = false
	s.isStarted = true
	log.Infoln("锚定确认服务器已启动。")

	return nil
}

func createAnchorConfirmServerWorker(id int, store service.CertificateStore, wg *sync.WaitGroup, notifier <-chan *fab.CCEvent, chanQuit chan int) {
	wg.Add(1)

	for {
		select {
		case event := <-notifier:
			payloadAsMap := make(map[string]interface{})
			if err := json.Unmarshal(event.Payload, &payloadAsMap); err != nil {
				log.Errorf("锚定确认工作单元 #%v 无法解析事件内容。\n", id)
				continue
			}

			var confirmation anchor.AnchorConfirmation
			if err := mapstructure.Decode(payloadAsMap, &confirmation); err != nil {
				log.Errorf("锚定确认工作单元 #%v 无法解析事件内容。\n", id)
				continue
			}

			log.Debugf("锚定确认工作单元 #%v 收到确认，证书 ID: %v。\n", id, confirmation.CertificateID)

			if !confirmation.IsSuccess {
				log.Warnf("证书 '%v' 的锚定交易 '%v' 未成功: %v", confirmation.CertificateID, confirmation.TransactionID, confirmation.Message)
				continue
			}

			if err := store.UpdateLedgerRef(confirmation.CertificateID, confirmation.TransactionID); err != nil {
				log.Warnf("无法补记证书 '%v' 的链上交易 ID: %v", confirmation.CertificateID, err)
				continue
			}

			log.Infof("证书 '%v' 的锚定交易 '%v' 已确认（区块 %v）。", confirmation.CertificateID, confirmation.TransactionID, confirmation.BlockID)
		case <-chanQuit:
			wg.Done()
			return
		default:
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Stop 停止锚定确认服务器。
//
// 返回：
//   可供调用方阻塞等待的 wait group
func (s *AnchorConfirmServer) Stop() (*sync.WaitGroup, error) {
	// Don't send stop signals again if the server has already been called to stop.
	if s.isStopping {
		return nil, fmt.Errorf("锚定确认服务器正在停止")
	} else if !s.isStarted {
		return nil, fmt.Errorf("锚定确认服务器已停止")
	}

	s.isStopping = true

	// Start sending stop signals to all the workers
	for id := 0; id < s.NumWorkers; id++ {
		s.chanQuit <- 0
	}

	// Unregister the chaincode event
	s.ServiceInfo.EventClient.Unregister(*s.reg)

	s.isStarted = false
	s.isStopping = false

	return &s.wg, nil
}
