package service

import (
	"gitee.com/czyczk/certichain/internal/models/common"
	log "github.com/sirupsen/logrus"
)

// Notifier 在证书签发或申请被驳回后通知学生。通知失败不影响主流程。
type Notifier interface {
	NotifyCertificateIssued(email string, cert *common.Certificate)
	NotifyRequestRejected(email string, request *common.CertificateRequest)
}

// LogNotifier 只把通知写入日志。
type LogNotifier struct{}

func (n *LogNotifier) NotifyCertificateIssued(email string, cert *common.Certificate) {
	log.Infof("已签发证书 '%v'，通知学生 '%v'", cert.CertificateID, email)
}

func (n *LogNotifier) NotifyRequestRejected(email string, request *common.CertificateRequest) {
	log.Infof("证书申请 '%v' 被驳回，通知学生 '%v'", request.ID, email)
}
