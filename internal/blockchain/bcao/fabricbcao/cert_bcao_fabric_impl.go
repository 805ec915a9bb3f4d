package fabricbcao

import (
	"encoding/json"

	"gitee.com/czyczk/certichain/internal/blockchain/bcao"
	"gitee.com/czyczk/certichain/internal/blockchain/chaincodectx"
	"gitee.com/czyczk/certichain/pkg/models/anchor"
	"github.com/hyperledger/fabric-sdk-go/pkg/client/channel"
	"github.com/hyperledger/fabric-sdk-go/pkg/common/providers/fab"
	"github.com/pkg/errors"
)

type CertificateBCAOFabricImpl struct {
	ctx *chaincodectx.FabricChaincodeCtx
}

func NewCertificateBCAOFabricImpl(ctx *chaincodectx.FabricChaincodeCtx) *CertificateBCAOFabricImpl {
	return &CertificateBCAOFabricImpl{
		ctx: ctx,
	}
}

func (o *CertificateBCAOFabricImpl) AnchorCertificate(certAnchor *anchor.CertificateAnchor, eventID ...string) (string, error) {
	anchorBytes, err := json.Marshal(certAnchor)
	if err != nil {
		return "", errors.Wrap(err, "无法序列化链码参数")
	}

	chaincodeFcn := "anchorCertificate"
	chaincodeArgs := [][]byte{anchorBytes}
	if len(eventID) != 0 {
		chaincodeArgs = append(chaincodeArgs, []byte(eventID[0]))
	}
	channelReq := channel.Request{
		ChaincodeID: o.ctx.ChaincodeID,
		Fcn:         chaincodeFcn,
		Args:        chaincodeArgs,
	}

	resp, err := executeChannelRequestWithTimer(o.ctx.ChannelClient, &channelReq, "链上锚定证书")
	if err != nil {
		return "", bcao.GetClassifiedError(chaincodeFcn, err)
	} else {
		return string(resp.TransactionID), nil
	}
}

func (o *CertificateBCAOFabricImpl) GetAnchor(certificateID string) (*anchor.CertificateAnchorStored, error) {
	chaincodeFcn := "getAnchor"
	channelReq := channel.Request{
		ChaincodeID: o.ctx.ChaincodeID,
		Fcn:         chaincodeFcn,
		Args:        [][]byte{[]byte(certificateID)},
	}

	resp, err := o.ctx.ChannelClient.Query(channelReq)
	if err != nil {
		return nil, bcao.GetClassifiedError(chaincodeFcn, err)
	}

	var anchorStored anchor.CertificateAnchorStored
	if err = json.Unmarshal(resp.Payload, &anchorStored); err != nil {
		return nil, errors.Wrap(err, "无法解析链码返回的锚定记录")
	}

	return &anchorStored, nil
}

func (o *CertificateBCAOFabricImpl) GetTransactionCreationInfo(txID string) (*bcao.TransactionCreationInfo, error) {
	blockHash, err := getBlockHashFromTxID(o.ctx.LedgerClient, fab.TransactionID(txID))
	if err != nil {
		return nil, errors.Wrapf(err, "无法获取交易 '%v' 所在的区块", txID)
	}

	return &bcao.TransactionCreationInfo{
		TransactionID: txID,
		BlockID:       blockHash,
	}, nil
}
