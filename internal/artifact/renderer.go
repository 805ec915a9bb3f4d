package artifact

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"gitee.com/czyczk/certichain/internal/models/common"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// Renderer 根据证书记录渲染可下发给学生的证书文件。
// 同一份记录与校验地址渲染出的字节必须逐字节一致，
// 否则文件哈希无法作为防篡改依据。
type Renderer interface {
	Render(cert *common.Certificate, verifyURL string) ([]byte, error)
}

// StampRenderer 渲染带二维码与签名区块的纯文本证书文件。
type StampRenderer struct{}

// GenerateVerificationQR 生成指向证书校验地址的二维码 PNG。
func GenerateVerificationQR(verifyURL string) ([]byte, error) {
	pngBytes, err := qrcode.Encode(verifyURL, qrcode.Medium, 300)
	if err != nil {
		return nil, errors.Wrap(err, "无法生成校验二维码")
	}

	return pngBytes, nil
}

// Render 渲染证书文件。文件正文之后恰好带有一个签名区块：
// 证书尚未复核时为 PENDING 区块，复核通过后为 VERIFIED 区块。
func (r *StampRenderer) Render(cert *common.Certificate, verifyURL string) ([]byte, error) {
	qrPNG, err := GenerateVerificationQR(verifyURL)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("=============================================\n")
	buf.WriteString("            CERTIFICATE OF COMPLETION\n")
	buf.WriteString("=============================================\n")
	fmt.Fprintf(&buf, "Certificate ID : %v\n", cert.CertificateID)
	fmt.Fprintf(&buf, "Student        : %v\n", cert.StudentName)
	fmt.Fprintf(&buf, "Institution    : %v\n", cert.InstitutionName)
	fmt.Fprintf(&buf, "Course         : %v\n", cert.CourseName)
	if strings.TrimSpace(cert.Branch) != "" {
		fmt.Fprintf(&buf, "Branch         : %v\n", cert.Branch)
	}
	fmt.Fprintf(&buf, "Pass-out Year  : %v\n", cert.PassOutYear)
	fmt.Fprintf(&buf, "Issue Date     : %v\n", cert.IssueDate.UTC().Format("2006-01-02"))
	fmt.Fprintf(&buf, "Data Hash      : %v\n", cert.DataHash)
	fmt.Fprintf(&buf, "Verify At      : %v\n", verifyURL)
	buf.WriteString("---------------------------------------------\n")

	if cert.SignatureStatus == common.Verified {
		buf.WriteString("-----BEGIN SIGNATURE BLOCK (VERIFIED)-----\n")
		fmt.Fprintf(&buf, "Signature   : %v\n", cert.DigitalSignature)
		if cert.VerifiedAt != nil {
			fmt.Fprintf(&buf, "Verified At : %v\n", cert.VerifiedAt.UTC().Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintf(&buf, "Verified By : %v\n", cert.VerifiedBy)
		buf.WriteString("-----END SIGNATURE BLOCK-----\n")
	} else {
		buf.WriteString("-----BEGIN SIGNATURE BLOCK (PENDING)-----\n")
		fmt.Fprintf(&buf, "Signature   : %v\n", cert.DigitalSignature)
		buf.WriteString("Pending administrator verification.\n")
		buf.WriteString("-----END SIGNATURE BLOCK-----\n")
	}

	buf.WriteString("---------------------------------------------\n")
	fmt.Fprintf(&buf, "QR (PNG, Base64):\n%v\n", base64.StdEncoding.EncodeToString(qrPNG))

	return buf.Bytes(), nil
}
