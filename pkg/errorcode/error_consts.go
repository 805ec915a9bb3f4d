package errorcode

import "fmt"

const (
	// CodeNotFound 表示资源未找到。Service 层收到的错误中若是这样的错误信息则表示是资源未找到，而非系统运行出错。
	CodeNotFound = "~NOTFOUND~"
	// CodeForbidden 表示参数被理解，但无权进行操作。
	CodeForbidden = "~FORBIDDEN~"
	// CodeDuplicateID 表示证书 ID 已存在。该错误在本地数据库层为致命错误，在链上锚定层仅记录日志后忽略。
	CodeDuplicateID = "~DUPLICATEID~"
	// CodeKeyMissing 表示机构没有可用的签名密钥对。签发时容忍（生成无签名证书），管理员复核时为致命错误。
	CodeKeyMissing = "~KEYMISSING~"
	// CodeAlreadyVerified 表示证书已处于 VERIFIED 状态，重复的管理员复核请求会收到此错误。
	CodeAlreadyVerified = "~ALREADYVERIFIED~"
	// CodeUnavailable 表示外部服务（IPFS、区块链网络等）不可用。
	CodeUnavailable = "~UNAVAILABLE~"
	// CodeNotImplemented 是个在这个项目中约定俗成的代号，表示暂时未实现的功能。
	CodeNotImplemented = "~NOTIMPLEMENTED~"
)

// ErrorNotFound 为使用了 `CodeNotFound` 的 error 实例
var ErrorNotFound = fmt.Errorf(CodeNotFound)

// ErrorForbidden 为使用了 `CodeForbidden` 的 error 实例
var ErrorForbidden = fmt.Errorf(CodeForbidden)

// ErrorDuplicateID 为使用了 `CodeDuplicateID` 的 error 实例
var ErrorDuplicateID = fmt.Errorf(CodeDuplicateID)

// ErrorKeyMissing 为使用了 `CodeKeyMissing` 的 error 实例
var ErrorKeyMissing = fmt.Errorf(CodeKeyMissing)

// ErrorAlreadyVerified 为使用了 `CodeAlreadyVerified` 的 error 实例
var ErrorAlreadyVerified = fmt.Errorf(CodeAlreadyVerified)

// ErrorUnavailable 为使用了 `CodeUnavailable` 的 error 实例
var ErrorUnavailable = fmt.Errorf(CodeUnavailable)

// ErrorNotImplemented 为使用了 `CodeNotImplemented` 的 error 实例
var ErrorNotImplemented = fmt.Errorf(CodeNotImplemented)
