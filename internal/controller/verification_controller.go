package controller

import (
	"io"
	"net/http"

	"gitee.com/czyczk/certichain/internal/service"
	"gitee.com/czyczk/certichain/pkg/errorcode"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// A VerificationController contains a group name and a `VerificationService` instance. It also implements the interface `Controller`.
// 验真入口不需要登录。
type VerificationController struct {
	GroupName string
	VerifySvc service.VerificationServiceInterface
}

// GetGroupName returns the group name.
func (vc *VerificationController) GetGroupName() string {
	return vc.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by VerificationController.
func (vc *VerificationController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{":id", "GET"}:        []gin.HandlerFunc{vc.handleVerifyRecord},
		urlMethodPair{":id/file", "POST"}:  []gin.HandlerFunc{vc.handleVerifyFile},
		urlMethodPair{":id/anchor", "GET"}: []gin.HandlerFunc{vc.handleGetLedgerProof},
	}
}

func (vc *VerificationController) handleVerifyRecord(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "证书 ID 不能为空。")
	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	result, err := vc.VerifySvc.VerifyRecord(id)
	if err == nil {
		c.JSON(http.StatusOK, result)
	} else if errors.Cause(err) == errorcode.ErrorNotFound {
		c.Writer.WriteHeader(http.StatusNotFound)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (vc *VerificationController) handleVerifyFile(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "证书 ID 不能为空。")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		*pel = append(*pel, "证书文件不能为空。")
	}

	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.String(http.StatusInternalServerError, "无法读取证书文件。")
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		c.String(http.StatusInternalServerError, "无法读取证书文件。")
		return
	}

	result, err := vc.VerifySvc.VerifyFile(id, fileBytes)
	if err == nil {
		c.JSON(http.StatusOK, result)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (vc *VerificationController) handleGetLedgerProof(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "证书 ID 不能为空。")
	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	proof, err := vc.VerifySvc.GetLedgerProof(id)
	if err == nil {
		c.JSON(http.StatusOK, proof)
	} else if errors.Cause(err) == errorcode.ErrorNotFound {
		c.Writer.WriteHeader(http.StatusNotFound)
	} else if errors.Cause(err) == errorcode.ErrorUnavailable {
		c.Writer.WriteHeader(http.StatusServiceUnavailable)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}
