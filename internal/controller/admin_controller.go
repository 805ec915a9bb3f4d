package controller

import (
	"net/http"

	"gitee.com/czyczk/certichain/internal/auth"
	"gitee.com/czyczk/certichain/internal/models/common"
	"gitee.com/czyczk/certichain/internal/service"
	"gitee.com/czyczk/certichain/pkg/errorcode"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// An AdminController contains a group name and the services used by the platform administrator. It also implements the interface `Controller`.
type AdminController struct {
	GroupName      string
	InstitutionSvc service.InstitutionServiceInterface
	CertSvc        service.CertificateServiceInterface
	TokenIssuer    *auth.TokenIssuer
}

// GetGroupName returns the group name.
func (ac *AdminController) GetGroupName() string {
	return ac.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by AdminController.
func (ac *AdminController) GetEndpointMap() EndpointMap {
	requireAdmin := []gin.HandlerFunc{AuthMiddleware(ac.TokenIssuer), RequireRole(auth.RoleAdmin)}

	return EndpointMap{
		urlMethodPair{"/login", "POST"}:                      []gin.HandlerFunc{ac.handleLogin},
		urlMethodPair{"/stats", "GET"}:                       append(requireAdmin, ac.handleGetStats),
		urlMethodPair{"/institutions", "GET"}:                append(requireAdmin, ac.handleListInstitutions),
		urlMethodPair{"/institutions/:id/approval", "POST"}:  append(requireAdmin, ac.handleApproveInstitution),
		urlMethodPair{"/institutions/:id/rejection", "POST"}: append(requireAdmin, ac.handleRejectInstitution),
		urlMethodPair{"/certs/:id/verification", "POST"}:     append(requireAdmin, ac.handleVerifyCertificate),
	}
}

func (ac *AdminController) handleLogin(c *gin.Context) {
	// Validity check
	pel := &ParameterErrorList{}

	username := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("username"), "用户名不能为空。")
	password := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("password"), "密码不能为空。")

	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	token, err := ac.InstitutionSvc.AdminLogin(username, password)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"token": token})
	} else if errors.Cause(err) == errorcode.ErrorForbidden {
		c.String(http.StatusUnauthorized, "用户名或密码错误。")
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (ac *AdminController) handleGetStats(c *gin.Context) {
	stats, err := ac.InstitutionSvc.GetPlatformStats()
	if err == nil {
		c.JSON(http.StatusOK, stats)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (ac *AdminController) handleListInstitutions(c *gin.Context) {
	filter := common.InstitutionApprovalFilter(c.Query("filter"))
	switch filter {
	case common.FilterAll, common.FilterPending, common.FilterApproved, common.FilterRejected:
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, ParameterErrorList{"筛选条件不合法。"})
		return
	}

	institutions, err := ac.InstitutionSvc.ListInstitutions(filter)
	if err == nil {
		c.JSON(http.StatusOK, institutions)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (ac *AdminController) handleApproveInstitution(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "机构 ID 不能为空。")
	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	err := ac.InstitutionSvc.ApproveInstitution(id)
	if err == nil {
		c.Writer.WriteHeader(http.StatusNoContent)
	} else if errors.Cause(err) == errorcode.ErrorNotFound {
		c.Writer.WriteHeader(http.StatusNotFound)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (ac *AdminController) handleRejectInstitution(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "机构 ID 不能为空。")
	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	err := ac.InstitutionSvc.RejectInstitution(id)
	if err == nil {
		c.Writer.WriteHeader(http.StatusNoContent)
	} else if errors.Cause(err) == errorcode.ErrorNotFound {
		c.Writer.WriteHeader(http.StatusNotFound)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (ac *AdminController) handleVerifyCertificate(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "证书 ID 不能为空。")
	reason := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("reason"), "复核原因不能为空。")
	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	cert, err := ac.CertSvc.AdminVerifyCertificate(id, authSubject(c), reason, c.PostForm("location"))
	if err == nil {
		c.JSON(http.StatusOK, cert)
	} else if errors.Cause(err) == errorcode.ErrorNotFound {
		c.Writer.WriteHeader(http.StatusNotFound)
	} else if errors.Cause(err) == errorcode.ErrorAlreadyVerified {
		c.String(http.StatusConflict, "该证书已复核。")
	} else if errors.Cause(err) == errorcode.ErrorKeyMissing {
		c.String(http.StatusConflict, "该机构没有可用的签名密钥对。")
	} else if errors.Cause(err) == errorcode.ErrorUnavailable {
		c.String(http.StatusServiceUnavailable, "外部存储暂时不可用。")
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}
