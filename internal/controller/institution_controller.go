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

// An InstitutionController contains a group name and an `InstitutionService` instance. It also implements the interface `Controller`.
type InstitutionController struct {
	GroupName      string
	InstitutionSvc service.InstitutionServiceInterface
	TokenIssuer    *auth.TokenIssuer
}

// GetGroupName returns the group name.
func (ic *InstitutionController) GetGroupName() string {
	return ic.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by InstitutionController.
func (ic *InstitutionController) GetEndpointMap() EndpointMap {
	requireInstitution := []gin.HandlerFunc{AuthMiddleware(ic.TokenIssuer), RequireRole(auth.RoleInstitution)}

	return EndpointMap{
		urlMethodPair{"", "POST"}:       []gin.HandlerFunc{ic.handleRegister},
		urlMethodPair{"", "GET"}:        []gin.HandlerFunc{ic.handleListApproved},
		urlMethodPair{"/login", "POST"}: []gin.HandlerFunc{ic.handleLogin},
		urlMethodPair{"/stats", "GET"}:  append(requireInstitution, ic.handleGetStats),
	}
}

// handleListApproved 列出已获批准的机构，供学生在提交证书申请时选择。不需要登录。
func (ic *InstitutionController) handleListApproved(c *gin.Context) {
	institutions, err := ic.InstitutionSvc.ListInstitutions(common.FilterApproved)
	if err == nil {
		c.JSON(http.StatusOK, institutions)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (ic *InstitutionController) handleRegister(c *gin.Context) {
	// Validity check
	pel := &ParameterErrorList{}

	name := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("name"), "机构名称不能为空。")
	shortCode := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("shortCode"), "机构简码不能为空。")
	email := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("email"), "机构邮箱不能为空。")
	password := c.PostForm("password")
	if len(password) < 8 {
		*pel = append(*pel, "密码长度不能小于 8。")
	}

	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	institution, err := ic.InstitutionSvc.RegisterInstitution(&service.RegisterInstitutionParams{
		Name:      name,
		ShortCode: shortCode,
		Email:     email,
		Password:  password,
		Address:   c.PostForm("address"),
		Website:   c.PostForm("website"),
	})
	if err == nil {
		c.JSON(http.StatusCreated, institution)
	} else if errors.Cause(err) == errorcode.ErrorDuplicateID {
		c.String(http.StatusConflict, "该邮箱已被注册。")
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (ic *InstitutionController) handleLogin(c *gin.Context) {
	// Validity check
	pel := &ParameterErrorList{}

	email := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("email"), "机构邮箱不能为空。")
	password := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("password"), "密码不能为空。")

	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	token, institution, err := ic.InstitutionSvc.Login(email, password)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"token":       token,
			"institution": institution,
		})
	} else if errors.Cause(err) == errorcode.ErrorForbidden {
		c.String(http.StatusUnauthorized, "邮箱或密码错误，或机构尚未获得批准。")
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (ic *InstitutionController) handleGetStats(c *gin.Context) {
	stats, err := ic.InstitutionSvc.GetInstitutionStats(authSubject(c))
	if err == nil {
		c.JSON(http.StatusOK, stats)
	} else if errors.Cause(err) == errorcode.ErrorNotFound {
		c.Writer.WriteHeader(http.StatusNotFound)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}
