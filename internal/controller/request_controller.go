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

// A RequestController contains a group name and a `RequestService` instance. It also implements the interface `Controller`.
type RequestController struct {
	GroupName   string
	RequestSvc  service.RequestServiceInterface
	TokenIssuer *auth.TokenIssuer
}

// GetGroupName returns the group name.
func (rc *RequestController) GetGroupName() string {
	return rc.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by RequestController.
func (rc *RequestController) GetEndpointMap() EndpointMap {
	requireInstitution := []gin.HandlerFunc{AuthMiddleware(rc.TokenIssuer), RequireRole(auth.RoleInstitution)}

	return EndpointMap{
		urlMethodPair{"", "POST"}:              []gin.HandlerFunc{rc.handleCreateRequest},
		urlMethodPair{"", "GET"}:               append(requireInstitution, rc.handleListRequests),
		urlMethodPair{":id/approval", "POST"}:  append(requireInstitution, rc.handleApproveRequest),
		urlMethodPair{":id/rejection", "POST"}: append(requireInstitution, rc.handleRejectRequest),
	}
}

func (rc *RequestController) handleCreateRequest(c *gin.Context) {
	// Validity check
	pel := &ParameterErrorList{}

	studentName := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("studentName"), "学生姓名不能为空。")
	email := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("email"), "学生邮箱不能为空。")
	institutionID := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("institutionId"), "机构 ID 不能为空。")
	courseName := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("courseName"), "课程名称不能为空。")
	rollNumber := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("rollNumber"), "学号不能为空。")
	passOutYear := pel.AppendIfNotPositiveInt(c.PostForm("passOutYear"), "毕业年份应为正整数。")

	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	request, err := rc.RequestSvc.CreateRequest(&service.CreateRequestParams{
		StudentName:   studentName,
		Email:         email,
		InstitutionID: institutionID,
		CourseName:    courseName,
		Branch:        c.PostForm("branch"),
		PassOutYear:   passOutYear,
		RollNumber:    rollNumber,
		Message:       c.PostForm("message"),
	})
	if err == nil {
		c.JSON(http.StatusCreated, request)
	} else if errors.Cause(err) == errorcode.ErrorNotFound {
		c.String(http.StatusNotFound, "目标机构不存在。")
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (rc *RequestController) handleListRequests(c *gin.Context) {
	status := common.RequestStatus(c.Query("status"))
	switch status {
	case "", common.RequestPending, common.RequestApproved, common.RequestRejected:
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, ParameterErrorList{"申请状态不合法。"})
		return
	}

	requests, err := rc.RequestSvc.ListRequests(authSubject(c), status)
	if err == nil {
		c.JSON(http.StatusOK, requests)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (rc *RequestController) handleApproveRequest(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "申请 ID 不能为空。")
	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	cert, err := rc.RequestSvc.ApproveRequest(id, authSubject(c))
	if err == nil {
		c.JSON(http.StatusCreated, cert)
	} else if errors.Cause(err) == errorcode.ErrorNotFound {
		c.Writer.WriteHeader(http.StatusNotFound)
	} else if errors.Cause(err) == errorcode.ErrorForbidden {
		c.Writer.WriteHeader(http.StatusForbidden)
	} else if errors.Cause(err) == errorcode.ErrorDuplicateID {
		c.String(http.StatusConflict, "该学生在该年份的证书已存在。")
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (rc *RequestController) handleRejectRequest(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "申请 ID 不能为空。")
	reason := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("reason"), "驳回原因不能为空。")
	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	err := rc.RequestSvc.RejectRequest(id, authSubject(c), reason)
	if err == nil {
		c.Writer.WriteHeader(http.StatusNoContent)
	} else if errors.Cause(err) == errorcode.ErrorNotFound {
		c.Writer.WriteHeader(http.StatusNotFound)
	} else if errors.Cause(err) == errorcode.ErrorForbidden {
		c.Writer.WriteHeader(http.StatusForbidden)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}
