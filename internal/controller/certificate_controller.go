package controller

import (
	"fmt"
	"net/http"

	"gitee.com/czyczk/certichain/internal/auth"
	"gitee.com/czyczk/certichain/internal/service"
	"gitee.com/czyczk/certichain/pkg/errorcode"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// A CertificateController contains a group name and a `CertificateService` instance. It also implements the interface `Controller`.
type CertificateController struct {
	GroupName   string
	CertSvc     service.CertificateServiceInterface
	TokenIssuer *auth.TokenIssuer
}

// GetGroupName returns the group name.
func (cc *CertificateController) GetGroupName() string {
	return cc.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the API endpoints and handlers which are defined and managed by CertificateController.
func (cc *CertificateController) GetEndpointMap() EndpointMap {
	requireInstitution := []gin.HandlerFunc{AuthMiddleware(cc.TokenIssuer), RequireRole(auth.RoleInstitution)}

	return EndpointMap{
		urlMethodPair{"", "POST"}:        append(requireInstitution, cc.handleIssueCertificate),
		urlMethodPair{"/bulk", "POST"}:   append(requireInstitution, cc.handleIssueCertificates),
		urlMethodPair{"", "GET"}:         append(requireInstitution, cc.handleListCertificates),
		urlMethodPair{":id", "DELETE"}:   append(requireInstitution, cc.handleRemoveCertificate),
		urlMethodPair{":id", "GET"}:      []gin.HandlerFunc{cc.handleGetCertificate},
		urlMethodPair{":id/file", "GET"}: []gin.HandlerFunc{cc.handleDownloadArtifact},
	}
}

func (cc *CertificateController) handleIssueCertificate(c *gin.Context) {
	// Validity check
	pel := &ParameterErrorList{}

	studentName := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("studentName"), "学生姓名不能为空。")
	courseName := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("courseName"), "课程名称不能为空。")
	rollNumber := pel.AppendIfEmptyOrBlankSpaces(c.PostForm("rollNumber"), "学号不能为空。")
	passOutYear := pel.AppendIfNotPositiveInt(c.PostForm("passOutYear"), "毕业年份应为正整数。")

	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	cert, err := cc.CertSvc.IssueCertificate(&service.IssueCertificateParams{
		InstitutionID: authSubject(c),
		StudentName:   studentName,
		StudentEmail:  c.PostForm("studentEmail"),
		CourseName:    courseName,
		Branch:        c.PostForm("branch"),
		PassOutYear:   passOutYear,
		RollNumber:    rollNumber,
	})
	if err == nil {
		c.JSON(http.StatusCreated, cert)
	} else if errors.Cause(err) == errorcode.ErrorDuplicateID {
		c.String(http.StatusConflict, "该学生在该年份的证书已存在。")
	} else if errors.Cause(err) == errorcode.ErrorForbidden {
		c.Writer.WriteHeader(http.StatusForbidden)
	} else if errors.Cause(err) == errorcode.ErrorNotFound {
		c.Writer.WriteHeader(http.StatusNotFound)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

type bulkIssueEntry struct {
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
	CourseName   string `json:"courseName"`
	Branch       string `json:"branch"`
	PassOutYear  int    `json:"passOutYear"`
	RollNumber   string `json:"rollNumber"`
}

func (cc *CertificateController) handleIssueCertificates(c *gin.Context) {
	var entries []bulkIssueEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ParameterErrorList{"请求体应为签发条目数组。"})
		return
	}
	if len(entries) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, ParameterErrorList{"签发条目不能为空。"})
		return
	}

	institutionID := authSubject(c)
	paramsList := make([]*service.IssueCertificateParams, len(entries))
	for i, entry := range entries {
		paramsList[i] = &service.IssueCertificateParams{
			InstitutionID: institutionID,
			StudentName:   entry.StudentName,
			StudentEmail:  entry.StudentEmail,
			CourseName:    entry.CourseName,
			Branch:        entry.Branch,
			PassOutYear:   entry.PassOutYear,
			RollNumber:    entry.RollNumber,
		}
	}

	c.JSON(http.StatusOK, cc.CertSvc.IssueCertificates(paramsList))
}

func (cc *CertificateController) handleListCertificates(c *gin.Context) {
	certs, err := cc.CertSvc.ListCertificatesByInstitution(authSubject(c))
	if err == nil {
		c.JSON(http.StatusOK, certs)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (cc *CertificateController) handleGetCertificate(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "证书 ID 不能为空。")
	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	cert, err := cc.CertSvc.GetCertificate(id)
	if err == nil {
		c.JSON(http.StatusOK, cert)
	} else if errors.Cause(err) == errorcode.ErrorNotFound {
		c.Writer.WriteHeader(http.StatusNotFound)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (cc *CertificateController) handleDownloadArtifact(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "证书 ID 不能为空。")
	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	contents, err := cc.CertSvc.DownloadArtifact(id)
	if err == nil {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%v.cert\"", id))
		c.Data(http.StatusOK, "application/octet-stream", contents)
	} else if errors.Cause(err) == errorcode.ErrorNotFound {
		c.Writer.WriteHeader(http.StatusNotFound)
	} else {
		c.String(http.StatusInternalServerError, err.Error())
	}
}

func (cc *CertificateController) handleRemoveCertificate(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "证书 ID 不能为空。")
	if len(*pel) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, pel)
		return
	}

	err := cc.CertSvc.RemoveCertificate(id, authSubject(c))
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
