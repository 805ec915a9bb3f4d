package controller

import (
	"net/http"
	"strings"

	"gitee.com/czyczk/certichain/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	ctxKeySubject = "authSubject"
	ctxKeyRole    = "authRole"
)

// CORSMiddleware 放行跨域请求。
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// AuthMiddleware 解析 Bearer 令牌并把主体与角色放入请求上下文。
func AuthMiddleware(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := issuer.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ctxKeySubject, claims.Subject)
		c.Set(ctxKeyRole, claims.Role)
		c.Next()
	}
}

// RequireRole 要求请求上下文中带有指定角色。必须在 `AuthMiddleware` 之后使用。
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxKeyRole) != role {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}

// authSubject 返回请求上下文中的登录主体（机构 ID 或管理员用户名）。
func authSubject(c *gin.Context) string {
	return c.GetString(ctxKeySubject)
}
