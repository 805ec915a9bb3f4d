package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	// RoleInstitution 是机构登录后的角色。
	RoleInstitution = "institution"
	// RoleAdmin 是平台管理员登录后的角色。
	RoleAdmin = "admin"
)

// Claims 是登录令牌的载荷。Subject 为机构 ID（管理员为固定用户名）。
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenIssuer 签发与解析登录令牌。
type TokenIssuer struct {
	Key []byte
	TTL time.Duration
}

// IssueToken 为指定主体签发一个带角色的登录令牌。
func (i *TokenIssuer) IssueToken(subject string, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.TTL)),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.Key)
	if err != nil {
		return "", errors.Wrap(err, "无法签发登录令牌")
	}

	return signed, nil
}

// ParseToken 解析并校验登录令牌，返回其载荷。
func (i *TokenIssuer) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("意外的令牌签名算法 '%v'", t.Header["alg"])
		}
		return i.Key, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "无法解析登录令牌")
	}
	if !token.Valid {
		return nil, errors.New("登录令牌无效")
	}

	return claims, nil
}
