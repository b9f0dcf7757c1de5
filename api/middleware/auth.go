package middleware

import (
	"errors"
	"strings"
	"time"

	"carmarket/api/ctxutil"
	"carmarket/api/response"
	"carmarket/config"
	apperrors "carmarket/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims 外部认证服务签发的令牌；用户 ID 取 sub，缺省时取 user_id
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) subject() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}

// Authenticator HS256 bearer 令牌校验
type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer}
}

// Issue 签发令牌（开发环境与测试使用）
func (a *Authenticator) Issue(userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) parse(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if claims.subject() == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// authenticate 无令牌返回 (false, nil)；令牌无效返回错误
func (a *Authenticator) authenticate(c *gin.Context) (bool, error) {
	raw := bearerToken(c)
	if raw == "" {
		return false, nil
	}
	claims, err := a.parse(raw)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.CodeUnauthorized, "invalid or expired token")
	}
	ctxutil.SetIdentity(c, claims.subject(), claims.Role)
	return true, nil
}

// Optional 公开端点：有令牌则识别用户，令牌无效时拒绝
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := a.authenticate(c); err != nil {
			response.AbortWithAppError(c, err)
			return
		}
		c.Next()
	}
}

// Required 必须登录
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := a.authenticate(c)
		if err != nil {
			response.AbortWithAppError(c, err)
			return
		}
		if !ok {
			response.AbortWithAppError(c, apperrors.Unauthorized("authentication required"))
			return
		}
		c.Next()
	}
}

// Admin 必须登录且 role=admin
func (a *Authenticator) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := a.authenticate(c)
		if err != nil {
			response.AbortWithAppError(c, err)
			return
		}
		if !ok {
			response.AbortWithAppError(c, apperrors.Unauthorized("authentication required"))
			return
		}
		if !ctxutil.IsAdmin(c) {
			response.AbortWithAppError(c, apperrors.Forbidden("admin role required"))
			return
		}
		c.Next()
	}
}
