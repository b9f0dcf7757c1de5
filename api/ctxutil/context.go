// Package ctxutil gin.Context 与 context.Context 之间的请求级数据传递
package ctxutil

import (
	"context"
	"strconv"
	"strings"

	"carmarket/api/response"
	"carmarket/infrastructure/persistence"
	apperrors "carmarket/pkg/errors"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "auth_user_id"
	roleKey   = "auth_role"

	// RoleAdmin 可访问审核与运维端点
	RoleAdmin = "admin"
)

// WithRequestID 返回携带请求 ID 的 context，供仓储与 GORM 日志使用
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}

// SetIdentity 由认证中间件写入
func SetIdentity(c *gin.Context, userID, role string) {
	c.Set(userIDKey, userID)
	c.Set(roleKey, role)
}

// UserID 未登录时返回空串
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString(roleKey) == RoleAdmin
}

// QueryInt 缺失或空白返回 0（交由分页层套用默认值）
func QueryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		appErr := apperrors.Validation(key + " must be an integer")
		appErr.Field = key
		return 0, appErr
	}
	return n, nil
}

// QueryBool 接受 1/true/yes，其余一律 false
func QueryBool(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// QueryParams 每个键取第一个值
func QueryParams(c *gin.Context) map[string]string {
	values := c.Request.URL.Query()
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}
