/*
Package response - API 层统一响应处理

设计原则:
1. 领域错误经 pkg/errors 映射为错误码与 HTTP 状态码，领域层不感知 HTTP
2. 错误响应不暴露内部细节（堆栈、内部错误消息等）
3. 所有响应携带 RequestID 用于日志追踪
4. 内部错误统一返回 "internal server error"，真实错误只记录日志

响应格式:

	成功: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	分页: data = { items: [...], page, per_page, total, last_page }
	失败: { success: false, error: "ERROR_CODE", message: "用户可见消息", field: "...", code: 4xx/5xx, request_id: "..." }
*/
package response

import (
	stdErrors "errors"
	"net/http"
	"runtime"

	"carmarket/domain/shared"
	"carmarket/pkg/errors"
	"carmarket/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey context key for request id propagation
const RequestIDKey = "request_id"

// ============================================================================
// 响应结构体定义
// ============================================================================

// Response 通用响应结构
type Response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`      // 错误码，不是错误详情
	Field     string `json:"field,omitempty"`      // 校验失败的字段
	Code      int    `json:"code"`                 // HTTP 状态码
	Message   string `json:"message"`              // 用户可见消息
	RequestID string `json:"request_id,omitempty"` // 请求追踪 ID
}

// PageData 分页数据
type PageData[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// NewPageData 转换领域分页结果
func NewPageData[T any](p shared.Page[T]) PageData[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return PageData[T]{
		Items:    items,
		Page:     p.Page,
		PerPage:  p.PerPage,
		Total:    p.Total,
		LastPage: p.LastPage,
	}
}

// ============================================================================
// 辅助函数
// ============================================================================

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// GetRequestID 供中间件与控制器读取请求 ID
func GetRequestID(c *gin.Context) string {
	return getRequestID(c)
}

// captureStack 捕获调用栈（用于错误日志）
func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ { // 只取前 5 帧
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}

// ============================================================================
// 错误处理函数
// ============================================================================

// HandleError 处理参数绑定等框架层错误
func HandleError(c *gin.Context, err error, message string, code int) {
	requestID := getRequestID(c)

	logger.Warn(message,
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", code),
		zap.Error(err))

	c.JSON(code, &Response{
		Success:   false,
		Error:     string(errors.CodeBadRequest),
		Message:   message,
		Code:      code,
		RequestID: requestID,
	})
}

// HandleAppError 按应用错误码映射 HTTP 状态码，记录完整错误日志但不暴露内部细节
// 堆栈提取: 优先从错误中提取"发生点"堆栈，否则在此处捕获"处理点"堆栈
func HandleAppError(c *gin.Context, err error) {
	requestID := getRequestID(c)
	appErr := errors.FromDomainError(err)
	httpStatus := appErr.HTTPStatusCode()

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", httpStatus),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}

	// 4xx 属于调用方问题，只记 warn
	if httpStatus >= http.StatusInternalServerError {
		fields = append(fields, zap.Strings("stack", extractStack(err)))
		logger.Error(appErr.Message, fields...)
	} else {
		logger.Warn(appErr.Message, fields...)
	}

	userMessage := appErr.Message
	if appErr.Code == errors.CodeInternal {
		userMessage = "internal server error"
	}

	c.JSON(httpStatus, &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Field:     appErr.Field,
		Message:   userMessage,
		Code:      httpStatus,
		RequestID: requestID,
	})
}

// AbortWithAppError 中间件使用：写入错误响应并终止后续处理
func AbortWithAppError(c *gin.Context, err error) {
	HandleAppError(c, err)
	c.Abort()
}

func extractStack(err error) []string {
	var stacker shared.Stacker
	if stdErrors.As(err, &stacker) {
		if stack := stacker.Stack(); len(stack) > 0 {
			return stack
		}
	}
	return captureStack(4) // skip: Callers, captureStack, extractStack, HandleAppError
}

// ============================================================================
// 成功响应函数
// ============================================================================

// HandleSuccess 200 OK
func HandleSuccess(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusOK,
		RequestID: getRequestID(c),
	})
}

// HandleCreated 201 Created
func HandleCreated(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusCreated,
		RequestID: getRequestID(c),
	})
}

// HandlePage 分页结果放在 data 内
func HandlePage[T any](c *gin.Context, page shared.Page[T], message string) {
	HandleSuccess(c, NewPageData(page), message)
}
