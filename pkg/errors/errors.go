package errors

import (
	"errors"
	"fmt"
	"net/http"

	"carmarket/domain/shared"
	"carmarket/domain/taxonomy"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"

	// 业务错误码
	CodeMismatchedParent ErrorCode = "MISMATCHED_PARENT"
	CodeConcurrentModify ErrorCode = "CONCURRENT_MODIFICATION"
	CodeCompute          ErrorCode = "COMPUTE_ERROR"
	CodeStorage          ErrorCode = "STORAGE_UNAVAILABLE"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode 返回对应的HTTP状态码
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation, CodeMismatchedParent:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeConcurrentModify:
		return http.StatusConflict
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	case CodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 常用错误构造函数

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequest, message)
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError 将领域错误映射为应用错误
// 按哨兵错误判断，不再依赖错误消息文本
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	message, field := describe(err)

	switch {
	// MismatchedParent 同时是 ErrInvalidInput，必须先判断
	case errors.Is(err, taxonomy.ErrMismatchedParent):
		return &AppError{Code: CodeMismatchedParent, Message: message, Field: field, Err: err}
	case errors.Is(err, shared.ErrInvalidInput):
		return &AppError{Code: CodeValidation, Message: message, Field: field, Err: err}
	case errors.Is(err, shared.ErrNotFound):
		return &AppError{Code: CodeNotFound, Message: message, Err: err}
	case errors.Is(err, shared.ErrConcurrentModification):
		return &AppError{Code: CodeConcurrentModify, Message: message, Err: err}
	case errors.Is(err, shared.ErrConflict):
		return &AppError{Code: CodeConflict, Message: message, Err: err}
	case errors.Is(err, shared.ErrForbidden):
		return &AppError{Code: CodeForbidden, Message: message, Err: err}
	case errors.Is(err, shared.ErrUnauthorized):
		return &AppError{Code: CodeUnauthorized, Message: message, Err: err}
	case errors.Is(err, shared.ErrCompute):
		return &AppError{Code: CodeCompute, Message: "failed to compute derived statistics", Err: err}
	default:
		return Wrap(err, CodeInternal, "internal server error")
	}
}

// describe 提取用户可见消息与字段名（不包含底层原因）
func describe(err error) (string, string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message, domainErr.Field
	}
	var fielder interface{ Field() string }
	if errors.As(err, &fielder) {
		return err.Error(), fielder.Field()
	}
	return err.Error(), ""
}
