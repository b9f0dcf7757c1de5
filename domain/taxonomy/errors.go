package taxonomy

import (
	"errors"

	"carmarket/domain/shared"
)

// ErrMismatchedParent 子节点存在但不属于给定父节点（品牌不在分类下 / 车型不在品牌下）
// 属于校验类错误：errors.Is(err, shared.ErrInvalidInput) 同样成立
var ErrMismatchedParent = errors.New("mismatched parent")

type mismatchedParentError struct {
	entity  string
	field   string
	message string
	stack   []uintptr
}

// NewMismatchedParentError 创建层级不匹配错误（带堆栈）
func NewMismatchedParentError(entity, field, childID, parentID string) error {
	return &mismatchedParentError{
		entity:  entity,
		field:   field,
		message: entity + " " + childID + " does not belong to " + parentID,
		stack:   shared.CaptureStack(3),
	}
}

func (e *mismatchedParentError) Error() string { return e.message }

func (e *mismatchedParentError) Unwrap() []error {
	return []error{ErrMismatchedParent, shared.ErrInvalidInput}
}

// Field 返回出错的输入字段
func (e *mismatchedParentError) Field() string { return e.field }

func (e *mismatchedParentError) Stack() []string {
	return shared.FormatStack(e.stack)
}
