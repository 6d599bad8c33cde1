package util

import "errors"

// 核心操作只返回下列几类错误之一；
// ConflictError 只存在于持久层边界，不允许穿透到调用方

// ValidationError 必填字段缺失或取值越界，携带具体字段
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError 资源不存在。归属他人的记录同样按不存在处理，
// 避免向调用方泄露记录是否存在
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

// UpstreamError 外部查询服务失败或返回的数据不完整，
// Partial 附带已拿到的部分数据供诊断
type UpstreamError struct {
	Message string
	Partial map[string]interface{}
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func NewUpstreamError(message string, partial map[string]interface{}) error {
	return &UpstreamError{Message: message, Partial: partial}
}

// ConflictError 唯一约束冲突
type ConflictError struct {
	Resource string
}

func (e *ConflictError) Error() string {
	return e.Resource + " already exists"
}

func NewConflictError(resource string) error {
	return &ConflictError{Resource: resource}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func AsUpstream(err error) (*UpstreamError, bool) {
	var e *UpstreamError
	ok := errors.As(err, &e)
	return e, ok
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}
