package errors

import (
	"errors"
	"fmt"
)

// AppError 应用错误
// Code给客户端判断错误类型，Message是提示信息，Err只进日志不返回给客户端
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 错误码和提示相同即视为同一错误，WithCause派生的错误仍能匹配原错误
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e == t || (e.Code == t.Code && e.Message == t.Message)
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装底层错误（数据库、网络等），隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WithCause 保留错误码和提示，附带内部原因
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// =========================================
// 错误码
// =========================================
// 4xxxx: 客户端错误  5xxxx: 服务端错误

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000
	ErrCodeDatabaseError = 50001
	ErrCodeRedisError    = 50002

	// 外部依赖不可用（50300-50399）
	ErrCodeAIUnavailable = 50300

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100
	ErrCodeInvalidToken    = 40101
	ErrCodeTokenExpired    = 40102
	ErrCodeInvalidPassword = 40103
	ErrCodeForbidden       = 40104

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400
	ErrCodeUserNotFound     = 40401
	ErrCodeBookNotFound     = 40402
	ErrCodeOrderNotFound    = 40403
	ErrCodeCartLineNotFound = 40404

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError      = 40000
	ErrCodeInsufficientStock  = 40001
	ErrCodeInvalidOrderStatus = 40002
	ErrCodeEmailDuplicate     = 40003
	ErrCodeWeakPassword       = 40005
	ErrCodeEmptyCart          = 40006
	ErrCodeDuplicateEntry     = 40009

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900
	ErrCodeBindError     = 40901

	// 限流（42900-42999）
	ErrCodeTooManyRequests = 42900
	ErrCodeAIQuotaExceeded = 42901
)

// =========================================
// 预定义错误
// =========================================

var (
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "邮箱或密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	ErrNotFound         = New(ErrCodeNotFound, "资源不存在")
	ErrUserNotFound     = New(ErrCodeUserNotFound, "用户不存在")
	ErrBookNotFound     = New(ErrCodeBookNotFound, "图书不存在")
	ErrOrderNotFound    = New(ErrCodeOrderNotFound, "订单不存在")
	ErrCartLineNotFound = New(ErrCodeCartLineNotFound, "购物车中没有该商品")

	ErrInsufficientStock  = New(ErrCodeInsufficientStock, "库存不足")
	ErrInvalidOrderStatus = New(ErrCodeInvalidOrderStatus, "订单状态不允许此操作")
	ErrEmailDuplicate     = New(ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrWeakPassword       = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")
	ErrEmptyCart          = New(ErrCodeEmptyCart, "购物车为空")

	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")

	ErrTooManyRequests = New(ErrCodeTooManyRequests, "请求过于频繁，请稍后再试")
	ErrAIQuotaExceeded = New(ErrCodeAIQuotaExceeded, "AI额度已用完，请明天再试")
	ErrAIUnavailable   = New(ErrCodeAIUnavailable, "AI服务暂不可用，请稍后再试")
)

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError，不是AppError则包装成Internal错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// InvalidParams 参数错误，附带具体原因
func InvalidParams(message string) *AppError {
	return New(ErrCodeInvalidParams, message)
}

// HasCode 判断错误链上是否带有指定错误码
func HasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
