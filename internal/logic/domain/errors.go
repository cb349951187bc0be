package domain

import (
	"errors"
	"fmt"
	"strings"
)

// 失败原因分类，所有终态失败都归入其中之一
var (
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrValidation         = errors.New("validation error")
	ErrUpload             = errors.New("upload error")
	ErrTransactionBuild   = errors.New("transaction build error")
	ErrWalletRejection    = errors.New("wallet rejection")
	ErrNetwork            = errors.New("network error")
)

var reasons = []error{
	ErrWalletNotConnected,
	ErrValidation,
	ErrUpload,
	ErrTransactionBuild,
	ErrWalletRejection,
	ErrNetwork,
}

// Failure 表示工作流的终态失败：失败时所处状态 + 原因链
type Failure struct {
	State State
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failed: %v", f.State, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Reason 返回失败原因分类
func (f *Failure) Reason() error {
	return ReasonOf(f.Err)
}

// ReasonOf 返回 err 所属的失败分类；无法归类时按交易构建错误处理
func ReasonOf(err error) error {
	if err == nil {
		return nil
	}
	for _, r := range reasons {
		if errors.Is(err, r) {
			return r
		}
	}
	return ErrTransactionBuild
}

// Validationf 构造一个校验错误
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// UserMessage 把失败转换成一条面向用户的提示
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch ReasonOf(err) {
	case ErrWalletNotConnected:
		return "Connect your wallet"
	case ErrValidation:
		return "Please fix the form: " + validationDetail(err)
	case ErrUpload:
		return "Failed to upload token metadata"
	case ErrWalletRejection:
		return "Transaction was rejected by the wallet"
	case ErrNetwork:
		return "Network error, please retry"
	default:
		return "Failed to create token"
	}
}

// validationDetail 取出校验错误中面向用户的描述部分
func validationDetail(err error) string {
	msg := err.Error()
	prefix := ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// IsClassified err 是否已归入某个失败分类
func IsClassified(err error) bool {
	for _, r := range reasons {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
