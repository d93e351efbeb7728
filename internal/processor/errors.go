package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型，对应错误分级：
// 输入错误在流水线启动前拒绝，提取错误在评分前中止，服务错误在调用点就地降级。
var (
	ErrMissingInput    = errors.New("缺少必要输入")
	ErrFileTooLarge    = errors.New("文件超过大小限制")
	ErrUnsupportedFile = errors.New("不支持的文件类型")
	ErrEmptyExtraction = errors.New("文档未提取到任何文本")
	ErrServiceCall     = errors.New("补全服务调用失败")
)

// AnalysisError 包含详细错误信息的自定义错误
type AnalysisError struct {
	AnalysisID string
	Op         string
	BaseErr    error
	Detail     string
}

func (e *AnalysisError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, ID:%s): %s", e.BaseErr, e.Op, e.AnalysisID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, ID:%s)", e.BaseErr, e.Op, e.AnalysisID)
}

func (e *AnalysisError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *AnalysisError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数

func NewMissingInputError(id, detail string) error {
	return &AnalysisError{
		AnalysisID: id,
		Op:         "validate",
		BaseErr:    ErrMissingInput,
		Detail:     detail,
	}
}

func NewFileTooLargeError(id, detail string) error {
	return &AnalysisError{
		AnalysisID: id,
		Op:         "validate",
		BaseErr:    ErrFileTooLarge,
		Detail:     detail,
	}
}

func NewUnsupportedFileError(id, detail string) error {
	return &AnalysisError{
		AnalysisID: id,
		Op:         "extract",
		BaseErr:    ErrUnsupportedFile,
		Detail:     detail,
	}
}

func NewEmptyExtractionError(id, detail string) error {
	return &AnalysisError{
		AnalysisID: id,
		Op:         "extract",
		BaseErr:    ErrEmptyExtraction,
		Detail:     detail,
	}
}

func NewServiceCallError(id, detail string) error {
	return &AnalysisError{
		AnalysisID: id,
		Op:         "llm",
		BaseErr:    ErrServiceCall,
		Detail:     detail,
	}
}
