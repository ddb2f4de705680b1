package recommender

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	// ErrNotReady 模型或语料库尚未加载，调用方可稍后重试
	ErrNotReady = errors.New("推荐服务未就绪: 模型或语料库未加载")
)

// StageError 流水线内部故障，记录出错的阶段以便定位
type StageError struct {
	Stage string // encode, similarity, rank
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("推荐流水线在 %s 阶段失败: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func newStageError(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}
