/*
文本向量化接口定义。核心推荐逻辑只依赖该窄接口，
便于在测试中替换为确定性的假实现。
*/

package embedder

import (
	"context"
)

// TextEmbedder 文本向量化接口
type TextEmbedder interface {
	// EmbedStrings 将一批文本转换为向量表示，结果与输入一一对应
	EmbedStrings(ctx context.Context, texts []string) ([][]float64, error)
}
