package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"careernet-ml-go/internal/config"

	"github.com/cloudwego/eino/components/embedding"
)

// OpenAIEmbedder 通过OpenAI兼容的HTTP接口调用预训练的句向量模型。
// 同时实现本包的 TextEmbedder 与 cloudwego/eino 的 embedding.Embedder。
type OpenAIEmbedder struct {
	apiKey     string
	model      string
	dimensions int
	baseURL    string
	httpClient *http.Client
}

var _ TextEmbedder = (*OpenAIEmbedder)(nil)
var _ embedding.Embedder = (*openAIEinoAdapter)(nil)

// NewOpenAIEmbedder 创建新的Embedder客户端
func NewOpenAIEmbedder(cfg config.EmbedderConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API密钥不能为空")
	}

	model := cfg.Model
	if model == "" {
		model = "text-embedding-v3"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/embeddings"
	}

	return &OpenAIEmbedder{
		apiKey:     cfg.APIKey,
		model:      model,
		dimensions: cfg.Dimensions,
		baseURL:    baseURL,
		httpClient: &http.Client{
			Timeout: config.GetDuration(cfg.Timeout, 30*time.Second),
		},
	}, nil
}

// GetDimensions 返回配置的向量维度
func (e *OpenAIEmbedder) GetDimensions() int {
	return e.dimensions
}

// openAIEmbeddingRequest OpenAI兼容的Embedding请求结构
type openAIEmbeddingRequest struct {
	Input          interface{} `json:"input"` // string 或 []string
	Model          string      `json:"model"`
	Dimensions     int         `json:"dimensions,omitempty"`
	EncodingFormat string      `json:"encoding_format,omitempty"`
}

// openAIEmbeddingResponse OpenAI兼容的Embedding响应结构
type openAIEmbeddingResponse struct {
	Object string             `json:"object"`
	Data   []openAIDataEntry  `json:"data"`
	Model  string             `json:"model"`
	Error  *openAIErrorDetail `json:"error,omitempty"`
}

type openAIDataEntry struct {
	Object    string    `json:"object"`
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

// openAIErrorDetail 部分服务端在200响应中携带错误体
type openAIErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// EmbedStrings 将文本批量转换为向量
func (e *OpenAIEmbedder) EmbedStrings(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("待向量化文本不能为空")
	}

	reqPayload := openAIEmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		Dimensions:     e.dimensions,
		EncodingFormat: "float",
	}

	reqBody, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化Embedding请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("创建Embedding HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("执行Embedding请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Embedding服务返回非200状态码: %d, 响应: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp openAIEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("解码Embedding响应失败: %w", err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("Embedding服务返回错误: %s (code: %s)", apiResp.Error.Message, apiResp.Error.Code)
	}
	if len(apiResp.Data) != len(texts) {
		return nil, fmt.Errorf("向量数量(%d)与文本数量(%d)不匹配", len(apiResp.Data), len(texts))
	}

	// 服务端按 index 标注顺序，这里按 index 归位避免乱序
	vectors := make([][]float64, len(texts))
	for _, entry := range apiResp.Data {
		if entry.Index < 0 || entry.Index >= len(vectors) {
			return nil, fmt.Errorf("Embedding响应中出现非法index: %d", entry.Index)
		}
		vectors[entry.Index] = entry.Embedding
	}
	return vectors, nil
}

// AsEinoEmbedder 返回实现 eino embedding.Embedder 接口的适配器
func (e *OpenAIEmbedder) AsEinoEmbedder() embedding.Embedder {
	return &openAIEinoAdapter{inner: e}
}

// openAIEinoAdapter 将 OpenAIEmbedder 适配到 eino 的 embedding.Embedder 接口
type openAIEinoAdapter struct {
	inner *OpenAIEmbedder
}

// EmbedStrings 实现 cloudwego/eino embedding.Embedder 接口
func (a *openAIEinoAdapter) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	options := &embedding.Options{}
	embedding.GetCommonOptions(options, opts...)

	if options.Model != nil && *options.Model != "" && *options.Model != a.inner.model {
		override := *a.inner
		override.model = *options.Model
		return override.EmbedStrings(ctx, texts)
	}
	return a.inner.EmbedStrings(ctx, texts)
}
