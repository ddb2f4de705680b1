package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"careernet-ml-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIEmbedder(t *testing.T) {
	t.Run("缺少API密钥", func(t *testing.T) {
		_, err := NewOpenAIEmbedder(config.EmbedderConfig{})
		assert.Error(t, err)
	})

	t.Run("默认模型与地址", func(t *testing.T) {
		emb, err := NewOpenAIEmbedder(config.EmbedderConfig{APIKey: "key"})
		require.NoError(t, err)
		assert.Equal(t, "text-embedding-v3", emb.model)
		assert.NotEmpty(t, emb.baseURL)
	})
}

func TestEmbedStrings(t *testing.T) {
	t.Run("按index归位乱序响应", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "test-model", req["model"])

			// 故意乱序返回，客户端必须按index重排
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"object": "list",
				"data": [
					{"object": "embedding", "embedding": [0.3, 0.4], "index": 1},
					{"object": "embedding", "embedding": [0.1, 0.2], "index": 0}
				],
				"model": "test-model"
			}`))
		}))
		defer server.Close()

		emb, err := NewOpenAIEmbedder(config.EmbedderConfig{
			APIKey: "test-key", BaseURL: server.URL, Model: "test-model", Dimensions: 2,
		})
		require.NoError(t, err)

		vectors, err := emb.EmbedStrings(context.Background(), []string{"first", "second"})
		require.NoError(t, err)
		require.Len(t, vectors, 2)
		assert.Equal(t, []float64{0.1, 0.2}, vectors[0])
		assert.Equal(t, []float64{0.3, 0.4}, vectors[1])
	})

	t.Run("空输入直接报错", func(t *testing.T) {
		emb, err := NewOpenAIEmbedder(config.EmbedderConfig{APIKey: "key"})
		require.NoError(t, err)
		_, err = emb.EmbedStrings(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("非200状态码", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		emb, err := NewOpenAIEmbedder(config.EmbedderConfig{APIKey: "key", BaseURL: server.URL})
		require.NoError(t, err)
		_, err = emb.EmbedStrings(context.Background(), []string{"text"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("向量数量与文本数量不匹配", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"object":"list","data":[],"model":"m"}`))
		}))
		defer server.Close()

		emb, err := NewOpenAIEmbedder(config.EmbedderConfig{APIKey: "key", BaseURL: server.URL})
		require.NoError(t, err)
		_, err = emb.EmbedStrings(context.Background(), []string{"text"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "不匹配")
	})

	t.Run("200响应中携带错误体", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"error":{"message":"invalid model","type":"invalid_request_error","code":"model_not_found"}}`))
		}))
		defer server.Close()

		emb, err := NewOpenAIEmbedder(config.EmbedderConfig{APIKey: "key", BaseURL: server.URL})
		require.NoError(t, err)
		_, err = emb.EmbedStrings(context.Background(), []string{"text"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid model")
	})
}

func TestAsEinoEmbedder(t *testing.T) {
	emb, err := NewOpenAIEmbedder(config.EmbedderConfig{APIKey: "key"})
	require.NoError(t, err)
	assert.NotNil(t, emb.AsEinoEmbedder())
}
