package ai

import (
	"context"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Request запрос генерации текста: модель, температура и пара сообщений system/user.
type Request struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
}

// Completer интерфейс провайдера генерации текста. Все реализации должны быть взаимозаменяемыми.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// NewOpenAIClient создаёт клиент OpenAI без автоматических повторов.
// baseURL и httpClient опциональны.
func NewOpenAIClient(apiKey, baseURL string, httpClient *http.Client) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if u := strings.TrimSpace(baseURL); u != "" {
		opts = append(opts, option.WithBaseURL(u))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return openai.NewClient(opts...)
}
