package ai

import (
	"CodeNarrator/internal/config"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// New создаёт провайдера описания по конфигурации. keys — найденные ключи API.
func New(ctx context.Context, cfg *config.Config, keys map[string]string, logger *zap.SugaredLogger) (Completer, error) {
	switch cfg.Completion.Provider {
	case config.CompletionOpenAI:
		oc := NewOpenAIClient(keys[config.KeyOpenAI], cfg.Completion.BaseURL, nil)
		logger.Infow("Провайдер описания: OpenAI Chat Completions", "model", cfg.CompletionModel())
		return NewChatClient(&oc), nil
	case config.CompletionResponses:
		oc := NewOpenAIClient(keys[config.KeyOpenAI], cfg.Completion.BaseURL, nil)
		logger.Infow("Провайдер описания: OpenAI Responses", "model", cfg.CompletionModel())
		return NewTextClient(&oc), nil
	case config.CompletionGemini:
		gc, err := NewGeminiClient(ctx, keys[config.KeyGemini], "", nil)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		logger.Infow("Провайдер описания: Gemini", "model", cfg.CompletionModel())
		return gc, nil
	case config.CompletionStub:
		logger.Infow("Провайдер описания: заглушка")
		return NewStubClient(), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Completion.Provider)
	}
}
